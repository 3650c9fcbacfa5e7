package record

// RecordReader is the pull-based record protocol a host runs once per work unit:
//
//	for {
//		ok, err := r.NextKeyValue()
//		if err != nil || !ok {
//			break
//		}
//		consume(r.CurrentKey(), r.CurrentValue())
//	}
//	r.Close()
type RecordReader[K any, V any] interface {
	// CreateKey returns a fresh, empty key
	CreateKey() K
	// CreateValue returns a fresh, empty value
	CreateValue() V
	// Pos returns how many bytes of the split have been consumed
	Pos() int64
	// Progress returns a fraction between 0 and 1
	Progress() float32
	// NextKeyValue advances to the next record. It returns false when there are no more.
	NextKeyValue() (bool, error)
	CurrentKey() K
	CurrentValue() V
	Close() error
}
