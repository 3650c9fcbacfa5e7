package entity

import "fmt"

// Record is a whole-file record: a file's base name and its full content
type Record struct {
	Key   string
	Value []byte
}

func (r Record) String() string {
	return fmt.Sprintf("{key: %s, length: %d}", r.Key, len(r.Value))
}
