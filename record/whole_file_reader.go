package record

import (
	"fmt"
	"io"

	"github.com/m-manu/recursive-input/entity"
	"github.com/m-manu/recursive-input/fmte"
	rsfs "github.com/m-manu/recursive-input/fs"
)

// FileReadError is a bound file that couldn't be fully read
type FileReadError struct {
	Location string
	Err      error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("couldn't read file %s: %v", e.Location, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// Options tune a WholeFileRecordReader
type Options struct {
	// Lenient makes a failed read log the error and still report a produced record
	// (with whatever key and value existed before), instead of returning a FileReadError.
	Lenient bool
	Printer *fmte.Printer
}

type state int8

const (
	notStarted state = iota
	produced
	failed
)

// WholeFileRecordReader produces exactly one record for its split: the file's base name as
// key and its entire content as value.
//
// The whole file is read into a single buffer of the split's length. There's no size limit
// and no streaming fallback, so every file must fit in the memory available to one work unit.
type WholeFileRecordReader struct {
	fsys    rsfs.FileSystem
	path    string
	split   entity.FileSplit
	options Options
	state   state
	err     error
	key     string
	value   []byte
}

// NewWholeFileRecordReader binds a reader to split, whose file is at path within fsys
func NewWholeFileRecordReader(fsys rsfs.FileSystem, path string, split entity.FileSplit, options Options) *WholeFileRecordReader {
	return &WholeFileRecordReader{
		fsys:    fsys,
		path:    path,
		split:   split,
		options: options,
	}
}

var _ RecordReader[string, []byte] = (*WholeFileRecordReader)(nil)

func (r *WholeFileRecordReader) CreateKey() string {
	return ""
}

func (r *WholeFileRecordReader) CreateValue() []byte {
	return []byte{}
}

// Pos is the split length once the record is produced, 0 before
func (r *WholeFileRecordReader) Pos() int64 {
	if r.state == produced {
		return r.split.Length
	}
	return 0
}

// Progress is 1 once the record is produced, 0 before
func (r *WholeFileRecordReader) Progress() float32 {
	if r.state == produced {
		return 1
	}
	return 0
}

// NextKeyValue reads the file on the first call and returns true. Any later call returns
// false and changes nothing. If the read fails, the error is returned on this and every
// later call (unless Options.Lenient is set).
func (r *WholeFileRecordReader) NextKeyValue() (bool, error) {
	switch r.state {
	case produced:
		return false, nil
	case failed:
		return false, r.err
	}
	contents, err := r.readFully()
	if err != nil {
		readErr := &FileReadError{Location: r.split.Location, Err: err}
		if r.options.Lenient {
			r.options.Printer.PrintfErr("%+v\n", readErr)
			r.state = produced
			return true, nil
		}
		r.state = failed
		r.err = readErr
		return false, readErr
	}
	r.key = rsfs.BaseName(r.path)
	r.value = contents
	r.state = produced
	r.options.Printer.PrintfV("Read %d bytes from %s\n", len(contents), r.split.Location)
	return true, nil
}

func (r *WholeFileRecordReader) readFully() (contents []byte, err error) {
	if r.split.Length < 0 {
		return nil, fmt.Errorf("negative split length %d", r.split.Length)
	}
	in, err := r.fsys.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			contents, err = nil, closeErr
		}
	}()
	contents = make([]byte, r.split.Length)
	if _, err = io.ReadFull(in, contents); err != nil {
		return nil, err
	}
	return contents, nil
}

// CurrentKey is the file's base name, or empty before the record is produced
func (r *WholeFileRecordReader) CurrentKey() string {
	return r.key
}

// CurrentValue is the file's content, or nil before the record is produced
func (r *WholeFileRecordReader) CurrentValue() []byte {
	return r.value
}

// Close does nothing: the file is already closed when NextKeyValue returns
func (r *WholeFileRecordReader) Close() error {
	return nil
}
