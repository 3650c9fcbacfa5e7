package service

import (
	"errors"
	"fmt"

	"github.com/m-manu/recursive-input/fmte"
)

// ErrNoInputPaths is returned when discovery or planning is asked to run without root paths
var ErrNoInputPaths = errors.New("no input paths specified in job")

// FilesystemAccessError is a failed filesystem call made during discovery
type FilesystemAccessError struct {
	Op   string // "resolve", "list" or "realpath"
	Path string
	Err  error
}

func (e *FilesystemAccessError) Error() string {
	return fmt.Sprintf("couldn't %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemAccessError) Unwrap() error {
	return e.Err
}

// InvalidInputError carries every per-root failure of a discovery run
type InvalidInputError struct {
	Errors []error
}

func (e *InvalidInputError) Error() string {
	return fmte.Errors(fmt.Sprintf("invalid input (%d errors)", len(e.Errors)), e.Errors).Error()
}

func (e *InvalidInputError) Unwrap() []error {
	return e.Errors
}
