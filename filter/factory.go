package filter

import (
	"errors"
	"fmt"

	rsfs "github.com/m-manu/recursive-input/fs"
)

var (
	// ErrInvalidPattern is wrapped by every pattern validation error
	ErrInvalidPattern = errors.New("invalid filter pattern")
	// ErrNoFilters is returned when a filter set would be empty
	ErrNoFilters = errors.New("no file filters configured")
)

// Kind identifies the filter implementation built for each configured pattern
type Kind string

const (
	KindRegex Kind = "regex"
	KindGlob  Kind = "glob"
)

// EmptyPolicy decides what an empty list of patterns means
type EmptyPolicy string

const (
	// EmptyReject treats zero patterns as a configuration error
	EmptyReject EmptyPolicy = "reject"
	// EmptyAcceptAll accepts every file when there are zero patterns
	EmptyAcceptAll EmptyPolicy = "all"
	// EmptyAcceptNone accepts no file when there are zero patterns
	EmptyAcceptNone EmptyPolicy = "none"
)

// New builds one filter of the given kind for pattern
func New(kind Kind, pattern string) (rsfs.PathFilter, error) {
	switch kind {
	case KindRegex, "":
		return NewRegexFilter(pattern)
	case KindGlob:
		return NewGlobFilter(pattern)
	default:
		return nil, fmt.Errorf("unknown filter kind %q", kind)
	}
}

// FromPatterns builds a fresh filter per pattern and combines them into a MultiPathFilter.
// Errors of all malformed patterns are reported together.
func FromPatterns(kind Kind, patterns []string, emptyPolicy EmptyPolicy) (*MultiPathFilter, error) {
	if len(patterns) == 0 {
		switch emptyPolicy {
		case EmptyAcceptAll:
			return NewMultiPathFilter(rsfs.AcceptAll)
		case EmptyAcceptNone:
			return NewMultiPathFilter(rsfs.AcceptNone)
		case EmptyReject, "":
			return nil, ErrNoFilters
		default:
			return nil, fmt.Errorf("unknown empty filter policy %q", emptyPolicy)
		}
	}
	filters := make([]rsfs.PathFilter, 0, len(patterns))
	var errs []error
	for _, pattern := range patterns {
		f, err := New(kind, pattern)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		filters = append(filters, f)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return NewMultiPathFilter(filters...)
}
