package filter

import (
	"strings"

	rsfs "github.com/m-manu/recursive-input/fs"
)

// MultiPathFilter accepts a path if any of its filters does.
// Filters are evaluated in construction order and evaluation stops at the first match.
type MultiPathFilter struct {
	filters []rsfs.PathFilter
}

// NewMultiPathFilter creates a MultiPathFilter over a copy of filters.
// An empty list is rejected with ErrNoFilters.
func NewMultiPathFilter(filters ...rsfs.PathFilter) (*MultiPathFilter, error) {
	if len(filters) == 0 {
		return nil, ErrNoFilters
	}
	return &MultiPathFilter{filters: append([]rsfs.PathFilter(nil), filters...)}, nil
}

func (m *MultiPathFilter) Accept(path string) bool {
	for _, f := range m.filters {
		if f.Accept(path) {
			return true
		}
	}
	return false
}

// Len returns number of filters
func (m *MultiPathFilter) Len() int {
	return len(m.filters)
}

// Filters returns a copy of the filters
func (m *MultiPathFilter) Filters() []rsfs.PathFilter {
	return append([]rsfs.PathFilter(nil), m.filters...)
}

func (m *MultiPathFilter) String() string {
	var sb strings.Builder
	sb.WriteString("any of [")
	for i, f := range m.filters {
		if i > 0 {
			sb.WriteString(", ")
		}
		if s, ok := f.(interface{ String() string }); ok {
			sb.WriteString(s.String())
		} else {
			sb.WriteString("?")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
