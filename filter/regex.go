package filter

import (
	"fmt"
	"regexp"

	rsfs "github.com/m-manu/recursive-input/fs"
)

// DefaultPattern is used when a RegexFilter is created without a pattern
const DefaultPattern = "(.txt)$"

// RegexFilter accepts a path when its pattern matches somewhere in the path's final
// name segment. The pattern is not implicitly anchored: anchor it with ^ or $ as needed.
type RegexFilter struct {
	pattern *regexp.Regexp
}

// NewRegexFilter creates a RegexFilter for pattern
func NewRegexFilter(pattern string) (*RegexFilter, error) {
	f := &RegexFilter{}
	if err := f.SetPattern(pattern); err != nil {
		return nil, err
	}
	return f, nil
}

// NewDefaultRegexFilter creates a RegexFilter for DefaultPattern
func NewDefaultRegexFilter() *RegexFilter {
	return &RegexFilter{pattern: regexp.MustCompile(DefaultPattern)}
}

// SetPattern compiles pattern and replaces the current one. On error the filter is unchanged.
func (f *RegexFilter) SetPattern(pattern string) error {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	f.pattern = compiled
	return nil
}

// Pattern returns the source text of the pattern
func (f *RegexFilter) Pattern() string {
	return f.pattern.String()
}

func (f *RegexFilter) Accept(path string) bool {
	return f.pattern.MatchString(rsfs.BaseName(path))
}

func (f *RegexFilter) String() string {
	return "regex:" + f.pattern.String()
}
