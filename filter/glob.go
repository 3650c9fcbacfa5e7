package filter

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	rsfs "github.com/m-manu/recursive-input/fs"
)

// GlobFilter accepts a path when its final name segment matches a glob such as "*.{txt,log}".
// Unlike RegexFilter, the glob must match the whole name.
type GlobFilter struct {
	pattern string
}

// NewGlobFilter validates pattern and creates a GlobFilter for it
func NewGlobFilter(pattern string) (*GlobFilter, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w %q: malformed glob", ErrInvalidPattern, pattern)
	}
	return &GlobFilter{pattern: pattern}, nil
}

// Pattern returns the glob
func (f *GlobFilter) Pattern() string {
	return f.pattern
}

func (f *GlobFilter) Accept(path string) bool {
	// pattern was validated, so ErrBadPattern can't happen here
	matched, _ := doublestar.Match(f.pattern, rsfs.BaseName(path))
	return matched
}

func (f *GlobFilter) String() string {
	return "glob:" + f.pattern
}
