package fs

import (
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// FileSystem abstracts the listing and read primitives discovery and record production
// need, so that callers can work with local directories and SFTP mounts interchangeably.
type FileSystem interface {
	// ListStatus lists the immediate children of dirPath, sorted by name.
	// Listing a path that isn't a directory is an error.
	ListStatus(dirPath string) ([]FileStatus, error)

	// ListStatusFiltered is like ListStatus but only returns children accepted by filter.
	// Directories are subject to the filter too.
	ListStatusFiltered(dirPath string, filter PathFilter) ([]FileStatus, error)

	// Stat returns the status of path, following symlinks.
	Stat(path string) (FileStatus, error)

	// RealPath returns the canonical form of path with all symlinks resolved.
	RealPath(path string) (string, error)

	// Open opens path for reading. Callers must close the returned reader.
	Open(path string) (io.ReadCloser, error)

	// Close releases any resources held by the filesystem (e.g. SSH connections).
	Close() error
}

// FileStatus is a single entry returned by a listing call
type FileStatus struct {
	// Path is the full path of the entry within its filesystem (or, after discovery,
	// its qualified location).
	Path string
	// Length is the size in bytes (0 for directories).
	Length  int64
	IsDir   bool
	ModTime time.Time
}

// Name is the final segment of the entry's path
func (s FileStatus) Name() string {
	return BaseName(s.Path)
}

// PathFilter decides whether a path is accepted
type PathFilter interface {
	Accept(path string) bool
}

// PathFilterFunc adapts an ordinary function to PathFilter
type PathFilterFunc func(path string) bool

// Accept calls f(path)
func (f PathFilterFunc) Accept(path string) bool {
	return f(path)
}

// AcceptAll accepts every path
var AcceptAll PathFilter = PathFilterFunc(func(string) bool { return true })

// AcceptNone rejects every path
var AcceptNone PathFilter = PathFilterFunc(func(string) bool { return false })

// BaseName returns the final segment of p. Both '/' and the OS separator are honoured,
// since locations of remote filesystems always use '/'.
func BaseName(p string) string {
	p = strings.TrimRight(p, "/"+string(filepath.Separator))
	if p == "" {
		return ""
	}
	if i := strings.LastIndexAny(p, "/"+string(filepath.Separator)); i >= 0 {
		return p[i+1:]
	}
	return path.Base(p)
}

func filterStatuses(statuses []FileStatus, filter PathFilter) []FileStatus {
	accepted := make([]FileStatus, 0, len(statuses))
	for _, s := range statuses {
		if filter.Accept(s.Path) {
			accepted = append(accepted, s)
		}
	}
	return accepted
}
