package fs

import (
	"io"
	"os"
	"path/filepath"
)

// LocalFS implements FileSystem using standard os.* calls.
type LocalFS struct{}

// NewLocalFS returns a new LocalFS.
func NewLocalFS() *LocalFS {
	return &LocalFS{}
}

// ListStatus lists dirPath. Symlinks are followed, so a link to a directory is reported
// as a directory; a dangling link is reported as a zero-length file.
func (l *LocalFS) ListStatus(dirPath string) ([]FileStatus, error) {
	entries, err := os.ReadDir(dirPath) // sorted by file name
	if err != nil {
		return nil, err
	}
	statuses := make([]FileStatus, 0, len(entries))
	for _, e := range entries {
		p := filepath.Join(dirPath, e.Name())
		info, statErr := os.Stat(p)
		if statErr != nil {
			// dangling link: Lstat describes the link, whose size is its target's length
			info, statErr = e.Info()
			if statErr != nil {
				return nil, statErr
			}
			statuses = append(statuses, FileStatus{Path: p, ModTime: info.ModTime()})
			continue
		}
		statuses = append(statuses, fileStatusFromOS(p, info))
	}
	return statuses, nil
}

func (l *LocalFS) ListStatusFiltered(dirPath string, filter PathFilter) ([]FileStatus, error) {
	statuses, err := l.ListStatus(dirPath)
	if err != nil {
		return nil, err
	}
	return filterStatuses(statuses, filter), nil
}

func (l *LocalFS) Stat(path string) (FileStatus, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileStatus{}, err
	}
	return fileStatusFromOS(path, info), nil
}

func (l *LocalFS) RealPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

func (l *LocalFS) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (l *LocalFS) Close() error {
	return nil
}

func fileStatusFromOS(path string, info os.FileInfo) FileStatus {
	s := FileStatus{
		Path:    path,
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}
	if !s.IsDir {
		s.Length = info.Size()
	}
	return s
}
