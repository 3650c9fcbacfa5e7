package fs

import (
	"io"
	"os"
	"path"
	"sort"

	"github.com/pkg/sftp"
)

// SFTPFS implements FileSystem over an SFTP connection.
type SFTPFS struct {
	client *sftp.Client
}

// NewSFTPFS wraps an existing sftp.Client in a FileSystem.
func NewSFTPFS(client *sftp.Client) *SFTPFS {
	return &SFTPFS{client: client}
}

// ListStatus lists dirPath over SFTP. Servers return entries in no particular order,
// so they're sorted by name here to match LocalFS.
func (s *SFTPFS) ListStatus(dirPath string) ([]FileStatus, error) {
	infos, err := s.client.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}
	statuses := make([]FileStatus, 0, len(infos))
	for _, info := range infos {
		if info.Name() == "." || info.Name() == ".." {
			continue
		}
		p := path.Join(dirPath, info.Name())
		if info.Mode()&os.ModeSymlink != 0 {
			// READDIR attributes describe the link itself
			if target, statErr := s.client.Stat(p); statErr == nil {
				info = target
			}
		}
		statuses = append(statuses, sftpFileStatus(p, info))
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Path < statuses[j].Path
	})
	return statuses, nil
}

func (s *SFTPFS) ListStatusFiltered(dirPath string, filter PathFilter) ([]FileStatus, error) {
	statuses, err := s.ListStatus(dirPath)
	if err != nil {
		return nil, err
	}
	return filterStatuses(statuses, filter), nil
}

func (s *SFTPFS) Stat(p string) (FileStatus, error) {
	info, err := s.client.Stat(p)
	if err != nil {
		return FileStatus{}, err
	}
	return sftpFileStatus(p, info), nil
}

func (s *SFTPFS) RealPath(p string) (string, error) {
	return s.client.RealPath(p)
}

func (s *SFTPFS) Open(p string) (io.ReadCloser, error) {
	return s.client.Open(p)
}

func (s *SFTPFS) Close() error {
	return s.client.Close()
}

func sftpFileStatus(p string, info os.FileInfo) FileStatus {
	st := FileStatus{
		Path:    p,
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}
	if !st.IsDir {
		st.Length = info.Size()
	}
	return st
}
