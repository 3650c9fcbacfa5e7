package service

import (
	"bytes"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	rsfs "github.com/m-manu/recursive-input/fs"
)

type memNode struct {
	isDir   bool
	content []byte
	target  string // non-empty for a symlink
}

// memFS is an in-memory FileSystem that counts every call made to it
type memFS struct {
	nodes         map[string]*memNode
	failing       map[string]error
	listCalls     int
	filteredCalls int
	realPathCalls int
	openCalls     int
}

func newMemFS() *memFS {
	return &memFS{
		nodes:   map[string]*memNode{"/": {isDir: true}},
		failing: map[string]error{},
	}
}

func (m *memFS) mkdirAll(p string) {
	for p != "/" && p != "." {
		if _, exists := m.nodes[p]; !exists {
			m.nodes[p] = &memNode{isDir: true}
		}
		p = path.Dir(p)
	}
}

// add creates a file, or a directory when p ends with "/"
func (m *memFS) add(p string, content string) *memFS {
	if strings.HasSuffix(p, "/") {
		m.mkdirAll(path.Clean(p))
		return m
	}
	m.mkdirAll(path.Dir(p))
	m.nodes[p] = &memNode{content: []byte(content)}
	return m
}

func (m *memFS) symlink(p string, target string) *memFS {
	m.mkdirAll(path.Dir(p))
	m.nodes[p] = &memNode{target: target}
	return m
}

func (m *memFS) calls() int {
	return m.listCalls + m.filteredCalls + m.realPathCalls + m.openCalls
}

// resolve replaces symlinked prefixes of p with their targets
func (m *memFS) resolve(p string) (string, error) {
	p = path.Clean(p)
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	current := "/"
	for hops := 0; len(parts) > 0; {
		next := path.Join(current, parts[0])
		parts = parts[1:]
		node, exists := m.nodes[next]
		if !exists {
			return "", &os.PathError{Op: "stat", Path: p, Err: os.ErrNotExist}
		}
		if node.target != "" {
			hops++
			if hops > 40 {
				return "", &os.PathError{Op: "stat", Path: p, Err: os.ErrInvalid}
			}
			parts = append(strings.Split(strings.TrimPrefix(path.Clean(node.target), "/"), "/"), parts...)
			current = "/"
			continue
		}
		current = next
	}
	return current, nil
}

func (m *memFS) ListStatus(dirPath string) ([]rsfs.FileStatus, error) {
	m.listCalls++
	return m.list(dirPath)
}

func (m *memFS) ListStatusFiltered(dirPath string, filter rsfs.PathFilter) ([]rsfs.FileStatus, error) {
	m.filteredCalls++
	statuses, err := m.list(dirPath)
	if err != nil {
		return nil, err
	}
	accepted := make([]rsfs.FileStatus, 0, len(statuses))
	for _, s := range statuses {
		if filter.Accept(s.Path) {
			accepted = append(accepted, s)
		}
	}
	return accepted, nil
}

func (m *memFS) list(dirPath string) ([]rsfs.FileStatus, error) {
	if err, fails := m.failing[dirPath]; fails {
		return nil, err
	}
	resolved, err := m.resolve(dirPath)
	if err != nil {
		return nil, err
	}
	if !m.nodes[resolved].isDir {
		return nil, &os.PathError{Op: "readdir", Path: dirPath, Err: os.ErrInvalid}
	}
	var names []string
	for p := range m.nodes {
		if p != "/" && path.Dir(p) == resolved {
			names = append(names, path.Base(p))
		}
	}
	sort.Strings(names)
	statuses := make([]rsfs.FileStatus, 0, len(names))
	for _, name := range names {
		st, statErr := m.Stat(path.Join(dirPath, name))
		if statErr != nil {
			return nil, statErr
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func (m *memFS) Stat(p string) (rsfs.FileStatus, error) {
	resolved, err := m.resolve(p)
	if err != nil {
		return rsfs.FileStatus{}, err
	}
	node := m.nodes[resolved]
	return rsfs.FileStatus{
		Path:    p,
		Length:  int64(len(node.content)),
		IsDir:   node.isDir,
		ModTime: time.Unix(0, 0),
	}, nil
}

func (m *memFS) RealPath(p string) (string, error) {
	m.realPathCalls++
	return m.resolve(p)
}

func (m *memFS) Open(p string) (io.ReadCloser, error) {
	m.openCalls++
	resolved, err := m.resolve(p)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(m.nodes[resolved].content)), nil
}

func (m *memFS) Close() error {
	return nil
}

// countingResolver serves everything from one memFS and counts resolutions
type countingResolver struct {
	fsys    *memFS
	resolve int
}

func (r *countingResolver) Resolve(location string) (rsfs.FileSystem, string, error) {
	r.resolve++
	return r.fsys, location, nil
}

func (r *countingResolver) Qualify(_ string, p string) string {
	return p
}
