package remote

import (
	"errors"
	"io"
	"sync"

	rsfs "github.com/m-manu/recursive-input/fs"
)

// Conn is an open connection serving one host's filesystem
type Conn interface {
	FS() rsfs.FileSystem
	Close() error
}

// Dialer opens a connection to the host of loc
type Dialer func(loc Location) (Conn, error)

// SSHDialer returns a Dialer that runs SFTP over the system ssh binary
func SSHDialer(explicitKeyPath string, stderr io.Writer) Dialer {
	return func(loc Location) (Conn, error) {
		return DialSFTP(loc, explicitKeyPath, stderr)
	}
}

// Resolver serves plain paths from the local filesystem and remote locations over
// connections that are opened on first use and shared by everything on the same host.
// It's safe for concurrent use.
type Resolver struct {
	local rsfs.FileSystem
	dial  Dialer
	mx    sync.Mutex
	conns map[string]Conn
}

// NewResolver creates a Resolver that dials remote hosts with dial
func NewResolver(dial Dialer) *Resolver {
	return &Resolver{
		local: rsfs.NewLocalFS(),
		dial:  dial,
		conns: make(map[string]Conn),
	}
}

func (r *Resolver) Resolve(location string) (rsfs.FileSystem, string, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, "", err
	}
	if !loc.IsRemote {
		return r.local, loc.Path, nil
	}
	conn, err := r.connection(loc)
	if err != nil {
		return nil, "", err
	}
	return conn.FS(), loc.Path, nil
}

func (r *Resolver) connection(loc Location) (Conn, error) {
	key := loc.sessionKey()
	r.mx.Lock()
	defer r.mx.Unlock()
	if conn, exists := r.conns[key]; exists {
		return conn, nil
	}
	conn, err := r.dial(loc)
	if err != nil {
		return nil, err
	}
	r.conns[key] = conn
	return conn, nil
}

func (r *Resolver) Qualify(root string, path string) string {
	loc, err := ParseLocation(root)
	if err != nil {
		return path
	}
	return loc.WithPath(path)
}

// Connections returns the number of open remote connections
func (r *Resolver) Connections() int {
	r.mx.Lock()
	defer r.mx.Unlock()
	return len(r.conns)
}

// Close closes every remote connection opened so far
func (r *Resolver) Close() error {
	r.mx.Lock()
	defer r.mx.Unlock()
	var errs []error
	for key, conn := range r.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.conns, key)
	}
	return errors.Join(errs...)
}
