// Package sftptest serves an in-memory SFTP filesystem over pipes, for tests that
// exercise SFTP-backed code without an SSH server.
package sftptest

import (
	"io"
	"path"
	"strings"
	"testing"

	"github.com/pkg/sftp"
)

// NewInMemClient returns a client connected to a fresh in-memory SFTP server.
// Both are closed when the test ends.
func NewInMemClient(t testing.TB) *sftp.Client {
	t.Helper()
	serverReader, clientWriter := io.Pipe()
	clientReader, serverWriter := io.Pipe()
	server := sftp.NewRequestServer(struct {
		io.Reader
		io.WriteCloser
	}{serverReader, serverWriter}, sftp.InMemHandler())
	go func() {
		_ = server.Serve()
	}()
	client, err := sftp.NewClientPipe(clientReader, clientWriter)
	if err != nil {
		t.Fatalf("couldn't connect to in-memory sftp server: %+v", err)
	}
	// the server goes first: closing its writer ends the client's receive loop,
	// which client.Close waits for
	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})
	return client
}

// WriteTree creates files (and their parent directories) under root. Keys are slash
// separated relative paths; a key ending with "/" creates an empty directory.
func WriteTree(t testing.TB, client *sftp.Client, root string, files map[string]string) {
	t.Helper()
	mkdirAll(t, client, root)
	for relativePath, content := range files {
		p := path.Join(root, relativePath)
		if strings.HasSuffix(relativePath, "/") {
			mkdirAll(t, client, p)
			continue
		}
		mkdirAll(t, client, path.Dir(p))
		f, err := client.Create(p)
		if err != nil {
			t.Fatalf("couldn't create %s: %+v", p, err)
		}
		if _, err = f.Write([]byte(content)); err != nil {
			t.Fatalf("couldn't write %s: %+v", p, err)
		}
		if err = f.Close(); err != nil {
			t.Fatalf("couldn't close %s: %+v", p, err)
		}
	}
}

func mkdirAll(t testing.TB, client *sftp.Client, p string) {
	if err := client.MkdirAll(p); err != nil {
		t.Fatalf("couldn't create directory %s: %+v", p, err)
	}
}
