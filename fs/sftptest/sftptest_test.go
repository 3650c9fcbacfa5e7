package sftptest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInMemClient_CleanupReturns(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		t.Run("session", func(t *testing.T) {
			client := NewInMemClient(t)
			WriteTree(t, client, "/data", map[string]string{"a.txt": "a", "sub/": ""})
			infos, err := client.ReadDir("/data")
			require.NoError(t, err)
			assert.Len(t, infos, 2)
		})
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("closing the in-memory sftp session hung")
	}
}
