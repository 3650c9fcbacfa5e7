package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobFilter(t *testing.T) {
	f, err := NewGlobFilter("*.{txt,log}")
	require.NoError(t, err)
	assert.True(t, f.Accept("/data/a.txt"))
	assert.True(t, f.Accept("b.log"))
	assert.False(t, f.Accept("data.txt.bak"))
	assert.False(t, f.Accept("/data/a.csv"))
	assert.Equal(t, "glob:*.{txt,log}", f.String())
}

func TestGlobFilter_InvalidPattern(t *testing.T) {
	_, err := NewGlobFilter("[a-")
	assert.ErrorIs(t, err, ErrInvalidPattern)
}
