package bshell

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPrompt(t *testing.T) {
	t.Setenv("USER", "alice")
	t.Setenv("HOME", "/home/alice")

	assert.Equal(t, DefaultPrompt, expandPrompt(DefaultPrompt))
	assert.Equal(t, "alice> ", expandPrompt("%u> "))
	assert.Equal(t, "100% sure", expandPrompt("100% sure"))

	hostname, _ := os.Hostname()
	assert.Equal(t, "alice@"+hostname, expandPrompt("%u@%h"))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, expandPrompt("%w"))

	sigil := expandPrompt("%$")
	assert.Contains(t, []string{"$", "#"}, sigil)
}

func TestShortenPath(t *testing.T) {
	t.Setenv("HOME", "/home/alice")

	tests := []struct {
		path string
		want string
	}{
		{"/home/alice", "~"},
		{"/home/alice/src/bshell", "~/src/bshell"},
		{"/home/alicetwo", "/home/alicetwo"},
		{"/tmp", "/tmp"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shortenPath(tt.path), tt.path)
	}
}

func TestStreamReader(t *testing.T) {
	var prompts strings.Builder
	r := NewStreamReader(strings.NewReader("first\nsecond"), &prompts)

	line, err := r.ReadLine("1> ")
	require.NoError(t, err)
	assert.Equal(t, "first\n", line)

	line, err = r.ReadLine("2> ")
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = r.ReadLine("3> ")
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "1> 2> 3> ", prompts.String())
	assert.NoError(t, r.Close())
}

func TestStreamReaderWithoutPrompt(t *testing.T) {
	r := NewStreamReader(strings.NewReader(""), nil)
	_, err := r.ReadLine("ignored> ")
	assert.Equal(t, io.EOF, err)
}
