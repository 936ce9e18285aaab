package bshell

import (
	"os"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	s := NewSession()

	_, err := uuid.Parse(s.SessionID)
	require.NoError(t, err, "session id %q is not a UUID", s.SessionID)
	assert.Equal(t, os.Getuid(), s.UserID)
	assert.False(t, s.StartTime.IsZero())
	assert.True(t, s.EndTime.IsZero())

	s.End()
	assert.False(t, s.EndTime.Before(s.StartTime))

	assert.NotEqual(t, s.SessionID, NewSession().SessionID)
}

func TestNewSessionWithoutUser(t *testing.T) {
	t.Setenv("USER", "")
	s := NewSession()
	assert.Equal(t, strconv.Itoa(os.Getuid()), s.UserName)
}
