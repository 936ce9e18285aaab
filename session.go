package bshell

import (
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	StartTime time.Time
	EndTime   time.Time
	UserID    int
	UserName  string
	Hostname  string
	TTY       string
	SessionID string
}

// NewSession initializes a new session with current environmental data.
func NewSession() *Session {
	hostname, _ := os.Hostname()
	s := &Session{
		StartTime: time.Now(),
		UserID:    os.Getuid(),
		UserName:  os.Getenv("USER"),
		Hostname:  hostname,
		SessionID: generateSessionID(),
	}
	if s.UserName == "" {
		s.UserName = strconv.Itoa(s.UserID)
	}
	if name, err := os.Readlink("/proc/self/fd/0"); err == nil {
		s.TTY = name
	}
	return s
}

// End stamps the session's end time.
func (s *Session) End() {
	s.EndTime = time.Now()
}

func generateSessionID() string {
	return uuid.New().String()
}
