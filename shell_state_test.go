package bshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

type fakeTerminal struct {
	tty      bool
	fd       int
	fg       int
	fgErr    error
	setErr   error
	setCalls []int
	restored []*term.State
	state    *term.State
}

func (f *fakeTerminal) Fd() int          { return f.fd }
func (f *fakeTerminal) IsTerminal() bool { return f.tty }

func (f *fakeTerminal) ForegroundGroup() (int, error) {
	return f.fg, f.fgErr
}

func (f *fakeTerminal) SetForegroundGroup(pgid int) error {
	f.setCalls = append(f.setCalls, pgid)
	if f.setErr != nil {
		return f.setErr
	}
	f.fg = pgid
	return nil
}

func (f *fakeTerminal) GetState() (*term.State, error) {
	if f.state == nil {
		f.state = &term.State{}
	}
	return f.state, nil
}

func (f *fakeTerminal) Restore(state *term.State) error {
	f.restored = append(f.restored, state)
	return nil
}

type fakeProcs struct {
	pid       int
	pgrp      int
	setpgidEr error
	setpgid   [][2]int
}

func (f *fakeProcs) Getpid() int  { return f.pid }
func (f *fakeProcs) Getpgrp() int { return f.pgrp }

func (f *fakeProcs) Setpgid(pid, pgid int) error {
	f.setpgid = append(f.setpgid, [2]int{pid, pgid})
	if f.setpgidEr != nil {
		return f.setpgidEr
	}
	f.pgrp = pgid
	return nil
}

func TestInitShellNonInteractive(t *testing.T) {
	tty := &fakeTerminal{tty: false}
	procs := &fakeProcs{pid: 100, pgrp: 50}

	state, err := InitShell(tty, procs)
	require.NoError(t, err)
	defer state.Close()

	assert.False(t, state.Interactive)
	assert.Equal(t, 50, state.PGID)
	assert.Empty(t, tty.setCalls)
	assert.Empty(t, procs.setpgid)
	assert.Nil(t, state.Modes)
	assert.NoError(t, state.TakeTerminal())
	assert.Empty(t, tty.setCalls)
}

func TestInitShellTakesOwnGroupAndTerminal(t *testing.T) {
	tty := &fakeTerminal{tty: true, fd: 0, fg: 50}
	procs := &fakeProcs{pid: 100, pgrp: 50}

	state, err := InitShell(tty, procs)
	require.NoError(t, err)
	defer state.Close()

	assert.True(t, state.Interactive)
	assert.Equal(t, 100, state.PGID)
	assert.Equal(t, [][2]int{{100, 100}}, procs.setpgid)
	assert.Equal(t, []int{100}, tty.setCalls)
	assert.Equal(t, 100, tty.fg)
	assert.NotNil(t, state.Modes)
}

func TestInitShellMovesBackgroundShellToForeground(t *testing.T) {
	tty := &fakeTerminal{tty: true, fg: 7}
	procs := &fakeProcs{pid: 100, pgrp: 50}

	state, err := InitShell(tty, procs)
	require.NoError(t, err)
	defer state.Close()

	// One call to come to the foreground, one after changing group.
	assert.Equal(t, []int{50, 100}, tty.setCalls)
	assert.True(t, state.Interactive)
}

func TestInitShellAlreadyGroupLeader(t *testing.T) {
	tty := &fakeTerminal{tty: true, fg: 100}
	procs := &fakeProcs{pid: 100, pgrp: 100}

	state, err := InitShell(tty, procs)
	require.NoError(t, err)
	defer state.Close()

	assert.Empty(t, procs.setpgid, "a group leader must not call setpgid")
	assert.Equal(t, 100, state.PGID)
	assert.Equal(t, []int{100}, tty.setCalls)
}

func TestInitShellProcessGroupFailureIsFatal(t *testing.T) {
	tty := &fakeTerminal{tty: true, fg: 50}
	procs := &fakeProcs{pid: 100, pgrp: 50, setpgidEr: errors.New("operation not permitted")}

	state, err := InitShell(tty, procs)
	assert.Nil(t, state)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProcessGroupSetup), "got %v", err)
	assert.Contains(t, err.Error(), "operation not permitted")
}

func TestInitShellWithoutForegroundFallsBack(t *testing.T) {
	tty := &fakeTerminal{tty: true, fg: 7, setErr: errors.New("not permitted")}
	procs := &fakeProcs{pid: 100, pgrp: 50}

	state, err := InitShell(tty, procs)
	require.NoError(t, err)
	defer state.Close()

	assert.False(t, state.Interactive)
	assert.Empty(t, procs.setpgid)
}

func TestRestoreModes(t *testing.T) {
	tty := &fakeTerminal{tty: true, fg: 100}
	state, err := InitShell(tty, &fakeProcs{pid: 100, pgrp: 100})
	require.NoError(t, err)
	defer state.Close()

	require.NoError(t, state.RestoreModes())
	require.Len(t, tty.restored, 1)
	assert.Same(t, state.Modes, tty.restored[0])
}

func TestCloseIsIdempotent(t *testing.T) {
	state, err := InitShell(&fakeTerminal{tty: true, fg: 1}, &fakeProcs{pid: 1, pgrp: 1})
	require.NoError(t, err)
	state.Close()
	state.Close()
	assert.NoError(t, state.TakeTerminal())
}
