package bshell

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"bshell/parser"

	_ "github.com/mattn/go-sqlite3"
)

// History records sessions and the commands run in them in SQLite.
type History struct {
	db     *sql.DB
	dbLock sync.Mutex
	path   string
}

// HistoryEntry is one recorded command line.
type HistoryEntry struct {
	ID         int64
	SessionID  string
	Line       string
	CWD        string
	StartTime  time.Time
	Duration   time.Duration
	ReturnCode int
}

// NewHistory opens or creates the history database at path.
func NewHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for history: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	h := &History{db: db, path: path}
	if err := h.initDB(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	return h, nil
}

func (h *History) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		start_time INTEGER NOT NULL,
		end_time INTEGER,
		user_id INTEGER NOT NULL,
		user_name TEXT NOT NULL,
		hostname TEXT NOT NULL,
		tty TEXT
	);

	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		cwd TEXT NOT NULL,
		full_command TEXT NOT NULL,
		base_command TEXT NOT NULL,
		start_time INTEGER NOT NULL,
		duration INTEGER NOT NULL,
		return_code INTEGER NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_commands_session_id ON commands(session_id);
	`
	_, err := h.db.Exec(schema)
	return err
}

// Path returns the database file backing h.
func (h *History) Path() string {
	return h.path
}

func (h *History) Close() error {
	return h.db.Close()
}

// StartSession registers s in the sessions table.
func (h *History) StartSession(s *Session) error {
	h.dbLock.Lock()
	defer h.dbLock.Unlock()

	_, err := h.db.Exec(
		"INSERT INTO sessions (id, start_time, user_id, user_name, hostname, tty) VALUES (?, ?, ?, ?, ?, ?)",
		s.SessionID, s.StartTime.UnixNano(), s.UserID, s.UserName, s.Hostname, s.TTY,
	)
	return err
}

// EndSession stamps the end time of s.
func (h *History) EndSession(s *Session) error {
	h.dbLock.Lock()
	defer h.dbLock.Unlock()

	_, err := h.db.Exec("UPDATE sessions SET end_time = ? WHERE id = ?", s.EndTime.UnixNano(), s.SessionID)
	return err
}

// Record stores a dispatched command under sessionID.
func (h *History) Record(sessionID string, cmd *Command) error {
	if len(cmd.Args) == 0 {
		return nil
	}

	h.dbLock.Lock()
	defer h.dbLock.Unlock()

	_, err := h.db.Exec(
		`INSERT INTO commands
		(session_id, cwd, full_command, base_command, start_time, duration, return_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		cmd.CWD,
		parser.Format(cmd.Args),
		cmd.Args.Name(),
		cmd.StartTime.UnixNano(),
		int64(cmd.Duration),
		cmd.ReturnCode,
	)
	return err
}

// Dump returns recorded commands oldest first. A positive limit keeps only
// the most recent limit entries.
func (h *History) Dump(limit int) ([]HistoryEntry, error) {
	h.dbLock.Lock()
	defer h.dbLock.Unlock()

	query := `SELECT id, session_id, cwd, full_command, start_time, duration, return_code
		FROM commands ORDER BY id`
	args := []interface{}{}
	if limit > 0 {
		query = `SELECT * FROM (
			SELECT id, session_id, cwd, full_command, start_time, duration, return_code
			FROM commands ORDER BY id DESC LIMIT ?) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var start, duration int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.CWD, &e.Line, &start, &duration, &e.ReturnCode); err != nil {
			return nil, err
		}
		e.StartTime = time.Unix(0, start)
		e.Duration = time.Duration(duration)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
