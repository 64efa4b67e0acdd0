// Package snapshot persists the last-fetched board projection to a local
// SQLite file so boards can be rendered offline. It is a cache of server
// state, never an authority: rows are replaced wholesale on every save.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/plankhq/plank/internal/types"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS boards (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    fetched_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS columns (
    id       TEXT PRIMARY KEY,
    board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
    name     TEXT NOT NULL,
    ord      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS issues (
    id       TEXT NOT NULL,
    board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
    data     TEXT NOT NULL,
    position TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (board_id, id)
);

CREATE INDEX IF NOT EXISTS idx_issues_board ON issues(board_id, position);
`

// Store is a SQLite-backed snapshot of board state
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the snapshot database at path
func Open(path string) (*Store, error) {
	dbPath := path
	if path == ":memory:" {
		dbPath = "file::memory:?cache=shared"
	}

	if !strings.Contains(dbPath, ":memory:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// WAL for concurrent readers, busy timeout instead of immediate lock
	// failures, foreign keys for the cascade deletes above
	connStr := dbPath
	if strings.Contains(dbPath, "?") {
		connStr += "&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	} else {
		connStr += "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// SaveBoard replaces the stored snapshot of one board
func (s *Store) SaveBoard(ctx context.Context, b *types.Board, issues []*types.Issue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, b.ID); err != nil {
		return fmt.Errorf("failed to clear board: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO boards (id, name, fetched_at) VALUES (?, ?, ?)`,
		b.ID, b.Name, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert board: %w", err)
	}

	for _, col := range b.Columns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO columns (id, board_id, name, ord) VALUES (?, ?, ?, ?)`,
			col.ID, b.ID, col.Name, col.Order); err != nil {
			return fmt.Errorf("failed to insert column %s: %w", col.ID, err)
		}
	}

	for _, iss := range issues {
		data, err := json.Marshal(iss)
		if err != nil {
			return fmt.Errorf("failed to marshal issue %s: %w", iss.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO issues (id, board_id, data, position) VALUES (?, ?, ?, ?)`,
			iss.ID, b.ID, string(data), iss.Position); err != nil {
			return fmt.Errorf("failed to insert issue %s: %w", iss.ID, err)
		}
	}

	return tx.Commit()
}

// LoadBoard reads back the stored snapshot of one board. FetchedAt tells
// the caller how stale the projection is.
func (s *Store) LoadBoard(ctx context.Context, boardID string) (*types.Board, []*types.Issue, time.Time, error) {
	var b types.Board
	var fetchedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, fetched_at FROM boards WHERE id = ?`, boardID).
		Scan(&b.ID, &b.Name, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil, time.Time{}, fmt.Errorf("no snapshot for board %s", boardID)
	}
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("failed to load board: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, ord FROM columns WHERE board_id = ? ORDER BY ord`, boardID)
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("failed to load columns: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		col := &types.Column{BoardID: boardID}
		if err := rows.Scan(&col.ID, &col.Name, &col.Order); err != nil {
			return nil, nil, time.Time{}, fmt.Errorf("failed to scan column: %w", err)
		}
		b.Columns = append(b.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("failed to iterate columns: %w", err)
	}

	issueRows, err := s.db.QueryContext(ctx,
		`SELECT data FROM issues WHERE board_id = ? ORDER BY position, id`, boardID)
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("failed to load issues: %w", err)
	}
	defer issueRows.Close()

	var issues []*types.Issue
	for issueRows.Next() {
		var data string
		if err := issueRows.Scan(&data); err != nil {
			return nil, nil, time.Time{}, fmt.Errorf("failed to scan issue: %w", err)
		}
		var iss types.Issue
		if err := json.Unmarshal([]byte(data), &iss); err != nil {
			return nil, nil, time.Time{}, fmt.Errorf("failed to unmarshal issue: %w", err)
		}
		issues = append(issues, &iss)
	}
	if err := issueRows.Err(); err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("failed to iterate issues: %w", err)
	}

	return &b, issues, fetchedAt, nil
}

// Boards lists the ids of all snapshotted boards
func (s *Store) Boards(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM boards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan board id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
