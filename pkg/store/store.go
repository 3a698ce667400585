// Package store persists sketches by name in a SQLite database. Bodies are
// stored in the sketch JSON document form.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/chazu/sketch/pkg/sketch"
)

// ErrNotFound is returned when no sketch has the requested name.
var ErrNotFound = errors.New("store: sketch not found")

// ErrEmptyName is returned for a blank sketch name.
var ErrEmptyName = errors.New("store: empty sketch name")

const schema = `
CREATE TABLE IF NOT EXISTS sketches (
    name       TEXT PRIMARY KEY,
    body       TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// Entry describes one stored sketch.
type Entry struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is a named collection of sketches. It is safe for concurrent use;
// the database is limited to one connection.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (st *Store) Close() error {
	return st.db.Close()
}

// Save writes s under name, replacing any previous version.
func (st *Store) Save(ctx context.Context, name string, s *sketch.Sketch) error {
	if name == "" {
		return ErrEmptyName
	}
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode %q: %w", name, err)
	}
	_, err = st.db.ExecContext(ctx, `
        INSERT INTO sketches (name, body, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
    `, name, string(body), st.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	sketch.Logger().Debug("sketch saved", "name", name, "bytes", len(body))
	return nil
}

// Load reads the sketch stored under name.
func (st *Store) Load(ctx context.Context, name string) (*sketch.Sketch, error) {
	var body string
	row := st.db.QueryRowContext(ctx, `SELECT body FROM sketches WHERE name = ?`, name)
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	s := sketch.New()
	if err := json.Unmarshal([]byte(body), s); err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	return s, nil
}

// List returns every stored sketch ordered by name.
func (st *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := st.db.QueryContext(ctx, `SELECT name, updated_at FROM sketches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			updated string
		)
		if err := rows.Scan(&e.Name, &updated); err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		if e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("list %q: updated_at: %w", e.Name, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the sketch stored under name.
func (st *Store) Delete(ctx context.Context, name string) error {
	res, err := st.db.ExecContext(ctx, `DELETE FROM sketches WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	return nil
}
