// Package snapshot persists captured sets of sysctl tunables in
// SQLite, so configurations can be compared across boots or before
// and after tuning changes.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one captured set of tunables. Entries maps sysctl names
// to their rendered values; it is nil on records returned by List.
type Snapshot struct {
	ID      int64
	Label   string
	TakenAt time.Time
	Entries map[string]string
}

// Op classifies one difference between two snapshots.
type Op string

const (
	OpAdded   Op = "added"
	OpRemoved Op = "removed"
	OpChanged Op = "changed"
)

// Change is one differing tunable between two snapshots.
type Change struct {
	Name string
	Op   Op
	From string // empty for OpAdded
	To   string // empty for OpRemoved
}

// Store is a SQLite-backed snapshot store.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the store at dbPath.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// NewInMemory creates an in-memory store for testing.
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL,
		taken_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshot_entries (
		snapshot_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, name),
		FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_label ON snapshots(label);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores a captured set of tunables under a label and returns
// the new snapshot's ID.
func (s *Store) Save(ctx context.Context, label string, entries map[string]string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (label, taken_at) VALUES (?, ?)",
		label, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for name, value := range entries {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO snapshot_entries (snapshot_id, name, value) VALUES (?, ?, ?)",
			id, name, value); err != nil {
			return 0, fmt.Errorf("insert entry %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// List returns all snapshots, newest first, without their entries.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, label, taken_at FROM snapshots ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var takenAt string
		if err := rows.Scan(&snap.ID, &snap.Label, &takenAt); err != nil {
			return nil, err
		}
		snap.TakenAt, err = time.Parse(time.RFC3339, takenAt)
		if err != nil {
			return nil, fmt.Errorf("snapshot %d: bad timestamp %q: %w", snap.ID, takenAt, err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Get retrieves a snapshot with its entries. Returns ErrNotFound if
// no snapshot has the given ID.
func (s *Store) Get(ctx context.Context, id int64) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, label, taken_at FROM snapshots WHERE id = ?", id)

	var snap Snapshot
	var takenAt string
	err := row.Scan(&snap.ID, &snap.Label, &takenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, err
	}
	snap.TakenAt, err = time.Parse(time.RFC3339, takenAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %d: bad timestamp %q: %w", id, takenAt, err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, value FROM snapshot_entries WHERE snapshot_id = ?", id)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()

	snap.Entries = make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Snapshot{}, err
		}
		snap.Entries[name] = value
	}
	return snap, rows.Err()
}

// Diff compares two snapshots and returns the differing tunables
// sorted by name.
func (s *Store) Diff(ctx context.Context, fromID, toID int64) ([]Change, error) {
	from, err := s.Get(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.Get(ctx, toID)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for name, old := range from.Entries {
		cur, ok := to.Entries[name]
		switch {
		case !ok:
			changes = append(changes, Change{Name: name, Op: OpRemoved, From: old})
		case cur != old:
			changes = append(changes, Change{Name: name, Op: OpChanged, From: old, To: cur})
		}
	}
	for name, cur := range to.Entries {
		if _, ok := from.Entries[name]; !ok {
			changes = append(changes, Change{Name: name, Op: OpAdded, To: cur})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
	return changes, nil
}
