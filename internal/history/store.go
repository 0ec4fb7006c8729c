// Package history keeps a revision log of the status document.
//
// Every successful bump stores a full snapshot of the written document in a
// local SQLite database, so earlier states can be listed and printed later.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HendryAvila/roadmap-status/internal/status"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 20

// createdLayout has a fixed width so created_at sorts lexically.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get for an unknown revision id.
var ErrNotFound = errors.New("revision not found")

// Revision is one recorded snapshot.
type Revision struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Summary    string    `json:"summary"`
	OverallPct float64   `json:"overall_pct"`
	SHA256     string    `json:"sha256"`
	// Document is the encoded snapshot. Empty in List results.
	Document []byte `json:"-"`
}

// Store is a SQLite-backed revision log.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path is the database file.
func (s *Store) Path() string { return s.path }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS revisions (
			id          TEXT    PRIMARY KEY,
			created_at  TEXT    NOT NULL,
			summary     TEXT    NOT NULL,
			overall_pct REAL    NOT NULL,
			sha256      TEXT    NOT NULL,
			document    BLOB    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_revisions_created ON revisions(created_at DESC);
	`)
	return err
}

// Record stores a snapshot of doc. It satisfies bump.Recorder.
func (s *Store) Record(ctx context.Context, doc *status.Document, summary string) error {
	_, err := s.Add(ctx, doc, summary)
	return err
}

// Add stores a snapshot of doc and returns the new revision.
func (s *Store) Add(ctx context.Context, doc *status.Document, summary string) (*Revision, error) {
	data, err := status.Encode(doc)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)

	rev := &Revision{
		ID:         uuid.NewString(),
		CreatedAt:  timeNow().UTC(),
		Summary:    summary,
		OverallPct: doc.Meta.OverallTrajectoryPct,
		SHA256:     hex.EncodeToString(sum[:]),
		Document:   data,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO revisions (id, created_at, summary, overall_pct, sha256, document)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rev.ID, rev.CreatedAt.Format(createdLayout), rev.Summary, rev.OverallPct, rev.SHA256, rev.Document,
	)
	if err != nil {
		return nil, fmt.Errorf("history: insert revision: %w", err)
	}
	return rev, nil
}

// List returns the newest revisions first, without their documents.
// A limit <= 0 means DefaultLimit.
func (s *Store) List(ctx context.Context, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, summary, overall_pct, sha256
		 FROM revisions
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Revision
	for rows.Next() {
		var rev Revision
		var created string
		if err := rows.Scan(&rev.ID, &created, &rev.Summary, &rev.OverallPct, &rev.SHA256); err != nil {
			return nil, err
		}
		if rev.CreatedAt, err = time.Parse(createdLayout, created); err != nil {
			return nil, fmt.Errorf("history: revision %s: %w", rev.ID, err)
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Get returns one revision including its document. The id may be a unique
// prefix of at least 8 characters.
func (s *Store) Get(ctx context.Context, id string) (*Revision, error) {
	if len(id) < 8 || strings.ContainsAny(id, "%_") {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, summary, overall_pct, sha256, document
		 FROM revisions
		 WHERE id LIKE ? || '%'
		 LIMIT 2`, id)
	if err != nil {
		return nil, fmt.Errorf("history: get revision: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var found []Revision
	for rows.Next() {
		var rev Revision
		var created string
		if err := rows.Scan(&rev.ID, &created, &rev.Summary, &rev.OverallPct, &rev.SHA256, &rev.Document); err != nil {
			return nil, err
		}
		if rev.CreatedAt, err = time.Parse(createdLayout, created); err != nil {
			return nil, fmt.Errorf("history: revision %s: %w", rev.ID, err)
		}
		found = append(found, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("history: revision id %q is ambiguous", id)
	}
}

// Count is the number of stored revisions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revisions`).Scan(&n)
	return n, err
}
