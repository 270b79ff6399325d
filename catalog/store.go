package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists website examples in SQLite. Nested structures
// (screenshots, design system) are stored as JSON columns; filterable
// scalars get their own columns. A create is atomic: one INSERT, whole
// document or nothing.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the database at path and runs migrations.
// The caller must import an SQLite driver registered as "sqlite"
// (modernc.org/sqlite).
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("%w: open db: %v", ErrStore, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", ErrStore, err)
	}
	return s, nil
}

// DB returns the underlying handle for sharing with other layers.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS website_examples (
    id              TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    url             TEXT NOT NULL DEFAULT '',
    category        TEXT NOT NULL DEFAULT '[]',
    type            TEXT NOT NULL DEFAULT 'Screen',
    tags            TEXT NOT NULL DEFAULT '[]',
    screenshots     TEXT NOT NULL,
    design_system   TEXT NOT NULL DEFAULT '{}',
    created_at      INTEGER NOT NULL,
    updated_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_website_examples_url ON website_examples(url);
CREATE INDEX IF NOT EXISTS idx_website_examples_created ON website_examples(created_at);
`
	_, err := s.db.Exec(ddl)
	return err
}

// Create persists a new example and returns its assigned id. The draft
// must carry at least one screenshot with a durable image URL; anything
// else is a pipeline bug surfaced as ErrValidation.
func (s *Store) Create(ctx context.Context, ex WebsiteExample) (string, error) {
	if err := validateForCreate(ex); err != nil {
		return "", err
	}

	id := ex.ID
	if id == "" {
		id = uuid.NewString()
	}
	if ex.CreatedAt == 0 {
		ex.CreatedAt = time.Now().UnixMilli()
	}
	if ex.UpdatedAt == 0 {
		ex.UpdatedAt = ex.CreatedAt
	}

	category, err := json.Marshal(emptyIfNil(ex.Category))
	if err != nil {
		return "", fmt.Errorf("%w: encode category: %v", ErrStore, err)
	}
	tags, err := json.Marshal(emptyIfNil(ex.Tags))
	if err != nil {
		return "", fmt.Errorf("%w: encode tags: %v", ErrStore, err)
	}
	shots, err := json.Marshal(ex.Screenshots)
	if err != nil {
		return "", fmt.Errorf("%w: encode screenshots: %v", ErrStore, err)
	}
	ds, err := json.Marshal(ex.DesignSystem)
	if err != nil {
		return "", fmt.Errorf("%w: encode design system: %v", ErrStore, err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO website_examples
    (id, title, description, url, category, type, tags, screenshots, design_system, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ex.Title, ex.Description, ex.URL,
		string(category), string(ex.Type), string(tags), string(shots), string(ds),
		ex.CreatedAt, ex.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("%w: insert %s: %v", ErrStore, id, err)
	}
	return id, nil
}

// Patch holds the mutable fields of an example. Nil pointers and nil
// slices mean "leave unchanged".
type Patch struct {
	Title       *string
	Description *string
	Category    []string
	Tags        []string
}

// Update applies a patch to an existing record and bumps updatedAt.
func (s *Store) Update(ctx context.Context, id string, p Patch) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UnixMilli()}

	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Category != nil {
		data, err := json.Marshal(p.Category)
		if err != nil {
			return fmt.Errorf("%w: encode category: %v", ErrStore, err)
		}
		sets = append(sets, "category = ?")
		args = append(args, string(data))
	}
	if p.Tags != nil {
		data, err := json.Marshal(p.Tags)
		if err != nil {
			return fmt.Errorf("%w: encode tags: %v", ErrStore, err)
		}
		sets = append(sets, "tags = ?")
		args = append(args, string(data))
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE website_examples SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", ErrStore, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", ErrStore, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Get loads one example by id.
func (s *Store) Get(ctx context.Context, id string) (*WebsiteExample, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, title, description, url, category, type, tags, screenshots, design_system, created_at, updated_at
FROM website_examples WHERE id = ?`, id)
	ex, err := scanExample(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrStore, id, err)
	}
	return ex, nil
}

// List returns examples newest-first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]WebsiteExample, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, description, url, category, type, tags, screenshots, design_system, created_at, updated_at
FROM website_examples ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrStore, err)
	}
	defer rows.Close()

	var out []WebsiteExample
	for rows.Next() {
		ex, err := scanExample(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: list: %v", ErrStore, err)
		}
		out = append(out, *ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrStore, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExample(row rowScanner) (*WebsiteExample, error) {
	var ex WebsiteExample
	var category, tags, shots, ds string
	if err := row.Scan(&ex.ID, &ex.Title, &ex.Description, &ex.URL,
		&category, &ex.Type, &tags, &shots, &ds, &ex.CreatedAt, &ex.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(category), &ex.Category); err != nil {
		return nil, fmt.Errorf("decode category: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &ex.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(shots), &ex.Screenshots); err != nil {
		return nil, fmt.Errorf("decode screenshots: %w", err)
	}
	if err := json.Unmarshal([]byte(ds), &ex.DesignSystem); err != nil {
		return nil, fmt.Errorf("decode design system: %w", err)
	}
	return &ex, nil
}

func validateForCreate(ex WebsiteExample) error {
	if len(ex.Screenshots) == 0 {
		return fmt.Errorf("%w: no screenshots", ErrValidation)
	}
	for _, shot := range ex.Screenshots {
		if shot.ImageURL == "" {
			return fmt.Errorf("%w: screenshot %s has no image URL", ErrValidation, shot.ID)
		}
		// Transient references must never reach the database; the
		// upload has to complete first.
		if strings.HasPrefix(shot.ImageURL, "data:") || strings.HasPrefix(shot.ImageURL, "blob:") {
			return fmt.Errorf("%w: screenshot %s has a transient image URL", ErrValidation, shot.ID)
		}
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
