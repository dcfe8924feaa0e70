package output

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresSaver stores documents in the icon_exports table, one row per run
// and filename. Saving the same run twice replaces the row.
type PostgresSaver struct {
	db     *sql.DB
	schema setup
}

// OpenPostgres opens a pgx-backed database handle for dsn.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// NewPostgresSaver returns a saver writing through db.
func NewPostgresSaver(db *sql.DB) *PostgresSaver {
	return &PostgresSaver{db: db}
}

func (s *PostgresSaver) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	return s.schema.Do(func() error {
		_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS icon_exports (
    id SERIAL PRIMARY KEY,
    run_id TEXT NOT NULL,
    filename TEXT NOT NULL,
    content BYTEA NOT NULL DEFAULT ''::bytea,
    size BIGINT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    UNIQUE(run_id, filename)
);
CREATE INDEX IF NOT EXISTS idx_icon_exports_run_id ON icon_exports(run_id);
`)
		return err
	})
}

// Save upserts the document.
func (s *PostgresSaver) Save(ctx context.Context, runID, filename string, content []byte) (string, error) {
	runID, filename, err := checkKey(runID, filename)
	if err != nil {
		return "", err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return "", fmt.Errorf("ensure schema: %w", err)
	}
	if content == nil {
		content = []byte{}
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO icon_exports (run_id, filename, content, size, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (run_id, filename)
DO UPDATE SET content=EXCLUDED.content, size=EXCLUDED.size, updated_at=EXCLUDED.updated_at
`, runID, filename, content, int64(len(content)), time.Now())
	if err != nil {
		return "", fmt.Errorf("insert export: %w", err)
	}
	return fmt.Sprintf("postgres:icon_exports/%s", objectKey(runID, filename)), nil
}

// Get returns the document saved under runID and filename.
func (s *PostgresSaver) Get(ctx context.Context, runID, filename string) ([]byte, error) {
	runID, filename, err := checkKey(runID, filename)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	var content []byte
	err = s.db.QueryRowContext(ctx, `SELECT content FROM icon_exports WHERE run_id=$1 AND filename=$2`, runID, filename).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}
