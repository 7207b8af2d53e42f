package pgstore

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/document"
)

// Backend stores the document as one jsonb row of the `documents` table.
type Backend struct {
	db   *sqlx.DB
	name string
}

var _ document.Backend = (*Backend)(nil)

func New(db *sqlx.DB, name string) *Backend {
	return &Backend{db: db, name: name}
}

func (b *Backend) Name() string { return "postgres" }

func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	var body []byte
	err := b.db.GetContext(ctx, &body, `SELECT body FROM documents WHERE name = $1`, b.name)
	if err == sql.ErrNoRows {
		return nil, document.ErrNoDocument
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting document")
	}
	return body, nil
}

func (b *Backend) Write(ctx context.Context, data []byte) error {
	const q = `
		INSERT INTO documents (name, body, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`
	if _, err := b.db.ExecContext(ctx, q, b.name, string(data)); err != nil {
		return errors.Wrap(err, "upserting document")
	}
	return nil
}

// Delete removes the stored document.
func (b *Backend) Delete(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM documents WHERE name = $1`, b.name); err != nil {
		return errors.Wrap(err, "deleting document")
	}
	return nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}
