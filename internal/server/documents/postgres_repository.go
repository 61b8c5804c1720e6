package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Get(ctx context.Context, key string) (*Document, error) {

	query :=
		`SELECT key, body, updated_at FROM documents WHERE key = $1`

	doc := &Document{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(&doc.Key, &doc.Body, &doc.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return doc, nil
}

func (r *PostgresRepository) Put(ctx context.Context, key string, body []byte) error {

	query :=
		`INSERT INTO documents (key, body, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, key, body); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}
