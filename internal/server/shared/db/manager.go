// Package db wires repositories to their storage backend.
package db

import (
	"context"
	"database/sql"

	"github.com/hvlab/settlement/internal/server/documents"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Documents() documents.Repository
}
