package db

import (
	"context"
	"database/sql"

	"github.com/hvlab/settlement/internal/server/documents"
)

type InMemoryRepositoryManager struct {
	documents documents.Repository
}

func (m InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m InMemoryRepositoryManager) Documents() documents.Repository {
	return m.documents
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return InMemoryRepositoryManager{documents: documents.NewInMemoryRepository()}
}
