package documents

import (
	"context"
	"sync"
	"time"
)

// InMemoryRepository keeps documents in a map. It backs tests and DSN-less
// demo runs; contents are lost on restart.
type InMemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{docs: make(map[string]*Document)}
}

func (r *InMemoryRepository) Get(_ context.Context, key string) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *doc
	cp.Body = append([]byte(nil), doc.Body...)
	return &cp, nil
}

func (r *InMemoryRepository) Put(_ context.Context, key string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[key] = &Document{
		Key:       key,
		Body:      append([]byte(nil), body...),
		UpdatedAt: time.Now(),
	}
	return nil
}
