// Package documents stores the shared settlement document. The mirror holds
// whole documents keyed by name; clients replace them wholesale.
package documents

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Document is one stored document revision.
type Document struct {
	Key       string
	Body      []byte
	UpdatedAt time.Time
}

type Repository interface {
	Get(ctx context.Context, key string) (*Document, error)
	Put(ctx context.Context, key string, body []byte) error
}
