package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultKey is the single document all settlement clients share.
const DefaultKey = "settlement_data"

var ErrInvalidBody = errors.New("body is not a JSON object")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Load returns the shared document body, or nil when nothing has been stored
// yet.
func (s *Service) Load(ctx context.Context) ([]byte, error) {
	doc, err := s.repo.Get(ctx, DefaultKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return doc.Body, nil
}

// Store replaces the shared document. The body must be a JSON object; the
// server does not interpret its keys beyond that.
func (s *Service) Store(ctx context.Context, body []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return ErrInvalidBody
	}

	if err := s.repo.Put(ctx, DefaultKey, body); err != nil {
		return fmt.Errorf("storing document: %w", err)
	}
	return nil
}
