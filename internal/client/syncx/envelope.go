// Package syncx mirrors the ledger store to a shared remote document and
// feeds remote edits back, resolving concurrency by whole-document
// last-writer-wins. Two clients writing within the same echo window can still
// overwrite each other; that limitation is part of the protocol, not a bug in
// this package (see DESIGN.md).
package syncx

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hvlab/settlement/internal/ledger"
)

// MetadataKey is the reserved top-level key carrying envelope metadata.
// It is never a project name.
const MetadataKey = "_metadata"

// Metadata identifies who wrote a document and when. It exists purely for
// echo suppression and is not part of the domain model.
type Metadata struct {
	LastUpdated string  `json:"last_updated"`
	SessionID   string  `json:"session_id"`
	UpdateTime  float64 `json:"update_time"`
}

// Envelope is the wire form of the whole store: project keys at the top
// level plus the metadata block.
type Envelope struct {
	Projects map[string][]*ledger.LineItem
	Metadata *Metadata
}

// NewMetadata stamps an envelope for a write from the given session.
func NewMetadata(sessionID string, now time.Time) *Metadata {
	return &Metadata{
		LastUpdated: now.Format(time.RFC3339),
		SessionID:   sessionID,
		UpdateTime:  float64(now.UnixNano()) / float64(time.Second),
	}
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(e.Projects)+1)
	for name, items := range e.Projects {
		b, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("encoding project %q: %w", name, err)
		}
		doc[name] = b
	}
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, err
		}
		doc[MetadataKey] = b
	}
	return json.Marshal(doc)
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	if raw, ok := doc[MetadataKey]; ok {
		var md Metadata
		if err := json.Unmarshal(raw, &md); err != nil {
			return fmt.Errorf("decoding %s: %w", MetadataKey, err)
		}
		e.Metadata = &md
		delete(doc, MetadataKey)
	}

	e.Projects = make(map[string][]*ledger.LineItem, len(doc))
	for name, raw := range doc {
		var items []*ledger.LineItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decoding project %q: %w", name, err)
		}
		e.Projects[name] = items
	}
	return nil
}

// Empty reports whether the envelope carries no project data.
func (e *Envelope) Empty() bool {
	return e == nil || len(e.Projects) == 0
}
