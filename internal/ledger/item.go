// Package ledger is the single source of truth for settlement data: projects,
// their line items, derived VAT/total computation, ordering and the undo log.
// It holds no I/O; persistence and synchronization consume snapshots of it.
package ledger

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// NamePlaceholder is stored when an item is created or edited with an empty name.
const NamePlaceholder = "-"

// DateFormat is the wire format for item dates.
const DateFormat = "2006-01-02"

// LineItem is a single expense entry. Field names and formats follow the
// document format shared with existing clients, so they must not change.
//
// MaterialAmount and LaborAmount hold net amounts when VATIncluded is true
// (the gross input is split at creation time), and the raw inputs otherwise.
// VATAmount and TotalAmount are derived and never edited directly.
type LineItem struct {
	ID             string `json:"id"`
	User           string `json:"user"`
	Date           string `json:"date"`
	Process        string `json:"process"`
	Name           string `json:"name"`
	MaterialAmount int64  `json:"material_amount"`
	LaborAmount    int64  `json:"labor_amount"`
	VATIncluded    bool   `json:"vat_included"`
	VATAmount      int64  `json:"vat_amount"`
	TotalAmount    int64  `json:"total_amount"`
	Memo           string `json:"memo"`
	CreatedAt      string `json:"created_at"`
}

// Memo is the structured payload serialized into LineItem.Memo. Images map an
// embedded-image reference to its base64-encoded bytes.
type Memo struct {
	HTML   string            `json:"html"`
	Images map[string]string `json:"images"`
}

// ItemInput carries the user-entered fields for a new line item.
// Material and Labor are the raw (VAT-inclusive, when VATIncluded is set)
// amounts in whole won.
type ItemInput struct {
	User        string `validate:"required"`
	Date        string
	Process     string
	Name        string
	Material    int64 `validate:"gte=0"`
	Labor       int64 `validate:"gte=0"`
	VATIncluded bool
}

var validate = validator.New()

// NewLineItem validates the input and builds a line item with a fresh id,
// the VAT split applied and the creation timestamp set.
func NewLineItem(in ItemInput) (*LineItem, error) {
	if err := validate.Struct(in); err != nil {
		return nil, ErrInvalidAmount
	}

	name := in.Name
	if name == "" {
		name = NamePlaceholder
	}

	materialNet, laborNet, vat, total := SplitVAT(in.Material, in.Labor, in.VATIncluded)

	return &LineItem{
		ID:             uuid.NewString(),
		User:           in.User,
		Date:           in.Date,
		Process:        in.Process,
		Name:           name,
		MaterialAmount: materialNet,
		LaborAmount:    laborNet,
		VATIncluded:    in.VATIncluded,
		VATAmount:      vat,
		TotalAmount:    total,
		CreatedAt:      time.Now().Format(time.RFC3339),
	}, nil
}

// Clone returns an independent copy of the item.
func (it *LineItem) Clone() *LineItem {
	c := *it
	return &c
}

// HasMemo reports whether the item carries a non-empty memo payload.
func (it *LineItem) HasMemo() bool { return it.Memo != "" }

// SetMemo serializes m into the item. A nil memo clears it.
func (it *LineItem) SetMemo(m *Memo) error {
	if m == nil || (m.HTML == "" && len(m.Images) == 0) {
		it.Memo = ""
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	it.Memo = string(b)
	return nil
}

// GetMemo deserializes the memo payload. Absent or empty memo returns nil.
func (it *LineItem) GetMemo() (*Memo, error) {
	if it.Memo == "" {
		return nil, nil
	}
	var m Memo
	if err := json.Unmarshal([]byte(it.Memo), &m); err != nil {
		return nil, err
	}
	return &m, nil
}
