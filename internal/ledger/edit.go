package ledger

import (
	"strconv"
	"strings"
)

// Field identifies an editable line-item column. Edits dispatch on this tag,
// never on display text.
type Field int

const (
	FieldUser Field = iota
	FieldDate
	FieldProcess
	FieldName
	FieldMaterial
	FieldLabor
	FieldMemo
)

func (f Field) String() string {
	switch f {
	case FieldUser:
		return "user"
	case FieldDate:
		return "date"
	case FieldProcess:
		return "process"
	case FieldName:
		return "name"
	case FieldMaterial:
		return "material"
	case FieldLabor:
		return "labor"
	case FieldMemo:
		return "memo"
	}
	return "unknown"
}

// parseAmount turns user-entered text into a whole amount. Thousands
// separators are tolerated, empty text means zero, and negative input clamps
// to zero. Anything else is rejected.
func parseAmount(text string) (int64, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if text == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, ErrAmountNotANumber
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

// UpdateField applies a single-field edit to an item. Invalid input leaves
// the item untouched and returns a rejection error the caller can surface as
// a warning; the prior value stays in place. Amount edits recompute the
// derived VAT/total fields. The returned old item is a copy taken before the
// edit, and changed reports whether anything actually differs.
func (s *Store) UpdateField(project, id string, field Field, value string) (old *LineItem, changed bool, err error) {
	it, _, ok := s.FindByID(project, id)
	if !ok {
		return nil, false, ErrItemNotFound
	}

	old = it.Clone()

	switch field {
	case FieldUser:
		v := strings.TrimSpace(value)
		if v != "" {
			it.User = v
		}
	case FieldDate:
		d, perr := ParseDate(strings.TrimSpace(value))
		if perr != nil {
			return old, false, ErrInvalidDate
		}
		it.Date = d.String()
	case FieldProcess:
		it.Process = strings.TrimSpace(value)
	case FieldName:
		v := strings.TrimSpace(value)
		if v == "" {
			v = NamePlaceholder
		}
		it.Name = v
	case FieldMaterial:
		n, perr := parseAmount(value)
		if perr != nil {
			return old, false, perr
		}
		it.MaterialAmount = n
		RecalcTotals(it)
	case FieldLabor:
		n, perr := parseAmount(value)
		if perr != nil {
			return old, false, perr
		}
		it.LaborAmount = n
		RecalcTotals(it)
	case FieldMemo:
		it.Memo = value
	}

	return old, *old != *it, nil
}
