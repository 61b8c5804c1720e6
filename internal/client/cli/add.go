package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hvlab/settlement/internal/ledger"
)

func (a *App) Add(ctx context.Context) error {
	project := a.CurrentProject()
	if project == "" {
		return ledger.ErrNoProjectSelected
	}

	date, err := GetSimpleText(a.reader, fmt.Sprintf("Date [%s]", ledger.Today()))
	if err != nil {
		return err
	}
	process, err := GetSimpleText(a.reader, "Process ("+strings.Join(ledger.KnownProcesses[:5], ", ")+", ...)")
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Item name")
	if err != nil {
		return err
	}
	material, err := readAmount(a, "Material amount")
	if err != nil {
		return err
	}
	labor, err := readAmount(a, "Labor amount")
	if err != nil {
		return err
	}
	vatAnswer, err := GetSimpleText(a.reader, "VAT included? [y/N]")
	if err != nil {
		return err
	}

	it, err := a.svc.AddItem(ctx, project, ledger.ItemInput{
		Date:        date,
		Process:     process,
		Name:        name,
		Material:    material,
		Labor:       labor,
		VATIncluded: strings.EqualFold(vatAnswer, "y") || strings.EqualFold(vatAnswer, "yes"),
	})
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Added %s: %s %s (total %d)", shortID(it.ID), it.Date, it.Name, it.TotalAmount))
	return nil
}

func readAmount(a *App, prompt string) (int64, error) {
	text, err := GetSimpleText(a.reader, prompt)
	if err != nil {
		return 0, err
	}
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, ledger.ErrAmountNotANumber
	}
	if n < 0 {
		return 0, ledger.ErrInvalidAmount
	}
	return n, nil
}

// shortID shows the leading segment of a uuid, enough to address an item in
// the table.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
