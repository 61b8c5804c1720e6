package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hvlab/settlement/internal/ledger"
)

// SheetName sanitizes a project name into a legal worksheet name: the
// characters excel forbids are replaced and the result is capped at 31 runes.
func SheetName(project string) string {
	r := strings.NewReplacer(`\`, "-", `/`, "-", `*`, "-", `?`, "-", `:`, "-", `[`, "(", `]`, ")")
	name := r.Replace(project)
	if name == "" {
		name = "Sheet1"
	}
	runes := []rune(name)
	if len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}

// ToXLSX writes one project's items to an xlsx workbook at path. Layout
// mirrors ToCSV: a header row, one row per item, a totals row.
func ToXLSX(path, project string, items []*ledger.LineItem) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(project)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	writeRow := func(rowNum int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := writeRow(1, hdr); err != nil {
		return err
	}

	for i, it := range items {
		vals := []any{
			it.User, it.Date, it.Process, it.Name,
			it.MaterialAmount, it.LaborAmount, it.VATAmount, it.TotalAmount,
			MemoText(it),
		}
		if err := writeRow(i+2, vals); err != nil {
			return err
		}
	}

	sum := ledger.Summarize(items)
	totals := []any{"", "", "", "Total", sum.Material, sum.Labor, sum.VAT, sum.Total, ""}
	if err := writeRow(len(items)+2, totals); err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "A", "I", 14); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
