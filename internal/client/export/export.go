// Package export writes project line items out as CSV or XLSX files for
// sharing outside the application.
package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/hvlab/settlement/internal/ledger"
)

var header = []string{"Author", "Date", "Process", "Name", "Material", "Labor", "VAT", "Total", "Memo"}

func row(it *ledger.LineItem) []string {
	return []string{
		it.User,
		it.Date,
		it.Process,
		it.Name,
		fmt.Sprintf("%d", it.MaterialAmount),
		fmt.Sprintf("%d", it.LaborAmount),
		fmt.Sprintf("%d", it.VATAmount),
		fmt.Sprintf("%d", it.TotalAmount),
		MemoText(it),
	}
}

// ToCSV writes one project's items to path, one row per item plus a trailing
// totals row.
func ToCSV(path string, items []*ledger.LineItem) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	for _, it := range items {
		if err := w.Write(row(it)); err != nil {
			return err
		}
	}

	sum := ledger.Summarize(items)
	total := []string{"", "", "", "Total",
		fmt.Sprintf("%d", sum.Material),
		fmt.Sprintf("%d", sum.Labor),
		fmt.Sprintf("%d", sum.VAT),
		fmt.Sprintf("%d", sum.Total),
		"",
	}
	if err := w.Write(total); err != nil {
		return err
	}

	return w.Error()
}
