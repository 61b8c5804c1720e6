package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hvlab/settlement/internal/ledger"
)

var columnNames = map[string]ledger.Column{
	"author":   ledger.ColumnUser,
	"user":     ledger.ColumnUser,
	"date":     ledger.ColumnDate,
	"process":  ledger.ColumnProcess,
	"name":     ledger.ColumnName,
	"material": ledger.ColumnMaterial,
	"labor":    ledger.ColumnLabor,
	"vat":      ledger.ColumnVAT,
	"total":    ledger.ColumnTotal,
}

func (a *App) List(_ context.Context) error {
	project := a.CurrentProject()
	if project == "" {
		return ledger.ErrNoProjectSelected
	}

	items := a.svc.Items(project)
	if len(items) == 0 {
		printlnFn("No items.")
		return nil
	}

	printlnFn(fmt.Sprintf("%-9s %-10s %-16s %-12s %-14s %10s %10s %9s %10s %s",
		"ID", "Author", "Date", "Process", "Name", "Material", "Labor", "VAT", "Total", ""))
	for _, it := range items {
		memoMark := ""
		if it.HasMemo() {
			memoMark = "M"
		}
		printlnFn(fmt.Sprintf("%-9s %-10s %-16s %-12s %-14s %10d %10d %9d %10d %s",
			shortID(it.ID), it.User, ledger.WithWeekday(it.Date), it.Process, it.Name,
			it.MaterialAmount, it.LaborAmount, it.VATAmount, it.TotalAmount, memoMark))
	}
	return nil
}

func (a *App) Summary(_ context.Context) error {
	project := a.CurrentProject()
	if project == "" {
		return ledger.ErrNoProjectSelected
	}

	sum := a.svc.Summary(project)
	printlnFn(fmt.Sprintf("Material %d  Labor %d  VAT %d  Total %d",
		sum.Material, sum.Labor, sum.VAT, sum.Total))

	byProcess := a.svc.ProcessSummary(project)
	processes := make([]string, 0, len(byProcess))
	for p := range byProcess {
		processes = append(processes, p)
	}
	sort.Strings(processes)
	for _, p := range processes {
		s := byProcess[p]
		label := p
		if label == "" {
			label = "(none)"
		}
		printlnFn(fmt.Sprintf("  %-14s %d", label, s.Total))
	}
	return nil
}

// Sort toggles ordering on the named column: repeating the same column flips
// the direction.
func (a *App) Sort(_ context.Context, column string) error {
	project := a.CurrentProject()
	if project == "" {
		return ledger.ErrNoProjectSelected
	}

	col, ok := columnNames[strings.ToLower(column)]
	if !ok {
		return fmt.Errorf("unknown column %q", column)
	}

	a.mu.Lock()
	a.sortSpec = a.sortSpec.Toggle(col)
	spec := a.sortSpec
	a.mu.Unlock()

	a.svc.SortProject(project, spec)
	return nil
}
