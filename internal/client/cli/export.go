package cli

import (
	"context"
	"fmt"

	"github.com/hvlab/settlement/internal/client/export"
	"github.com/hvlab/settlement/internal/ledger"
)

func (a *App) Export(_ context.Context, format, path string) error {
	project := a.CurrentProject()
	if project == "" {
		return ledger.ErrNoProjectSelected
	}
	items := a.svc.Items(project)

	switch format {
	case "csv":
		if err := export.ToCSV(path, items); err != nil {
			return err
		}
	case "xlsx", "excel":
		if err := export.ToXLSX(path, project, items); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (csv, xlsx)", format)
	}

	printlnFn(fmt.Sprintf("Exported %d item(s) to %s", len(items), path))
	return nil
}

// Backup writes the whole document, all projects, to an operator-chosen path.
func (a *App) Backup(_ context.Context, path string) error {
	if err := a.svc.Backup(path); err != nil {
		return err
	}
	printlnFn("Backup written to", path)
	return nil
}
