package cli

import (
	"context"
	"fmt"

	"github.com/hvlab/settlement/internal/ledger"
)

func (a *App) Delete(ctx context.Context, ids []string) error {
	project := a.CurrentProject()
	if project == "" {
		return ledger.ErrNoProjectSelected
	}

	full := make([]string, 0, len(ids))
	for _, id := range ids {
		fullID, err := a.resolveID(project, id)
		if err != nil {
			return err
		}
		full = append(full, fullID)
	}

	n, err := a.svc.DeleteItems(ctx, project, full)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Deleted %d item(s). Type 'undo' to restore.", n))
	return nil
}

func (a *App) Undo(ctx context.Context) error {
	action, ok := a.svc.Undo(ctx)
	if !ok {
		printlnFn("Nothing to undo.")
		return nil
	}
	printlnFn("Undid", action.String())
	return nil
}
