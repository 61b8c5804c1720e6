package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/hvlab/settlement/internal/ledger"
)

var fieldNames = map[string]ledger.Field{
	"author":   ledger.FieldUser,
	"user":     ledger.FieldUser,
	"date":     ledger.FieldDate,
	"process":  ledger.FieldProcess,
	"name":     ledger.FieldName,
	"material": ledger.FieldMaterial,
	"labor":    ledger.FieldLabor,
}

// resolveID expands a (possibly shortened) item id to the full id of a
// unique match in the current project.
func (a *App) resolveID(project, id string) (string, error) {
	var match string
	for _, it := range a.svc.Items(project) {
		if it.ID == id {
			return it.ID, nil
		}
		if strings.HasPrefix(it.ID, id) {
			if match != "" {
				return "", fmt.Errorf("id %q is ambiguous", id)
			}
			match = it.ID
		}
	}
	if match == "" {
		return "", ledger.ErrItemNotFound
	}
	return match, nil
}

func (a *App) Edit(ctx context.Context, id, field, value string) error {
	project := a.CurrentProject()
	if project == "" {
		return ledger.ErrNoProjectSelected
	}

	f, ok := fieldNames[strings.ToLower(field)]
	if !ok {
		return fmt.Errorf("unknown field %q (author, date, process, name, material, labor)", field)
	}

	fullID, err := a.resolveID(project, id)
	if err != nil {
		return err
	}

	changed, err := a.svc.UpdateItem(ctx, project, fullID, f, value)
	if err != nil {
		return err
	}
	if !changed {
		printlnFn("No change.")
		return nil
	}
	printlnFn("Updated", shortID(fullID))
	return nil
}
