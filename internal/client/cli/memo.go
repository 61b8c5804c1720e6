package cli

import (
	"context"
	"html"
	"strings"

	"github.com/hvlab/settlement/internal/ledger"
)

// Memo shows an item's memo and optionally replaces its text. The memo is
// stored as markup so other clients render it; text entered here is kept as
// a single paragraph.
func (a *App) Memo(ctx context.Context, id string) error {
	project := a.CurrentProject()
	if project == "" {
		return ledger.ErrNoProjectSelected
	}

	fullID, err := a.resolveID(project, id)
	if err != nil {
		return err
	}

	var current *ledger.LineItem
	for _, it := range a.svc.Items(project) {
		if it.ID == fullID {
			current = it
			break
		}
	}
	if current == nil {
		return ledger.ErrItemNotFound
	}

	if current.HasMemo() {
		m, err := current.GetMemo()
		if err != nil {
			return err
		}
		printlnFn("Current memo:")
		printlnFn(m.HTML)
	} else {
		printlnFn("No memo yet.")
	}

	text, err := GetMultiline(a.reader, "New memo text (leave empty to keep)")
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	body := strings.ReplaceAll(html.EscapeString(text), "\n", "<br/>")
	memo := &ledger.Memo{HTML: "<p>" + body + "</p>"}
	return a.svc.SetMemo(ctx, project, fullID, memo)
}
