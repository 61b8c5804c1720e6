package cli

import (
	"context"
	"fmt"

	"github.com/hvlab/settlement/internal/ledger"
)

func (a *App) SetUser(_ context.Context, name string) {
	a.setUser(name)
	printlnFn("Author set to", name)
}

func (a *App) Projects(_ context.Context) {
	names := a.svc.ProjectNames()
	if len(names) == 0 {
		printlnFn("No projects yet. Create one with: newproj <name>")
		return
	}
	current := a.CurrentProject()
	for _, name := range names {
		marker := "  "
		if name == current {
			marker = "* "
		}
		printlnFn(marker + name)
	}
}

func (a *App) Use(_ context.Context, name string) error {
	for _, n := range a.svc.ProjectNames() {
		if n == name {
			a.setProject(name)
			return nil
		}
	}
	return ledger.ErrProjectNotFound
}

func (a *App) NewProject(ctx context.Context, name string) error {
	if err := a.svc.CreateProject(ctx, name); err != nil {
		return err
	}
	a.setProject(name)
	return nil
}

func (a *App) Rename(ctx context.Context, newName string) error {
	project := a.CurrentProject()
	if project == "" {
		return ledger.ErrNoProjectSelected
	}
	if err := a.svc.RenameProject(ctx, project, newName); err != nil {
		return err
	}
	a.setProject(newName)
	return nil
}

func (a *App) DeleteCurrentProject(ctx context.Context) error {
	project := a.CurrentProject()
	if project == "" {
		return ledger.ErrNoProjectSelected
	}
	return a.svc.DeleteProject(ctx, project)
}

func (a *App) Status(_ context.Context) {
	a.mu.Lock()
	status := a.syncStatus
	user := a.currentUser
	a.mu.Unlock()

	printlnFn("Sync:", status)
	if user != "" {
		printlnFn("Author:", user)
	}
	if a.svc.WriteInFlight() {
		printlnFn("A local save is still pending.")
	}
	printlnFn(fmt.Sprintf("Projects: %d", len(a.svc.ProjectNames())))
}
