// Package cli is the terminal front end: a REPL over the settlement service
// plus the wiring that assembles persistence, the sync engine and the service
// into a running client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hvlab/settlement/internal/client/config"
	"github.com/hvlab/settlement/internal/client/persistence"
	"github.com/hvlab/settlement/internal/client/services"
	"github.com/hvlab/settlement/internal/client/syncx"
	"github.com/hvlab/settlement/internal/ledger"
	"github.com/hvlab/settlement/internal/logging"
)

type App struct {
	config *config.Config
	svc    services.SettlementService
	engine *syncx.Engine
	logger logging.Logger
	reader *bufio.Reader

	mu             sync.Mutex
	currentProject string
	currentUser    string
	syncStatus     string
	sortSpec       ledger.SortSpec
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewDefault()

	a := &App{
		config:     c,
		logger:     logger,
		reader:     bufio.NewReader(os.Stdin),
		syncStatus: syncx.StatusOffline,
		sortSpec:   ledger.DefaultSort,
	}

	popts := []persistence.Option{persistence.WithRetention(c.BackupRetention)}
	if c.S3BackupBucket != "" {
		archiver, err := persistence.NewS3Archiver(ctx, c.S3BackupBucket)
		if err != nil {
			return nil, fmt.Errorf("initializing backup archiver: %w", err)
		}
		popts = append(popts, persistence.WithArchiver(archiver))
	}
	persist := persistence.New(c.DataFile, c.BackupDir, logger, popts...)

	transport := syncx.NewHTTPTransport(c.ServerEndpointAddr, c.AccessKey)
	a.engine = syncx.New(transport,
		func(projects map[string][]*ledger.LineItem) { a.svc.ApplyRemote(projects) },
		a.SyncStatusChanged,
		func() map[string][]*ledger.LineItem { return a.svc.Snapshot() },
		logger,
		syncx.WithIntervals(syncx.PushDebounce, syncx.EchoWindow, c.ReconnectInterval))

	a.svc = services.NewSettlementService(persist, a.engine, a, newDeleteGate(a, c.DeleteGateHash), logger)
	return a, nil
}

// Run starts the service, hands control to the REPL and shuts down cleanly
// when it returns.
func (a *App) Run(ctx context.Context) error {
	if err := a.svc.Start(ctx); err != nil {
		return err
	}

	runREPL(ctx, a, a.prompt, bufio.NewScanner(os.Stdin))

	if err := a.svc.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) prompt() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	project := a.currentProject
	if project == "" {
		project = "(no project)"
	}
	return fmt.Sprintf("%s [%s]", project, a.syncStatus)
}

// CurrentProject returns the project the operator is working in.
func (a *App) CurrentProject() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentProject
}

// CurrentUser returns the author name used for new items.
func (a *App) CurrentUser() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentUser
}

// StoreChanged keeps the current project selection valid: when the selected
// project disappears (remote replace, deletion) the selection is cleared
// rather than pointing at a ghost.
func (a *App) StoreChanged(snapshot map[string][]*ledger.LineItem) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.currentProject == "" {
		return
	}
	if _, ok := snapshot[a.currentProject]; !ok {
		a.currentProject = ""
	}
}

// SyncStatusChanged records the mirror status label shown in the prompt.
func (a *App) SyncStatusChanged(label string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.syncStatus = label
}

// setProject switches the selection and re-applies the default ordering, so
// the first listing after a switch shows newest entries first.
func (a *App) setProject(name string) {
	a.mu.Lock()
	a.currentProject = name
	a.sortSpec = ledger.DefaultSort
	a.mu.Unlock()
	a.svc.SortProject(name, ledger.DefaultSort)
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.currentUser = name
}

func (a *App) hasProject() bool { return a.CurrentProject() != "" }
