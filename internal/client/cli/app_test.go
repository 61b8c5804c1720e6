package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hvlab/settlement/internal/client/services"
	"github.com/hvlab/settlement/internal/ledger"
	"github.com/hvlab/settlement/internal/logging"
)

type stubPersister struct{}

func (stubPersister) Load(context.Context) map[string][]*ledger.LineItem { return nil }
func (stubPersister) Save(map[string][]*ledger.LineItem)                 {}
func (stubPersister) Flush(context.Context, map[string][]*ledger.LineItem) error {
	return nil
}
func (stubPersister) WriteInFlight() bool { return false }
func (stubPersister) WriteTo(string, map[string][]*ledger.LineItem) error {
	return nil
}

type stubMirror struct{}

func (stubMirror) Start(context.Context) error        { return nil }
func (stubMirror) Push(map[string][]*ledger.LineItem) {}
func (stubMirror) Stop()                              {}

// newWiredApp builds an App over the real settlement service, the way NewApp
// does, but with in-memory stand-ins for disk and network.
func newWiredApp(t *testing.T) *App {
	t.Helper()
	a := &App{
		logger:   logging.NewDefault(),
		reader:   bufio.NewReader(strings.NewReader("")),
		sortSpec: ledger.DefaultSort,
	}
	a.svc = services.NewSettlementService(stubPersister{}, stubMirror{}, a, nil, a.logger)
	require.NoError(t, a.svc.Start(context.Background()))
	return a
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	var lines []string
	printlnFn = func(args ...any) (int, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = fmt.Sprint(arg)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func addDatedItem(t *testing.T, a *App, project, date string) {
	t.Helper()
	_, err := a.svc.AddItem(context.Background(), project, ledger.ItemInput{
		Date: date, Name: date, Material: 1000,
	})
	require.NoError(t, err)
}

func TestUseAppliesDefaultDateDescendingSort(t *testing.T) {
	a := newWiredApp(t)
	silencePrintln(t)
	a.setUser("Kim")
	require.NoError(t, a.svc.CreateProject(context.Background(), "Riverside 101"))

	addDatedItem(t, a, "Riverside 101", "2025-01-01")
	addDatedItem(t, a, "Riverside 101", "2025-06-01")
	addDatedItem(t, a, "Riverside 101", "2025-12-01")

	require.NoError(t, a.Use(context.Background(), "Riverside 101"))

	lines := capturePrintln(t)
	require.NoError(t, a.List(context.Background()))

	var dates []string
	for _, line := range (*lines)[1:] {
		for _, d := range []string{"2025-01-01", "2025-06-01", "2025-12-01"} {
			if strings.Contains(line, d) {
				dates = append(dates, d)
			}
		}
	}
	require.Equal(t, []string{"2025-12-01", "2025-06-01", "2025-01-01"}, dates)
}

func TestNewProjectAppliesDefaultSort(t *testing.T) {
	a := newWiredApp(t)
	silencePrintln(t)
	a.setUser("Kim")

	require.NoError(t, a.NewProject(context.Background(), "Hillside 202"))
	require.Equal(t, "Hillside 202", a.CurrentProject())

	a.mu.Lock()
	spec := a.sortSpec
	a.mu.Unlock()
	require.Equal(t, ledger.DefaultSort, spec)
}

func TestListShowsWeekdaySuffix(t *testing.T) {
	a := newWiredApp(t)
	silencePrintln(t)
	a.setUser("Kim")
	require.NoError(t, a.svc.CreateProject(context.Background(), "Riverside 101"))
	addDatedItem(t, a, "Riverside 101", "2025-12-01")

	require.NoError(t, a.Use(context.Background(), "Riverside 101"))

	lines := capturePrintln(t)
	require.NoError(t, a.List(context.Background()))

	require.Len(t, *lines, 2)
	require.Contains(t, (*lines)[1], "2025-12-01 (Mon)")
}
