// Package services owns the mutation path of the client: every change to the
// ledger goes through SettlementService, which serializes access to the store,
// records undo entries and fans the new snapshot out to disk, the mirror and
// the collaborator.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hvlab/settlement/internal/ledger"
	"github.com/hvlab/settlement/internal/logging"
)

// Collaborator is the presentation side of the client. It is notified after
// every store change and whenever the mirror status label changes. Callbacks
// arrive on service goroutines; implementations must not call back into the
// service from them.
type Collaborator interface {
	CurrentProject() string
	CurrentUser() string
	StoreChanged(snapshot map[string][]*ledger.LineItem)
	SyncStatusChanged(label string)
}

// Authorizer gates project deletion. Implementations decide how the operator
// proves intent (passphrase, retyped name); ErrNotAuthorized aborts the
// deletion without touching the store.
type Authorizer interface {
	AuthorizeProjectDelete(ctx context.Context, project string) error
}

// Persister is the slice of the persistence adapter the service needs.
type Persister interface {
	Load(ctx context.Context) map[string][]*ledger.LineItem
	Save(snapshot map[string][]*ledger.LineItem)
	Flush(ctx context.Context, snapshot map[string][]*ledger.LineItem) error
	WriteInFlight() bool
	WriteTo(path string, snapshot map[string][]*ledger.LineItem) error
}

// Mirror is the slice of the sync engine the service needs.
type Mirror interface {
	Start(ctx context.Context) error
	Push(snapshot map[string][]*ledger.LineItem)
	Stop()
}

type SettlementService interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error

	AddItem(ctx context.Context, project string, in ledger.ItemInput) (*ledger.LineItem, error)
	UpdateItem(ctx context.Context, project, id string, field ledger.Field, value string) (bool, error)
	SetMemo(ctx context.Context, project, id string, memo *ledger.Memo) error
	DeleteItems(ctx context.Context, project string, ids []string) (int, error)
	Undo(ctx context.Context) (ledger.ActionKind, bool)

	CreateProject(ctx context.Context, name string) error
	RenameProject(ctx context.Context, oldName, newName string) error
	DeleteProject(ctx context.Context, name string) error
	SortProject(project string, spec ledger.SortSpec)

	ProjectNames() []string
	Items(project string) []*ledger.LineItem
	Summary(project string) ledger.Summary
	ProcessSummary(project string) map[string]ledger.Summary
	Snapshot() map[string][]*ledger.LineItem

	ApplyRemote(projects map[string][]*ledger.LineItem)
	WriteInFlight() bool
	Backup(path string) error
}

type settlementService struct {
	store   *ledger.Store
	undo    *ledger.UndoLog
	persist Persister
	mirror  Mirror
	collab  Collaborator
	auth    Authorizer
	logger  logging.Logger

	mu sync.Mutex
}

func NewSettlementService(persist Persister, mirror Mirror, collab Collaborator,
	auth Authorizer, logger logging.Logger) SettlementService {
	return &settlementService{
		store:   ledger.NewStore(),
		undo:    ledger.NewUndoLog(ledger.UndoCapacity),
		persist: persist,
		mirror:  mirror,
		collab:  collab,
		auth:    auth,
		logger:  logger,
	}
}

// Start loads the local document into the store, announces it, then brings
// the mirror up. Mirror startup errors are not fatal: the store is already
// serving local data.
func (s *settlementService) Start(ctx context.Context) error {
	projects := s.persist.Load(ctx)

	s.mu.Lock()
	s.store.ReplaceAll(projects)
	snap := s.store.Snapshot()
	s.mu.Unlock()

	s.collab.StoreChanged(snap)

	if err := s.mirror.Start(ctx); err != nil {
		return fmt.Errorf("starting mirror: %w", err)
	}
	return nil
}

// Shutdown stops the mirror and writes the final state synchronously,
// including the shutdown backup.
func (s *settlementService) Shutdown(ctx context.Context) error {
	s.mirror.Stop()

	s.mu.Lock()
	snap := s.store.Snapshot()
	s.mu.Unlock()

	if err := s.persist.Flush(ctx, snap); err != nil {
		return fmt.Errorf("final save: %w", err)
	}
	return nil
}

// afterMutation fans the post-change snapshot out. Callers must not hold the
// service mutex.
func (s *settlementService) afterMutation(snap map[string][]*ledger.LineItem) {
	s.persist.Save(snap)
	s.mirror.Push(snap)
	s.collab.StoreChanged(snap)
}

func (s *settlementService) AddItem(ctx context.Context, project string, in ledger.ItemInput) (*ledger.LineItem, error) {
	if project == "" {
		return nil, ledger.ErrNoProjectSelected
	}
	if in.User == "" {
		in.User = s.collab.CurrentUser()
	}
	if in.User == "" {
		return nil, ledger.ErrNoUserSelected
	}
	if in.Date == "" {
		in.Date = ledger.Today().String()
	} else if _, err := ledger.ParseDate(in.Date); err != nil {
		return nil, ledger.ErrInvalidDate
	}

	it, err := ledger.NewLineItem(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := s.store.Append(project, it); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.undo.Push(ledger.UndoEntry{Project: project, Action: ledger.ActionAdd, ItemID: it.ID})
	snap := s.store.Snapshot()
	s.mu.Unlock()

	s.logger.Debug(ctx, "item added", "project", project, "id", it.ID, "total", it.TotalAmount)
	s.afterMutation(snap)
	return it, nil
}

// UpdateItem edits one field of an item. Invalid input leaves the item
// untouched and returns an error; an edit that does not change the item
// records nothing.
func (s *settlementService) UpdateItem(ctx context.Context, project, id string, field ledger.Field, value string) (bool, error) {
	s.mu.Lock()
	old, changed, err := s.store.UpdateField(project, id, field, value)
	if err != nil || !changed {
		s.mu.Unlock()
		return false, err
	}
	s.undo.Push(ledger.UndoEntry{Project: project, Action: ledger.ActionEdit, ItemID: id, OldItem: old})
	snap := s.store.Snapshot()
	s.mu.Unlock()

	s.logger.Debug(ctx, "item edited", "project", project, "id", id, "field", field.String())
	s.afterMutation(snap)
	return true, nil
}

func (s *settlementService) SetMemo(ctx context.Context, project, id string, memo *ledger.Memo) error {
	s.mu.Lock()
	it, _, ok := s.store.FindByID(project, id)
	if !ok {
		s.mu.Unlock()
		return ledger.ErrItemNotFound
	}
	old := it.Clone()
	if err := it.SetMemo(memo); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encoding memo: %w", err)
	}
	if it.Memo == old.Memo {
		s.mu.Unlock()
		return nil
	}
	s.undo.Push(ledger.UndoEntry{Project: project, Action: ledger.ActionEdit, ItemID: id, OldItem: old})
	snap := s.store.Snapshot()
	s.mu.Unlock()

	s.afterMutation(snap)
	return nil
}

func (s *settlementService) DeleteItems(ctx context.Context, project string, ids []string) (int, error) {
	s.mu.Lock()
	deleted, err := s.store.DeleteItems(project, ids)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.undo.Push(ledger.UndoEntry{Project: project, Action: ledger.ActionDelete, Deleted: deleted})
	snap := s.store.Snapshot()
	s.mu.Unlock()

	s.logger.Debug(ctx, "items deleted", "project", project, "count", len(deleted))
	s.afterMutation(snap)
	return len(deleted), nil
}

// Undo reverts the most recent recorded mutation. An empty log is a no-op.
func (s *settlementService) Undo(ctx context.Context) (ledger.ActionKind, bool) {
	s.mu.Lock()
	entry, ok := s.undo.Pop()
	if !ok {
		s.mu.Unlock()
		return 0, false
	}
	entry.Revert(s.store)
	snap := s.store.Snapshot()
	s.mu.Unlock()

	s.logger.Debug(ctx, "undo applied", "project", entry.Project, "action", entry.Action.String())
	s.afterMutation(snap)
	return entry.Action, true
}

// Project operations are not undoable.

func (s *settlementService) CreateProject(ctx context.Context, name string) error {
	s.mu.Lock()
	if err := s.store.CreateProject(name); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.store.Snapshot()
	s.mu.Unlock()

	s.afterMutation(snap)
	return nil
}

func (s *settlementService) RenameProject(ctx context.Context, oldName, newName string) error {
	s.mu.Lock()
	if err := s.store.RenameProject(oldName, newName); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.store.Snapshot()
	s.mu.Unlock()

	s.afterMutation(snap)
	return nil
}

func (s *settlementService) DeleteProject(ctx context.Context, name string) error {
	if s.auth != nil {
		if err := s.auth.AuthorizeProjectDelete(ctx, name); err != nil {
			if errors.Is(err, ledger.ErrNotAuthorized) {
				s.logger.Warn(ctx, "project deletion refused", "project", name)
			}
			return err
		}
	}

	s.mu.Lock()
	if err := s.store.DeleteProject(name); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.store.Snapshot()
	s.mu.Unlock()

	s.afterMutation(snap)
	return nil
}

// SortProject reorders a project's rows in place. Ordering is presentation
// state: it is announced but neither saved nor pushed.
func (s *settlementService) SortProject(project string, spec ledger.SortSpec) {
	s.mu.Lock()
	s.store.SortItems(project, spec)
	snap := s.store.Snapshot()
	s.mu.Unlock()

	s.collab.StoreChanged(snap)
}

func (s *settlementService) ProjectNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ProjectNames()
}

func (s *settlementService) Items(project string) []*ledger.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.store.Items(project)
	out := make([]*ledger.LineItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func (s *settlementService) Summary(project string) ledger.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Summary(project)
}

func (s *settlementService) ProcessSummary(project string) map[string]ledger.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ProcessSummary(project)
}

func (s *settlementService) Snapshot() map[string][]*ledger.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// ApplyRemote replaces the whole store with a remote document. The incoming
// data is already on the mirror, so it is announced but not saved back or
// re-pushed; the undo log is cleared because its entries refer to rows that
// may no longer exist.
func (s *settlementService) ApplyRemote(projects map[string][]*ledger.LineItem) {
	s.mu.Lock()
	s.store.ReplaceAll(projects)
	s.undo = ledger.NewUndoLog(ledger.UndoCapacity)
	snap := s.store.Snapshot()
	s.mu.Unlock()

	s.collab.StoreChanged(snap)
}

// WriteInFlight reports whether a debounced disk write is still pending.
func (s *settlementService) WriteInFlight() bool {
	return s.persist.WriteInFlight()
}

// Backup writes the current state to an operator-chosen path.
func (s *settlementService) Backup(path string) error {
	s.mu.Lock()
	snap := s.store.Snapshot()
	s.mu.Unlock()
	return s.persist.WriteTo(path, snap)
}
