package ledger

import "time"

// UndoCapacity bounds the history; the oldest entry is evicted first.
const UndoCapacity = 20

// ActionKind tags what a mutation did, so its inverse can be applied.
type ActionKind int

const (
	ActionAdd ActionKind = iota
	ActionDelete
	ActionEdit
)

func (a ActionKind) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionDelete:
		return "delete"
	case ActionEdit:
		return "edit"
	}
	return "unknown"
}

// UndoEntry records the inverse of one successful mutation. Items are
// referenced by their immutable id, not by value, so duplicate-valued rows
// cannot be confused.
type UndoEntry struct {
	Project   string
	Action    ActionKind
	ItemID    string        // add, edit: the affected item's id
	Deleted   []DeletedItem // delete: {index, item} pairs in ascending index order
	OldItem   *LineItem     // edit: the pre-edit state
	Timestamp time.Time
}

// UndoLog is a bounded LIFO over undo entries. Undo itself is not recorded;
// there is no redo.
type UndoLog struct {
	entries  []UndoEntry
	capacity int
}

func NewUndoLog(capacity int) *UndoLog {
	if capacity <= 0 {
		capacity = UndoCapacity
	}
	return &UndoLog{capacity: capacity}
}

func (l *UndoLog) Len() int { return len(l.entries) }

// Push records an entry, evicting the oldest when over capacity.
func (l *UndoLog) Push(e UndoEntry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	l.entries = append(l.entries, e)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[1:]
	}
}

// Pop removes and returns the most recent entry.
func (l *UndoLog) Pop() (UndoEntry, bool) {
	if len(l.entries) == 0 {
		return UndoEntry{}, false
	}
	e := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	return e, true
}

// Revert applies the inverse of the recorded mutation to the store.
//   - add: the item is removed again.
//   - delete: every captured item is reinserted at its original index, in
//     ascending index order, restoring the original list exactly.
//   - edit: the current item with the recorded id is swapped back for the
//     pre-edit copy.
//
// A project that no longer exists makes the entry a no-op rather than an
// error: a concurrent remote replace may have dropped it.
func (e UndoEntry) Revert(s *Store) {
	if !s.HasProject(e.Project) {
		return
	}
	switch e.Action {
	case ActionAdd:
		s.RemoveByID(e.Project, e.ItemID)
	case ActionDelete:
		for _, d := range e.Deleted {
			s.InsertAt(e.Project, d.Index, d.Item.Clone())
		}
	case ActionEdit:
		s.ReplaceItem(e.Project, e.ItemID, e.OldItem.Clone())
	}
}
