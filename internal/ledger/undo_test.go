package ledger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUndoAddRemovesExactlyOne(t *testing.T) {
	s := newTestStore(t)
	a := addTestItem(t, s, "Riverside 101", "a", 1000, 0)
	b := addTestItem(t, s, "Riverside 101", "b", 2000, 0)

	entry := UndoEntry{Project: "Riverside 101", Action: ActionAdd, ItemID: b.ID}
	entry.Revert(s)

	items := s.Items("Riverside 101")
	require.Len(t, items, 1)
	require.Equal(t, a.ID, items[0].ID)
}

func TestUndoDeleteRestoresOrder(t *testing.T) {
	s := newTestStore(t)
	var ids []string
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ids = append(ids, addTestItem(t, s, "Riverside 101", name, 1000, 0).ID)
	}

	captured, err := s.DeleteItems("Riverside 101", []string{ids[1], ids[3]})
	require.NoError(t, err)

	entry := UndoEntry{Project: "Riverside 101", Action: ActionDelete, Deleted: captured}
	entry.Revert(s)

	items := s.Items("Riverside 101")
	require.Len(t, items, 5)
	for i, want := range []string{"a", "b", "c", "d", "e"} {
		require.Equal(t, want, items[i].Name, "index %d", i)
	}
}

func TestUndoEditSwapsBackByID(t *testing.T) {
	s := newTestStore(t)
	it := addTestItem(t, s, "Riverside 101", "tiles", 100_000, 0)

	old, changed, err := s.UpdateField("Riverside 101", it.ID, FieldName, "marble")
	require.NoError(t, err)
	require.True(t, changed)

	entry := UndoEntry{Project: "Riverside 101", Action: ActionEdit, ItemID: it.ID, OldItem: old}
	entry.Revert(s)

	got, _, ok := s.FindByID("Riverside 101", it.ID)
	require.True(t, ok)
	require.Equal(t, "tiles", got.Name)
}

func TestUndoMissingProjectIsNoop(t *testing.T) {
	s := NewStore()
	entry := UndoEntry{Project: "gone", Action: ActionAdd, ItemID: "x"}
	require.NotPanics(t, func() { entry.Revert(s) })
}

func TestUndoLogCap(t *testing.T) {
	l := NewUndoLog(UndoCapacity)
	for i := 0; i < 25; i++ {
		l.Push(UndoEntry{Project: fmt.Sprintf("p%d", i), Action: ActionAdd})
	}
	require.Equal(t, 20, l.Len())

	// the most recent entry pops first; the five oldest were evicted
	e, ok := l.Pop()
	require.True(t, ok)
	require.Equal(t, "p24", e.Project)

	var last UndoEntry
	for {
		e, ok := l.Pop()
		if !ok {
			break
		}
		last = e
	}
	require.Equal(t, "p5", last.Project)
}

func TestUndoLogPopEmpty(t *testing.T) {
	l := NewUndoLog(0)
	_, ok := l.Pop()
	require.False(t, ok)
}
