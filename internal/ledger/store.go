package ledger

import "sort"

// Store owns the project → line-item mapping. It is a plain in-memory
// container: not safe for concurrent use, and mutated from a single owning
// context (the settlement service).
type Store struct {
	projects map[string][]*LineItem
}

// DeletedItem captures a removed item together with its original position so
// an undo can reinsert it exactly where it was.
type DeletedItem struct {
	Index int
	Item  *LineItem
}

func NewStore() *Store {
	return &Store{projects: make(map[string][]*LineItem)}
}

// ProjectNames returns all project keys in lexical order.
func (s *Store) ProjectNames() []string {
	names := make([]string, 0, len(s.projects))
	for name := range s.projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) HasProject(name string) bool {
	_, ok := s.projects[name]
	return ok
}

// Items returns the live item slice of a project. Callers must not retain it
// across mutations.
func (s *Store) Items(project string) []*LineItem {
	return s.projects[project]
}

func (s *Store) CreateProject(name string) error {
	if _, ok := s.projects[name]; ok {
		return ErrProjectExists
	}
	s.projects[name] = []*LineItem{}
	return nil
}

func (s *Store) DeleteProject(name string) error {
	if _, ok := s.projects[name]; !ok {
		return ErrProjectNotFound
	}
	delete(s.projects, name)
	return nil
}

// RenameProject moves the item list under the new key. The caller is
// responsible for repointing its current-project selection.
func (s *Store) RenameProject(oldName, newName string) error {
	items, ok := s.projects[oldName]
	if !ok {
		return ErrProjectNotFound
	}
	if _, exists := s.projects[newName]; exists {
		return ErrProjectExists
	}
	s.projects[newName] = items
	delete(s.projects, oldName)
	return nil
}

func (s *Store) Append(project string, it *LineItem) error {
	if _, ok := s.projects[project]; !ok {
		return ErrProjectNotFound
	}
	s.projects[project] = append(s.projects[project], it)
	return nil
}

// InsertAt reinserts an item at its original index, clamping to the current
// list bounds.
func (s *Store) InsertAt(project string, index int, it *LineItem) {
	items := s.projects[project]
	if index < 0 {
		index = 0
	}
	if index > len(items) {
		index = len(items)
	}
	items = append(items, nil)
	copy(items[index+1:], items[index:])
	items[index] = it
	s.projects[project] = items
}

// FindByID locates an item within a project by its immutable id.
func (s *Store) FindByID(project, id string) (*LineItem, int, bool) {
	for i, it := range s.projects[project] {
		if it.ID == id {
			return it, i, true
		}
	}
	return nil, -1, false
}

// RemoveByID removes an item by id and returns it with its former index.
func (s *Store) RemoveByID(project, id string) (*LineItem, int, bool) {
	items := s.projects[project]
	for i, it := range items {
		if it.ID == id {
			s.projects[project] = append(items[:i], items[i+1:]...)
			return it, i, true
		}
	}
	return nil, -1, false
}

// ReplaceItem swaps the item with the given id for the provided one, keeping
// its position. Used by edit-undo.
func (s *Store) ReplaceItem(project, id string, it *LineItem) bool {
	for i, cur := range s.projects[project] {
		if cur.ID == id {
			s.projects[project][i] = it
			return true
		}
	}
	return false
}

// DeleteItems removes the given ids from a project. Removed items are
// captured with their indices in ascending index order before anything is
// deleted, and the removal itself runs in descending index order so earlier
// removals do not shift later indices.
func (s *Store) DeleteItems(project string, ids []string) ([]DeletedItem, error) {
	items, ok := s.projects[project]
	if !ok {
		return nil, ErrProjectNotFound
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var captured []DeletedItem
	for i, it := range items {
		if _, ok := wanted[it.ID]; ok {
			captured = append(captured, DeletedItem{Index: i, Item: it.Clone()})
		}
	}
	if len(captured) == 0 {
		return nil, ErrItemNotFound
	}

	for i := len(captured) - 1; i >= 0; i-- {
		idx := captured[i].Index
		items = append(items[:idx], items[idx+1:]...)
	}
	s.projects[project] = items

	return captured, nil
}

// Snapshot returns a deep copy of the whole store, suitable for handing to
// persistence or sync without further locking.
func (s *Store) Snapshot() map[string][]*LineItem {
	snap := make(map[string][]*LineItem, len(s.projects))
	for name, items := range s.projects {
		copied := make([]*LineItem, len(items))
		for i, it := range items {
			copied[i] = it.Clone()
		}
		snap[name] = copied
	}
	return snap
}

// ReplaceAll swaps the entire store content for the given document. Used when
// a remote update wins; the caller owns the passed map afterwards.
func (s *Store) ReplaceAll(projects map[string][]*LineItem) {
	if projects == nil {
		projects = make(map[string][]*LineItem)
	}
	s.projects = projects
}

// Len returns the number of projects.
func (s *Store) Len() int { return len(s.projects) }
