package ledger

import "sort"

// Column identifies a sortable table column.
type Column int

const (
	ColumnUser Column = iota
	ColumnDate
	ColumnProcess
	ColumnName
	ColumnMaterial
	ColumnLabor
	ColumnVAT
	ColumnTotal
)

// Order is the sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

// DefaultSort is applied when a project is selected: newest entries first.
var DefaultSort = SortSpec{Column: ColumnDate, Order: Descending}

// SortSpec is the current ordering of a project view.
type SortSpec struct {
	Column Column
	Order  Order
}

// Toggle returns the spec resulting from clicking a column header: same
// column flips direction, a new column starts ascending except the date
// column which starts descending.
func (sp SortSpec) Toggle(col Column) SortSpec {
	if sp.Column == col {
		if sp.Order == Ascending {
			return SortSpec{Column: col, Order: Descending}
		}
		return SortSpec{Column: col, Order: Ascending}
	}
	if col == ColumnDate {
		return SortSpec{Column: col, Order: Descending}
	}
	return SortSpec{Column: col, Order: Ascending}
}

// vatKey treats the VAT column as zero whenever the item is not VAT-included,
// regardless of the stored value.
func vatKey(it *LineItem) int64 {
	if !it.VATIncluded {
		return 0
	}
	return it.VATAmount
}

// less compares two items under a column: case-sensitive string order for
// text columns, parsed calendar order for dates, integer order for amounts.
func (sp SortSpec) less(a, b *LineItem) bool {
	switch sp.Column {
	case ColumnUser:
		return a.User < b.User
	case ColumnDate:
		return dateKey(a.Date).Before(dateKey(b.Date))
	case ColumnProcess:
		return a.Process < b.Process
	case ColumnName:
		return a.Name < b.Name
	case ColumnMaterial:
		return a.MaterialAmount < b.MaterialAmount
	case ColumnLabor:
		return a.LaborAmount < b.LaborAmount
	case ColumnVAT:
		return vatKey(a) < vatKey(b)
	case ColumnTotal:
		return a.TotalAmount < b.TotalAmount
	}
	return false
}

// SortItems reorders a project's items in place. The sort is stable so equal
// keys keep their relative order across re-sorts.
func (s *Store) SortItems(project string, sp SortSpec) {
	items := s.projects[project]
	sort.SliceStable(items, func(i, j int) bool {
		if sp.Order == Descending {
			return sp.less(items[j], items[i])
		}
		return sp.less(items[i], items[j])
	})
}
