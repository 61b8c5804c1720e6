package ledger

// KnownProcesses is the stock trade list offered when entering a new item.
// It seeds the prompt only; the process column accepts any free text.
var KnownProcesses = []string{
	"temporary works", "demolition", "plumbing", "electrical", "carpentry",
	"lighting", "furniture", "flooring", "tiling", "bathroom", "film",
	"wallpaper", "painting", "windows", "misc",
}

// Summary is the running total row of a project.
type Summary struct {
	Material int64
	Labor    int64
	VAT      int64
	Total    int64
}

// Summarize sums the amount columns over a slice of items.
func Summarize(items []*LineItem) Summary {
	var sum Summary
	for _, it := range items {
		sum.Material += it.MaterialAmount
		sum.Labor += it.LaborAmount
		sum.VAT += it.VATAmount
		sum.Total += it.TotalAmount
	}
	return sum
}

// Summary recomputes the totals of a project. A missing project yields the
// zero summary.
func (s *Store) Summary(project string) Summary {
	return Summarize(s.projects[project])
}

// ProcessSummary aggregates per-process subtotals for reporting. Items with
// an empty process label land under the empty key.
func (s *Store) ProcessSummary(project string) map[string]Summary {
	out := make(map[string]Summary)
	for _, it := range s.projects[project] {
		sum := out[it.Process]
		sum.Material += it.MaterialAmount
		sum.Labor += it.LaborAmount
		sum.VAT += it.VATAmount
		sum.Total += it.TotalAmount
		out[it.Process] = sum
	}
	return out
}
