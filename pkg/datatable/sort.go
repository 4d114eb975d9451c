package datatable

import "slices"

// Direction is the ordering applied to the sorted field.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the aria-sort token for the direction.
func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// SortState names the field rows are ordered by. A nil *SortState means the
// input order is preserved.
type SortState struct {
	Field     string
	Direction Direction
}

// NextSort returns the sort state that follows a header click on field.
//
// Clicking the sorted field flips its direction; clicking any other field
// (or the first click) sorts that field ascending. prev is not modified.
func NextSort(prev *SortState, field string) *SortState {
	if prev == nil || prev.Field != field {
		return &SortState{Field: field, Direction: Ascending}
	}
	next := Ascending
	if prev.Direction == Ascending {
		next = Descending
	}
	return &SortState{Field: field, Direction: next}
}

// SortRows returns rows ordered by s.
//
// The result is always a new slice; rows itself is never reordered. The
// sort is stable, so rows comparing equal keep their input order. In
// descending order every comparison is inverted, which places nil values
// last.
func SortRows(rows []Row, s *SortState) []Row {
	out := slices.Clone(rows)
	if s == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b Row) int {
		c := Compare(a[s.Field], b[s.Field])
		if s.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}
