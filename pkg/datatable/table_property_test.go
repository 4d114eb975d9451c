//go:build property

package datatable

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// rowsFrom builds rows whose "v" field is absent for negative inputs so
// that the generated data always mixes defined and missing values.
func rowsFrom(values []int) []Row {
	rows := make([]Row, len(values))
	for i, v := range values {
		row := Row{"seq": i}
		if v >= 0 {
			row["v"] = v
		}
		rows[i] = row
	}
	return rows
}

func column() []Column {
	return []Column{{Key: "v", Title: "V", Field: "v", Sortable: true}}
}

func TestSortProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("one click sorts ascending with nulls first", prop.ForAll(
		func(values []int) bool {
			tbl := New(Props{Data: rowsFrom(values), Columns: column()})
			tbl.ToggleSort("v")
			sorted := tbl.Sorted()
			return slices.IsSortedFunc(sorted, func(a, b Row) int {
				return Compare(a["v"], b["v"])
			}) && nullsAt(sorted, true)
		},
		gen.SliceOf(gen.IntRange(-3, 20)),
	))

	properties.Property("two clicks sort descending with nulls last", prop.ForAll(
		func(values []int) bool {
			tbl := New(Props{Data: rowsFrom(values), Columns: column()})
			tbl.ToggleSort("v")
			tbl.ToggleSort("v")
			sorted := tbl.Sorted()
			return slices.IsSortedFunc(sorted, func(a, b Row) int {
				return Compare(b["v"], a["v"])
			}) && nullsAt(sorted, false)
		},
		gen.SliceOf(gen.IntRange(-3, 20)),
	))

	properties.Property("three clicks match one click", prop.ForAll(
		func(values []int) bool {
			once := New(Props{Data: rowsFrom(values), Columns: column()})
			once.ToggleSort("v")
			thrice := New(Props{Data: rowsFrom(values), Columns: column()})
			thrice.ToggleSort("v")
			thrice.ToggleSort("v")
			thrice.ToggleSort("v")
			return slices.EqualFunc(once.Sorted(), thrice.Sorted(), func(a, b Row) bool {
				return a["seq"] == b["seq"]
			})
		},
		gen.SliceOf(gen.IntRange(-3, 20)),
	))

	properties.Property("sort is stable", prop.ForAll(
		func(values []int) bool {
			sorted := SortRows(rowsFrom(values), &SortState{Field: "v"})
			for i := 1; i < len(sorted); i++ {
				if Compare(sorted[i-1]["v"], sorted[i]["v"]) == 0 &&
					sorted[i-1]["seq"].(int) > sorted[i]["seq"].(int) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-2, 4)),
	))

	properties.Property("sorting never mutates the input", prop.ForAll(
		func(values []int, clicks int) bool {
			rows := rowsFrom(values)
			before := slices.Clone(rows)
			tbl := New(Props{Data: rows, Columns: column()})
			for i := 0; i < clicks; i++ {
				tbl.ToggleSort("v")
				tbl.Sorted()
			}
			return slices.EqualFunc(rows, before, func(a, b Row) bool {
				return a["seq"] == b["seq"]
			})
		},
		gen.SliceOf(gen.IntRange(-3, 20)),
		gen.IntRange(0, 6),
	))

	properties.Property("toggling a row twice restores the selection", prop.ForAll(
		func(values []int, pick int) bool {
			if len(values) == 0 {
				return true
			}
			pos := pick % len(values)
			calls := 0
			var last []Row
			tbl := New(Props{
				Data:        rowsFrom(values),
				Columns:     column(),
				Selectable:  true,
				OnRowSelect: func(rows []Row) { calls++; last = rows },
			})
			before := tbl.IsSelected(pos)
			_ = tbl.ToggleRow(pos)
			_ = tbl.ToggleRow(pos)
			return calls == 2 && tbl.IsSelected(pos) == before && len(last) == 0
		},
		gen.SliceOf(gen.IntRange(-3, 20)),
		gen.IntRange(0, 1000),
	))

	properties.Property("select all twice clears", prop.ForAll(
		func(values []int) bool {
			var last []Row
			tbl := New(Props{
				Data:        rowsFrom(values),
				Columns:     column(),
				Selectable:  true,
				OnRowSelect: func(rows []Row) { last = rows },
			})
			tbl.ToggleAll()
			if len(values) > 0 && (!tbl.AllSelected() || len(last) != len(values)) {
				return false
			}
			tbl.ToggleAll()
			return last != nil && len(last) == 0 && len(tbl.Selected()) == 0
		},
		gen.SliceOf(gen.IntRange(-3, 20)),
	))

	properties.TestingRun(t)
}

// nullsAt reports whether every row missing "v" sits at the front (first)
// or the back of rows.
func nullsAt(rows []Row, first bool) bool {
	seenDefined, seenNull := false, false
	for _, r := range rows {
		_, defined := r["v"]
		if first {
			if defined {
				seenDefined = true
			} else if seenDefined {
				return false
			}
		} else {
			if !defined {
				seenNull = true
			} else if seenNull {
				return false
			}
		}
	}
	return true
}
