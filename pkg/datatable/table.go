// Package datatable provides a sortable, selectable table widget rendered as
// a templ component.
//
// A Table owns two pieces of interaction state: the sort order and the set
// of selected rows. Everything else (rows, columns, loading flag) is
// supplied by the caller through Props. Header clicks cycle the sort of a
// column between ascending and descending; row checkboxes toggle selection
// and report the selected rows through Props.OnRowSelect.
//
// Selection is keyed by row position in the sorted sequence unless the
// caller supplies Props.RowKey, in which case it follows the logical row
// across re-sorts and data reloads. When RowKey yields an empty or repeated
// key for any row, the table keys that data set by position instead.
//
// A Table is not safe for concurrent use. Hosts deliver one interaction at a
// time per instance and render between interactions.
package datatable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultEmptyText is shown in the body when there are no rows.
const DefaultEmptyText = "No data"

// ErrRowOutOfRange is returned when a row position does not exist in the
// current sorted sequence.
var ErrRowOutOfRange = errors.New("row position out of range")

// Row is one record. The table only reads the fields named by its columns.
type Row map[string]any

// Column describes how one field of a row is displayed and sorted.
type Column struct {
	// Key identifies the column and must be unique within a table.
	Key string
	// Title is the header text. Empty titles fall back to the field name.
	Title string
	// Field is the row field the column reads.
	Field    string
	Sortable bool
	// Render overrides the default text rendering of a cell.
	Render func(value any, row Row) templ.Component
}

// Heading returns the header text for the column.
func (c Column) Heading() string {
	if c.Title != "" {
		return c.Title
	}
	words := strings.NewReplacer("_", " ", "-", " ").Replace(c.Field)
	return cases.Title(language.English).String(words)
}

// Props configures a Table.
type Props struct {
	// ID is the element id of the table wrapper. A random id is generated
	// when empty.
	ID         string
	Data       []Row
	Columns    []Column
	Loading    bool
	Selectable bool
	// OnRowSelect receives the selected rows in sorted order after every
	// selection change.
	OnRowSelect func(selected []Row)
	// EmptyText replaces DefaultEmptyText.
	EmptyText string
	Class     string
	// RowKey returns a stable identity for a row. When nil, or when it
	// does not yield a distinct non-empty key for every row, rows are
	// identified by their position in the sorted sequence.
	RowKey func(Row) string
	// ActionPath enables interactive rendering: headers and checkboxes post
	// to paths below it and swap the table in place.
	ActionPath string
}

// Table is one mounted instance of the table widget.
type Table struct {
	props    Props
	id       string
	sort     *SortState
	selected map[string]struct{}

	sorted []Row
	keys   []string
	stale  bool
}

// New creates a table with no sort and an empty selection.
func New(props Props) *Table {
	id := props.ID
	if id == "" {
		id = "datatable-" + uuid.NewString()
	}
	if props.EmptyText == "" {
		props.EmptyText = DefaultEmptyText
	}
	return &Table{
		props:    props,
		id:       id,
		selected: make(map[string]struct{}),
		stale:    true,
	}
}

// ID returns the element id of the table wrapper.
func (t *Table) ID() string {
	return t.id
}

// Columns returns the column definitions.
func (t *Table) Columns() []Column {
	return t.props.Columns
}

// Loading reports whether the loading placeholder is shown.
func (t *Table) Loading() bool {
	return t.props.Loading
}

// SetLoading toggles the loading placeholder.
func (t *Table) SetLoading(loading bool) {
	t.props.Loading = loading
}

// SetData replaces the rows.
//
// Selections that no longer resolve to a row are dropped silently; the
// selection callback is not invoked.
func (t *Table) SetData(rows []Row) {
	t.props.Data = rows
	t.stale = true

	valid := make(map[string]struct{}, len(rows))
	t.Sorted()
	for _, key := range t.keys {
		valid[key] = struct{}{}
	}
	for key := range t.selected {
		if _, ok := valid[key]; !ok {
			delete(t.selected, key)
		}
	}
}

// Sort returns the current sort state, nil when unsorted.
func (t *Table) Sort() *SortState {
	if t.sort == nil {
		return nil
	}
	s := *t.sort
	return &s
}

// Sorted returns the rows in display order. The result is cached until the
// data or the sort changes.
func (t *Table) Sorted() []Row {
	if t.stale {
		t.sorted = SortRows(t.props.Data, t.sort)
		t.keys = rowKeys(t.sorted, t.props.RowKey)
		t.stale = false
	}
	return t.sorted
}

// ToggleSort advances the sort of the column identified by key. It reports
// false, leaving the state untouched, when the column does not exist or is
// not sortable.
func (t *Table) ToggleSort(key string) bool {
	col, ok := t.column(key)
	if !ok || !col.Sortable {
		return false
	}
	t.sort = NextSort(t.sort, col.Field)
	t.stale = true
	return true
}

// ToggleRow flips the selection of the row at position in the sorted
// sequence and reports the new selection.
func (t *Table) ToggleRow(position int) error {
	rows := t.Sorted()
	if position < 0 || position >= len(rows) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrRowOutOfRange, position, len(rows))
	}

	key := t.keys[position]
	if _, ok := t.selected[key]; ok {
		delete(t.selected, key)
	} else {
		t.selected[key] = struct{}{}
	}
	t.notify()
	return nil
}

// ToggleAll selects every visible row, or clears the selection when every
// visible row is already selected, and reports the new selection.
func (t *Table) ToggleAll() {
	if t.AllSelected() {
		clear(t.selected)
	} else {
		clear(t.selected)
		for i := range t.Sorted() {
			t.selected[t.keys[i]] = struct{}{}
		}
	}
	t.notify()
}

// IsSelected reports whether the row at position is selected.
func (t *Table) IsSelected(position int) bool {
	rows := t.Sorted()
	if position < 0 || position >= len(rows) {
		return false
	}
	_, ok := t.selected[t.keys[position]]
	return ok
}

// AllSelected reports whether there is at least one row and every row is
// selected. It drives the header checkbox.
func (t *Table) AllSelected() bool {
	rows := t.Sorted()
	if len(rows) == 0 {
		return false
	}
	for i := range rows {
		if _, ok := t.selected[t.keys[i]]; !ok {
			return false
		}
	}
	return true
}

// Selected returns the selected rows in ascending position order. The
// result is never nil.
func (t *Table) Selected() []Row {
	out := make([]Row, 0, len(t.selected))
	if len(t.selected) == 0 {
		return out
	}
	for i, row := range t.Sorted() {
		if _, ok := t.selected[t.keys[i]]; ok {
			out = append(out, row)
		}
	}
	return out
}

func (t *Table) notify() {
	if t.props.OnRowSelect != nil {
		t.props.OnRowSelect(t.Selected())
	}
}

// rowKeys returns the selection key of every row in display order.
// Positional keys carry a NUL prefix so they never match a RowKey result
// kept from an earlier data set.
func rowKeys(rows []Row, rowKey func(Row) string) []string {
	keys := make([]string, len(rows))
	if rowKey != nil && distinctKeys(rows, rowKey, keys) {
		return keys
	}
	for i := range rows {
		keys[i] = "\x00" + strconv.Itoa(i)
	}
	return keys
}

func distinctKeys(rows []Row, rowKey func(Row) string, keys []string) bool {
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		key := rowKey(row)
		if _, dup := seen[key]; key == "" || dup {
			return false
		}
		seen[key] = struct{}{}
		keys[i] = key
	}
	return true
}

func (t *Table) column(key string) (Column, bool) {
	for _, c := range t.props.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// KeyByField returns a RowKey that identifies rows by the text of field.
func KeyByField(field string) func(Row) string {
	return func(row Row) string {
		return Text(row[field])
	}
}
