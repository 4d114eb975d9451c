package session

import (
	"fmt"

	"github.com/conneroisu/widgetkit/internal/errors"
	"github.com/conneroisu/widgetkit/pkg/carousel"
	"github.com/conneroisu/widgetkit/pkg/datatable"
	"github.com/conneroisu/widgetkit/pkg/inputfield"
)

// View is the handle passed to Workspace.Do. It is only valid inside the
// callback.
type View struct {
	w *Workspace
}

// Table returns the data table.
func (v *View) Table() *datatable.Table {
	return v.w.table
}

// Carousel returns the testimonial carousel.
func (v *View) Carousel() *carousel.Carousel {
	return v.w.carousel
}

// Input returns the demo input called name.
func (v *View) Input(name string) (*inputfield.Field, error) {
	f, ok := v.w.inputs[name]
	if !ok {
		return nil, errors.NewNotFoundError(errors.ErrCodeWidgetNotFound,
			fmt.Sprintf("no input named %q", name)).WithWidget("input")
	}
	return f, nil
}

// Inputs returns the demo inputs in display order.
func (v *View) Inputs() []*inputfield.Field {
	out := make([]*inputfield.Field, 0, len(InputNames))
	for _, name := range InputNames {
		out = append(out, v.w.inputs[name])
	}
	return out
}

// Selected returns the rows last reported by the table.
func (v *View) Selected() []datatable.Row {
	return v.w.selected
}

// SortTable toggles the sort of the column called key.
func (v *View) SortTable(key string) error {
	if !v.w.table.ToggleSort(key) {
		return errors.NewNotFoundError(errors.ErrCodeColumnNotFound,
			fmt.Sprintf("no sortable column %q", key)).WithWidget("table")
	}
	v.w.notify("table", "sort", key)
	return nil
}

// ToggleRow flips the selection of the row at position.
func (v *View) ToggleRow(position int) error {
	if err := v.w.table.ToggleRow(position); err != nil {
		return errors.NewValidationError(errors.ErrCodeRowOutOfRange, err.Error()).
			WithWidget("table").
			WithContext("position", position)
	}
	return nil
}

// ToggleAll selects every row or clears the selection.
func (v *View) ToggleAll() {
	v.w.table.ToggleAll()
}

// SetRows replaces the table data. Stale selections are pruned and the
// stored selection is refreshed without a notification.
func (v *View) SetRows(rows []datatable.Row) {
	v.w.table.SetData(rows)
	v.w.selected = v.w.table.Selected()
}

// ChangeInput forwards an edit to the input called name.
func (v *View) ChangeInput(name, value string) error {
	f, err := v.Input(name)
	if err != nil {
		return err
	}
	f.Change(value)
	return nil
}

// ClearInput clears the input called name. Clearing an input that offers
// no clear affordance is rejected.
func (v *View) ClearInput(name string) error {
	f, err := v.Input(name)
	if err != nil {
		return err
	}
	if !f.Clear() {
		return errors.NewValidationError(errors.ErrCodeActionRejected, "input cannot be cleared").
			WithWidget("input:" + name)
	}
	return nil
}

// RevealInput toggles password visibility of the input called name.
func (v *View) RevealInput(name string) error {
	f, err := v.Input(name)
	if err != nil {
		return err
	}
	if !f.ToggleReveal() {
		return errors.NewValidationError(errors.ErrCodeActionRejected, "input has no visibility toggle").
			WithWidget("input:" + name)
	}
	v.w.notify("input:"+name, "reveal", f.Revealed())
	return nil
}

// MoveCarousel steps the carousel. direction is "next" or "prev".
func (v *View) MoveCarousel(direction string) error {
	switch direction {
	case "next":
		v.w.carousel.Next()
	case "prev":
		v.w.carousel.Prev()
	default:
		return errors.NewNotFoundError(errors.ErrCodeWidgetNotFound,
			fmt.Sprintf("unknown carousel action %q", direction)).WithWidget("carousel")
	}
	v.w.notify("carousel", direction, v.w.carousel.Index())
	return nil
}
