package session

import (
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/widgetkit/pkg/carousel"
	"github.com/conneroisu/widgetkit/pkg/datatable"
	"github.com/conneroisu/widgetkit/pkg/inputfield"
)

// Listener receives every widget notification of a workspace.
type Listener func(widget, action string, data any)

// Options configures the widgets of a new workspace.
type Options struct {
	Columns      []datatable.Column
	Rows         []datatable.Row
	Testimonials []carousel.Testimonial

	EmptyText  string
	Selectable bool
	// RowKey names the row field used as selection key. Empty selects
	// positional selection.
	RowKey string

	// ActionPrefix is the URL prefix widget actions are posted to.
	ActionPrefix string
	Listener     Listener
}

// InputNames lists the demo inputs in display order.
var InputNames = []string{"email", "password", "search", "token"}

// Workspace is the set of widget instances owned by one session. All
// access goes through Do, which serializes interactions.
type Workspace struct {
	id string

	mu       sync.Mutex
	lastSeen time.Time
	now      func() time.Time

	table    *datatable.Table
	inputs   map[string]*inputfield.Field
	values   map[string]string
	carousel *carousel.Carousel
	selected []datatable.Row
	listener Listener
}

// NewWorkspace mounts the demo widgets for session id.
func NewWorkspace(id string, opts Options) *Workspace {
	prefix := strings.TrimSuffix(opts.ActionPrefix, "/")
	w := &Workspace{
		id:       id,
		lastSeen: time.Now(),
		now:      time.Now,
		inputs:   make(map[string]*inputfield.Field, len(InputNames)),
		values:   map[string]string{"token": "read-only-token"},
		selected: []datatable.Row{},
		listener: opts.Listener,
	}

	props := datatable.Props{
		ID:          "table",
		Data:        opts.Rows,
		Columns:     opts.Columns,
		Selectable:  opts.Selectable,
		EmptyText:   opts.EmptyText,
		OnRowSelect: w.onRowSelect,
	}
	if opts.RowKey != "" {
		props.RowKey = datatable.KeyByField(opts.RowKey)
	}
	if prefix != "" {
		props.ActionPath = prefix + "/table"
	}
	w.table = datatable.New(props)

	for _, name := range InputNames {
		w.inputs[name] = inputfield.New(w.inputProps(name, prefix))
	}

	carouselOpts := []carousel.Option{carousel.WithID("carousel")}
	if prefix != "" {
		carouselOpts = append(carouselOpts, carousel.WithActionPath(prefix+"/carousel"))
	}
	w.carousel = carousel.New(opts.Testimonials, carouselOpts...)

	return w
}

// ID returns the session id.
func (w *Workspace) ID() string {
	return w.id
}

// Do runs fn with exclusive access to the widgets.
func (w *Workspace) Do(fn func(v *View) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = w.now()
	return fn(&View{w: w})
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) notify(widget, action string, data any) {
	if w.listener != nil {
		w.listener(widget, action, data)
	}
}

func (w *Workspace) onRowSelect(selected []datatable.Row) {
	w.selected = selected
	w.notify("table", "select", map[string]any{
		"count": len(selected),
		"rows":  selected,
	})
}

// inputProps builds the props of a demo input from the value the host
// holds for it. The host is the controlling caller: edits come back through
// OnChange and are pushed down again with SetProps.
func (w *Workspace) inputProps(name, prefix string) inputfield.Props {
	value := w.values[name]
	p := inputfield.Props{
		ID:       "input-" + name,
		Name:     name,
		Value:    value,
		OnChange: w.onInputChange(name, prefix),
	}
	if prefix != "" {
		p.ActionPath = prefix + "/inputs/" + name
	}

	switch name {
	case "email":
		p.Label = "Email"
		p.Type = "email"
		p.Placeholder = "you@example.com"
		p.HelperText = "We never share your email."
		p.Clearable = true
		p.Invalid = value != "" && !strings.Contains(value, "@")
		p.ErrorMessage = "Enter a valid email address."
	case "password":
		p.Label = "Password"
		p.Type = "password"
		p.PasswordToggle = true
		p.Variant = inputfield.VariantFilled
		p.HelperText = "At least 8 characters."
		p.Invalid = value != "" && len(value) < 8
		p.ErrorMessage = "Password is too short."
	case "search":
		p.Label = "Search"
		p.Type = "search"
		p.Placeholder = "Search…"
		p.Variant = inputfield.VariantGhost
		p.Size = inputfield.SizeSmall
		p.Clearable = true
	case "token":
		p.Label = "API token"
		p.Disabled = true
		p.Clearable = true
		p.Size = inputfield.SizeLarge
	}
	return p
}

func (w *Workspace) onInputChange(name, prefix string) func(inputfield.ChangeEvent) {
	return func(ev inputfield.ChangeEvent) {
		w.values[name] = ev.Value
		w.inputs[name].SetProps(w.inputProps(name, prefix))

		action := "change"
		if ev.Synthetic {
			action = "clear"
		}
		data := ev.Value
		if name == "password" {
			data = strings.Repeat("•", len([]rune(ev.Value)))
		}
		w.notify("input:"+name, action, data)
	}
}
