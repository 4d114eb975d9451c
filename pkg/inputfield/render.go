package inputfield

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/widgetkit/pkg/classnames"
)

const baseClass = "w-full rounded-md border outline-none transition placeholder:text-gray-400 focus:border-black dark:focus:border-white"

var sizeClasses = map[Size]string{
	SizeSmall:  "h-9 text-sm px-3",
	SizeMedium: "h-10 text-sm px-3",
	SizeLarge:  "h-12 text-base px-4",
}

var variantClasses = map[Variant]string{
	VariantFilled:   "bg-gray-100 dark:bg-gray-900 border-transparent focus:bg-white dark:focus:bg-gray-800",
	VariantOutlined: "bg-white dark:bg-gray-900 border-gray-300 dark:border-gray-700",
	VariantGhost:    "bg-transparent border-transparent focus:border-gray-300 dark:focus:border-gray-700",
}

// WrapperID returns the id of the element that wraps the whole field. It is
// the swap target for interactive rendering.
func (f *Field) WrapperID() string {
	return f.id + "-field"
}

// InputClass returns the class list of the input element.
func (f *Field) InputClass() string {
	p := f.props
	return classnames.Join(
		baseClass,
		sizeClasses[p.Size],
		variantClasses[p.Variant],
		classnames.If(p.Invalid, "border-red-500 focus:ring-2 focus:ring-red-200"),
		classnames.If(p.Disabled, "opacity-60 cursor-not-allowed"),
		classnames.If(p.Loading, "cursor-wait"),
		"pr-10",
	)
}

// Component returns the templ component that renders the field in its
// current state.
func (f *Field) Component() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		f.render(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func (f *Field) render(b *strings.Builder) {
	p := f.props

	b.WriteString(`<div`)
	attr(b, "id", f.WrapperID())
	attr(b, "class", classnames.Join("w-full", p.Class))
	b.WriteString(`>`)

	if p.Label != "" {
		b.WriteString(`<label`)
		attr(b, "for", f.id)
		attr(b, "class", "mb-1 block text-sm font-medium text-gray-700 dark:text-gray-300")
		b.WriteString(`>`)
		b.WriteString(templ.EscapeString(p.Label))
		b.WriteString(`</label>`)
	}

	b.WriteString(`<div class="relative"><input`)
	attr(b, "id", f.id)
	if p.Name != "" {
		attr(b, "name", p.Name)
	}
	attr(b, "type", f.InputType())
	attr(b, "value", p.Value)
	if p.Placeholder != "" {
		attr(b, "placeholder", p.Placeholder)
	}
	if p.Disabled {
		b.WriteString(` disabled`)
	}
	if p.Invalid {
		attr(b, "aria-invalid", "true")
	}
	if d := f.DescribedBy(); d != "" {
		attr(b, "aria-describedby", d)
	}
	attr(b, "class", f.InputClass())
	f.action(b, "change")
	for _, name := range sortedKeys(p.Attrs) {
		if allowedAttr(name) {
			attr(b, name, p.Attrs[name])
		}
	}
	b.WriteString(`>`)

	b.WriteString(`<div class="pointer-events-none absolute inset-y-0 right-2 flex items-center gap-1">`)
	if p.Loading {
		b.WriteString(`<span aria-hidden="true" class="pointer-events-none inline-block animate-spin h-4 w-4 border-2 border-gray-300 border-t-transparent rounded-full"></span>`)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="absolute inset-y-0 right-2 flex items-center gap-1">`)
	if f.CanClear() {
		b.WriteString(`<button type="button" aria-label="Clear input" class="p-1 rounded hover:bg-gray-100 dark:hover:bg-gray-800"`)
		f.action(b, "clear")
		b.WriteString(`>✕</button>`)
	}
	if f.CanReveal() {
		label, glyph := "Show password", "👁️"
		if f.revealed {
			label, glyph = "Hide password", "🙈"
		}
		b.WriteString(`<button type="button"`)
		attr(b, "aria-label", label)
		attr(b, "aria-pressed", boolText(f.revealed))
		b.WriteString(` class="p-1 rounded hover:bg-gray-100 dark:hover:bg-gray-800"`)
		f.action(b, "reveal")
		b.WriteString(`>`)
		b.WriteString(glyph)
		b.WriteString(`</button>`)
	}
	b.WriteString(`</div></div>`)

	if id := f.HelperID(); id != "" {
		b.WriteString(`<p`)
		attr(b, "id", id)
		b.WriteString(` class="mt-1 text-xs text-gray-500">`)
		b.WriteString(templ.EscapeString(p.HelperText))
		b.WriteString(`</p>`)
	}
	if id := f.ErrorID(); id != "" {
		b.WriteString(`<p`)
		attr(b, "id", id)
		b.WriteString(` class="mt-1 text-xs text-red-600">`)
		b.WriteString(templ.EscapeString(p.ErrorMessage))
		b.WriteString(`</p>`)
	}

	b.WriteString(`</div>`)
}

// action writes the htmx attributes for one interaction. Nothing is written
// for static fields.
func (f *Field) action(b *strings.Builder, path string) {
	if f.props.ActionPath == "" {
		return
	}
	attr(b, "hx-post", strings.TrimSuffix(f.props.ActionPath, "/")+"/"+path)
	attr(b, "hx-target", "#"+f.WrapperID())
	attr(b, "hx-swap", "outerHTML")
}

// reservedAttrs are written by the field itself.
var reservedAttrs = map[string]bool{
	"id": true, "name": true, "type": true, "value": true, "placeholder": true,
	"disabled": true, "class": true, "aria-invalid": true, "aria-describedby": true,
	"hx-post": true, "hx-target": true, "hx-swap": true,
}

func allowedAttr(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '_' || r == ':' || r == '.'):
		default:
			return false
		}
	}
	lower := strings.ToLower(name)
	return !reservedAttrs[lower] && !strings.HasPrefix(lower, "on")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func attr(b *strings.Builder, name, value string) {
	b.WriteString(` `)
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`"`)
}
