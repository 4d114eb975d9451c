package datatable

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/widgetkit/pkg/classnames"
)

const (
	headerRowClass = "border-b border-gray-200 dark:border-gray-800 bg-gray-50 dark:bg-gray-900/40"
	bodyRowClass   = "border-b border-gray-100 dark:border-gray-800 hover:bg-gray-50/60 dark:hover:bg-gray-900/30"
	messageClass   = "p-6 text-center text-gray-500"
)

// Component returns the templ component that renders the table in its
// current state. The state is read when the component renders, not when it
// is created.
func (t *Table) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		if err := t.render(ctx, &b); err != nil {
			return err
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func (t *Table) render(ctx context.Context, b *strings.Builder) error {
	b.WriteString(`<div`)
	attr(b, "id", t.id)
	attr(b, "class", classnames.Join("w-full overflow-x-auto", t.props.Class))
	b.WriteString(`><table class="w-full border-collapse text-sm"><thead>`)
	t.renderHeader(b)
	b.WriteString(`</thead><tbody>`)
	if err := t.renderBody(ctx, b); err != nil {
		return err
	}
	b.WriteString(`</tbody></table></div>`)
	return nil
}

func (t *Table) renderHeader(b *strings.Builder) {
	b.WriteString(`<tr`)
	attr(b, "class", headerRowClass)
	b.WriteString(`>`)

	if t.props.Selectable {
		b.WriteString(`<th class="p-3 text-left"><input type="checkbox" aria-label="Select all rows"`)
		if t.AllSelected() {
			b.WriteString(` checked`)
		}
		t.action(b, "rows/toggle-all")
		b.WriteString(`></th>`)
	}

	for _, c := range t.props.Columns {
		active := t.sort != nil && t.sort.Field == c.Field
		ariaSort := "none"
		if active {
			ariaSort = t.sort.Direction.String()
		}

		b.WriteString(`<th scope="col"`)
		attr(b, "class", classnames.Join(
			"p-3 font-semibold text-gray-700 dark:text-gray-300",
			classnames.If(c.Sortable, "cursor-pointer select-none"),
		))
		attr(b, "aria-sort", ariaSort)
		attr(b, "data-column", c.Key)
		if c.Sortable {
			t.action(b, "sort/"+url.PathEscape(c.Key))
		}
		b.WriteString(`><span class="inline-flex items-center gap-1">`)
		b.WriteString(templ.EscapeString(c.Heading()))
		if c.Sortable {
			b.WriteString(`<span aria-hidden="true" class="text-xs">`)
			b.WriteString(sortGlyph(active, t.sort))
			b.WriteString(`</span>`)
		}
		b.WriteString(`</span></th>`)
	}
	b.WriteString(`</tr>`)
}

func (t *Table) renderBody(ctx context.Context, b *strings.Builder) error {
	span := strconv.Itoa(t.colSpan())

	if t.props.Loading {
		b.WriteString(`<tr><td`)
		attr(b, "class", messageClass)
		attr(b, "colspan", span)
		b.WriteString(`>Loading…</td></tr>`)
		return nil
	}

	rows := t.Sorted()
	if len(rows) == 0 {
		b.WriteString(`<tr><td`)
		attr(b, "class", messageClass)
		attr(b, "colspan", span)
		b.WriteString(`>`)
		b.WriteString(templ.EscapeString(t.props.EmptyText))
		b.WriteString(`</td></tr>`)
		return nil
	}

	for i, row := range rows {
		b.WriteString(`<tr`)
		attr(b, "class", bodyRowClass)
		attr(b, "data-position", strconv.Itoa(i))
		b.WriteString(`>`)

		if t.props.Selectable {
			b.WriteString(`<td class="p-3"><input type="checkbox"`)
			attr(b, "aria-label", "Select row "+strconv.Itoa(i+1))
			if t.IsSelected(i) {
				b.WriteString(` checked`)
			}
			t.action(b, "rows/"+strconv.Itoa(i)+"/toggle")
			b.WriteString(`></td>`)
		}

		for _, c := range t.props.Columns {
			b.WriteString(`<td class="p-3">`)
			value := row[c.Field]
			if c.Render != nil {
				if err := c.Render(value, row).Render(ctx, b); err != nil {
					return err
				}
			} else {
				b.WriteString(templ.EscapeString(Text(value)))
			}
			b.WriteString(`</td>`)
		}
		b.WriteString(`</tr>`)
	}
	return nil
}

func (t *Table) colSpan() int {
	n := len(t.props.Columns)
	if t.props.Selectable {
		n++
	}
	return n
}

// action writes the htmx attributes that route an interaction back to the
// host. Nothing is written for static tables.
func (t *Table) action(b *strings.Builder, path string) {
	if t.props.ActionPath == "" {
		return
	}
	attr(b, "hx-post", strings.TrimSuffix(t.props.ActionPath, "/")+"/"+path)
	attr(b, "hx-target", "#"+t.id)
	attr(b, "hx-swap", "outerHTML")
}

func sortGlyph(active bool, s *SortState) string {
	switch {
	case !active:
		return "↕"
	case s.Direction == Descending:
		return "▼"
	default:
		return "▲"
	}
}

func attr(b *strings.Builder, name, value string) {
	b.WriteString(` `)
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`"`)
}
