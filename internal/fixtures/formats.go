package fixtures

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/conneroisu/widgetkit/pkg/classnames"
	"github.com/conneroisu/widgetkit/pkg/datatable"
)

type renderer = func(value any, row datatable.Row) templ.Component

var formats = map[string]renderer{
	"mailto": mailto,
	"number": number,
	"badge":  badge,
}

// Formats lists the known column formats in name order.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var printer = message.NewPrinter(language.English)

func raw(html string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}

func mailto(value any, _ datatable.Row) templ.Component {
	addr := datatable.Text(value)
	if addr == "" {
		return templ.NopComponent
	}
	safe := templ.EscapeString(addr)
	return raw(`<a href="mailto:` + safe + `" class="text-blue-600 hover:underline">` + safe + `</a>`)
}

// number groups digits, so 1042 renders as 1,042.
func number(value any, _ datatable.Row) templ.Component {
	var text string
	switch v := value.(type) {
	case nil:
		return templ.NopComponent
	case int:
		text = printer.Sprintf("%d", v)
	case int64:
		text = printer.Sprintf("%d", v)
	case uint64:
		text = printer.Sprintf("%d", v)
	case float64:
		text = printer.Sprintf("%v", v)
	default:
		text = datatable.Text(v)
	}
	return raw(`<span class="tabular-nums">` + templ.EscapeString(text) + `</span>`)
}

func badge(value any, _ datatable.Row) templ.Component {
	text := datatable.Text(value)
	if text == "" {
		return templ.NopComponent
	}
	class := classnames.Join(
		"inline-block rounded-full px-2 py-0.5 text-xs font-medium",
		templ.KV("bg-purple-100 text-purple-800", text == "admin"),
		templ.KV("bg-gray-100 text-gray-800", text != "admin"),
	)
	return raw(`<span class="` + class + `">` + templ.EscapeString(strings.ToLower(text)) + `</span>`)
}
