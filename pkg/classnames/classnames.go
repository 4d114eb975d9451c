// Package classnames composes conditional CSS class fragments into a single
// class attribute value.
//
// It is a thin layer over templ.Classes that drops falsy fragments (empty
// strings, false booleans, nil) before handing the rest to templ, so widgets
// can write conditional classes inline:
//
//	classnames.Join("p-3", classnames.If(col.Sortable, "cursor-pointer"))
//	classnames.Join("p-3", templ.KV("cursor-pointer", col.Sortable))
package classnames

import (
	"strings"

	"github.com/a-h/templ"
)

// Join returns the space separated class list for the given fragments.
//
// Accepted fragments are strings (whitespace is collapsed, empty strings are
// skipped), templ.KeyValue[string, bool] pairs as produced by templ.KV, and
// booleans, which are always skipped so a bare condition can sit in the list.
// Any other value is ignored.
func Join(fragments ...any) string {
	classes := make([]any, 0, len(fragments))
	for _, fragment := range fragments {
		switch f := fragment.(type) {
		case string:
			for _, name := range strings.Fields(f) {
				classes = append(classes, name)
			}
		case templ.KeyValue[string, bool]:
			if !f.Value {
				continue
			}
			for _, name := range strings.Fields(f.Key) {
				classes = append(classes, name)
			}
		case []string:
			classes = append(classes, strings.Fields(strings.Join(f, " ")))
		}
	}
	if len(classes) == 0 {
		return ""
	}
	return templ.Classes(classes...).String()
}

// If returns class when cond holds and the empty string otherwise.
func If(cond bool, class string) string {
	if cond {
		return class
	}
	return ""
}
