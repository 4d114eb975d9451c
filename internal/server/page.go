package server

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/conneroisu/widgetkit/internal/session"
	"github.com/conneroisu/widgetkit/internal/version"
)

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Widgetkit</title>
    <script src="https://unpkg.com/htmx.org@1.9.12"></script>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 text-gray-900 dark:bg-gray-950 dark:text-gray-100">
<main class="container mx-auto max-w-5xl p-6 space-y-10">
    <header class="border-b border-gray-200 pb-4">
        <h1 class="text-3xl font-bold">Widgetkit</h1>
        <p class="text-sm text-gray-500">Version `

const pageScript = `
<script>
(function () {
    var list = document.getElementById("events");
    var count = document.getElementById("selection-count");

    function log(text) {
        var item = document.createElement("li");
        item.textContent = new Date().toLocaleTimeString() + " " + text;
        list.prepend(item);
        while (list.children.length > 25) {
            list.removeChild(list.lastChild);
        }
    }

    document.body.addEventListener("table:select", function (evt) {
        count.textContent = String(evt.detail.count);
    });

    function connect() {
        var scheme = location.protocol === "https:" ? "wss://" : "ws://";
        var socket = new WebSocket(scheme + location.host + "/ws");
        socket.onmessage = function (msg) {
            var ev = JSON.parse(msg.data);
            log(ev.type + (ev.widget ? " " + ev.widget : "") + " " + JSON.stringify(ev.data));
        };
        socket.onclose = function () {
            setTimeout(connect, 2000);
        };
    }
    connect();
})();
</script>
</body>
</html>
`

// Page renders the demo page for the widgets behind v. It must be rendered
// while v is valid.
func Page(v *session.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead+templ.EscapeString(version.GetShortVersion())+"</p>\n    </header>\n"); err != nil {
			return err
		}

		if err := section(ctx, w, "table", "Data table", v.Table().Component(),
			`<p class="text-sm text-gray-500">Selected rows: <span id="selection-count">`+
				strconv.Itoa(len(v.Selected()))+`</span></p>`); err != nil {
			return err
		}

		inputs := make([]templ.Component, 0, len(session.InputNames))
		for _, f := range v.Inputs() {
			inputs = append(inputs, f.Component())
		}
		if err := section(ctx, w, "inputs", "Input fields", stack(inputs), ""); err != nil {
			return err
		}

		if err := section(ctx, w, "testimonials", "Testimonials", v.Carousel().Component(), ""); err != nil {
			return err
		}

		_, err := io.WriteString(w, `<section aria-labelledby="events-heading">
    <h2 id="events-heading" class="text-xl font-semibold mb-3">Events</h2>
    <ol id="events" aria-live="polite" class="text-xs font-mono space-y-1 text-gray-600"></ol>
</section>
</main>`+pageScript)
		return err
	})
}

// section wraps body in a titled page section.
func section(ctx context.Context, w io.Writer, id, title string, body templ.Component, footer string) error {
	heading := id + "-heading"
	if _, err := io.WriteString(w, `<section aria-labelledby="`+heading+`" class="space-y-3">
    <h2 id="`+heading+`" class="text-xl font-semibold">`+templ.EscapeString(title)+"</h2>\n"); err != nil {
		return err
	}
	if err := body.Render(ctx, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, footer+"\n</section>\n")
	return err
}

// stack renders components one below the other.
func stack(items []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="grid gap-4 sm:grid-cols-2">`); err != nil {
			return err
		}
		for _, c := range items {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
