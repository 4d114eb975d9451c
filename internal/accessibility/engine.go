// Package accessibility checks rendered widget markup for the linkage
// problems that keep assistive technology from announcing a control: form
// controls and buttons without an accessible name, images without alt text,
// aria references to missing elements and duplicate ids.
package accessibility

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/conneroisu/widgetkit/internal/logging"
)

// Rules lists every check in the order they run.
var Rules = []Rule{
	{
		ID:          "missing-form-label",
		Description: "Form controls must have an accessible name",
		Impact:      ImpactCritical,
		Criterion:   "4.1.2",
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/label",
	},
	{
		ID:          "broken-aria-reference",
		Description: "aria-describedby and aria-labelledby must reference existing ids",
		Impact:      ImpactSerious,
		Criterion:   "1.3.1",
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/aria-valid-attr-value",
	},
	{
		ID:          "missing-alt-text",
		Description: "Images must have alternative text",
		Impact:      ImpactCritical,
		Criterion:   "1.1.1",
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/image-alt",
	},
	{
		ID:          "missing-button-text",
		Description: "Buttons must have accessible names",
		Impact:      ImpactCritical,
		Criterion:   "4.1.2",
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/button-name",
	},
	{
		ID:          "duplicate-id",
		Description: "IDs must be unique",
		Impact:      ImpactModerate,
		Criterion:   "4.1.1",
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/duplicate-id",
	},
}

// Engine runs the rules over HTML documents and fragments.
type Engine struct {
	logger logging.Logger
}

// NewEngine creates an engine. A nil logger is allowed.
func NewEngine(logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Engine{logger: logger.WithComponent("accessibility")}
}

// CheckComponent renders c and checks the output.
func (e *Engine) CheckComponent(ctx context.Context, name string, c templ.Component) (*Report, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return e.Check(ctx, name, &buf)
}

// Check parses r and runs every rule over it.
func (e *Engine) Check(ctx context.Context, name string, r io.Reader) (*Report, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	d := newDocument(doc)
	report := &Report{Component: name, Violations: []Violation{}, Checked: len(d.elements)}

	for _, n := range d.elements {
		report.Violations = append(report.Violations, d.checkElement(n)...)
	}
	report.Violations = append(report.Violations, d.duplicateIDs()...)

	e.logger.Debug(ctx, "Accessibility check complete",
		"component", name,
		"elements", report.Checked,
		"violations", len(report.Violations))
	return report, nil
}

// document indexes one parsed tree.
type document struct {
	elements []*html.Node
	ids      map[string]int
	labelFor map[string]bool
	position map[*html.Node]int
}

func newDocument(root *html.Node) *document {
	d := &document{
		ids:      make(map[string]int),
		labelFor: make(map[string]bool),
		position: make(map[*html.Node]int),
	}
	counts := make(map[string]int)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && !isScaffold(n) {
			d.elements = append(d.elements, n)
			counts[n.Data]++
			d.position[n] = counts[n.Data]
			if id, ok := attr(n, "id"); ok && id != "" {
				d.ids[id]++
			}
			if n.DataAtom == atom.Label {
				if target, ok := attr(n, "for"); ok {
					d.labelFor[target] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return d
}

// isScaffold reports the html, head and body elements the parser adds
// around fragments.
func isScaffold(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Html, atom.Head, atom.Body:
		return true
	default:
		return false
	}
}

func (d *document) checkElement(n *html.Node) []Violation {
	var out []Violation

	switch {
	case isFormControl(n) && !d.hasLabel(n):
		out = append(out, d.violation(Rules[0], n, "form control has no label, aria-label or aria-labelledby"))
	case n.DataAtom == atom.Img:
		if _, ok := attr(n, "alt"); !ok {
			out = append(out, d.violation(Rules[2], n, "image has no alt attribute"))
		}
	case n.DataAtom == atom.Button && !hasAccessibleName(n):
		out = append(out, d.violation(Rules[3], n, "button has no text or aria-label"))
	}

	for _, name := range []string{"aria-describedby", "aria-labelledby"} {
		refs, ok := attr(n, name)
		if !ok {
			continue
		}
		for _, id := range strings.Fields(refs) {
			if d.ids[id] == 0 {
				out = append(out, d.violation(Rules[1], n, fmt.Sprintf("%s references missing id %q", name, id)))
			}
		}
	}
	return out
}

func (d *document) duplicateIDs() []Violation {
	var out []Violation
	seen := make(map[string]bool)
	for _, n := range d.elements {
		id, _ := attr(n, "id")
		if id == "" || d.ids[id] < 2 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, d.violation(Rules[4], n, fmt.Sprintf("id %q is used %d times", id, d.ids[id])))
	}
	return out
}

func (d *document) hasLabel(n *html.Node) bool {
	if v, ok := attr(n, "aria-label"); ok && strings.TrimSpace(v) != "" {
		return true
	}
	if _, ok := attr(n, "aria-labelledby"); ok {
		return true
	}
	if v, ok := attr(n, "title"); ok && strings.TrimSpace(v) != "" {
		return true
	}
	if id, ok := attr(n, "id"); ok && d.labelFor[id] {
		return true
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Label {
			return true
		}
	}
	return false
}

func (d *document) violation(rule Rule, n *html.Node, message string) Violation {
	severity := SeverityError
	if rule.Impact == ImpactModerate {
		severity = SeverityWarning
	}
	return Violation{
		Rule:     rule.ID,
		Severity: severity,
		Impact:   rule.Impact,
		Selector: d.selector(n),
		Element:  outerHTML(n),
		Message:  message,
	}
}

func (d *document) selector(n *html.Node) string {
	if id, ok := attr(n, "id"); ok && id != "" {
		return n.Data + "#" + id
	}
	return fmt.Sprintf("%s[%d]", n.Data, d.position[n])
}

func isFormControl(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Select, atom.Textarea:
		return true
	case atom.Input:
		t, _ := attr(n, "type")
		switch strings.ToLower(t) {
		case "hidden", "submit", "button", "reset", "image":
			return false
		}
		return true
	default:
		return false
	}
}

func hasAccessibleName(n *html.Node) bool {
	if v, ok := attr(n, "aria-label"); ok && strings.TrimSpace(v) != "" {
		return true
	}
	if _, ok := attr(n, "aria-labelledby"); ok {
		return true
	}
	return strings.TrimSpace(textContent(n)) != ""
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// outerHTML renders the opening tag of n, enough to identify it in a
// report.
func outerHTML(n *html.Node) string {
	shallow := &html.Node{Type: n.Type, DataAtom: n.DataAtom, Data: n.Data, Attr: n.Attr}
	var b strings.Builder
	if err := html.Render(&b, shallow); err != nil {
		return "<" + n.Data + ">"
	}
	return strings.TrimSuffix(b.String(), "</"+n.Data+">")
}
