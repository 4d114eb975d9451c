package inputfield

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type changeRecorder struct {
	events []ChangeEvent
}

func (r *changeRecorder) record(e ChangeEvent) {
	r.events = append(r.events, e)
}

func render(t *testing.T, f *Field) *html.Node {
	t.Helper()
	var b strings.Builder
	require.NoError(t, f.Component().Render(context.Background(), &b))
	doc, err := html.Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	return doc
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

func byAttr(name, value string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		v, ok := attrOf(n, name)
		return ok && v == value
	}
}

func attrOf(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func TestChangeForwardsValue(t *testing.T) {
	rec := &changeRecorder{}
	f := New(Props{ID: "email", Label: "Email", Value: "a", OnChange: rec.record, Placeholder: "type"})

	f.Change("b")

	require.Len(t, rec.events, 1)
	assert.Equal(t, ChangeEvent{ID: "email", Value: "b"}, rec.events[0])
	assert.Equal(t, "a", f.Value(), "the field does not apply the change itself")
}

func TestChangeWithoutHandler(t *testing.T) {
	f := New(Props{Value: "a"})
	assert.NotPanics(t, func() { f.Change("b") })
}

func TestClear(t *testing.T) {
	tests := []struct {
		name  string
		props Props
		want  bool
	}{
		{name: "clearable with value", props: Props{Clearable: true, Value: "hello"}, want: true},
		{name: "whitespace value", props: Props{Clearable: true, Value: " "}, want: true},
		{name: "not clearable", props: Props{Value: "hello"}, want: false},
		{name: "empty value", props: Props{Clearable: true}, want: false},
		{name: "disabled", props: Props{Clearable: true, Value: "hello", Disabled: true}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &changeRecorder{}
			tt.props.OnChange = rec.record
			f := New(tt.props)

			assert.Equal(t, tt.want, f.Clear())
			if !tt.want {
				assert.Empty(t, rec.events)
				return
			}
			require.Len(t, rec.events, 1)
			assert.Equal(t, "", rec.events[0].Value)
			assert.True(t, rec.events[0].Synthetic)
			assert.Equal(t, tt.props.Value, f.Value())
		})
	}
}

func TestToggleReveal(t *testing.T) {
	rec := &changeRecorder{}
	f := New(Props{Type: "password", PasswordToggle: true, Value: "secret", OnChange: rec.record})

	assert.Equal(t, "password", f.InputType())
	require.True(t, f.ToggleReveal())
	assert.True(t, f.Revealed())
	assert.Equal(t, "text", f.InputType())
	require.True(t, f.ToggleReveal())
	assert.Equal(t, "password", f.InputType())

	assert.Empty(t, rec.events, "revealing never emits a change")
	assert.Equal(t, "secret", f.Value())
}

func TestToggleRevealUnavailable(t *testing.T) {
	for _, p := range []Props{
		{Type: "password"},
		{Type: "text", PasswordToggle: true},
		{PasswordToggle: true},
	} {
		f := New(p)
		assert.False(t, f.ToggleReveal())
		assert.False(t, f.Revealed())
		assert.Equal(t, f.Props().Type, f.InputType())
	}
}

func TestGeneratedIDIsStable(t *testing.T) {
	f := New(Props{Label: "Name"})
	id := f.ID()

	require.True(t, strings.HasPrefix(id, "input-"))
	f.SetProps(Props{Label: "Name", Value: "x"})
	assert.Equal(t, id, f.ID())
	assert.Equal(t, "x", f.Value())
}

func TestSetPropsKeepsRevealState(t *testing.T) {
	f := New(Props{Type: "password", PasswordToggle: true})
	f.ToggleReveal()

	f.SetProps(Props{Type: "password", PasswordToggle: true, Value: "new"})

	assert.True(t, f.Revealed())
	assert.Equal(t, "text", f.InputType())
}

func TestDescribedBy(t *testing.T) {
	tests := []struct {
		name  string
		props Props
		want  string
	}{
		{name: "nothing", props: Props{ID: "f"}, want: ""},
		{name: "helper", props: Props{ID: "f", HelperText: "h"}, want: "f-help"},
		{name: "error needs invalid", props: Props{ID: "f", ErrorMessage: "e"}, want: ""},
		{name: "invalid needs message", props: Props{ID: "f", Invalid: true}, want: ""},
		{name: "error", props: Props{ID: "f", Invalid: true, ErrorMessage: "e"}, want: "f-err"},
		{name: "both", props: Props{ID: "f", HelperText: "h", Invalid: true, ErrorMessage: "e"}, want: "f-help f-err"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.props).DescribedBy())
		})
	}
}

func TestParseVariantAndSize(t *testing.T) {
	v, err := ParseVariant("ghost")
	require.NoError(t, err)
	assert.Equal(t, VariantGhost, v)
	_, err = ParseVariant("neon")
	assert.Error(t, err)

	s, err := ParseSize("lg")
	require.NoError(t, err)
	assert.Equal(t, SizeLarge, s)
	_, err = ParseSize("xl")
	assert.Error(t, err)
}

func TestRenderLabelAndAssistiveText(t *testing.T) {
	f := New(Props{
		ID:           "email",
		Label:        "Email",
		Value:        "a",
		Placeholder:  "type",
		HelperText:   "We never share it.",
		Invalid:      true,
		ErrorMessage: "Please fix this.",
	})

	doc := render(t, f)

	label := find(doc, byTag("label"))
	require.NotNil(t, label)
	forID, _ := attrOf(label, "for")
	assert.Equal(t, "email", forID)

	input := find(doc, byTag("input"))
	require.NotNil(t, input)
	value, _ := attrOf(input, "value")
	assert.Equal(t, "a", value)
	placeholder, _ := attrOf(input, "placeholder")
	assert.Equal(t, "type", placeholder)
	described, _ := attrOf(input, "aria-describedby")
	assert.Equal(t, "email-help email-err", described)
	invalid, _ := attrOf(input, "aria-invalid")
	assert.Equal(t, "true", invalid)

	assert.NotNil(t, find(doc, byAttr("id", "email-help")))
	assert.NotNil(t, find(doc, byAttr("id", "email-err")))
}

func TestRenderOmitsEmptyAssistiveText(t *testing.T) {
	doc := render(t, New(Props{ID: "plain", ErrorMessage: "hidden unless invalid"}))

	input := find(doc, byTag("input"))
	_, ok := attrOf(input, "aria-describedby")
	assert.False(t, ok)
	_, ok = attrOf(input, "aria-invalid")
	assert.False(t, ok)
	assert.Nil(t, find(doc, byAttr("id", "plain-err")))
	assert.Nil(t, find(doc, byTag("label")))
}

func TestRenderClearButton(t *testing.T) {
	clearButton := byAttr("aria-label", "Clear input")

	assert.NotNil(t, find(render(t, New(Props{Clearable: true, Value: "x"})), clearButton))
	assert.Nil(t, find(render(t, New(Props{Clearable: true})), clearButton))
	assert.Nil(t, find(render(t, New(Props{Clearable: true, Value: "x", Disabled: true})), clearButton))
}

func TestRenderPasswordToggle(t *testing.T) {
	f := New(Props{Type: "password", PasswordToggle: true})

	doc := render(t, f)
	input := find(doc, byTag("input"))
	typ, _ := attrOf(input, "type")
	assert.Equal(t, "password", typ)
	assert.NotNil(t, find(doc, byAttr("aria-label", "Show password")))

	f.ToggleReveal()
	doc = render(t, f)
	input = find(doc, byTag("input"))
	typ, _ = attrOf(input, "type")
	assert.Equal(t, "text", typ)
	assert.NotNil(t, find(doc, byAttr("aria-label", "Hide password")))
}

func TestRenderVariantsAndSizes(t *testing.T) {
	classOf := func(p Props) string {
		c, _ := attrOf(find(render(t, New(p)), byTag("input")), "class")
		return c
	}

	assert.Contains(t, classOf(Props{}), "border-gray-300", "outlined is the default")
	assert.Contains(t, classOf(Props{}), "h-10")
	assert.Contains(t, classOf(Props{Variant: VariantFilled}), "bg-gray-100")
	assert.Contains(t, classOf(Props{Variant: VariantGhost}), "bg-transparent")
	assert.Contains(t, classOf(Props{Size: SizeSmall}), "h-9")
	assert.Contains(t, classOf(Props{Size: SizeLarge}), "h-12")
	assert.Contains(t, classOf(Props{Loading: true}), "cursor-wait")
	assert.Contains(t, classOf(Props{Disabled: true}), "cursor-not-allowed")
	assert.Contains(t, classOf(Props{Invalid: true}), "border-red-500")
}

func TestRenderLoadingSpinner(t *testing.T) {
	spinner := func(n *html.Node) bool {
		c, _ := attrOf(n, "class")
		return strings.Contains(c, "animate-spin")
	}

	assert.NotNil(t, find(render(t, New(Props{Loading: true})), spinner))
	assert.Nil(t, find(render(t, New(Props{})), spinner))
}

func TestRenderActions(t *testing.T) {
	f := New(Props{ID: "email", Name: "email", Clearable: true, Value: "x", ActionPath: "/widgets/inputs/email"})

	doc := render(t, f)

	input := find(doc, byTag("input"))
	post, _ := attrOf(input, "hx-post")
	assert.Equal(t, "/widgets/inputs/email/change", post)
	target, _ := attrOf(input, "hx-target")
	assert.Equal(t, "#email-field", target)

	button := find(doc, byAttr("aria-label", "Clear input"))
	post, _ = attrOf(button, "hx-post")
	assert.Equal(t, "/widgets/inputs/email/clear", post)
}

func TestRenderExtraAttributes(t *testing.T) {
	doc := render(t, New(Props{Attrs: map[string]string{"autocomplete": "email", "maxlength": "40"}}))

	input := find(doc, byTag("input"))
	ac, _ := attrOf(input, "autocomplete")
	assert.Equal(t, "email", ac)
	ml, _ := attrOf(input, "maxlength")
	assert.Equal(t, "40", ml)
}

func TestRenderDropsUnsafeAttributes(t *testing.T) {
	f := New(Props{
		ID:    "email",
		Value: "a",
		Attrs: map[string]string{
			`onfocus="alert(1)" data-x`: "y",
			"onclick":                   "alert(1)",
			"OnBlur":                    "alert(1)",
			"type":                      "number",
			"ID":                        "other",
			"value":                     "b",
			"data-test":                 "ok",
			"aria-label":                "Email",
			"1st":                       "no",
		},
	})

	var out strings.Builder
	require.NoError(t, f.Component().Render(context.Background(), &out))
	markup := out.String()
	assert.NotContains(t, markup, "alert(1)")
	assert.NotContains(t, markup, "1st")
	assert.NotContains(t, markup, `id="other"`)
	assert.Equal(t, 1, strings.Count(markup, " type="))

	input := find(render(t, f), byTag("input"))
	typ, _ := attrOf(input, "type")
	assert.Equal(t, "text", typ)
	value, _ := attrOf(input, "value")
	assert.Equal(t, "a", value)
	dt, _ := attrOf(input, "data-test")
	assert.Equal(t, "ok", dt)
	label, _ := attrOf(input, "aria-label")
	assert.Equal(t, "Email", label)
	_, ok := attrOf(input, "onfocus")
	assert.False(t, ok)
}

func TestAllowedAttr(t *testing.T) {
	for name, want := range map[string]bool{
		"autocomplete": true,
		"data-id":      true,
		"xml:lang":     true,
		"":             false,
		"-x":           false,
		"a b":          false,
		`a"`:           false,
		"onInput":      false,
		"Type":         false,
	} {
		assert.Equal(t, want, allowedAttr(name), name)
	}
}
