// Package carousel provides a testimonial carousel that cycles through a
// fixed list of quotes.
package carousel

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Testimonial is one quote shown by the carousel.
type Testimonial struct {
	Text   string `yaml:"text" json:"text"`
	Author string `yaml:"author" json:"author"`
	// Logo is an image path resolved by the host.
	Logo string `yaml:"logo" json:"logo"`
}

// DefaultTestimonials returns the built-in quotes.
func DefaultTestimonials() []Testimonial {
	return []Testimonial{
		{
			Text:   `"The quality never wanes. Continuing to offer 925 silver and high-end, quality jewellery at an alarmingly accessible price point."`,
			Author: "Clash",
			Logo:   "/assets/images/clash.svg",
		},
		{
			Text:   `"Serge DeNimes has blended the traditionally clear line between streetwear and jewellery."`,
			Author: "Hypebeast",
			Logo:   "/assets/images/hypebeast.svg",
		},
		{
			Text:   `"We are always excited by their innovative seasonal collections."`,
			Author: "Vogue",
			Logo:   "/assets/images/vogue.svg",
		},
	}
}

// Next returns the index after index in a list of n items, wrapping to 0.
func Next(index, n int) int {
	if n <= 0 {
		return 0
	}
	if index >= n-1 {
		return 0
	}
	return index + 1
}

// Prev returns the index before index in a list of n items, wrapping to
// n-1.
func Prev(index, n int) int {
	if n <= 0 {
		return 0
	}
	if index <= 0 {
		return n - 1
	}
	return index - 1
}

// Carousel is one mounted instance of the widget.
type Carousel struct {
	id         string
	items      []Testimonial
	index      int
	actionPath string
}

// Option configures a Carousel.
type Option func(*Carousel)

// WithID sets the element id of the carousel.
func WithID(id string) Option {
	return func(c *Carousel) { c.id = id }
}

// WithActionPath enables interactive rendering: the navigation buttons post
// to paths below path and swap the carousel in place.
func WithActionPath(path string) Option {
	return func(c *Carousel) { c.actionPath = strings.TrimSuffix(path, "/") }
}

// New creates a carousel positioned on the first item. items is copied.
func New(items []Testimonial, opts ...Option) *Carousel {
	c := &Carousel{
		id:    "carousel",
		items: append([]Testimonial(nil), items...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Len returns the number of items.
func (c *Carousel) Len() int {
	return len(c.items)
}

// Index returns the cursor.
func (c *Carousel) Index() int {
	return c.index
}

// Next advances the cursor, wrapping from the last item to the first.
func (c *Carousel) Next() {
	c.index = Next(c.index, len(c.items))
}

// Prev moves the cursor back, wrapping from the first item to the last.
func (c *Carousel) Prev() {
	c.index = Prev(c.index, len(c.items))
}

// Current returns the item under the cursor. ok is false for an empty
// carousel.
func (c *Carousel) Current() (item Testimonial, ok bool) {
	if len(c.items) == 0 {
		return Testimonial{}, false
	}
	return c.items[c.index], true
}

// Component renders the current item. An empty carousel renders nothing.
func (c *Carousel) Component() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		item, ok := c.Current()
		if !ok {
			return nil
		}

		var b strings.Builder
		b.WriteString(`<div id="`)
		b.WriteString(templ.EscapeString(c.id))
		b.WriteString(`" class="w-full max-w-xl mx-auto text-center p-6 bg-white shadow rounded-2xl" data-index="`)
		b.WriteString(strconv.Itoa(c.index))
		b.WriteString(`"><div class="flex justify-center items-center space-x-4 mb-4">`)
		c.button(&b, "prev", "Previous testimonial", "‹")
		b.WriteString(`<div class="flex-1"><p class="text-gray-700 text-lg italic">`)
		b.WriteString(templ.EscapeString(item.Text))
		b.WriteString(`</p><div class="flex justify-center items-center mt-3 space-x-2"><img src="`)
		b.WriteString(templ.EscapeString(item.Logo))
		b.WriteString(`" alt="`)
		b.WriteString(templ.EscapeString(item.Author))
		b.WriteString(`" class="w-10 h-10"><p class="font-semibold">`)
		b.WriteString(templ.EscapeString(item.Author))
		b.WriteString(`</p></div></div>`)
		c.button(&b, "next", "Next testimonial", "›")
		b.WriteString(`</div></div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func (c *Carousel) button(b *strings.Builder, action, label, glyph string) {
	b.WriteString(`<button type="button" aria-label="`)
	b.WriteString(label)
	b.WriteString(`" class="w-6 h-6 cursor-pointer"`)
	if c.actionPath != "" {
		b.WriteString(` hx-post="`)
		b.WriteString(templ.EscapeString(c.actionPath + "/" + action))
		b.WriteString(`" hx-target="#`)
		b.WriteString(templ.EscapeString(c.id))
		b.WriteString(`" hx-swap="outerHTML"`)
	}
	b.WriteString(`>`)
	b.WriteString(glyph)
	b.WriteString(`</button>`)
}
