// Package fixtures loads the demo data shown by the widget host: table
// columns and rows plus carousel testimonials, from a YAML document.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/widgetkit/internal/errors"
	"github.com/conneroisu/widgetkit/pkg/carousel"
	"github.com/conneroisu/widgetkit/pkg/datatable"
)

//go:embed default.yaml
var defaultDocument []byte

// ColumnDef is the YAML form of a table column.
type ColumnDef struct {
	Key      string `yaml:"key"`
	Title    string `yaml:"title"`
	Field    string `yaml:"field"`
	Sortable bool   `yaml:"sortable"`
	// Format names a cell renderer, see Formats.
	Format string `yaml:"format"`
}

// Document is a parsed fixtures file.
type Document struct {
	Columns      []ColumnDef           `yaml:"columns"`
	Rows         []map[string]any       `yaml:"rows"`
	Testimonials []carousel.Testimonial `yaml:"testimonials"`
}

// Default returns the embedded document.
func Default() *Document {
	doc, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("embedded fixtures are invalid: %v", err))
	}
	return doc
}

// Load reads the document at path. An empty path returns Default.
func Load(path string) (*Document, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFixturesRead, "reading fixtures", err).
			WithContext("path", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFixturesInvalid, "parsing fixtures").
			WithContext("path", path)
	}
	return doc, nil
}

// Parse decodes and checks a fixtures document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &errors.WidgetError{
			Type:    errors.ErrorTypeValidation,
			Code:    errors.ErrCodeFixturesInvalid,
			Message: "decoding fixtures",
			Cause:   err,
		}
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	var vec errors.ValidationErrorCollection

	if len(d.Columns) == 0 {
		vec.AddField("columns", nil, "at least one column is required")
	}
	seen := make(map[string]bool, len(d.Columns))
	for i, c := range d.Columns {
		name := fmt.Sprintf("columns[%d]", i)
		if c.Field == "" {
			vec.AddField(name+".field", c.Field, "field is required")
		}
		if c.Key == "" {
			d.Columns[i].Key = c.Field
			c.Key = c.Field
		}
		if seen[c.Key] {
			vec.AddField(name+".key", c.Key, "duplicate column key")
		}
		seen[c.Key] = true
		if c.Format != "" {
			if _, ok := formats[c.Format]; !ok {
				vec.AddField(name+".format", c.Format, "unknown format",
					"Known formats: "+strings.Join(Formats(), ", "))
			}
		}
	}

	if !vec.HasErrors() {
		return nil
	}
	we := vec.ToWidgetError()
	we.Type = errors.ErrorTypeValidation
	we.Code = errors.ErrCodeFixturesInvalid
	return we
}

// TableColumns converts the column definitions, binding format renderers.
func (d *Document) TableColumns() []datatable.Column {
	cols := make([]datatable.Column, 0, len(d.Columns))
	for _, c := range d.Columns {
		cols = append(cols, datatable.Column{
			Key:      c.Key,
			Title:    c.Title,
			Field:    c.Field,
			Sortable: c.Sortable,
			Render:   formats[c.Format],
		})
	}
	return cols
}

// TableRows returns the rows as table records.
func (d *Document) TableRows() []datatable.Row {
	rows := make([]datatable.Row, 0, len(d.Rows))
	for _, r := range d.Rows {
		rows = append(rows, datatable.Row(r))
	}
	return rows
}
