package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/spf13/cobra"

	"github.com/conneroisu/widgetkit/internal/fixtures"
	"github.com/conneroisu/widgetkit/pkg/carousel"
	"github.com/conneroisu/widgetkit/pkg/datatable"
	"github.com/conneroisu/widgetkit/pkg/inputfield"
)

var (
	renderFixtures string

	renderSort       string
	renderDesc       bool
	renderSelect     []int
	renderSelectable bool
	renderLoading    bool
	renderEmpty      bool

	renderLabel       string
	renderValue       string
	renderType        string
	renderPlaceholder string
	renderHelper      string
	renderError       string
	renderVariant     = variantValue(inputfield.VariantOutlined)
	renderSize        = sizeValue(inputfield.SizeMedium)
	renderInvalid     bool
	renderDisabled    bool
	renderClearable   bool
	renderReveal      bool

	renderIndex int
)

var renderCmd = &cobra.Command{
	Use:     "render",
	Aliases: []string{"r"},
	Short:   "Print the HTML of a widget",
	Long: `Render one widget in a given state and print its HTML. Rendered widgets are
static: no htmx attributes are emitted.

Examples:
  widgetkit render table --sort age --desc
  widgetkit render table --select 0,2
  widgetkit render input --type password --reveal --variant filled --size lg
  widgetkit render carousel --index 2`,
}

var renderTableCmd = &cobra.Command{
	Use:   "table",
	Short: "Render the data table with the fixtures rows",
	Args:  cobra.NoArgs,
	RunE:  runRenderTable,
}

var renderInputCmd = &cobra.Command{
	Use:   "input",
	Short: "Render a text input",
	Args:  cobra.NoArgs,
	RunE:  runRenderInput,
}

var renderCarouselCmd = &cobra.Command{
	Use:   "carousel",
	Short: "Render the testimonial carousel",
	Args:  cobra.NoArgs,
	RunE:  runRenderCarousel,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.AddCommand(renderTableCmd, renderInputCmd, renderCarouselCmd)

	renderCmd.PersistentFlags().StringVarP(&renderFixtures, "fixtures", "f", "", "Fixtures YAML file (default is the built-in document)")

	tf := renderTableCmd.Flags()
	tf.StringVar(&renderSort, "sort", "", "Column key to sort by")
	tf.BoolVar(&renderDesc, "desc", false, "Sort descending")
	tf.IntSliceVar(&renderSelect, "select", nil, "Row positions to select, in sorted order")
	tf.BoolVar(&renderSelectable, "selectable", false, "Render selection checkboxes")
	tf.BoolVar(&renderLoading, "loading", false, "Render the loading state")
	tf.BoolVar(&renderEmpty, "empty", false, "Render without rows")

	inf := renderInputCmd.Flags()
	inf.StringVar(&renderLabel, "label", "Label", "Label text")
	inf.StringVar(&renderValue, "value", "", "Current value")
	inf.StringVar(&renderType, "type", "text", "Input type")
	inf.StringVar(&renderPlaceholder, "placeholder", "", "Placeholder text")
	inf.StringVar(&renderHelper, "helper", "", "Helper text")
	inf.StringVar(&renderError, "error", "", "Error message shown when --invalid")
	inf.Var(&renderVariant, "variant", "Visual variant (filled, outlined, ghost)")
	inf.Var(&renderSize, "size", "Size (sm, md, lg)")
	inf.BoolVar(&renderInvalid, "invalid", false, "Mark the value invalid")
	inf.BoolVar(&renderDisabled, "disabled", false, "Disable the input")
	inf.BoolVar(&renderClearable, "clearable", false, "Offer a clear button")
	inf.BoolVar(&renderReveal, "reveal", false, "Show a password as plain text")

	renderCarouselCmd.Flags().IntVar(&renderIndex, "index", 0, "Testimonial to show")
}

func runRenderTable(cmd *cobra.Command, _ []string) error {
	doc, err := fixtures.Load(renderFixtures)
	if err != nil {
		return err
	}

	props := datatable.Props{
		ID:         "table",
		Columns:    doc.TableColumns(),
		Data:       doc.TableRows(),
		Loading:    renderLoading,
		Selectable: renderSelectable || len(renderSelect) > 0,
	}
	if renderEmpty {
		props.Data = nil
	}
	t := datatable.New(props)

	if renderSort != "" {
		if !t.ToggleSort(renderSort) {
			return fmt.Errorf("no sortable column %q", renderSort)
		}
		if renderDesc {
			t.ToggleSort(renderSort)
		}
	}
	for _, position := range renderSelect {
		if err := t.ToggleRow(position); err != nil {
			return fmt.Errorf("selecting row %d: %w", position, err)
		}
	}

	return writeComponent(cmd, t.Component())
}

func runRenderInput(cmd *cobra.Command, _ []string) error {
	f := inputfield.New(inputfield.Props{
		ID:             "input",
		Name:           "input",
		Label:          renderLabel,
		Value:          renderValue,
		Type:           renderType,
		Placeholder:    renderPlaceholder,
		HelperText:     renderHelper,
		ErrorMessage:   renderError,
		Variant:        inputfield.Variant(renderVariant),
		Size:           inputfield.Size(renderSize),
		Invalid:        renderInvalid,
		Disabled:       renderDisabled,
		Clearable:      renderClearable,
		PasswordToggle: renderType == "password",
	})
	if renderReveal && !f.ToggleReveal() {
		return fmt.Errorf("--reveal needs --type password")
	}
	return writeComponent(cmd, f.Component())
}

func runRenderCarousel(cmd *cobra.Command, _ []string) error {
	doc, err := fixtures.Load(renderFixtures)
	if err != nil {
		return err
	}
	items := doc.Testimonials
	if items == nil {
		items = carousel.DefaultTestimonials()
	}

	c := carousel.New(items, carousel.WithID("carousel"))
	if renderIndex < 0 || (renderIndex > 0 && renderIndex >= c.Len()) {
		return fmt.Errorf("index %d out of range [0,%d)", renderIndex, c.Len())
	}
	for range renderIndex {
		c.Next()
	}
	return writeComponent(cmd, c.Component())
}

func writeComponent(cmd *cobra.Command, c templ.Component) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	if err := c.Render(ctx, out); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	_, err := io.WriteString(out, "\n")
	return err
}
