package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/spf13/cobra"

	"github.com/conneroisu/widgetkit/internal/accessibility"
	"github.com/conneroisu/widgetkit/internal/fixtures"
	"github.com/conneroisu/widgetkit/internal/logging"
	"github.com/conneroisu/widgetkit/pkg/carousel"
	"github.com/conneroisu/widgetkit/pkg/datatable"
	"github.com/conneroisu/widgetkit/pkg/inputfield"
)

var (
	auditFixtures string
	auditFormat   = newFormatValue("text", "text", "json")
	auditQuiet    bool
)

// auditCmd represents the audit command.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the accessibility check on every widget state",
	Long: `Render every widget in each of its notable states and check the markup for
unlabelled form controls, broken aria references, images without alt text,
unnamed buttons and duplicate ids. Exits non-zero when a violation is found.

Examples:
  widgetkit audit
  widgetkit audit --format json
  widgetkit audit --fixtures data.yaml --quiet`,
	Args: cobra.NoArgs,
	RunE: runAuditCommand,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVarP(&auditFixtures, "fixtures", "f", "", "Fixtures YAML file (default is the built-in document)")
	addFormatFlag(auditCmd.Flags(), auditFormat)
	auditCmd.Flags().BoolVarP(&auditQuiet, "quiet", "q", false, "Only print failing widgets")
}

// auditCase is one widget state to check.
type auditCase struct {
	name      string
	component templ.Component
}

func runAuditCommand(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	doc, err := fixtures.Load(auditFixtures)
	if err != nil {
		return err
	}

	engine := accessibility.NewEngine(logging.NopLogger{})
	reports := make([]*accessibility.Report, 0, 32)
	for _, c := range auditCases(doc) {
		report, err := engine.CheckComponent(ctx, c.name, c.component)
		if err != nil {
			return fmt.Errorf("auditing %s: %w", c.name, err)
		}
		reports = append(reports, report)
	}

	failed := 0
	for _, r := range reports {
		if !r.Passed() {
			failed++
		}
	}

	if err := writeReports(cmd.OutOrStdout(), reports, failed); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d widget states have accessibility violations", failed, len(reports))
	}
	return nil
}

func writeReports(w io.Writer, reports []*accessibility.Report, failed int) error {
	if auditFormat.String() == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, r := range reports {
		if auditQuiet && r.Passed() {
			continue
		}
		if _, err := io.WriteString(w, r.String()); err != nil {
			return err
		}
	}
	errs, warnings := 0, 0
	for _, r := range reports {
		errs += r.CountBySeverity(accessibility.SeverityError)
		warnings += r.CountBySeverity(accessibility.SeverityWarning)
	}
	_, err := fmt.Fprintf(w, "\n%d widget states checked, %d failing (%d errors, %d warnings)\n",
		len(reports), failed, errs, warnings)
	return err
}

// auditCases lists the widget states the audit renders. Interactive action
// paths are set so the htmx attributes are checked too.
func auditCases(doc *fixtures.Document) []auditCase {
	var cases []auditCase

	newTable := func(props datatable.Props) *datatable.Table {
		props.ID = "table"
		props.Columns = doc.TableColumns()
		props.ActionPath = "/widgets/table"
		return datatable.New(props)
	}

	cases = append(cases, auditCase{"table", newTable(datatable.Props{Data: doc.TableRows()}).Component()})

	sorted := newTable(datatable.Props{Data: doc.TableRows(), Selectable: true})
	if cols := sorted.Columns(); len(cols) > 0 {
		sorted.ToggleSort(cols[0].Key)
	}
	sorted.ToggleAll()
	cases = append(cases,
		auditCase{"table/sorted-selected", sorted.Component()},
		auditCase{"table/loading", newTable(datatable.Props{Loading: true, Selectable: true}).Component()},
		auditCase{"table/empty", newTable(datatable.Props{Selectable: true}).Component()},
	)

	for _, variant := range inputfield.Variants {
		for _, size := range inputfield.Sizes {
			f := inputfield.New(inputfield.Props{
				ID:         "input",
				Label:      "Label",
				Value:      "value",
				HelperText: "Helper text",
				Clearable:  true,
				Variant:    variant,
				Size:       size,
				ActionPath: "/widgets/inputs/input",
			})
			cases = append(cases, auditCase{fmt.Sprintf("input/%s-%s", variant, size), f.Component()})
		}
	}

	invalid := inputfield.New(inputfield.Props{
		ID: "email", Label: "Email", Type: "email", Value: "nope",
		HelperText: "Work address", Invalid: true, ErrorMessage: "Enter a valid email address.",
	})
	password := inputfield.New(inputfield.Props{
		ID: "password", Label: "Password", Type: "password", Value: "secret", PasswordToggle: true,
	})
	password.ToggleReveal()
	unlabelled := inputfield.New(inputfield.Props{
		ID: "search", Placeholder: "Search", Attrs: map[string]string{"aria-label": "Search"},
	})
	cases = append(cases,
		auditCase{"input/invalid", invalid.Component()},
		auditCase{"input/password-revealed", password.Component()},
		auditCase{"input/aria-label", unlabelled.Component()},
		auditCase{"input/loading-disabled", inputfield.New(inputfield.Props{
			ID: "busy", Label: "Busy", Loading: true, Disabled: true, Clearable: true, Value: "x",
		}).Component()},
	)

	items := doc.Testimonials
	if items == nil {
		items = carousel.DefaultTestimonials()
	}
	c := carousel.New(items, carousel.WithID("carousel"), carousel.WithActionPath("/widgets/carousel"))
	for i := 0; i < c.Len(); i++ {
		cases = append(cases, auditCase{fmt.Sprintf("carousel/%d", i), snapshot(c.Component())})
		c.Next()
	}

	return cases
}

// snapshot renders c now so later state changes do not affect it.
func snapshot(c templ.Component) templ.Component {
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		return templ.ComponentFunc(func(context.Context, io.Writer) error { return err })
	}
	return templ.Raw(buf.String())
}
