package accessibility

import (
	"fmt"
	"strings"
)

// ViolationSeverity represents the severity level of an accessibility violation.
type ViolationSeverity string

const (
	SeverityError   ViolationSeverity = "error"
	SeverityWarning ViolationSeverity = "warning"
)

// ViolationImpact represents the potential impact of an accessibility violation.
type ViolationImpact string

const (
	ImpactCritical ViolationImpact = "critical"
	ImpactSerious  ViolationImpact = "serious"
	ImpactModerate ViolationImpact = "moderate"
)

// Rule is one check the engine runs.
type Rule struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Impact      ViolationImpact `json:"impact"`
	// Criterion is the WCAG success criterion the rule relates to.
	Criterion string `json:"criterion"`
	HelpURL   string `json:"help_url"`
}

// Violation is a single accessibility issue found in rendered markup.
type Violation struct {
	Rule     string            `json:"rule"`
	Severity ViolationSeverity `json:"severity"`
	Impact   ViolationImpact   `json:"impact"`
	// Selector locates the element, such as input#email or button[2].
	Selector string `json:"selector"`
	Element  string `json:"element"`
	Message  string `json:"message"`
}

// String formats the violation for terminal output.
func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Rule, v.Selector, v.Message)
}

// Report holds the result of checking one component.
type Report struct {
	Component  string      `json:"component"`
	Violations []Violation `json:"violations"`
	Checked    int         `json:"checked_elements"`
}

// Passed reports whether no violation was found.
func (r *Report) Passed() bool {
	return len(r.Violations) == 0
}

// CountBySeverity returns the number of violations of severity.
func (r *Report) CountBySeverity(severity ViolationSeverity) int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == severity {
			n++
		}
	}
	return n
}

// String renders the report as a short human readable summary.
func (r *Report) String() string {
	var b strings.Builder
	if r.Passed() {
		fmt.Fprintf(&b, "✅ %s: %d elements, no violations\n", r.Component, r.Checked)
		return b.String()
	}
	fmt.Fprintf(&b, "❌ %s: %d violation(s)\n", r.Component, len(r.Violations))
	for _, v := range r.Violations {
		fmt.Fprintf(&b, "  • %s\n", v)
	}
	return b.String()
}
