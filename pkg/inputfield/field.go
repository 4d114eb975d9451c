// Package inputfield provides a controlled text input widget.
//
// The caller owns the value: Props.Value is rendered as is and every edit is
// forwarded through Props.OnChange without being applied locally. The only
// state the widget keeps is whether a password is currently revealed.
package inputfield

import (
	"fmt"

	"github.com/google/uuid"
)

// Variant selects the visual style of the input.
type Variant string

const (
	VariantFilled   Variant = "filled"
	VariantOutlined Variant = "outlined"
	VariantGhost    Variant = "ghost"
)

// Variants lists the accepted variants.
var Variants = []Variant{VariantFilled, VariantOutlined, VariantGhost}

// Size selects the height and padding of the input.
type Size string

const (
	SizeSmall  Size = "sm"
	SizeMedium Size = "md"
	SizeLarge  Size = "lg"
)

// Sizes lists the accepted sizes.
var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge}

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown variant %q (want filled, outlined or ghost)", s)
}

// ParseSize validates a size name.
func ParseSize(s string) (Size, error) {
	for _, v := range Sizes {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown size %q (want sm, md or lg)", s)
}

// ChangeEvent carries the new value of the input.
type ChangeEvent struct {
	// ID is the element id of the input that changed.
	ID    string
	Value string
	// Synthetic is set for events produced by the clear action rather than
	// by the user typing.
	Synthetic bool
}

// Props configures a Field. Value and OnChange belong to the caller.
type Props struct {
	ID           string
	Name         string
	Label        string
	Placeholder  string
	HelperText   string
	ErrorMessage string
	// Type is the input type. Defaults to "text".
	Type     string
	Value    string
	OnChange func(ChangeEvent)

	Disabled       bool
	Invalid        bool
	Loading        bool
	Clearable      bool
	PasswordToggle bool

	Variant Variant
	Size    Size
	Class   string
	// Attrs are extra attributes copied onto the input element. Names that
	// are not plain attribute tokens, event handlers (on*) and attributes
	// the field writes itself are dropped.
	Attrs map[string]string
	// ActionPath enables interactive rendering: edits, clear and reveal post
	// to paths below it and swap the field in place.
	ActionPath string
}

// Field is one mounted instance of the input widget.
type Field struct {
	props    Props
	id       string
	revealed bool
}

// New creates a field. A random id is generated when Props.ID is empty and
// kept for the lifetime of the field.
func New(props Props) *Field {
	id := props.ID
	if id == "" {
		id = "input-" + uuid.NewString()
	}
	return &Field{props: normalize(props), id: id}
}

func normalize(p Props) Props {
	if p.Type == "" {
		p.Type = "text"
	}
	if p.Variant == "" {
		p.Variant = VariantOutlined
	}
	if p.Size == "" {
		p.Size = SizeMedium
	}
	return p
}

// SetProps replaces the caller owned props. The element id and the reveal
// state survive.
func (f *Field) SetProps(props Props) {
	if props.ID != "" {
		f.id = props.ID
	}
	f.props = normalize(props)
}

// Props returns the current props.
func (f *Field) Props() Props {
	return f.props
}

// ID returns the element id of the input.
func (f *Field) ID() string {
	return f.id
}

// Value returns the caller supplied value.
func (f *Field) Value() string {
	return f.props.Value
}

// Change forwards an edit to the caller unmodified.
func (f *Field) Change(value string) {
	if f.props.OnChange != nil {
		f.props.OnChange(ChangeEvent{ID: f.id, Value: value})
	}
}

// CanClear reports whether the clear action is available.
func (f *Field) CanClear() bool {
	return f.props.Clearable && f.props.Value != "" && !f.props.Disabled
}

// Clear asks the caller to empty the value by emitting a synthetic change
// with an empty value. It reports whether an event was emitted.
func (f *Field) Clear() bool {
	if !f.CanClear() {
		return false
	}
	if f.props.OnChange != nil {
		f.props.OnChange(ChangeEvent{ID: f.id, Value: "", Synthetic: true})
	}
	return true
}

// CanReveal reports whether the password visibility toggle is available.
func (f *Field) CanReveal() bool {
	return f.props.PasswordToggle && f.props.Type == "password"
}

// Revealed reports whether a password is currently shown as plain text.
func (f *Field) Revealed() bool {
	return f.revealed
}

// ToggleReveal switches a password between hidden and shown. The value is
// untouched and no change is emitted. It reports whether the toggle is
// available.
func (f *Field) ToggleReveal() bool {
	if !f.CanReveal() {
		return false
	}
	f.revealed = !f.revealed
	return true
}

// InputType returns the type attribute the input is rendered with.
func (f *Field) InputType() string {
	if f.CanReveal() && f.revealed {
		return "text"
	}
	return f.props.Type
}

// HelperID returns the id of the helper text, empty when there is none.
func (f *Field) HelperID() string {
	if f.props.HelperText == "" {
		return ""
	}
	return f.id + "-help"
}

// ErrorID returns the id of the error text, empty unless the field is
// invalid and has an error message.
func (f *Field) ErrorID() string {
	if !f.props.Invalid || f.props.ErrorMessage == "" {
		return ""
	}
	return f.id + "-err"
}

// DescribedBy returns the aria-describedby value, empty when nothing
// describes the input.
func (f *Field) DescribedBy() string {
	helper, errID := f.HelperID(), f.ErrorID()
	switch {
	case helper != "" && errID != "":
		return helper + " " + errID
	case helper != "":
		return helper
	default:
		return errID
	}
}
