package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/conneroisu/widgetkit/pkg/inputfield"
)

// variantValue is a pflag.Value accepting only the input variants.
type variantValue inputfield.Variant

var _ pflag.Value = (*variantValue)(nil)

func (v *variantValue) String() string { return string(*v) }

func (v *variantValue) Set(s string) error {
	parsed, err := inputfield.ParseVariant(strings.ToLower(s))
	if err != nil {
		return err
	}
	*v = variantValue(parsed)
	return nil
}

func (v *variantValue) Type() string { return "variant" }

// sizeValue is a pflag.Value accepting only the input sizes.
type sizeValue inputfield.Size

var _ pflag.Value = (*sizeValue)(nil)

func (s *sizeValue) String() string { return string(*s) }

func (s *sizeValue) Set(v string) error {
	parsed, err := inputfield.ParseSize(strings.ToLower(v))
	if err != nil {
		return err
	}
	*s = sizeValue(parsed)
	return nil
}

func (s *sizeValue) Type() string { return "size" }

// formatValue is a pflag.Value restricted to a fixed list of output formats.
type formatValue struct {
	value   string
	allowed []string
}

func newFormatValue(def string, allowed ...string) *formatValue {
	return &formatValue{value: def, allowed: allowed}
}

func (f *formatValue) String() string { return f.value }

func (f *formatValue) Set(s string) error {
	for _, a := range f.allowed {
		if a == s {
			f.value = s
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (supported: %s)", s, strings.Join(f.allowed, ", "))
}

func (f *formatValue) Type() string { return "format" }

// addFormatFlag registers --format/-o on fs.
func addFormatFlag(fs *pflag.FlagSet, f *formatValue) {
	fs.VarP(f, "format", "o", fmt.Sprintf("Output format (%s)", strings.Join(f.allowed, ", ")))
}
