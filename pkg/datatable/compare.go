package datatable

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"
	"time"
)

// kind ranks order values of unrelated types against each other so that a
// column holding mixed values still sorts deterministically.
type kind int

const (
	kindNil kind = iota
	kindBool
	kindInt
	kindUint
	kindFloat
	kindString
	kindTime
	kindOther
)

// Compare orders two cell values.
//
// Missing and nil values are less than every defined value. Numbers compare
// numerically across all Go numeric kinds, strings lexicographically by
// byte, booleans false before true and time.Time chronologically. Values of
// unrelated kinds order by kind (bool, number, string, time, other) and
// anything else falls back to comparing its fmt.Sprint text. Compare never
// panics.
func Compare(a, b any) int {
	ka, va := classify(a)
	kb, vb := classify(b)

	if ka == kindNil || kb == kindNil {
		return cmp.Compare(boolRank(ka != kindNil), boolRank(kb != kindNil))
	}

	if isNumber(ka) && isNumber(kb) {
		return compareNumbers(ka, va, kb, vb)
	}

	if ka != kb {
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case kindBool:
		return cmp.Compare(boolRank(va.Bool()), boolRank(vb.Bool()))
	case kindString:
		return strings.Compare(va.String(), vb.String())
	case kindTime:
		return a.(time.Time).Compare(b.(time.Time))
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func classify(v any) (kind, reflect.Value) {
	if v == nil {
		return kindNil, reflect.Value{}
	}
	if _, ok := v.(time.Time); ok {
		return kindTime, reflect.ValueOf(v)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return kindNil, rv
		}
		return kindOther, rv
	case reflect.Bool:
		return kindBool, rv
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindInt, rv
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return kindUint, rv
	case reflect.Float32, reflect.Float64:
		return kindFloat, rv
	case reflect.String:
		return kindString, rv
	default:
		return kindOther, rv
	}
}

func isNumber(k kind) bool {
	return k == kindInt || k == kindUint || k == kindFloat
}

// compareNumbers compares exactly across integer and float kinds. NaN sorts
// before every other number.
func compareNumbers(ka kind, va reflect.Value, kb kind, vb reflect.Value) int {
	switch {
	case ka == kindInt && kb == kindInt:
		return cmp.Compare(va.Int(), vb.Int())
	case ka == kindUint && kb == kindUint:
		return cmp.Compare(va.Uint(), vb.Uint())
	case ka == kindInt && kb == kindUint:
		if va.Int() < 0 {
			return -1
		}
		return cmp.Compare(uint64(va.Int()), vb.Uint())
	case ka == kindUint && kb == kindInt:
		if vb.Int() < 0 {
			return 1
		}
		return cmp.Compare(va.Uint(), uint64(vb.Int()))
	case ka == kindFloat && kb == kindFloat,
		ka == kindFloat && math.IsNaN(va.Float()),
		kb == kindFloat && math.IsNaN(vb.Float()):
		return cmp.Compare(toFloat(ka, va), toFloat(kb, vb))
	default:
		return toBig(ka, va).Cmp(toBig(kb, vb))
	}
}

func toFloat(k kind, v reflect.Value) float64 {
	switch k {
	case kindInt:
		return float64(v.Int())
	case kindUint:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

// toBig holds any non-NaN number without rounding.
func toBig(k kind, v reflect.Value) *big.Float {
	switch k {
	case kindInt:
		return new(big.Float).SetInt64(v.Int())
	case kindUint:
		return new(big.Float).SetUint64(v.Uint())
	default:
		return new(big.Float).SetFloat64(v.Float())
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Text converts a cell value to its display text. nil renders as the empty
// string.
func Text(v any) string {
	k, _ := classify(v)
	if k == kindNil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
