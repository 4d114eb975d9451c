package datatable

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type score int

type label struct{ name string }

func (l label) String() string { return l.name }

func TestCompare(t *testing.T) {
	var nilPtr *int
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	tests := []struct {
		name string
		a, b any
		want int
	}{
		{name: "both nil", a: nil, b: nil, want: 0},
		{name: "nil before number", a: nil, b: 0, want: -1},
		{name: "number after nil", a: -5, b: nil, want: 1},
		{name: "typed nil pointer is nil", a: nilPtr, b: "a", want: -1},
		{name: "nil before empty string", a: nil, b: "", want: -1},
		{name: "ints", a: 22, b: 30, want: -1},
		{name: "equal ints", a: 7, b: 7, want: 0},
		{name: "int vs float", a: 2, b: 1.5, want: 1},
		{name: "int vs uint", a: -1, b: uint(0), want: -1},
		{name: "uint vs int", a: uint(3), b: int64(3), want: 0},
		{name: "named int", a: score(9), b: 10, want: -1},
		{name: "large int64 precision", a: int64(1<<62 + 1), b: int64(1 << 62), want: 1},
		{name: "int above float precision", a: int64(1<<53 + 1), b: float64(1 << 53), want: 1},
		{name: "int equal to integral float", a: int64(1 << 53), b: float64(1 << 53), want: 0},
		{name: "max uint vs float", a: uint64(math.MaxUint64), b: math.Ldexp(1, 64), want: -1},
		{name: "int vs infinity", a: int64(math.MaxInt64), b: math.Inf(1), want: -1},
		{name: "NaN before int", a: math.NaN(), b: math.MinInt64, want: -1},
		{name: "strings", a: "Amy", b: "Zed", want: -1},
		{name: "strings are byte ordered", a: "Zed", b: "amy", want: -1},
		{name: "bools", a: false, b: true, want: -1},
		{name: "times", a: late, b: early, want: 1},
		{name: "number before string", a: 100, b: "1", want: -1},
		{name: "bool before number", a: true, b: 0, want: -1},
		{name: "other kinds by text", a: label{"b"}, b: label{"a"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a), "compare must be antisymmetric")
		})
	}
}

func TestText(t *testing.T) {
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "Amy", Text("Amy"))
	assert.Equal(t, "30", Text(30))
	assert.Equal(t, "1.5", Text(1.5))
	assert.Equal(t, "true", Text(true))
	assert.Equal(t, "2024-05-06T07:08:09Z", Text(when))
	assert.Equal(t, "x", Text(label{"x"}))
}

func TestCompareIsTransitiveAcrossNumberKinds(t *testing.T) {
	values := []any{int64(1<<53 + 1), float64(1 << 53), int64(1 << 53), uint64(1<<53 + 2), 9007199254740993.0}

	sorted := slices.Clone(values)
	slices.SortStableFunc(sorted, Compare)
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, Compare(sorted[i-1], sorted[i]), 0, "%v before %v", sorted[i-1], sorted[i])
	}

	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				if Compare(a, b) <= 0 && Compare(b, c) <= 0 {
					assert.LessOrEqual(t, Compare(a, c), 0, "%v <= %v <= %v", a, b, c)
				}
			}
		}
	}
}
