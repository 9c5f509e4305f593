package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"empty", "", 0},
		{"whitespace only", "   ", 0},
		{"plain integer", "10", 10},
		{"machine decimal", "10.5", 10.5},
		{"negative", "-3", -3},
		{"decimal comma", "12,5", 12.5},
		{"thousands and comma", "1.234,56", 1234.56},
		{"large thousands", "1.234.567,89", 1234567.89},
		{"dot-grouped integer", "1.234", 1234},
		{"multi dot-grouped integer", "12.345.678", 12345678},
		{"negative dot-grouped", "-1.234", -1234},
		{"dotted non-grouped stays decimal", "1.23", 1.23},
		{"comma forces display format", "1.2345,6", 12345.6},
		{"currency-ish garbage", "R$ 10", 0},
		{"letters", "abc", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseNumber(tc.in))
		})
	}
}

func TestParseNumberNeverPanics(t *testing.T) {
	for _, in := range []string{",", ".", ",,", "..", "-", "1,2,3"} {
		assert.NotPanics(t, func() { ParseNumber(in) }, "input %q", in)
	}
}
