package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Square Feet": "square_feet",
		"sq. ft":      "sq_ft",
		"  sq   ft  ": "sq_ft",
		"SQFT":        "sqft",
		"lin-ft":      "linft",
		"":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestCanonical(t *testing.T) {
	cases := []struct {
		in   string
		want Unit
		ok   bool
	}{
		{"sq ft", SquareFeet, true},
		{"square feet", SquareFeet, true},
		{"feet", LinearFeet, true},
		{"ft", LinearFeet, true},
		{"lin ft", LinearFeet, true},
		{"zones", Zones, true},
		{"zone", Zones, true},
		{"yards", CubicYards, true},
		{"each", Each, true},
		{"furlongs", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := Canonical(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestCompatible(t *testing.T) {
	assert.True(t, Compatible("square feet", SquareFeet))
	assert.True(t, Compatible("sq ft", SquareFeet))
	assert.True(t, Compatible("feet", LinearFeet))
	assert.False(t, Compatible("feet", SquareFeet))
	assert.False(t, Compatible("bananas", SquareFeet))
}
