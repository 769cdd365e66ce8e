// Package units provides canonical measurement units and compatibility
// checks between customer-phrased units and catalog units.
package units

import (
	"strings"
	"unicode"
)

// Unit is a canonical measurement unit for a catalog entry.
type Unit = string

const (
	SquareFeet Unit = "sqft"
	LinearFeet Unit = "linear_feet"
	CubicYards Unit = "cubic_yards"
	Zones      Unit = "zones"
	Each       Unit = "each"
	Hours      Unit = "hours"
)

// aliases maps a canonical unit to the normalized spellings it accepts.
var aliases = map[Unit][]string{
	SquareFeet: {"sqft", "sq_ft", "square_feet", "square_foot", "sf", "sq_feet"},
	LinearFeet: {"linear_feet", "linear_foot", "lin_ft", "feet", "foot", "ft", "lf"},
	CubicYards: {"cubic_yards", "cubic_yard", "cu_yd", "yards", "yard", "yd", "yds"},
	Zones:      {"zones", "zone"},
	Each:       {"each", "ea", "unit", "units", "count", "item", "items"},
	Hours:      {"hours", "hour", "hr", "hrs"},
}

// Normalize lowercases a unit spelling, collapses whitespace runs to a
// single underscore, and strips anything that is not a letter or
// underscore. "Square Feet" and "sq. ft" normalize to "square_feet" and
// "sq_ft".
func Normalize(unit string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(strings.ToLower(unit)) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
			lastUnderscore = false
		case unicode.IsSpace(r) || r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// Canonical resolves a customer-phrased unit to its canonical unit.
// Returns the canonical unit and true when the spelling is recognized.
func Canonical(unit string) (Unit, bool) {
	norm := Normalize(unit)
	if norm == "" {
		return "", false
	}
	for canonical, spellings := range aliases {
		for _, s := range spellings {
			if norm == s {
				return canonical, true
			}
		}
	}
	return "", false
}

// Compatible reports whether a customer-phrased unit is acceptable for a
// catalog entry expecting the given canonical unit. Unknown spellings are
// not compatible with anything.
func Compatible(got string, want Unit) bool {
	canonical, ok := Canonical(got)
	if !ok {
		return false
	}
	return canonical == want
}
