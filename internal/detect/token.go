package detect

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// token is one whitespace-delimited word of a segment. Norm is lowercased
// with surrounding punctuation stripped; Text keeps the original spelling
// for leftover diagnostics.
type token struct {
	Text string
	Norm string
}

func tokenize(text string) []token {
	fields := strings.Fields(text)
	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		norm := strings.TrimFunc(strings.ToLower(f), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
		})
		tokens = append(tokens, token{Text: f, Norm: norm})
	}
	return tokens
}

// measurement is a parsed quantity, optionally with a recognized unit.
// start/end are token indexes (end exclusive).
type measurement struct {
	start, end int
	quantity   float64
	unit       string // canonical unit, empty for a bare number
	dimension  bool
	claimed    bool
}

var (
	numberRe    = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
	dimensionRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)x(-?\d+(?:\.\d+)?)$`)
)

func parseNumber(s string) (float64, bool) {
	if !numberRe.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseDimension recognizes "15x10" in one token or "15 x 10" / "15 by 10"
// across three, starting at index i. Dimension pairs are multiplied into an
// area quantity in square feet.
func parseDimension(tokens []token, i int) (measurement, bool) {
	if m := dimensionRe.FindStringSubmatch(tokens[i].Norm); m != nil {
		w, _ := strconv.ParseFloat(m[1], 64)
		h, _ := strconv.ParseFloat(m[2], 64)
		return measurement{start: i, end: i + 1, quantity: w * h, unit: "sqft", dimension: true}, true
	}
	if i+2 < len(tokens) {
		sep := tokens[i+1].Norm
		if sep == "x" || sep == "by" {
			w, okW := parseNumber(tokens[i].Norm)
			h, okH := parseNumber(tokens[i+2].Norm)
			if okW && okH {
				return measurement{start: i, end: i + 3, quantity: w * h, unit: "sqft", dimension: true}, true
			}
		}
	}
	return measurement{}, false
}
