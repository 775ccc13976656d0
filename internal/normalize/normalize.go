// Package normalize turns raw table text scraped from the polymer database
// into typed info records.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"polymer-kinetics-api/internal/models"
)

// NumericFields are coerced to numbers when their text parses as a float.
var NumericFields = []string{"A", "Ea", "Tmin", "Tmax"}

// unitSuffixes are removed from every cell, in this order.
var unitSuffixes = []string{" J · mol-1", "L · mol-1s-1"}

// StripUnits removes the activation energy and rate constant unit suffixes.
func StripUnits(s string) string {
	for _, u := range unitSuffixes {
		s = strings.ReplaceAll(s, u, "")
	}
	return s
}

// Number parses text as a decimal float. Surrounding whitespace is ignored.
// Hex floats are not accepted, and NaN and infinities are rejected since they
// cannot be encoded as JSON.
func Number(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if isHex(text) {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// Record pairs headers with cells positionally. Callers are expected to have
// checked that both slices have the same length; extra entries are ignored.
// A repeated header keeps its first position and its last value.
func Record(headers, cells []string) models.InfoRecord {
	var rec models.InfoRecord
	n := min(len(headers), len(cells))
	for i := 0; i < n; i++ {
		rec.Set(headers[i], models.Text(cells[i]))
	}
	return rec
}

// Apply converts NumericFields of rec in place. Unparseable text is kept as is.
func Apply(rec *models.InfoRecord) {
	for _, field := range NumericFields {
		v, ok := rec.Get(field)
		if !ok || v.IsNumber() {
			continue
		}
		if f, ok := Number(v.String()); ok {
			rec.Set(field, models.Number(f))
		}
	}
}
