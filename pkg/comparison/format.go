package comparison

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"finverse-be/internal/entity"
)

const notAvailable = "N/A"

// FormatFieldName turns a raw detail key into a row label: camelCase is
// split, underscores become spaces, the first letter is uppercased.
func FormatFieldName(key string) string {
	var b strings.Builder
	runes := []rune(key)
	for i, r := range runes {
		if r == '_' {
			b.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" {
		return out
	}
	return strings.ToUpper(out[:1]) + out[1:]
}

// FormatValue renders one detail value as a table cell. The numeric branch is
// a heuristic by magnitude: a value in [0,100] that is fractional or below 10
// renders as a percentage, a value of 1000 or more as a grouped currency
// amount, anything else as the bare number. A raw count of 50 is therefore
// indistinguishable from a 50% rate; this ambiguity is a known approximation
// carried over deliberately, not a bug to fix here. Cells are never empty:
// anything that would render blank degrades to "N/A".
func FormatValue(v entity.Value) string {
	switch v.Kind {
	case entity.ValueNull:
		return notAvailable
	case entity.ValueBool:
		if v.Bool {
			return "Yes"
		}
		return "No"
	case entity.ValueNumber:
		return formatNumber(v.Number)
	case entity.ValueString:
		if v.Str == "" {
			return notAvailable
		}
		return v.Str
	case entity.ValueList:
		if len(v.List) == 0 {
			return notAvailable
		}
		return strings.Join(v.List, ", ")
	case entity.ValueObject:
		// Last-resort structural dump; this path is rare.
		b, err := json.Marshal(v)
		if err != nil {
			return notAvailable
		}
		return string(b)
	}
	return notAvailable
}

func formatNumber(n float64) string {
	if n >= 0 && n <= 100 && (n != math.Trunc(n) || n < 10) {
		return strconv.FormatFloat(n, 'f', -1, 64) + "%"
	}
	if n >= 1000 {
		return "LKR " + groupThousands(n)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// groupThousands inserts comma separators into the integer part.
func groupThousands(n float64) string {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteRune('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
