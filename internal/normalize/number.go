// Package normalize turns loosely formatted page text into numbers and
// canonical length units.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	currencySymbols = strings.NewReplacer("$", "", "£", "", "€", "", "¥", "")
	leadingNumber   = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)`)
)

// ParseNumber reads a decimal number written with either US or European
// separators. When both ',' and '.' occur, ',' groups thousands. A lone ','
// is a decimal mark if one to three characters follow it, otherwise it
// groups thousands; several commas are always grouping. Trailing garbage
// after the number is ignored.
func ParseNumber(text string) (float64, bool) {
	s := strings.Join(strings.Fields(currencySymbols.Replace(text)), "")
	if s == "" {
		return 0, false
	}

	hasComma := strings.Contains(s, ",")
	switch {
	case hasComma && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ",", "")
	case hasComma:
		tail := s[strings.LastIndex(s, ",")+1:]
		if strings.Count(s, ",") == 1 && len(tail) >= 1 && len(tail) <= 3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseDimensionValue accepts plain numbers and simple fractions like "3/8".
func ParseDimensionValue(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, okN := ParseNumber(num)
		d, okD := ParseNumber(den)
		if !okN || !okD || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	return ParseNumber(s)
}

// FormatNumber prints v the US way: comma thousands, two decimals.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// Fixed formats v with a fixed number of decimals.
func Fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// Plain formats v with the shortest exact representation.
func Plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
