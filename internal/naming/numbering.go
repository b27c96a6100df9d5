package naming

import (
	"fmt"
	"strings"
)

// NumberingStyle selects how batch counters are rendered.
type NumberingStyle int

const (
	Numeric    NumberingStyle = iota // zero-padded: 001, 002, ...
	Alphabetic                       // bijective base-26: A..Z, AA..
	Roman                            // lower-case roman numerals
)

var numberingNames = [...]string{"numeric", "alphabetic", "roman"}

func (n NumberingStyle) String() string {
	if n < Numeric || n > Roman {
		return fmt.Sprintf("NumberingStyle(%d)", int(n))
	}
	return numberingNames[n]
}

// ParseNumberingStyle resolves a numbering style from config, defaulting to
// numeric for unknown values.
func ParseNumberingStyle(s string) NumberingStyle {
	for i, name := range numberingNames {
		if s == name {
			return NumberingStyle(i)
		}
	}
	return Numeric
}

// FormatNumber renders n (1-based) in the given style. padding applies to
// the numeric style only.
func FormatNumber(style NumberingStyle, n, padding int) string {
	switch style {
	case Alphabetic:
		return ToAlpha(n)
	case Roman:
		return ToRoman(n)
	default:
		if padding < 1 {
			padding = 1
		}
		return fmt.Sprintf("%0*d", padding, n)
	}
}

// ToAlpha converts a 1-based index to bijective base-26:
// 1→A, 26→Z, 27→AA, 28→AB.
func ToAlpha(n int) string {
	if n < 1 {
		return "A"
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

var romanValues = []struct {
	value  int
	symbol string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// ToRoman converts a 1-based index to lower-case subtractive roman numerals.
func ToRoman(n int) string {
	if n < 1 {
		return "i"
	}
	var b strings.Builder
	for _, rv := range romanValues {
		for n >= rv.value {
			b.WriteString(rv.symbol)
			n -= rv.value
		}
	}
	return b.String()
}
