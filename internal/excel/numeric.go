package excel

import (
	"strconv"
	"strings"
	"unicode"
)

// cleanNumber parses a spreadsheet cell as a number. A blank cell is
// absent (ok=false), not zero. Currency symbols, thousands separators
// and whitespace are stripped before parsing; anything left over that
// is not a number is also absent.
func cleanNumber(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == ',' || unicode.IsSpace(r):
			return -1
		case r == '$' || unicode.Is(unicode.Sc, r):
			return -1
		}
		return r
	}, raw)

	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
