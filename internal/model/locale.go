package model

import "fmt"

// DateLocale controls how ambiguous slash dates are interpreted.
type DateLocale string

// Supported date locales.
const (
	// LocaleUS parses slash dates month-first (M/D/Y).
	LocaleUS DateLocale = "US"
	// LocaleEU parses slash dates day-first (D/M/Y).
	LocaleEU DateLocale = "EU"
)

// ParseDateLocale resolves a user-supplied locale string.
func ParseDateLocale(s string) (DateLocale, error) {
	switch DateLocale(s) {
	case LocaleUS, LocaleEU:
		return DateLocale(s), nil
	}
	return "", fmt.Errorf("unknown date locale %q (expected US or EU)", s)
}
