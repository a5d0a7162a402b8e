package dates

import (
	"strings"

	"github.com/hollis-dev/paydown/internal/model"
)

// dayFirstLanguages is the curated list of language tags whose users
// conventionally write dates day-first. Matched on the full tag first,
// then on the primary subtag.
var dayFirstLanguages = map[string]bool{
	"en-gb": true,
	"en-au": true,
	"en-nz": true,
	"en-ie": true,
	"en-in": true,
	"en-za": true,
	"de":    true,
	"fr":    true,
	"es":    true,
	"it":    true,
	"pt":    true,
	"nl":    true,
	"da":    true,
	"sv":    true,
	"nb":    true,
	"fi":    true,
	"pl":    true,
	"cs":    true,
	"el":    true,
}

// DefaultDayFirstZones is the default timezone allow-list for the
// day-first heuristic. Zone names are matched exactly, never by prefix:
// guessing day-first from a region prefix alone mislabels too many zones.
var DefaultDayFirstZones = []string{
	"Europe/London",
	"Europe/Dublin",
	"Europe/Paris",
	"Europe/Berlin",
	"Europe/Madrid",
	"Europe/Rome",
	"Europe/Amsterdam",
	"Europe/Brussels",
	"Europe/Lisbon",
	"Europe/Vienna",
	"Europe/Zurich",
	"Europe/Stockholm",
	"Europe/Copenhagen",
	"Europe/Oslo",
	"Europe/Helsinki",
	"Europe/Warsaw",
	"Europe/Prague",
	"Europe/Athens",
	"Australia/Sydney",
	"Australia/Melbourne",
	"Pacific/Auckland",
}

// LocaleHints carries the inputs to locale resolution for one run.
type LocaleHints struct {
	// Explicit is the user's toggle; nil means unset.
	Explicit *model.DateLocale
	// LangTag is the runtime language tag, e.g. "en-GB".
	LangTag string
	// Timezone is the runtime timezone name, e.g. "Europe/Berlin".
	Timezone string
	// DayFirstZones overrides DefaultDayFirstZones when non-nil.
	DayFirstZones []string
}

// ResolveLocale picks the date locale for an extraction run:
// explicit toggle, then language tag, then the timezone allow-list,
// then US month-first as the default.
func ResolveLocale(hints LocaleHints) model.DateLocale {
	if hints.Explicit != nil {
		return *hints.Explicit
	}

	if tag := strings.ToLower(strings.TrimSpace(hints.LangTag)); tag != "" {
		if dayFirstLanguages[tag] {
			return model.LocaleEU
		}
		if primary, _, found := strings.Cut(tag, "-"); found && dayFirstLanguages[primary] {
			return model.LocaleEU
		}
	}

	zones := hints.DayFirstZones
	if zones == nil {
		zones = DefaultDayFirstZones
	}
	for _, zone := range zones {
		if hints.Timezone == zone {
			return model.LocaleEU
		}
	}

	return model.LocaleUS
}
