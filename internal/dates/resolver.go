// Package dates parses and validates due dates under an explicit or
// inferred locale. Slash dates are genuinely ambiguous: the same token
// resolves to different calendar dates under US (month-first) and EU
// (day-first) interpretation.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hollis-dev/paydown/internal/model"
)

// Suspicious-date window relative to "today" in the resolver's timezone.
const (
	maxDaysPast    = 30
	maxYearsFuture = 2
)

// Parsed is the result of resolving one date token.
type Parsed struct {
	Date       time.Time
	Certainty  model.DateCertainty
	Suspicious bool
}

// Resolver parses date tokens under one locale and timezone. The now
// function exists so tests can pin "today".
type Resolver struct {
	now    func() time.Time
	loc    *time.Location
	locale model.DateLocale
}

// NewResolver creates a resolver for the given locale and timezone.
func NewResolver(locale model.DateLocale, timezone string) (*Resolver, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Resolver{locale: locale, loc: loc, now: time.Now}, nil
}

// WithNow returns a copy of the resolver with a fixed clock.
func (r *Resolver) WithNow(now func() time.Time) *Resolver {
	clone := *r
	clone.now = now
	return &clone
}

// Locale returns the locale this resolver parses under.
func (r *Resolver) Locale() model.DateLocale {
	return r.locale
}

var (
	isoToken   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashToken = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)
	ordinal    = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
)

// longFormats are tried after ordinal suffixes are stripped.
var longFormats = []string{
	"January 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"2 January, 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
}

// Parse resolves a single date token. Formats are tried in order: ISO,
// slash date under the active locale, long-form month names. A hard
// failure means the token matched no format or no real calendar date.
func (r *Resolver) Parse(token string) (Parsed, error) {
	token = strings.TrimSpace(token)

	if isoToken.MatchString(token) {
		t, err := time.Parse("2006-01-02", token)
		if err != nil {
			return Parsed{}, fmt.Errorf("not a real calendar date: %q", token)
		}
		return r.finish(t, model.DateExact), nil
	}

	if m := slashToken.FindStringSubmatch(token); m != nil {
		return r.parseSlash(m)
	}

	cleaned := ordinal.ReplaceAllString(token, "$1")
	for _, layout := range longFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return r.finish(t, model.DateExact), nil
		}
	}

	return Parsed{}, fmt.Errorf("unparseable date: %q", token)
}

// parseSlash interprets N/M/Y under the active locale's order, falling
// back to the swapped order when the locale's reading is not a real date.
func (r *Resolver) parseSlash(m []string) (Parsed, error) {
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	month, day := first, second
	if r.locale == model.LocaleEU {
		month, day = second, first
	}

	if t, ok := calendarDate(year, month, day); ok {
		return r.finish(t, model.DateLocaleAssumed), nil
	}
	// Swapped order rescues dates like 13/05 under US, where 13 cannot
	// be a month.
	if t, ok := calendarDate(year, day, month); ok {
		return r.finish(t, model.DateOrderSwapped), nil
	}
	return Parsed{}, fmt.Errorf("not a real calendar date: %q", m[0])
}

// calendarDate builds a date-only time and verifies the components were
// not normalized away (rejects Feb 30, month 13, day 0).
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// finish normalizes to a date-only UTC value and applies the
// suspicious-date check against "today" in the resolver's timezone.
func (r *Resolver) finish(t time.Time, certainty model.DateCertainty) Parsed {
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	nowLocal := r.now().In(r.loc)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)

	suspicious := date.Before(today.AddDate(0, 0, -maxDaysPast)) ||
		date.After(today.AddDate(maxYearsFuture, 0, 0))

	return Parsed{Date: date, Certainty: certainty, Suspicious: suspicious}
}

// Candidate scanning over free text. Tokens are tried in the same priority
// order as Parse: ISO first, then slash dates, then long-form names.
var (
	scanISO   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	scanSlash = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/(?:\d{4}|\d{2})\b`)
	scanLong  = regexp.MustCompile(`(?i)\b(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b|\b\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?,?\s+\d{4}\b`)
)

// Find locates and parses the first due-date token in a text segment.
func (r *Resolver) Find(text string) (Parsed, error) {
	for _, re := range []*regexp.Regexp{scanISO, scanSlash, scanLong} {
		for _, token := range re.FindAllString(text, -1) {
			if parsed, err := r.Parse(normalizeToken(token)); err == nil {
				return parsed, nil
			}
		}
	}
	return Parsed{}, fmt.Errorf("no parseable date found")
}

// normalizeToken strips abbreviation periods so "Mar. 15, 2026" parses.
func normalizeToken(token string) string {
	return strings.ReplaceAll(token, ".", "")
}
