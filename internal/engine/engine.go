// Package engine orchestrates the extraction pipeline: segmenting raw
// text, detecting providers, extracting fields, scoring, and collapsing
// duplicates.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hollis-dev/paydown/internal/dates"
	"github.com/hollis-dev/paydown/internal/dedup"
	"github.com/hollis-dev/paydown/internal/extract"
	"github.com/hollis-dev/paydown/internal/model"
	"github.com/hollis-dev/paydown/internal/provider"
	"github.com/hollis-dev/paydown/internal/score"
	"github.com/hollis-dev/paydown/internal/segment"
)

// MaxPasteLength bounds the raw paste size in characters.
const MaxPasteLength = 16000

// ErrPasteTooLarge is returned when the raw text exceeds MaxPasteLength.
var ErrPasteTooLarge = errors.New("pasted text exceeds the 16,000 character limit")

// Settings configures one extraction run.
type Settings struct {
	// Locale is the explicit user toggle; nil lets the run infer one.
	Locale *model.DateLocale
	// Timezone names the zone for "today" checks and locale inference.
	// Empty defaults to UTC.
	Timezone string
	// LangTag is the runtime language tag used for locale inference.
	LangTag string
	// DayFirstZones overrides the day-first timezone allow-list.
	DayFirstZones []string
	// Progress, when set, is called after each segment is processed.
	Progress func(done, total int)
}

// Result is the outcome of one extraction run. The locale actually used
// is recorded for audit alongside the items it shaped.
type Result struct {
	LocaleUsed        model.DateLocale
	RawText           string
	Items             []model.Item
	Issues            []model.Issue
	DuplicatesRemoved int
}

// Extract runs the full pipeline over raw pasted text. Segment-level
// failures become Issues and never abort the run; partial success is
// expected and desired.
func Extract(ctx context.Context, rawText string, settings Settings) (*Result, error) {
	if utf8.RuneCountInString(rawText) > MaxPasteLength {
		return nil, ErrPasteTooLarge
	}

	locale := dates.ResolveLocale(dates.LocaleHints{
		Explicit:      settings.Locale,
		LangTag:       settings.LangTag,
		Timezone:      settings.Timezone,
		DayFirstZones: settings.DayFirstZones,
	})

	timezone := settings.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	resolver, err := dates.NewResolver(locale, timezone)
	if err != nil {
		return nil, fmt.Errorf("creating date resolver: %w", err)
	}

	segments := segment.Split(rawText)
	slog.Info("Starting extraction run",
		"segments", len(segments),
		"locale", locale)

	result := &Result{LocaleUsed: locale, RawText: rawText}

	for i, seg := range segments {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		item, issue := extractSegment(seg, i, resolver)
		if issue != nil {
			result.Issues = append(result.Issues, *issue)
		} else {
			result.Items = append(result.Items, *item)
		}

		if settings.Progress != nil {
			settings.Progress(i+1, len(segments))
		}
	}

	result.Items, result.DuplicatesRemoved = dedup.Collapse(result.Items)

	slog.Info("Extraction run complete",
		"items", len(result.Items),
		"issues", len(result.Issues),
		"duplicates_removed", result.DuplicatesRemoved)

	return result, nil
}

// extractSegment turns one segment into an item, or an issue when a
// required field (provider, amount, due date) cannot be resolved.
func extractSegment(seg string, index int, resolver *dates.Resolver) (*model.Item, *model.Issue) {
	prov, strength := provider.Detect(seg)
	if prov == model.ProviderUnknown {
		return nil, &model.Issue{
			Reason:       model.ReasonUnknownProvider,
			Snippet:      model.RedactSnippet(seg),
			SegmentIndex: index,
		}
	}

	fields, err := extract.Extract(seg, prov)
	if err != nil {
		return nil, &model.Issue{
			Reason:       model.ReasonUnparseableAmount,
			Snippet:      model.RedactSnippet(seg),
			SegmentIndex: index,
		}
	}

	parsed, err := resolver.Find(seg)
	if err != nil {
		return nil, &model.Issue{
			Reason:       model.ReasonUnparseableDueDate,
			Snippet:      model.RedactSnippet(seg),
			SegmentIndex: index,
		}
	}

	item := &model.Item{
		ID:                uuid.NewString(),
		Provider:          prov,
		Amount:            fields.Amount,
		Currency:          fields.Currency,
		DueDate:           parsed.Date,
		InstallmentNumber: fields.InstallmentNumber,
		InstallmentTotal:  fields.InstallmentTotal,
		Autopay:           fields.Autopay,
		LateFee:           fields.LateFee,
		SegmentIndex:      index,
		Provenance: model.Provenance{
			ProviderStrength:    strength,
			DateCertainty:       parsed.Certainty,
			DateSuspicious:      parsed.Suspicious,
			AmountExplicitCents: fields.AmountExplicitCents,
			AutopayExplicit:     fields.AutopayExplicit,
			InstallmentExplicit: fields.InstallmentExplicit,
		},
	}
	item.Confidence = score.Compute(item)
	return item, nil
}
