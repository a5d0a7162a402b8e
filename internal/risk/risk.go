// Package risk evaluates a finalized item set for scheduling hazards.
// Detection is stateless: findings are recomputed wholesale from the
// items and context, never patched incrementally.
package risk

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/hollis-dev/paydown/internal/model"
)

// BusinessDayRule decides which days autopay can safely land on.
type BusinessDayRule struct {
	// Holidays are treated as non-business days in addition to weekends.
	Holidays []time.Time
}

// IsBusinessDay reports whether d is a weekday and not a holiday.
func (r BusinessDayRule) IsBusinessDay(d time.Time) bool {
	if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		return false
	}
	for _, h := range r.Holidays {
		if sameDay(h, d) {
			return false
		}
	}
	return true
}

// Context carries the externally supplied inputs for risk detection.
type Context struct {
	// PaycheckDates is the expected deposit schedule.
	PaycheckDates []time.Time
	// PaycheckAmount is the projected amount of each deposit.
	PaycheckAmount float64
	// MinimumBuffer is the balance that must survive every due date.
	MinimumBuffer float64
	// CollisionWindowDays widens COLLISION beyond same-day; 0 means items
	// must share a calendar date.
	CollisionWindowDays int
	// Rule decides business days for WEEKEND_AUTOPAY.
	Rule BusinessDayRule
}

// HasPaycheckContext reports whether the cash-crunch rule has enough
// context to run.
func (c Context) HasPaycheckContext() bool {
	return len(c.PaycheckDates) > 0 && c.PaycheckAmount > 0
}

// Detect evaluates the item set and returns findings in deterministic
// order: by type (collision, cash crunch, weekend autopay), then by the
// earliest implicated due date. Identical items and context always yield
// identical findings.
func Detect(items []model.Item, ctx Context) []model.RiskFinding {
	var findings []model.RiskFinding
	findings = append(findings, detectCollisions(items, ctx)...)

	if ctx.HasPaycheckContext() {
		findings = append(findings, detectCashCrunch(items, ctx)...)
	} else {
		// Missing paycheck context degrades to skipping this rule only.
		slog.Debug("Skipping cash-crunch rule, no paycheck context")
	}

	findings = append(findings, detectWeekendAutopay(items, ctx)...)
	return findings
}

// detectCollisions finds groups of items due on the same date, or within
// the configured window of each other.
func detectCollisions(items []model.Item, ctx Context) []model.RiskFinding {
	if len(items) < 2 {
		return nil
	}

	ordered := sortedByDue(items)
	window := time.Duration(ctx.CollisionWindowDays) * 24 * time.Hour

	var findings []model.RiskFinding
	used := make([]bool, len(ordered))

	for i := 0; i < len(ordered); i++ {
		if used[i] {
			continue
		}
		group := []model.Item{ordered[i]}
		for j := i + 1; j < len(ordered); j++ {
			if used[j] {
				continue
			}
			if ordered[j].DueDate.Sub(group[0].DueDate) <= window {
				group = append(group, ordered[j])
				used[j] = true
			}
		}
		if len(group) < 2 {
			continue
		}

		severity := model.SeverityMedium
		if len(group) >= 3 {
			severity = model.SeverityHigh
		}

		var total float64
		ids := make([]string, 0, len(group))
		names := make([]string, 0, len(group))
		for _, it := range group {
			total += it.Amount
			ids = append(ids, it.ID)
			names = append(names, string(it.Provider))
		}

		findings = append(findings, model.RiskFinding{
			Type:     model.RiskCollision,
			Severity: severity,
			Message: fmt.Sprintf("%d payments totaling $%.2f land on %s (%s)",
				len(group), total, group[0].DueDate.Format("2006-01-02"), strings.Join(names, ", ")),
			ItemIDs: ids,
		})
	}

	return findings
}

// detectCashCrunch walks the merged paycheck and due-date timeline in
// order, projecting a running balance. Any due date where the balance
// falls below the buffer implicates every item due since the last
// paycheck.
func detectCashCrunch(items []model.Item, ctx Context) []model.RiskFinding {
	if len(items) == 0 {
		return nil
	}

	ordered := sortedByDue(items)
	paychecks := append([]time.Time(nil), ctx.PaycheckDates...)
	sort.Slice(paychecks, func(i, j int) bool { return paychecks[i].Before(paychecks[j]) })

	balance := 0.0
	next := 0
	var crunchIDs []string
	var crunchTotal float64
	var crunchDate time.Time

	for _, item := range ordered {
		// Deposit every paycheck dated on or before this due date.
		for next < len(paychecks) && !paychecks[next].After(item.DueDate) {
			balance += ctx.PaycheckAmount
			next++
		}
		balance -= item.Amount

		if balance < ctx.MinimumBuffer {
			crunchIDs = append(crunchIDs, item.ID)
			crunchTotal += item.Amount
			if crunchDate.IsZero() {
				crunchDate = item.DueDate
			}
		}
	}

	if len(crunchIDs) == 0 {
		return nil
	}

	severity := model.SeverityMedium
	if len(crunchIDs) >= 2 || balance < 0 {
		severity = model.SeverityHigh
	}

	return []model.RiskFinding{{
		Type:     model.RiskCashCrunch,
		Severity: severity,
		Message: fmt.Sprintf("projected balance drops below your $%.2f buffer around %s ($%.2f in payments at risk)",
			ctx.MinimumBuffer, crunchDate.Format("2006-01-02"), crunchTotal),
		ItemIDs: crunchIDs,
	}}
}

// detectWeekendAutopay flags autopay items due on non-business days.
func detectWeekendAutopay(items []model.Item, ctx Context) []model.RiskFinding {
	var findings []model.RiskFinding
	for _, item := range sortedByDue(items) {
		if !item.Autopay || ctx.Rule.IsBusinessDay(item.DueDate) {
			continue
		}
		findings = append(findings, model.RiskFinding{
			Type:     model.RiskWeekendAutopay,
			Severity: model.SeverityLow,
			Message: fmt.Sprintf("%s autopay of $%.2f lands on %s, a non-business day",
				item.Provider, item.Amount, item.DueDate.Format("Monday 2006-01-02")),
			ItemIDs: []string{item.ID},
		})
	}
	return findings
}

// sortedByDue returns the items ordered by due date, breaking ties by
// original extraction order so detection stays deterministic.
func sortedByDue(items []model.Item) []model.Item {
	out := append([]model.Item(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
