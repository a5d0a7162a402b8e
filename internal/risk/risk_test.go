package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollis-dev/paydown/internal/model"
)

func day(d int) time.Time {
	// March 2026: the 2nd is a Monday, the 7th/8th a weekend.
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func item(id string, amount float64, due time.Time, autopay bool) model.Item {
	return model.Item{
		ID:                id,
		Provider:          model.ProviderKlarna,
		Amount:            amount,
		Currency:          "USD",
		DueDate:           due,
		InstallmentNumber: 1,
		InstallmentTotal:  4,
		Autopay:           autopay,
	}
}

func findingsOfType(findings []model.RiskFinding, t model.RiskType) []model.RiskFinding {
	var out []model.RiskFinding
	for _, f := range findings {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

func TestDetect_Collision(t *testing.T) {
	items := []model.Item{
		item("a", 25, day(10), false),
		item("b", 40, day(10), false),
		item("c", 15, day(20), false),
	}

	findings := Detect(items, Context{})
	collisions := findingsOfType(findings, model.RiskCollision)
	require.Len(t, collisions, 1)

	f := collisions[0]
	assert.Equal(t, model.SeverityMedium, f.Severity)
	assert.ElementsMatch(t, []string{"a", "b"}, f.ItemIDs)
	assert.Contains(t, f.Message, "2026-03-10")
	assert.Contains(t, f.Message, "$65.00")
}

func TestDetect_CollisionThreeItemsIsHigh(t *testing.T) {
	items := []model.Item{
		item("a", 25, day(10), false),
		item("b", 40, day(10), false),
		item("c", 15, day(10), false),
	}

	collisions := findingsOfType(Detect(items, Context{}), model.RiskCollision)
	require.Len(t, collisions, 1)
	assert.Equal(t, model.SeverityHigh, collisions[0].Severity)
	assert.Len(t, collisions[0].ItemIDs, 3)
}

func TestDetect_CollisionWindow(t *testing.T) {
	items := []model.Item{
		item("a", 25, day(10), false),
		item("b", 40, day(12), false),
	}

	// Same-day rule: no collision two days apart.
	assert.Empty(t, findingsOfType(Detect(items, Context{}), model.RiskCollision))

	// A 3-day window catches it.
	got := findingsOfType(Detect(items, Context{CollisionWindowDays: 3}), model.RiskCollision)
	require.Len(t, got, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, got[0].ItemIDs)
}

func TestDetect_CashCrunch(t *testing.T) {
	items := []model.Item{
		item("a", 400, day(5), false),
		item("b", 500, day(6), false),
	}
	ctx := Context{
		PaycheckDates:  []time.Time{day(1)},
		PaycheckAmount: 1000,
		MinimumBuffer:  200,
	}

	crunches := findingsOfType(Detect(items, ctx), model.RiskCashCrunch)
	require.Len(t, crunches, 1)

	// Balance after a: 600, fine. After b: 100, below the 200 buffer.
	f := crunches[0]
	assert.Equal(t, []string{"b"}, f.ItemIDs)
	assert.Contains(t, f.Message, "2026-03-06")
}

func TestDetect_CashCrunchRecoversAfterPaycheck(t *testing.T) {
	items := []model.Item{
		item("a", 900, day(5), false),
		item("b", 100, day(16), false),
	}
	ctx := Context{
		PaycheckDates:  []time.Time{day(1), day(15)},
		PaycheckAmount: 1000,
		MinimumBuffer:  50,
	}

	// After a: 100, above buffer. Second paycheck lands before b.
	assert.Empty(t, findingsOfType(Detect(items, ctx), model.RiskCashCrunch))
}

func TestDetect_CashCrunchSkippedWithoutContext(t *testing.T) {
	items := []model.Item{item("a", 10000, day(5), false)}

	// No paycheck context: the rule degrades to skipping, other rules
	// still run.
	findings := Detect(items, Context{})
	assert.Empty(t, findingsOfType(findings, model.RiskCashCrunch))

	findings = Detect(items, Context{PaycheckDates: []time.Time{day(1)}})
	assert.Empty(t, findingsOfType(findings, model.RiskCashCrunch), "amount-less context is incomplete")
}

func TestDetect_WeekendAutopay(t *testing.T) {
	items := []model.Item{
		item("a", 25, day(7), true),  // Saturday, autopay
		item("b", 25, day(8), false), // Sunday, manual
		item("c", 25, day(9), true),  // Monday, autopay
	}

	weekend := findingsOfType(Detect(items, Context{}), model.RiskWeekendAutopay)
	require.Len(t, weekend, 1)
	assert.Equal(t, []string{"a"}, weekend[0].ItemIDs)
	assert.Equal(t, model.SeverityLow, weekend[0].Severity)
	assert.Contains(t, weekend[0].Message, "Saturday")
}

func TestDetect_HolidayAutopay(t *testing.T) {
	items := []model.Item{item("a", 25, day(17), true)} // Tuesday

	ctx := Context{Rule: BusinessDayRule{Holidays: []time.Time{day(17)}}}
	weekend := findingsOfType(Detect(items, ctx), model.RiskWeekendAutopay)
	require.Len(t, weekend, 1)
}

func TestDetect_Deterministic(t *testing.T) {
	items := []model.Item{
		item("a", 400, day(7), true),
		item("b", 500, day(7), false),
		item("c", 300, day(21), true),
	}
	ctx := Context{
		PaycheckDates:  []time.Time{day(1)},
		PaycheckAmount: 1000,
		MinimumBuffer:  100,
	}

	first := Detect(items, ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Detect(items, ctx))
	}

	// Findings are grouped by type in a fixed order.
	require.NotEmpty(t, first)
	lastType := first[0].Type
	order := map[model.RiskType]int{
		model.RiskCollision:      0,
		model.RiskCashCrunch:     1,
		model.RiskWeekendAutopay: 2,
	}
	for _, f := range first[1:] {
		assert.LessOrEqual(t, order[lastType], order[f.Type])
		lastType = f.Type
	}
}

func TestDetect_NoItems(t *testing.T) {
	assert.Empty(t, Detect(nil, Context{}))
}

func TestBusinessDayRule(t *testing.T) {
	rule := BusinessDayRule{Holidays: []time.Time{day(17)}}

	assert.True(t, rule.IsBusinessDay(day(9)))   // Monday
	assert.False(t, rule.IsBusinessDay(day(7)))  // Saturday
	assert.False(t, rule.IsBusinessDay(day(8)))  // Sunday
	assert.False(t, rule.IsBusinessDay(day(17))) // holiday
}
