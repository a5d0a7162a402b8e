package model

// RiskType classifies a scheduling hazard.
type RiskType string

// Risk types detected over a finalized item set.
const (
	RiskCollision      RiskType = "COLLISION"
	RiskCashCrunch     RiskType = "CASH_CRUNCH"
	RiskWeekendAutopay RiskType = "WEEKEND_AUTOPAY"
)

// RiskSeverity grades a finding.
type RiskSeverity string

// Risk severities.
const (
	SeverityLow    RiskSeverity = "LOW"
	SeverityMedium RiskSeverity = "MEDIUM"
	SeverityHigh   RiskSeverity = "HIGH"
)

// RiskFinding is a derived hazard annotation. Findings reference the
// implicated items by ID and are recomputed wholesale, never patched.
type RiskFinding struct {
	Type     RiskType
	Severity RiskSeverity
	Message  string
	ItemIDs  []string
}
