package model

import (
	"regexp"
	"strings"
)

// IssueReason explains why a segment failed to yield an item.
type IssueReason string

// Issue reasons for segments that could not be extracted.
const (
	ReasonUnknownProvider    IssueReason = "UNKNOWN_PROVIDER"
	ReasonUnparseableAmount  IssueReason = "UNPARSEABLE_AMOUNT"
	ReasonUnparseableDueDate IssueReason = "UNPARSEABLE_DUE_DATE"
)

// Issue records a segment that could not be turned into an item.
// The snippet is redacted and bounded so it never carries raw PII.
type Issue struct {
	Reason       IssueReason
	Snippet      string
	SegmentIndex int
}

// snippetLimit bounds how much of a failed segment is surfaced to the user.
const snippetLimit = 80

var (
	digitRun      = regexp.MustCompile(`\d{3,}`)
	emailAddress  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// RedactSnippet produces a bounded, PII-scrubbed preview of segment text.
// Email addresses and long digit runs (account and phone numbers) are masked.
func RedactSnippet(text string) string {
	s := emailAddress.ReplaceAllString(text, "<redacted>")
	s = digitRun.ReplaceAllString(s, "###")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if len(s) > snippetLimit {
		s = s[:snippetLimit] + "…"
	}
	return s
}
