// Package segment splits raw pasted text into ordered email-like chunks.
package segment

import (
	"regexp"
	"strings"
)

var (
	markupTag  = regexp.MustCompile(`<[^>]*>`)
	addrToken  = regexp.MustCompile(`^[^\s"'=<>]+@[^\s"'=<>]+$`)
	brTag      = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</tr>`)
	headerLine = regexp.MustCompile(`^(From:|Subject:)`)
)

// Sanitize strips markup tags from pasted text without interpreting them.
// Block-level closers become newlines so run-together HTML still splits into
// lines. Angle-bracket sender addresses like <no-reply@klarna.com> are not
// markup; they keep their address text so provider domains stay visible.
func Sanitize(raw string) string {
	s := brTag.ReplaceAllString(raw, "\n")
	s = markupTag.ReplaceAllStringFunc(s, func(tag string) string {
		inner := tag[1 : len(tag)-1]
		if addrToken.MatchString(inner) {
			return inner
		}
		return ""
	})
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return s
}

// Split divides sanitized text into ordered segments, one per source email.
// A new segment starts at a line that is exactly "---" or begins with
// "From:" or "Subject:". Consecutive header lines belong to the same
// email, so a header only opens a new segment once body content has been
// seen. Blank segments are dropped; order is preserved.
func Split(raw string) []string {
	text := Sanitize(raw)
	lines := strings.Split(text, "\n")

	var segments []string
	var current []string
	bodySeen := false

	flush := func() {
		chunk := strings.TrimSpace(strings.Join(current, "\n"))
		if chunk != "" {
			segments = append(segments, chunk)
		}
		current = current[:0]
		bodySeen = false
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			flush()
			continue
		}
		if headerLine.MatchString(trimmed) {
			if bodySeen {
				flush()
			}
		} else if trimmed != "" {
			bodySeen = true
		}
		current = append(current, line)
	}
	flush()

	return segments
}
