package problemgen

import "strings"

// CheckAnswer compares the student's input with the canonical answer.
//
// The match is literal: surrounding whitespace is trimmed and case is
// ignored, nothing else. "42.0" does not match "42" and "1/2" does not
// match "0.5".
func CheckAnswer(submitted, canonical string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(canonical))
}
