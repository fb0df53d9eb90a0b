package flow

import "strings"

// complaintTypes maps confirmation-menu keypresses to complaint categories.
var complaintTypes = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"1": "Billing",
	"2": "Service",
	"3": "Safety",
	"4": "Harassment",
}

// ValidBatch judges a captured batch number. Empty input and the phrase
// "I don't know" (case-insensitive) are rejected; anything else is accepted
// verbatim, whether it came from speech or keypad digits.
func ValidBatch(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.EqualFold(trimmed, "i don't know") {
		return "", false
	}
	return input, true
}

// NormalizeName returns the captured name, defaulting to "Unknown" when the
// caller said nothing usable.
func NormalizeName(input string) string {
	if strings.TrimSpace(input) == "" {
		return "Unknown"
	}
	return input
}

// ResolveType picks the complaint type: a mapped keypress wins over speech,
// speech wins over nothing, and "Other" is the last resort.
func ResolveType(digit, speech string) string {
	if t, ok := complaintTypes[digit]; ok {
		return t
	}
	if strings.TrimSpace(speech) != "" {
		return speech
	}
	return "Other"
}
