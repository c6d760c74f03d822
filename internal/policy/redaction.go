package policy

import (
	"regexp"
	"strings"
)

var (
	hfTokenPattern = regexp.MustCompile(`\bhf_[A-Za-z0-9]{8,}\b`)
	bearerPattern  = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._\-]+`)
)

// RedactCredential masks the given credential and anything shaped like an
// access token in input. It is applied to every error string shown to users.
func RedactCredential(input, credential string) (redacted string, changed bool) {
	out := input

	if c := strings.TrimSpace(credential); c != "" {
		next := strings.ReplaceAll(out, c, "[REDACTED_CREDENTIAL]")
		changed = changed || next != out
		out = next
	}

	next := bearerPattern.ReplaceAllString(out, "Bearer [REDACTED_CREDENTIAL]")
	changed = changed || next != out
	out = next

	next = hfTokenPattern.ReplaceAllString(out, "[REDACTED_TOKEN]")
	changed = changed || next != out
	out = next

	return out, changed
}
