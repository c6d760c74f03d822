package policy

import (
	"strings"
	"testing"
)

func TestRedactCredential(t *testing.T) {
	input := "upstream said: invalid key abc123-secret (Authorization: Bearer abc123-secret), try hf_AbCdEfGh12345"
	out, changed := RedactCredential(input, "abc123-secret")
	if !changed {
		t.Fatalf("changed = false, want true")
	}
	if strings.Contains(out, "abc123-secret") || strings.Contains(out, "hf_AbCdEfGh12345") {
		t.Fatalf("output still holds a secret: %q", out)
	}
	for _, marker := range []string{"[REDACTED_CREDENTIAL]", "[REDACTED_TOKEN]"} {
		if !strings.Contains(out, marker) {
			t.Fatalf("output missing marker %q: %q", marker, out)
		}
	}
}

func TestRedactCredentialLeavesPlainText(t *testing.T) {
	input := "Error: API returned status code 401"
	out, changed := RedactCredential(input, "")
	if changed {
		t.Fatalf("changed = true, want false")
	}
	if out != input {
		t.Fatalf("out = %q, want %q", out, input)
	}
}
