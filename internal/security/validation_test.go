package security

import (
	"strings"
	"testing"
)

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "BRK-B", "^GSPC", "bitcoin", "matic-network", "avalanche-2", "BRK.A", "0700"}
	for _, s := range valid {
		if err := ValidateSymbol(s); err != nil {
			t.Errorf("ValidateSymbol(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"AAPL; DROP TABLE trades",
		"../etc/passwd",
		"-AAPL",
		"a b",
		strings.Repeat("A", 31),
	}
	for _, s := range invalid {
		if err := ValidateSymbol(s); err == nil {
			t.Errorf("ValidateSymbol(%q) = nil, want error", s)
		}
	}
}

func TestValidateUserID(t *testing.T) {
	valid := []string{"default", "alice", "user_01", "a.b-c", strings.Repeat("x", 64)}
	for _, s := range valid {
		if err := ValidateUserID(s); err != nil {
			t.Errorf("ValidateUserID(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{
		"",
		".hidden",
		"-leading",
		"has space",
		"slash/y",
		strings.Repeat("x", 65),
	}
	for _, s := range invalid {
		if err := ValidateUserID(s); err == nil {
			t.Errorf("ValidateUserID(%q) = nil, want error", s)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	if got := SanitizeName("  Apple Inc.  "); got != "Apple Inc." {
		t.Errorf("SanitizeName trim = %q", got)
	}
	if got := SanitizeName("   "); got != "" {
		t.Errorf("SanitizeName whitespace = %q, want empty", got)
	}
	long := strings.Repeat("n", 200)
	if got := SanitizeName(long); len(got) != 80 {
		t.Errorf("SanitizeName length = %d, want 80", len(got))
	}
}
