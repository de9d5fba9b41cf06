package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName(" plans/fresh\\bites.pdf ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "plans_fresh_bites.pdf" {
		t.Fatalf("got %q", got)
	}
	for _, bad := range []string{"", "   ", "../etc/passwd"} {
		if _, err := SanitizeFileName(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("ééé", 2); got != "éé..." {
		t.Fatalf("got %q", got)
	}
}
