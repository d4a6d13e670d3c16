package ui

import "testing"

func TestPrefixLength(t *testing.T) {
	lengths := map[string]int{"k7mdenrg": 2, "k7abc123": 3}

	if got := PrefixLength(lengths, "K7MDENRG"); got != 2 {
		t.Errorf("lookup should be case insensitive, got %d", got)
	}
	if got := PrefixLength(lengths, "zzzzzzzz"); got != 0 {
		t.Errorf("unknown ID should report 0, got %d", got)
	}
	if got := PrefixLength(lengths, ""); got != 0 {
		t.Errorf("empty ID should report 0, got %d", got)
	}
	if got := PrefixLength(nil, "k7mdenrg"); got != 0 {
		t.Errorf("nil map should report 0, got %d", got)
	}
}

func TestUniqueIDPrefixLengths(t *testing.T) {
	lengths := UniqueIDPrefixLengths([]string{"abc123", "abd456", "xyz789"})

	want := map[string]int{"abc123": 3, "abd456": 3, "xyz789": 1}
	for id, length := range want {
		if lengths[id] != length {
			t.Errorf("prefix length for %s = %d, want %d", id, lengths[id], length)
		}
	}
}

func TestUniqueIDPrefixLengths_SkipsDuplicatesAndEmpty(t *testing.T) {
	lengths := UniqueIDPrefixLengths([]string{"abc123", "ABC123", "", "def456"})

	if len(lengths) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(lengths), lengths)
	}
	if lengths["abc123"] != 1 {
		t.Errorf("duplicates should collapse before computing prefixes, got %d", lengths["abc123"])
	}
}

func TestHighlightID_PlainWhenNotTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := HighlightID("k7mdenrg", 2); got != "k7mdenrg" {
		t.Errorf("NO_COLOR output should be unstyled, got %q", got)
	}
	if got := HighlightID("", 2); got != "" {
		t.Errorf("empty ID should pass through, got %q", got)
	}
	if got := HighlightID("ab", 5); got != "ab" {
		t.Errorf("out-of-range prefix should pass through, got %q", got)
	}
}
