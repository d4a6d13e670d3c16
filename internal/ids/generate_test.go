package ids

import (
	"testing"
	"time"
)

func TestGenerate_AlphabetAndLength(t *testing.T) {
	id := Generate("Write quarterly report", DefaultLength)

	if len(id) != DefaultLength {
		t.Fatalf("expected ID length %d, got %d: %q", DefaultLength, len(id), id)
	}
	for _, c := range id {
		if !((c >= 'a' && c <= 'z') || (c >= '2' && c <= '7')) {
			t.Errorf("ID contains invalid character %q: %q", c, id)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	if a, b := Generate("Water plants", 10), Generate("Water plants", 10); a != b {
		t.Errorf("same input should produce the same ID: got %q and %q", a, b)
	}
	if a, b := Generate("Water plants", 10), Generate("Fix the sink", 10); a == b {
		t.Error("different inputs should produce different IDs")
	}
}

func TestGenerate_LengthBounds(t *testing.T) {
	if id := Generate("anything", 0); id != "" {
		t.Errorf("zero length should produce an empty ID, got %q", id)
	}
	if id := Generate("anything", -3); id != "" {
		t.Errorf("negative length should produce an empty ID, got %q", id)
	}

	long := Generate("anything", 10_000)
	if len(long) == 0 || len(long) > 56 {
		t.Errorf("oversized length should clamp to the encoded hash, got %d chars", len(long))
	}
}

func TestGenerateWithTimestamp(t *testing.T) {
	created := time.Date(2026, 1, 10, 9, 12, 0, 0, time.UTC)

	a := GenerateWithTimestamp("Water plants", created, DefaultLength)
	b := GenerateWithTimestamp("Water plants", created, DefaultLength)
	if a != b {
		t.Errorf("same title and timestamp should produce the same ID: got %q and %q", a, b)
	}

	later := GenerateWithTimestamp("Water plants", created.Add(time.Nanosecond), DefaultLength)
	if a == later {
		t.Error("different timestamps should produce different IDs")
	}
}
