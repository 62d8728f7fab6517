package utils

import (
	"testing"
	"time"
)

func TestISOTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, loc)

	got := ISOTimestamp(at)
	want := "2026-03-14T10:09:26Z"
	if got != want {
		t.Fatalf("ISOTimestamp = %q, want %q", got, want)
	}
}

func TestContains(t *testing.T) {
	types := []string{"flight", "stay"}
	if !Contains(types, "stay") {
		t.Error("expected stay to be found")
	}
	if Contains(types, "car") {
		t.Error("car should not be found")
	}
	if Contains(nil, "flight") {
		t.Error("nil slice should contain nothing")
	}
}

func TestGenerateRandomDigitString(t *testing.T) {
	s := GenerateRandomDigitString(22)
	if len(s) != 22 {
		t.Fatalf("expected 22 digits, got %d", len(s))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit %q in %q", r, s)
		}
	}
}
