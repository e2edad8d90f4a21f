package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	s := "2024-10-10"
	got, ok := ParseDate(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDate(got) != s {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateRejectsClock(t *testing.T) {
	if _, ok := ParseDate("2024-10-10T10:10:10Z"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestParseTimeFallsBackToDate(t *testing.T) {
	got, ok := ParseTime("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}
