package repository

import (
	"database/sql"
	"testing"
	"time"
)

func TestNormalizeLatestTreatsEmptyResultAsNil(t *testing.T) {
	if got := normalizeLatest(sql.NullTime{}); got != nil {
		t.Fatalf("NULL max should yield nil, got %v", got)
	}
	if got := normalizeLatest(sql.NullTime{Valid: true}); got != nil {
		t.Fatalf("zero time should yield nil, got %v", got)
	}
	// MAX(date) over no rows comes back as the Date column default, not NULL
	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := normalizeLatest(sql.NullTime{Valid: true, Time: epoch}); got != nil {
		t.Fatalf("epoch default should yield nil, got %v", got)
	}
}

func TestNormalizeLatestKeepsRealDates(t *testing.T) {
	d := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	got := normalizeLatest(sql.NullTime{Valid: true, Time: d})
	if got == nil || !got.Equal(d) {
		t.Fatalf("real date lost: got %v, want %v", got, d)
	}
}
