package stooq

import (
	"testing"
	"time"
)

const sampleCSV = `Date,Open,High,Low,Close,Volume
2024-01-02,185.64,186.95,183.82,185.64,82488700
2024-01-03,184.22,185.88,183.43,184.25,58414500
2024-01-04,182.15,183.09,180.88,181.91,71983600
`

func TestParseDailyCSV(t *testing.T) {
	bars, err := ParseDailyCSV("AAPL.US", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}

	first := bars[0]
	if first.Symbol != "AAPL.US" {
		t.Fatalf("symbol = %q", first.Symbol)
	}
	wantDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !first.Date.Equal(wantDate) {
		t.Fatalf("date = %v, want %v", first.Date, wantDate)
	}
	if first.Open != 185.64 || first.Close != 185.64 || first.Volume != 82488700 {
		t.Fatalf("bar fields wrong: %+v", first)
	}

	// rows must come out oldest first
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			t.Fatalf("bars not chronological at %d", i)
		}
	}
}

func TestParseDailyCSVNoData(t *testing.T) {
	for _, payload := range []string{"", "No data\n"} {
		bars, err := ParseDailyCSV("NOPE.US", []byte(payload))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", payload, err)
		}
		if len(bars) != 0 {
			t.Fatalf("expected no bars for %q, got %d", payload, len(bars))
		}
	}
}

func TestParseDailyCSVSkipsMalformedRows(t *testing.T) {
	payload := `Date,Open,High,Low,Close,Volume
2024-01-02,185.64,186.95,183.82,185.64,82488700
bad-date,1,2,3,4,5
2024-01-03,184.22,N/D,183.43,184.25,58414500
2024-01-04,182.15,183.09,180.88,181.91,71983600
`
	bars, err := ParseDailyCSV("AAPL.US", []byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars after skipping bad rows, got %d", len(bars))
	}
}

func TestParseDailyCSVBadHeader(t *testing.T) {
	if _, err := ParseDailyCSV("AAPL.US", []byte("Foo,Bar\n1,2\n")); err == nil {
		t.Fatalf("expected header error")
	}
}
