package repository

import (
	"context"
	"time"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
)

// BarReader provides read-only access to stored daily bars. All close and
// date slices come back in chronological (ascending) order, trimmed to the
// most recent n entries. Implementations must support concurrent readers.
type BarReader interface {
	// RecentCloses returns up to n most recent closes for symbol.
	RecentCloses(ctx context.Context, symbol string, n int) ([]float64, error)
	// RecentClosesAsOf is RecentCloses restricted to bars dated <= asof.
	RecentClosesAsOf(ctx context.Context, symbol string, asof time.Time, n int) ([]float64, error)
	// RecentDates returns the most recent `days` trading dates for symbol.
	RecentDates(ctx context.Context, symbol string, days int) ([]time.Time, error)
}

// BarWriter is the ingestion-side interface to the bar store.
type BarWriter interface {
	// InsertBars stores a batch of bars. Rows that collide on (symbol, date)
	// are ignored; the store is append-only.
	InsertBars(ctx context.Context, bars []models.DailyBar) (int, error)
	// LatestDate returns the newest stored bar date for symbol, or nil when
	// the symbol has no bars.
	LatestDate(ctx context.Context, symbol string) (*time.Time, error)
	// CountBars returns the number of stored bars for symbol.
	CountBars(ctx context.Context, symbol string) (int64, error)
}

// BarStore aggregates both sides plus lifecycle.
type BarStore interface {
	BarReader
	BarWriter
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits regime transition events for downstream consumers.
type Publisher interface {
	PublishTransitions(ctx context.Context, events []models.TransitionEvent) error
	Close() error
}

// Metrics records domain-level measurements.
type Metrics interface {
	RecordSignalComputed(symbol string)
	RecordBarsIngested(symbol string, count int)
	RecordError(kind string)
	RecordLastVol(symbol string, volAnn float64)
	RecordLatency(op string, seconds float64)
}
