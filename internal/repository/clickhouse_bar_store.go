package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
	domrepo "github.com/gannontraynor/marketPulse/internal/domain/repository"
	pkgch "github.com/gannontraynor/marketPulse/pkg/clickhouse"
	applogger "github.com/gannontraynor/marketPulse/pkg/logger"
)

// ClickHouseBarStore implements the bar store on ClickHouse. Deduplication
// relies on the ReplacingMergeTree engine plus the ingestor's append-only
// filter; there is no ON CONFLICT here.
type ClickHouseBarStore struct {
	client *pkgch.Client
	db     *sql.DB
	table  string
	l      *applogger.Logger
}

// NewClickHouseBarStore creates a ClickHouse-backed bar store.
func NewClickHouseBarStore(ch *pkgch.Client, table string) *ClickHouseBarStore {
	return &ClickHouseBarStore{client: ch, db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *ClickHouseBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *ClickHouseBarStore) RecentCloses(ctx context.Context, symbol string, n int) ([]float64, error) {
	q := fmt.Sprintf(`SELECT close FROM %s WHERE symbol = ? ORDER BY date DESC LIMIT ?`, s.table)
	return s.queryCloses(ctx, q, symbol, n)
}

func (s *ClickHouseBarStore) RecentClosesAsOf(ctx context.Context, symbol string, asof time.Time, n int) ([]float64, error) {
	q := fmt.Sprintf(`SELECT close FROM %s WHERE symbol = ? AND date <= ? ORDER BY date DESC LIMIT ?`, s.table)
	return s.queryCloses(ctx, q, symbol, asof, n)
}

func (s *ClickHouseBarStore) queryCloses(ctx context.Context, q string, args ...any) ([]float64, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse closes query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("query closes: %w", err)
	}
	defer rows.Close()

	closes := make([]float64, 0, 32)
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan close: %w", err)
		}
		closes = append(closes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	// reverse to chronological
	for i, j := 0, len(closes)-1; i < j; i, j = i+1, j-1 {
		closes[i], closes[j] = closes[j], closes[i]
	}
	if s.l != nil {
		s.l.Debug("clickhouse recent_closes ok",
			applogger.Int("rows", len(closes)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return closes, nil
}

func (s *ClickHouseBarStore) RecentDates(ctx context.Context, symbol string, days int) ([]time.Time, error) {
	q := fmt.Sprintf(`SELECT date FROM %s WHERE symbol = ? ORDER BY date DESC LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, days)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0, days)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
	return dates, nil
}

// InsertBars uses multi-row VALUES inserts, chunked to keep statements bounded.
func (s *ClickHouseBarStore) InsertBars(ctx context.Context, bars []models.DailyBar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	const chunkSize = 2000
	inserted := 0
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			if b.Symbol == "" || b.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, b.Symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, date, open, high, low, close, volume) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return inserted, fmt.Errorf("insert bars: %w", err)
		}
		inserted += len(values)
	}
	return inserted, nil
}

func (s *ClickHouseBarStore) LatestDate(ctx context.Context, symbol string) (*time.Time, error) {
	q := fmt.Sprintf(`SELECT MAX(date) FROM %s WHERE symbol = ?`, s.table)
	var latest sql.NullTime
	if err := s.db.QueryRowContext(ctx, q, symbol).Scan(&latest); err != nil {
		return nil, fmt.Errorf("latest date: %w", err)
	}
	return normalizeLatest(latest), nil
}

// normalizeLatest maps the driver's empty-result encodings to nil. ClickHouse
// answers MAX(date) over no rows with the Date default 1970-01-01 rather than
// NULL, so the epoch counts as "no bars" alongside NULL and the zero time.
func normalizeLatest(latest sql.NullTime) *time.Time {
	if !latest.Valid || latest.Time.IsZero() {
		return nil
	}
	if !latest.Time.After(time.Unix(0, 0).UTC()) {
		return nil
	}
	t := latest.Time
	return &t
}

func (s *ClickHouseBarStore) CountBars(ctx context.Context, symbol string) (int64, error) {
	q := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE symbol = ?`, s.table)
	var count int64
	if err := s.db.QueryRowContext(ctx, q, symbol).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bars: %w", err)
	}
	return count, nil
}

func (s *ClickHouseBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseBarStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

var _ domrepo.BarStore = (*ClickHouseBarStore)(nil)
