package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
	domrepo "github.com/gannontraynor/marketPulse/internal/domain/repository"
	applogger "github.com/gannontraynor/marketPulse/pkg/logger"
)

const (
	createDailyBarsSQL = `CREATE TABLE IF NOT EXISTS daily_bars (
        id      BIGSERIAL PRIMARY KEY,
        symbol  TEXT    NOT NULL,
        date    DATE    NOT NULL,
        open    NUMERIC NOT NULL,
        high    NUMERIC NOT NULL,
        low     NUMERIC NOT NULL,
        close   NUMERIC NOT NULL,
        volume  NUMERIC NOT NULL,
        CONSTRAINT uniq_symbol_date UNIQUE (symbol, date)
    );
    CREATE INDEX IF NOT EXISTS idx_daily_bars_symbol_date ON daily_bars (symbol, date DESC);`

	insertBarSQL = `INSERT INTO daily_bars (symbol, date, open, high, low, close, volume)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    ON CONFLICT (symbol, date) DO NOTHING;`

	recentClosesSQL = `SELECT close::text
    FROM daily_bars
    WHERE symbol = $1
    ORDER BY date DESC
    LIMIT $2;`

	recentClosesAsOfSQL = `SELECT close::text
    FROM daily_bars
    WHERE symbol = $1
      AND date <= $2
    ORDER BY date DESC
    LIMIT $3;`

	recentDatesSQL = `SELECT date
    FROM daily_bars
    WHERE symbol = $1
    ORDER BY date DESC
    LIMIT $2;`

	latestDateSQL = `SELECT MAX(date) FROM daily_bars WHERE symbol = $1;`

	countBarsSQL = `SELECT COUNT(*) FROM daily_bars WHERE symbol = $1;`
)

// PostgresBarStore implements the bar store on a pgx connection pool.
// Close prices live in NUMERIC columns and travel as decimal strings;
// the float64 conversion happens once, at the read boundary.
type PostgresBarStore struct {
	pool *pgxpool.Pool
	l    *applogger.Logger
}

// NewPostgresBarStore wires a pgx pool into a bar store.
func NewPostgresBarStore(pool *pgxpool.Pool) *PostgresBarStore {
	return &PostgresBarStore{pool: pool}
}

// SetLogger injects a structured logger.
func (s *PostgresBarStore) SetLogger(l *applogger.Logger) { s.l = l }

// InitSchema ensures the daily_bars table exists (idempotent).
func (s *PostgresBarStore) InitSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createDailyBarsSQL); err != nil {
		return fmt.Errorf("init daily_bars schema: %w", err)
	}
	return nil
}

func (s *PostgresBarStore) RecentCloses(ctx context.Context, symbol string, n int) ([]float64, error) {
	return s.queryCloses(ctx, recentClosesSQL, symbol, n)
}

func (s *PostgresBarStore) RecentClosesAsOf(ctx context.Context, symbol string, asof time.Time, n int) ([]float64, error) {
	return s.queryCloses(ctx, recentClosesAsOfSQL, symbol, asof, n)
}

func (s *PostgresBarStore) queryCloses(ctx context.Context, sql string, args ...any) ([]float64, error) {
	start := time.Now()
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query closes: %w", err)
	}
	defer rows.Close()

	closes := make([]float64, 0, 32)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan close: %w", err)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", raw, err)
		}
		closes = append(closes, d.InexactFloat64())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	// rows arrive newest first; reverse to chronological
	for i, j := 0, len(closes)-1; i < j; i, j = i+1, j-1 {
		closes[i], closes[j] = closes[j], closes[i]
	}
	if s.l != nil {
		s.l.Debug("postgres recent_closes ok",
			applogger.Int("rows", len(closes)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return closes, nil
}

func (s *PostgresBarStore) RecentDates(ctx context.Context, symbol string, days int) ([]time.Time, error) {
	rows, err := s.pool.Query(ctx, recentDatesSQL, symbol, days)
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

// InsertBars stores bars in one pipelined batch. Conflicting (symbol, date)
// rows are skipped by the store, keeping ingestion idempotent.
func (s *PostgresBarStore) InsertBars(ctx context.Context, bars []models.DailyBar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(insertBarSQL,
			b.Symbol,
			b.Date,
			decimal.NewFromFloat(b.Open).String(),
			decimal.NewFromFloat(b.High).String(),
			decimal.NewFromFloat(b.Low).String(),
			decimal.NewFromFloat(b.Close).String(),
			decimal.NewFromFloat(b.Volume).String(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range bars {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert bar: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (s *PostgresBarStore) LatestDate(ctx context.Context, symbol string) (*time.Time, error) {
	var latest *time.Time
	if err := s.pool.QueryRow(ctx, latestDateSQL, symbol).Scan(&latest); err != nil {
		return nil, fmt.Errorf("latest date: %w", err)
	}
	return latest, nil
}

func (s *PostgresBarStore) CountBars(ctx context.Context, symbol string) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, countBarsSQL, symbol).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bars: %w", err)
	}
	return count, nil
}

func (s *PostgresBarStore) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresBarStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

var _ domrepo.BarStore = (*PostgresBarStore)(nil)
