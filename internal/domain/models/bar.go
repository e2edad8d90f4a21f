package models

import "time"

// DailyBar represents one OHLCV record for a symbol on a trading day.
// At most one bar exists per (symbol, date); rows are append-only once ingested.
type DailyBar struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
