package stooq

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
	"github.com/gannontraynor/marketPulse/pkg/util"
)

// ParseDailyCSV parses a Stooq daily CSV payload
// (Date,Open,High,Low,Close,Volume) into chronological bars.
// Rows with malformed numbers or dates are skipped; the feed carries
// occasional "N/D" placeholders on illiquid names.
func ParseDailyCSV(symbol string, payload []byte) ([]models.DailyBar, error) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" || strings.HasPrefix(trimmed, "No data") {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(payload))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 6 || !strings.EqualFold(strings.TrimSpace(header[0]), "Date") {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	bars := make([]models.DailyBar, 0, 256)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) < 6 {
			continue
		}

		date, ok := util.ParseDate(strings.TrimSpace(rec[0]))
		if !ok {
			continue
		}
		fields, ok := parseFields(rec[1:6])
		if !ok {
			continue
		}

		bars = append(bars, models.DailyBar{
			Symbol: symbol,
			Date:   date,
			Open:   fields[0],
			High:   fields[1],
			Low:    fields[2],
			Close:  fields[3],
			Volume: fields[4],
		})
	}
	return bars, nil
}

func parseFields(raw []string) ([5]float64, bool) {
	var out [5]float64
	for i, s := range raw {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			// volume column may be missing entirely on some indices
			if i == 4 && strings.TrimSpace(s) == "" {
				out[i] = 0
				continue
			}
			return out, false
		}
		out[i] = d.InexactFloat64()
	}
	return out, true
}
