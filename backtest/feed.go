package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/propsim/market"
)

// LoadBarsCSV reads canonical bar CSV rows:
//
//	time,open,high,low,close,volume
//
// where time is RFC3339 or "2006-01-02 15:04:05" (UTC). A header row is
// allowed. Malformed bars (low > high, negative volume) are rejected here so
// the core never sees them.
func LoadBarsCSV(path, symbol string, timeframe time.Duration) (*market.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []market.Bar
	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		line++
		if len(row) < 6 {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
			continue
		}

		ts, err := parseTime(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}

		var v [5]float64
		for i := 0; i < 5; i++ {
			v[i], err = strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: bad field %q", path, line, row[i+1])
			}
		}

		bars = append(bars, market.Bar{
			Time:   ts,
			Open:   v[0],
			High:   v[1],
			Low:    v[2],
			Close:  v[3],
			Volume: v[4],
		})
	}

	return market.NewSeries(symbol, timeframe, bars)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}
