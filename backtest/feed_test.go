package backtest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadBarsCSV(t *testing.T) {
	path := writeCSV(t, `time,open,high,low,close,volume
2024-03-04T09:30:00Z,5000,5005,4995,5002,1200
2024-03-04T09:31:00Z,5002,5010,5001,5008,900
`)

	s, err := LoadBarsCSV(path, "MES", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "MES", s.Symbol)
	assert.Equal(t, time.Minute, s.Timeframe)
	require.Equal(t, 2, s.Len())

	b := s.Bars[0]
	assert.Equal(t, "MES", b.Symbol)
	assert.Equal(t, time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC), b.Time)
	assert.InDelta(t, 5000, b.Open, 1e-9)
	assert.InDelta(t, 5002, b.Close, 1e-9)
	assert.InDelta(t, 1200, b.Volume, 1e-9)
}

func TestLoadBarsCSVSpaceTimestamps(t *testing.T) {
	path := writeCSV(t, "2024-03-04 09:30:00,5000,5005,4995,5002,1200\n")

	s, err := LoadBarsCSV(path, "MNQ", 5*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC), s.Bars[0].Time)
}

func TestLoadBarsCSVRejectsMalformed(t *testing.T) {
	// Low above high.
	path := writeCSV(t, "2024-03-04T09:30:00Z,5000,4995,5005,5002,1200\n")
	_, err := LoadBarsCSV(path, "MES", time.Minute)
	assert.Error(t, err)

	// Unparseable price.
	path = writeCSV(t, "2024-03-04T09:30:00Z,abc,5005,4995,5002,1200\n")
	_, err = LoadBarsCSV(path, "MES", time.Minute)
	assert.Error(t, err)

	// Unparseable timestamp.
	path = writeCSV(t, "yesterday,5000,5005,4995,5002,1200\n")
	_, err = LoadBarsCSV(path, "MES", time.Minute)
	assert.Error(t, err)

	_, err = LoadBarsCSV(filepath.Join(t.TempDir(), "missing.csv"), "MES", time.Minute)
	assert.Error(t, err)
}
