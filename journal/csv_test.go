package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournalWritesRows(t *testing.T) {
	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	exit := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(testTrade("r-1", "r", exit, 95)))
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		RunID: "r", Time: exit, Balance: 50095, Equity: 50095,
	}))
	require.NoError(t, j.RecordRun(Run{RunID: "r"})) // dropped, must not error
	require.NoError(t, j.Close())

	rows := readCSV(t, tradesPath)
	require.Len(t, rows, 2) // header + one trade
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "r-1", rows[1][0])
	assert.Equal(t, "MES", rows[1][2])
	assert.Equal(t, "LONG", rows[1][3])
	assert.Equal(t, "95", rows[1][11])

	rows = readCSV(t, equityPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "50095", rows[1][2])
	assert.Equal(t, exit.Format(time.RFC3339), rows[1][1])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}
