package recorder

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockscope/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordScan(t *testing.T) {
	r := openTestRecorder(t)

	rows := []model.ScanResult{
		{
			Ticker: "AAPL", Name: "Apple Inc.", Price: 187.7, AvgVolume: 52e6,
			Score: 78, EMAScore: 85, BreakoutScore: 40, InstitutionalScore: 70,
			RSI: 61.2, Squeeze: true, Pattern: "Pre-Breakout Building",
			FlowSignal: "Accumulating", Reasons: []string{"Strong EMA alignment (85)", "High volume (2.1x avg)"},
			MarketCap: 2.9e12, Sector: "Electronic Computers", MoatScore: 70, MoatRating: "Narrow Moat",
		},
		{Ticker: "MSFT", Score: 65},
	}
	require.NoError(t, r.RecordScan(rows))

	var count int
	require.NoError(t, r.db.QueryRow("SELECT COUNT(*) FROM scan_snapshots").Scan(&count))
	assert.Equal(t, 2, count)

	var reasons string
	var squeeze bool
	require.NoError(t, r.db.QueryRow(
		"SELECT reasons, squeeze FROM scan_snapshots WHERE ticker = 'AAPL'").Scan(&reasons, &squeeze))
	assert.Equal(t, "Strong EMA alignment (85); High volume (2.1x avg)", reasons)
	assert.True(t, squeeze)
}

func TestRecordBacktest(t *testing.T) {
	r := openTestRecorder(t)

	result := &model.BacktestResult{
		RunID:      "run-1",
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
		Trades: []model.Trade{
			{
				Ticker: "NVDA", EntryDate: time.Now().AddDate(0, 0, -90),
				EntryPrice: 450, Action: model.ActionStrongBuy,
				Confidence: model.ConfidenceHigh, OverallScore: 82,
				Outcome: model.OutcomeWin, ExitPrice: 495, ReturnPct: 10.0, DaysHeld: 12,
			},
			{
				Ticker: "TSLA", EntryDate: time.Now().AddDate(0, 0, -60),
				EntryPrice: 200, Action: model.ActionAccumulate,
				Outcome: model.OutcomeTimeout, ExitPrice: 208, ReturnPct: 4.0, DaysHeld: 60,
			},
		},
		Summary: model.Summary{
			TotalTrades: 2, Wins: 1, Timeouts: 1, WinRate: 50,
			AvgReturn: 7.0, ProfitFactor: math.Inf(1), AvgDaysHeld: 36,
			BestTrade: 10.0, WorstTrade: 4.0,
		},
	}
	require.NoError(t, r.RecordBacktest(result))

	var trades int
	require.NoError(t, r.db.QueryRow(
		"SELECT COUNT(*) FROM backtest_trades WHERE run_id = 'run-1'").Scan(&trades))
	assert.Equal(t, 2, trades)

	// +Inf profit factor is stored as NULL
	var pf sql.NullFloat64
	require.NoError(t, r.db.QueryRow(
		"SELECT profit_factor FROM backtest_runs WHERE run_id = 'run-1'").Scan(&pf))
	assert.False(t, pf.Valid)
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	r1, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r1.RecordScan([]model.ScanResult{{Ticker: "AAPL", Score: 60}}))
	require.NoError(t, r1.Close())

	r2, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r2.Close()

	var count int
	require.NoError(t, r2.db.QueryRow("SELECT COUNT(*) FROM scan_snapshots").Scan(&count))
	assert.Equal(t, 1, count)
}
