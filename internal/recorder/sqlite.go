package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"stockscope/internal/model"
)

// SQLiteRecorder persists scan snapshots and backtest runs to a SQLite
// database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_snapshots (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			ticker              TEXT NOT NULL,
			name                TEXT,
			price               REAL,
			avg_volume          REAL,
			score               INTEGER,
			ema_score           INTEGER,
			breakout_score      INTEGER,
			institutional_score INTEGER,
			rsi                 REAL,
			adx                 REAL,
			momentum_5d         REAL,
			momentum_20d        REAL,
			volume_ratio        REAL,
			squeeze             INTEGER,
			pattern             TEXT,
			flow_signal         TEXT,
			reasons             TEXT,
			market_cap          REAL,
			sector              TEXT,
			moat_score          INTEGER,
			moat_rating         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_ts ON scan_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_ticker ON scan_snapshots(ticker)`,

		`CREATE TABLE IF NOT EXISTS backtest_runs (
			run_id        TEXT PRIMARY KEY,
			started_at    INTEGER NOT NULL,
			finished_at   INTEGER NOT NULL,
			total_trades  INTEGER,
			wins          INTEGER,
			losses        INTEGER,
			timeouts      INTEGER,
			win_rate      REAL,
			avg_return    REAL,
			profit_factor REAL,
			avg_days_held REAL,
			best_trade    REAL,
			worst_trade   REAL
		)`,

		`CREATE TABLE IF NOT EXISTS backtest_trades (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id              TEXT NOT NULL,
			ticker              TEXT NOT NULL,
			entry_date          INTEGER NOT NULL,
			entry_price         REAL,
			action              TEXT,
			confidence          TEXT,
			overall_score       INTEGER,
			ema_score           INTEGER,
			rsi                 REAL,
			institutional_score INTEGER,
			breakout_score      INTEGER,
			squeeze             INTEGER,
			outcome             TEXT,
			exit_price          REAL,
			return_pct          REAL,
			days_held           INTEGER,
			max_favorable       REAL,
			max_adverse         REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON backtest_trades(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordScan stores one scan pass. All rows share the same timestamp so
// a pass can be read back as a unit.
func (r *SQLiteRecorder) RecordScan(rows []model.ScanResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin scan tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, row := range rows {
		_, err := tx.Exec(`INSERT INTO scan_snapshots
			(timestamp, ticker, name, price, avg_volume,
			 score, ema_score, breakout_score, institutional_score,
			 rsi, adx, momentum_5d, momentum_20d, volume_ratio, squeeze,
			 pattern, flow_signal, reasons, market_cap, sector, moat_score, moat_rating)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			now, row.Ticker, row.Name, row.Price, row.AvgVolume,
			row.Score, row.EMAScore, row.BreakoutScore, row.InstitutionalScore,
			row.RSI, row.ADX, row.Momentum5d, row.Momentum20d, row.VolumeRatio, row.Squeeze,
			row.Pattern, row.FlowSignal, strings.Join(row.Reasons, "; "),
			row.MarketCap, row.Sector, row.MoatScore, row.MoatRating,
		)
		if err != nil {
			return fmt.Errorf("insert scan row %s: %w", row.Ticker, err)
		}
	}
	return tx.Commit()
}

// RecordBacktest stores a run summary and every resolved trade.
func (r *SQLiteRecorder) RecordBacktest(result *model.BacktestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin backtest tx: %w", err)
	}
	defer tx.Rollback()

	s := result.Summary
	// profit factor is +Inf when the run had no losers; store NULL then
	profitFactor := sql.NullFloat64{Float64: s.ProfitFactor, Valid: !math.IsInf(s.ProfitFactor, 0)}

	_, err = tx.Exec(`INSERT INTO backtest_runs
		(run_id, started_at, finished_at, total_trades, wins, losses, timeouts,
		 win_rate, avg_return, profit_factor, avg_days_held, best_trade, worst_trade)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		result.RunID, result.StartedAt.Unix(), result.FinishedAt.Unix(),
		s.TotalTrades, s.Wins, s.Losses, s.Timeouts,
		s.WinRate, s.AvgReturn, profitFactor, s.AvgDaysHeld, s.BestTrade, s.WorstTrade,
	)
	if err != nil {
		return fmt.Errorf("insert backtest run: %w", err)
	}

	for _, t := range result.Trades {
		_, err := tx.Exec(`INSERT INTO backtest_trades
			(run_id, ticker, entry_date, entry_price, action, confidence,
			 overall_score, ema_score, rsi, institutional_score, breakout_score, squeeze,
			 outcome, exit_price, return_pct, days_held, max_favorable, max_adverse)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			result.RunID, t.Ticker, t.EntryDate.Unix(), t.EntryPrice,
			string(t.Action), string(t.Confidence),
			t.OverallScore, t.EMAScore, t.RSI, t.InstitutionalScore, t.BreakoutScore, t.Squeeze,
			string(t.Outcome), t.ExitPrice, t.ReturnPct, t.DaysHeld, t.MaxFavorable, t.MaxAdverse,
		)
		if err != nil {
			return fmt.Errorf("insert trade %s: %w", t.Ticker, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
