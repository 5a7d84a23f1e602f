package recorder

import "stockscope/internal/model"

// Recorder persists scan and backtest history for later inspection.
type Recorder interface {
	RecordScan(rows []model.ScanResult) error
	RecordBacktest(result *model.BacktestResult) error
	Close() error
}
