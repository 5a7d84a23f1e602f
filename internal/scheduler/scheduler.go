package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"stockscope/internal/backtest"
	"stockscope/internal/recorder"
	"stockscope/internal/scanner"
)

// Scheduler manages the periodic scan and backtest tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Scanner  *scanner.Scanner
	Backtest *backtest.Engine
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, bt *backtest.Engine, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Scanner:  sc,
		Backtest: bt,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily scan and weekly backtest tasks.
func (s *Scheduler) RegisterAll(scanCron, backtestCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if _, err := s.Cron.AddFunc(backtestCron, s.backtestTask); err != nil {
		return fmt.Errorf("register backtest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// RunBacktestNow executes the backtest task immediately.
func (s *Scheduler) RunBacktestNow() {
	s.backtestTask()
}

func (s *Scheduler) scanTask() {
	log.Println("[INFO] running market scan")
	results, err := s.Scanner.Scan(s.Ctx, func(current, total int, message string) {
		log.Printf("[INFO] scan progress %d/%d: %s", current, total, message)
	})
	if err != nil {
		log.Printf("[ERROR] scan: %v", err)
		return
	}
	log.Printf("[INFO] scan complete: %d candidates", len(results))

	if err := s.Recorder.RecordScan(results); err != nil {
		log.Printf("[ERROR] record scan: %v", err)
	}
}

func (s *Scheduler) backtestTask() {
	log.Println("[INFO] running backtest")
	result, err := s.Backtest.Run(s.Ctx, func(current, total int, message string) {
		log.Printf("[INFO] backtest progress %d/%d: %s", current, total, message)
	})
	if err != nil {
		log.Printf("[ERROR] backtest: %v", err)
		return
	}
	log.Printf("[INFO] backtest %s complete: %d trades, win rate %.1f%%",
		result.RunID, result.Summary.TotalTrades, result.Summary.WinRate)

	if err := s.Recorder.RecordBacktest(result); err != nil {
		log.Printf("[ERROR] record backtest: %v", err)
	}
}
