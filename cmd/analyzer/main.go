package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"stockscope/internal/backtest"
	"stockscope/internal/cache"
	"stockscope/internal/collector"
	"stockscope/internal/config"
	"stockscope/internal/model"
	"stockscope/internal/recorder"
	"stockscope/internal/scanner"
	"stockscope/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] stockscope starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init cache
	var store cache.Store
	switch cfg.Cache.Mode {
	case "disk":
		disk, err := cache.NewDisk(cfg.Cache.Dir)
		if err != nil {
			log.Fatalf("[FATAL] init disk cache: %v", err)
		}
		store = disk
	case "none":
		store = cache.NewNop()
	default:
		store = cache.NewMemory()
	}
	log.Printf("[INFO] cache mode: %s", cfg.Cache.Mode)

	// Init fetchers
	delay := time.Duration(cfg.Polygon.DelayMs) * time.Millisecond
	polygon := collector.NewPolygonFetcher(cfg.Polygon.APIKey, store, delay)
	var metrics collector.MetricsFetcher
	if cfg.Finnhub.APIKey != "" {
		metrics = collector.NewFinnhubFetcher(cfg.Finnhub.APIKey, store, delay)
	}
	log.Printf("[INFO] data source: %s", polygon.Name())

	analyzer := collector.NewAnalyzer(polygon, polygon, metrics)

	// Init scanner
	scanUniverse := cfg.Scanner.Universe
	if len(scanUniverse) == 0 {
		scanUniverse = backtest.DefaultUniverse
	}
	scan := scanner.New(polygon, polygon, scanner.Config{
		Universe:     scanUniverse,
		LookbackDays: cfg.Scanner.LookbackDays,
		MinPrice:     cfg.Scanner.MinPrice,
		MinVolume:    cfg.Scanner.MinVolume,
		MinScore:     cfg.Scanner.MinScore,
		MinEMAScore:  cfg.Scanner.MinEMAScore,
		Workers:      cfg.Scanner.Workers,
	})

	// Init backtest engine
	btCfg := backtest.DefaultConfig()
	if len(cfg.Backtest.Universe) > 0 {
		btCfg.Universe = cfg.Backtest.Universe
	}
	btCfg.HoldingDays = cfg.Backtest.HoldingDays
	btCfg.TargetPct = cfg.Backtest.TargetPct
	btCfg.StopPct = cfg.Backtest.StopPct
	btCfg.MinOverallScore = cfg.Backtest.MinOverallScore
	btCfg.LookbackDays = cfg.Backtest.LookbackDays
	btCfg.Workers = cfg.Backtest.Workers
	engine := backtest.NewEngine(polygon, btCfg)

	// One-shot modes run without recorder or scheduler
	if len(os.Args) > 1 {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		switch os.Args[1] {
		case "analyze":
			if len(os.Args) < 3 {
				log.Fatal("[FATAL] usage: analyzer analyze TICKER")
			}
			runAnalyze(ctx, analyzer, strings.ToUpper(os.Args[2]))
		case "scan":
			runScan(ctx, scan)
		case "backtest":
			runBacktest(ctx, engine)
		default:
			log.Fatalf("[FATAL] unknown command %q (want analyze, scan, or backtest)", os.Args[1])
		}
		return
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, scan, engine, rec)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.BacktestCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] stockscope is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] stockscope stopped")
}

func runAnalyze(ctx context.Context, analyzer *collector.Analyzer, ticker string) {
	result, err := analyzer.Analyze(ctx, ticker)
	if err != nil {
		log.Fatalf("[FATAL] analyze %s: %v", ticker, err)
	}
	printAnalysis(result)
}

func runScan(ctx context.Context, scan *scanner.Scanner) {
	results, err := scan.Scan(ctx, func(current, total int, message string) {
		log.Printf("[INFO] scan progress %d/%d: %s", current, total, message)
	})
	if err != nil {
		log.Fatalf("[FATAL] scan: %v", err)
	}
	printScanResults(results)
}

func runBacktest(ctx context.Context, engine *backtest.Engine) {
	result, err := engine.Run(ctx, func(current, total int, message string) {
		log.Printf("[INFO] backtest progress %d/%d: %s", current, total, message)
	})
	if err != nil {
		log.Fatalf("[FATAL] backtest: %v", err)
	}
	printBacktest(result)
}

func printAnalysis(a *collector.Analysis) {
	fmt.Printf("=== %s ===\n", a.Ticker)
	if a.Details != nil && a.Details.Name != a.Ticker {
		fmt.Printf("%s", a.Details.Name)
		if a.Details.MarketCap > 0 {
			fmt.Printf("  (market cap $%s)", humanize.SIWithDigits(a.Details.MarketCap, 1, ""))
		}
		fmt.Println()
	}
	if a.Indicators == nil {
		fmt.Println("insufficient price history for technical analysis")
	} else {
		fmt.Printf("Price: $%.2f  Avg volume: %s\n", a.Price, humanize.Comma(int64(a.AvgVolume)))
		fmt.Printf("Overall %d | EMA %d | Flow %d (%s) | Breakout %d (%s)\n",
			a.Overall.Score, a.Indicators.EMAScore,
			a.Flow.Score, a.Flow.Label, a.Breakout.Score, a.Breakout.Label)
		fmt.Printf("RSI %.1f  ADX %.1f  Momentum 5d %+.1f%% 20d %+.1f%%\n",
			a.Indicators.RSI, a.Indicators.ADX, a.Indicators.Momentum5d, a.Indicators.Momentum20d)

		rec := a.Recommendation
		fmt.Printf("\nRecommendation: %s (%s confidence)\n", rec.Action, rec.Confidence)
		for _, reason := range rec.Reasoning {
			fmt.Printf("  - %s\n", reason)
		}
		fmt.Printf("Win probability %.0f%%, expected return %+.1f%% over ~%d days\n",
			rec.Win.Probability*100, rec.Win.ExpectedReturn*100, rec.Win.HoldPeriodDays)

		fmt.Printf("\nOptions: %s (rating %.0f/110, IV %s)\n",
			a.OptionsPlay.Name, a.OptionsRating.Score, a.IV.Percentile)
	}

	if a.Financials != nil {
		fmt.Println("\nFundamentals:")
		if a.FairValue != nil {
			fmt.Printf("  Fair value $%.2f (%+.1f%% vs price)\n",
				a.FairValue.WeightedFairValue, a.FairValue.PremiumDiscountPct)
		}
		if a.Moat.Rated {
			fmt.Printf("  Moat %d/100 (%s)\n", a.Moat.Score, a.Moat.Rating)
		}
		fmt.Printf("  Growth score %d/100\n", a.Growth)
	}
}

func printScanResults(rows []model.ScanResult) {
	if len(rows) == 0 {
		fmt.Println("no stocks passed the scan filters")
		return
	}
	fmt.Printf("%-6s %-28s %10s %12s %6s %5s %6s %6s  %s\n",
		"TICKER", "NAME", "PRICE", "AVG VOL", "SCORE", "EMA", "FLOW", "BRKOUT", "SIGNAL")
	for _, r := range rows {
		name := r.Name
		if len(name) > 28 {
			name = name[:28]
		}
		fmt.Printf("%-6s %-28s %10.2f %12s %6d %5d %6d %6d  %s\n",
			r.Ticker, name, r.Price, humanize.Comma(int64(r.AvgVolume)),
			r.Score, r.EMAScore, r.InstitutionalScore, r.BreakoutScore, r.FlowSignal)
	}
	fmt.Printf("\n%d candidates\n", len(rows))
}

func printBacktest(result *model.BacktestResult) {
	s := result.Summary
	fmt.Printf("=== backtest %s ===\n", result.RunID)
	fmt.Printf("Trades: %d (W %d / L %d / T %d)  Win rate %.1f%%\n",
		s.TotalTrades, s.Wins, s.Losses, s.Timeouts, s.WinRate)
	fmt.Printf("Avg return %+.2f%%  Profit factor %.2f  Avg held %.1f days\n",
		s.AvgReturn, s.ProfitFactor, s.AvgDaysHeld)
	fmt.Printf("Best %+.2f%%  Worst %+.2f%%\n", s.BestTrade, s.WorstTrade)

	if len(result.ActionBreakdown) > 0 {
		fmt.Println("\nBy action:")
		for _, action := range []model.Action{
			model.ActionStrongBuy, model.ActionAccumulate, model.ActionBuyDip, model.ActionSpeculativeBuy,
		} {
			stats, ok := result.ActionBreakdown[action]
			if !ok {
				continue
			}
			fmt.Printf("  %-16s %4d trades, win rate %.1f%% (expected %.0f%%), avg %+.2f%%\n",
				action, stats.Total, stats.WinRate, stats.ExpectedWinRate, stats.AvgReturn)
		}
	}

	if len(result.FactorAnalysis) > 0 {
		fmt.Println("\nFactor differentials (wins vs losses):")
		for name, fs := range result.FactorAnalysis {
			fmt.Printf("  %-20s %+.1f (wins %.1f, losses %.1f)\n",
				name, fs.Differential, fs.AvgInWins, fs.AvgInLosses)
		}
	}
}
