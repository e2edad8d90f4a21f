package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gannontraynor/marketPulse/internal/di"
	"github.com/gannontraynor/marketPulse/pkg/config"
	applogger "github.com/gannontraynor/marketPulse/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	symbolsFlag := flag.String("symbols", "", "comma-separated symbols (defaults to configured universe)")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	job, err := di.InitializeIngest(cfg)
	if err != nil {
		log.Fatalf("ingest initialization failed: %v", err)
	}
	defer func() {
		if job.Publisher != nil {
			if err := job.Publisher.Close(); err != nil {
				job.Logger.Warn("publisher close error", applogger.Error(err))
			}
		}
		if err := job.Store.Close(); err != nil {
			job.Logger.Warn("bar store close error", applogger.Error(err))
		}
	}()

	symbols := job.Symbols
	if *symbolsFlag != "" {
		symbols = strings.Split(*symbolsFlag, ",")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results, err := job.Ingestor.Run(ctx, symbols)
	if err != nil {
		job.Logger.Error("ingest run aborted", applogger.Error(err))
		os.Exit(1)
	}

	inserted := 0
	for _, r := range results {
		inserted += r.Inserted
	}
	job.Logger.Info("ingest run complete",
		applogger.Int("symbols", len(results)),
		applogger.Int("bars_inserted", inserted),
		applogger.Duration("duration_ms", time.Since(start)),
	)
}
