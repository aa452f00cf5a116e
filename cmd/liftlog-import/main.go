package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/importer"
	"github.com/claude/liftlog/internal/logging"
	"github.com/claude/liftlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	path := flag.String("path", "", "Alpha Progression CSV export, or a directory of .csv/.csv.gz exports (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing history")
	flag.Parse()

	if *path == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import [-config config.yaml] -path export.csv [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, logCloser := logging.New(cfg.Log)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *dryRun {
		log.Info("DRY RUN mode: no history will be written")
	}

	kv, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	imp := importer.New(history.NewRepository(kv, log), log, *dryRun)
	stats, err := imp.Import(ctx, *path)
	printStats(log, stats)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"sessions_inserted", stats.SessionsInserted,
		"sessions_duplicated", stats.SessionsDuplicated,
		"sets_received", stats.SetsReceived,
	)
}
