// Package importer bulk-loads Alpha Progression exports from disk into history.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/liftlog/internal/ingest/alpha"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SessionsInserted   int
	SessionsDuplicated int
	SetsReceived       int
}

// Importer reads export files and appends their sessions to history.
type Importer struct {
	provider *alpha.Provider
	log      *slog.Logger
	dryRun   bool
	stats    Stats
}

// New creates a new Importer writing through store.
func New(store alpha.Store, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{
		provider: alpha.NewProvider(store, log, dryRun),
		log:      log,
		dryRun:   dryRun,
	}
}

// Import processes a single export file, or every .csv and .csv.gz file
// directly inside a directory, in name order. Files that fail to open or
// parse are counted and skipped; only a bad path or a cancelled context
// aborts the run.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	files, err := exportFiles(path)
	if err != nil {
		return &imp.stats, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		imp.importFile(ctx, f)
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) {
	r, err := openExport(path)
	if err != nil {
		imp.log.Warn("open failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return
	}
	defer r.Close()

	res, err := imp.provider.Ingest(ctx, r)
	if err != nil {
		imp.log.Warn("parse failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return
	}
	if res.SessionsReceived == 0 {
		imp.stats.FilesSkipped++
		return
	}

	imp.stats.FilesProcessed++
	imp.stats.SessionsInserted += res.SessionsInserted
	imp.stats.SessionsDuplicated += res.SessionsSkipped
	imp.stats.SetsReceived += res.SetsReceived
	imp.log.Info("imported file", "file", filepath.Base(path),
		"inserted", res.SessionsInserted, "duplicates", res.SessionsSkipped, "dry_run", imp.dryRun)
}

// exportFiles resolves path to the list of files to import.
func exportFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsExportFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// IsExportFile reports whether name looks like an Alpha Progression export.
func IsExportFile(name string) bool {
	name = strings.ToLower(name)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".csv.gz")
}
