package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"invoice-recon/internal/azure"
	"invoice-recon/internal/batch"
	"invoice-recon/internal/common"
	"invoice-recon/internal/export"
	"invoice-recon/internal/ingest"
	"invoice-recon/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir       = flag.String("dir", "", "directory of invoice and purchase-order documents (required)")
		out       = flag.String("out", "", "output XLSX path (optional, defaults to parent directory)")
		chunkSize = flag.Int("chunk-size", 0, "documents per extraction chunk (0 = use CHUNK_SIZE env, default 10)")
		tolerance = flag.Float64("tolerance", 0, "absolute amount tolerance (0 = use TOLERANCE env, default 0.01)")
		inmem     = flag.Bool("inmem", false, "keep payloads in memory instead of spilling to temp files")
		autoChunk = flag.Bool("auto-chunk", false, "derive chunk size from the memory estimate")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		parentDir := filepath.Dir(*dir)
		*out = filepath.Join(parentDir, "comparison.xlsx")
	}

	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *chunkSize > 0 {
		cfg.Batch.ChunkSize = *chunkSize
	}
	if *tolerance > 0 {
		cfg.Batch.Tolerance = *tolerance
	}
	if *inmem {
		cfg.Batch.InMemoryMode = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Load documents
	uploads, stats, err := ingest.LoadDirectory(*dir, logger)
	if err != nil {
		logger.Error("failed to load directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(uploads) == 0 {
		logger.Error("no documents found", "dir", *dir, "scanned", stats.Scanned, "skipped", stats.Skipped)
		os.Exit(1)
	}
	logger.Info("documents loaded",
		"dir", *dir,
		"loaded", stats.Loaded,
		"scanned", stats.Scanned,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)

	// Advisory sizing
	est := batch.EstimateMemory(uploads, cfg.Batch.OverheadFactor)
	if *autoChunk {
		cfg.Batch.ChunkSize = est.RecommendChunkSize(cfg.Batch.ChunkSize)
	}
	logger.Info("memory estimate",
		"total_bytes", est.TotalBytes,
		"estimated_bytes", est.EstimatedBytes,
		"safe", est.Safe,
		"chunk_size", cfg.Batch.ChunkSize,
	)

	client := azure.NewClient(azure.Config{
		Endpoint:     cfg.Azure.Endpoint,
		APIKey:       cfg.Azure.APIKey,
		APIVersion:   cfg.Azure.APIVersion,
		Timeout:      cfg.Azure.Timeout,
		PollInterval: cfg.Azure.PollInterval,
	}, logger)
	pipe := pipeline.New(client, cfg.Batch, logger)

	bar := progressbar.NewOptions(len(uploads),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	report, err := pipe.Execute(ctx, uploads, func(done, total int) {
		_ = bar.Set(done)
	})
	_ = bar.Finish()
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	// Export to XLSX
	exportService := export.NewService(logger)
	xlsxBytes, err := exportService.ExportRunXLSX(report)
	if err != nil {
		logger.Error("failed to export report", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("validation complete",
		"run_id", report.ID,
		"output", *out,
		"pairs", report.Stats.Pairs,
		"passed", report.Stats.Passed,
		"failed", report.Stats.Failed,
		"unmatched", report.Stats.Unmatched,
		"extraction_errors", report.Stats.ExtractionErrs,
	)
}
