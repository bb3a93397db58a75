// Package ingest loads document uploads from the local filesystem.
package ingest

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"invoice-recon/internal/entity"
)

// DirStats aggregates what a directory walk found.
type DirStats struct {
	Scanned int
	Loaded  int
	Skipped int
	Failed  int
}

// LoadDirectory walks root and reads every allowed document file into a
// RawUpload, skipping hidden entries. Walk order is lexical, which fixes the
// upload order used for deterministic reports.
func LoadDirectory(root string, logger *slog.Logger) ([]entity.RawUpload, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var uploads []entity.RawUpload
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("ingest.walk_error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		stats.Scanned++
		if !AllowedExt(filepath.Ext(path)) {
			stats.Skipped++
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("ingest.read_error", "path", path, "error", err)
			stats.Failed++
			return nil
		}
		uploads = append(uploads, entity.RawUpload{Filename: filepath.Base(path), Content: content})
		stats.Loaded++
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	return uploads, stats, nil
}
