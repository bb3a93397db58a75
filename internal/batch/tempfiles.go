package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// TempRegistry tracks temporary files created while a chunk is processed and
// guarantees their removal whether the chunk succeeds or fails. It is owned by
// a single run and never accessed concurrently.
type TempRegistry struct {
	dir   string
	log   *slog.Logger
	paths []string
}

func NewTempRegistry(dir string, logger *slog.Logger) *TempRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempRegistry{dir: dir, log: logger}
}

// Spill writes content to a tracked temporary file and returns its path.
func (r *TempRegistry) Spill(content []byte, filename string) (string, error) {
	f, err := os.CreateTemp(r.dir, "upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	r.paths = append(r.paths, f.Name())

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

// Count reports how many files the registry currently tracks.
func (r *TempRegistry) Count() int {
	return len(r.paths)
}

// Release removes every tracked file. Cleanup is best effort: failures are
// logged and never abort reporting.
func (r *TempRegistry) Release() {
	for _, p := range r.paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			r.log.Warn("batch.tempfile.cleanup_error", "path", p, "error", err)
		}
	}
	r.paths = nil
}
