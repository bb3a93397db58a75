// Package batch sequences extraction calls over an upload set in fixed-size
// chunks, bounding peak memory to roughly one chunk's worth of payloads.
package batch

import (
	"context"
	"log/slog"
	"os"
	"time"

	"invoice-recon/internal/azure"
	"invoice-recon/internal/common"
	"invoice-recon/internal/entity"
)

// ProgressFunc receives cumulative completion counts once per finished chunk.
// It must not block significantly; panics are contained by the runner.
type ProgressFunc func(done, total int)

// Extractor converts one upload into an extracted document.
type Extractor interface {
	Extract(ctx context.Context, up entity.RawUpload) (entity.ExtractedDocument, error)
}

// Config holds runner behavior flags.
type Config struct {
	ChunkSize int  // default 10
	InMemory  bool // keep payloads buffer-backed instead of spilling to disk
	TempDir   string
}

type Runner struct {
	extractor Extractor
	cfg       Config
	log       *slog.Logger
}

func NewRunner(extractor Extractor, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 10
	}
	return &Runner{extractor: extractor, cfg: cfg, log: logger}
}

// Run extracts every upload, strictly sequentially, chunk by chunk. A single
// document's failure is recorded and never aborts the run; the only fatal
// precondition is an empty upload set. Cancellation takes effect at chunk
// boundaries only.
//
// In disk-backed mode each chunk's payloads are spilled to temporary files
// (releasing the upload buffers) and removed when the chunk completes.
func (r *Runner) Run(ctx context.Context, uploads []entity.RawUpload, onProgress ProgressFunc) ([]entity.ExtractedDocument, []entity.ExtractionFailure, error) {
	if len(uploads) == 0 {
		return nil, nil, common.ErrNoUploads
	}

	total := len(uploads)
	chunks := (total + r.cfg.ChunkSize - 1) / r.cfg.ChunkSize
	start := time.Now()

	r.log.Info("batch.run.start",
		"files", total,
		"chunk_size", r.cfg.ChunkSize,
		"chunks", chunks,
		"in_memory", r.cfg.InMemory,
	)

	var docs []entity.ExtractedDocument
	var failures []entity.ExtractionFailure

	for ci := 0; ci < chunks; ci++ {
		if err := ctx.Err(); err != nil {
			r.log.Warn("batch.run.canceled", "chunks_done", ci, "error", err)
			return docs, failures, err
		}

		lo := ci * r.cfg.ChunkSize
		hi := lo + r.cfg.ChunkSize
		if hi > total {
			hi = total
		}

		chunkStart := time.Now()
		docs, failures = r.processChunk(ctx, uploads[lo:hi], lo, docs, failures)

		r.log.Info("batch.chunk.done",
			"chunk", ci+1,
			"chunks", chunks,
			"done", hi,
			"total", total,
			"elapsed_ms", time.Since(chunkStart).Milliseconds(),
		)
		r.notify(onProgress, hi, total)
	}

	r.log.Info("batch.run.done",
		"extracted", len(docs),
		"failures", len(failures),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return docs, failures, nil
}

type chunkSource struct {
	index    int
	filename string
	content  []byte
	path     string
}

func (r *Runner) processChunk(
	ctx context.Context,
	chunk []entity.RawUpload,
	base int,
	docs []entity.ExtractedDocument,
	failures []entity.ExtractionFailure,
) ([]entity.ExtractedDocument, []entity.ExtractionFailure) {
	reg := NewTempRegistry(r.cfg.TempDir, r.log)
	defer reg.Release()

	sources := make([]chunkSource, 0, len(chunk))
	for i := range chunk {
		src := chunkSource{index: base + i, filename: chunk[i].Filename}
		if r.cfg.InMemory {
			src.content = chunk[i].Content
			sources = append(sources, src)
			continue
		}
		path, err := reg.Spill(chunk[i].Content, chunk[i].Filename)
		if err != nil {
			r.log.Warn("batch.spill_failed", "file", chunk[i].Filename, "error", err)
			src.content = chunk[i].Content
		} else {
			src.path = path
			chunk[i].Content = nil // payload is disk-backed until the chunk ends
		}
		sources = append(sources, src)
	}

	for _, src := range sources {
		content := src.content
		if src.path != "" {
			var err error
			content, err = os.ReadFile(src.path)
			if err != nil {
				failures = append(failures, entity.ExtractionFailure{
					Filename: src.filename,
					Kind:     "io_error",
					Message:  err.Error(),
				})
				continue
			}
		}

		doc, err := r.extractor.Extract(ctx, entity.RawUpload{Filename: src.filename, Content: content})
		if err != nil {
			r.log.Warn("batch.extract_failed",
				"file", src.filename,
				"kind", string(azure.KindOf(err)),
				"error", err,
			)
			failures = append(failures, entity.ExtractionFailure{
				Filename: src.filename,
				Kind:     string(azure.KindOf(err)),
				Message:  err.Error(),
			})
			continue
		}
		doc.UploadIndex = src.index
		docs = append(docs, doc)
	}
	return docs, failures
}

func (r *Runner) notify(onProgress ProgressFunc, done, total int) {
	if onProgress == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("batch.progress_callback_panic", "recover", rec)
		}
	}()
	onProgress(done, total)
}
