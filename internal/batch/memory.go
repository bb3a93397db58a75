package batch

import (
	"math"

	"invoice-recon/internal/entity"
)

// DefaultOverheadFactor inflates raw payload size to approximate the working
// set during extraction.
const DefaultOverheadFactor = 1.3

// safeMemoryBytes is the threshold under which processing the whole upload
// set in one pass is considered safe.
const safeMemoryBytes = 500 << 20

// MemoryEstimate is an advisory sizing of an upload set. It is a heuristic,
// not a correctness requirement.
type MemoryEstimate struct {
	TotalFiles     int   `json:"total_files"`
	TotalBytes     int64 `json:"total_bytes"`
	EstimatedBytes int64 `json:"estimated_bytes"`
	Safe           bool  `json:"safe"`
}

// EstimateMemory sizes the upload set with the given overhead factor
// (DefaultOverheadFactor when zero or negative).
func EstimateMemory(uploads []entity.RawUpload, overhead float64) MemoryEstimate {
	var total int64
	for _, u := range uploads {
		total += int64(len(u.Content))
	}
	return EstimateBytes(len(uploads), total, overhead)
}

// EstimateBytes sizes a hypothetical upload set from its aggregate byte count.
func EstimateBytes(files int, totalBytes int64, overhead float64) MemoryEstimate {
	if overhead <= 0 {
		overhead = DefaultOverheadFactor
	}
	est := int64(math.Ceil(float64(totalBytes) * overhead))
	return MemoryEstimate{
		TotalFiles:     files,
		TotalBytes:     totalBytes,
		EstimatedBytes: est,
		Safe:           est < safeMemoryBytes,
	}
}

// RecommendChunkSize suggests a chunk size that keeps a chunk's working set
// around 100 MB, clamped to [1, fallback]. A safe estimate keeps the fallback.
func (e MemoryEstimate) RecommendChunkSize(fallback int) int {
	if fallback <= 0 {
		fallback = 10
	}
	if e.TotalFiles == 0 || e.Safe {
		return fallback
	}
	estMB := float64(e.EstimatedBytes) / (1 << 20)
	chunks := int(math.Ceil(estMB / 100))
	if chunks < 1 {
		chunks = 1
	}
	rec := int(math.Ceil(float64(e.TotalFiles) / float64(chunks)))
	if rec < 1 {
		rec = 1
	}
	if rec > fallback {
		rec = fallback
	}
	return rec
}
