package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invoice-recon/internal/entity"
)

func TestEstimateMemoryTotals(t *testing.T) {
	uploads := []entity.RawUpload{
		{Filename: "a.pdf", Content: make([]byte, 4)},
		{Filename: "b.pdf", Content: make([]byte, 6)},
	}

	est := EstimateMemory(uploads, 2.0)

	assert.Equal(t, 2, est.TotalFiles)
	assert.Equal(t, int64(10), est.TotalBytes)
	assert.Equal(t, int64(20), est.EstimatedBytes)
	assert.True(t, est.Safe)
}

func TestEstimateBytesDefaultOverhead(t *testing.T) {
	est := EstimateBytes(1, 100, 0)

	assert.Equal(t, int64(130), est.EstimatedBytes)
}

func TestEstimateBytesSafeThreshold(t *testing.T) {
	// 1.3x of 300 MB stays under 500 MB; 1.3x of 600 MB does not.
	safe := EstimateBytes(10, 300<<20, 0)
	unsafe := EstimateBytes(10, 600<<20, 0)

	assert.True(t, safe.Safe)
	assert.False(t, unsafe.Safe)
}

func TestRecommendChunkSize(t *testing.T) {
	tests := []struct {
		name     string
		files    int
		bytes    int64
		fallback int
		want     int
	}{
		{name: "safe set keeps fallback", files: 40, bytes: 100 << 20, fallback: 10, want: 10},
		{name: "empty set keeps fallback", files: 0, bytes: 0, fallback: 10, want: 10},
		// 600 MB * 1.3 = 780 MB -> 8 chunks of ~100 MB -> ceil(40/8) = 5.
		{name: "oversized set shrinks chunks", files: 40, bytes: 600 << 20, fallback: 10, want: 5},
		// Recommendation never exceeds the fallback.
		{name: "clamped to fallback", files: 100, bytes: 600 << 20, fallback: 10, want: 10},
		{name: "never below one", files: 2, bytes: 2 << 30, fallback: 10, want: 1},
		{name: "zero fallback defaults to ten", files: 5, bytes: 10 << 20, fallback: 0, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := EstimateBytes(tt.files, tt.bytes, 0)
			assert.Equal(t, tt.want, est.RecommendChunkSize(tt.fallback))
		})
	}
}
