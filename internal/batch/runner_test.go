package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-recon/internal/azure"
	"invoice-recon/internal/common"
	"invoice-recon/internal/entity"
)

type fakeExtractor struct {
	fail map[string]error
}

func (f *fakeExtractor) Extract(_ context.Context, up entity.RawUpload) (entity.ExtractedDocument, error) {
	if err, ok := f.fail[up.Filename]; ok {
		return entity.ExtractedDocument{}, err
	}
	return entity.ExtractedDocument{
		Filename:       up.Filename,
		Type:           entity.DocTypeUnknown,
		DocumentNumber: string(up.Content),
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeUploads(n int) []entity.RawUpload {
	uploads := make([]entity.RawUpload, 0, n)
	for i := 0; i < n; i++ {
		uploads = append(uploads, entity.RawUpload{
			Filename: fmt.Sprintf("doc-%02d.pdf", i),
			Content:  []byte(fmt.Sprintf("payload-%02d", i)),
		})
	}
	return uploads
}

func TestRunnerChunksAndProgress(t *testing.T) {
	r := NewRunner(&fakeExtractor{}, Config{ChunkSize: 10, InMemory: true}, testLogger())
	uploads := makeUploads(25)

	var progress [][2]int
	docs, failures, err := r.Run(context.Background(), uploads, func(done, total int) {
		progress = append(progress, [2]int{done, total})
	})

	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, docs, 25)
	assert.Equal(t, [][2]int{{10, 25}, {20, 25}, {25, 25}}, progress)

	// Upload order survives chunking.
	for i, d := range docs {
		assert.Equal(t, i, d.UploadIndex)
		assert.Equal(t, uploads[i].Filename, d.Filename)
	}
}

func TestRunnerSingleFailureDoesNotAbortRun(t *testing.T) {
	ext := &fakeExtractor{fail: map[string]error{
		"doc-12.pdf": &azure.Error{Kind: azure.KindUnsupportedFormat, Status: 415, Message: "unsupported media type"},
	}}
	r := NewRunner(ext, Config{ChunkSize: 10, InMemory: true}, testLogger())

	docs, failures, err := r.Run(context.Background(), makeUploads(25), nil)

	require.NoError(t, err)
	assert.Len(t, docs, 24)
	require.Len(t, failures, 1)
	assert.Equal(t, "doc-12.pdf", failures[0].Filename)
	assert.Equal(t, string(azure.KindUnsupportedFormat), failures[0].Kind)
}

func TestRunnerEmptyUploadSet(t *testing.T) {
	r := NewRunner(&fakeExtractor{}, Config{ChunkSize: 10}, testLogger())

	docs, failures, err := r.Run(context.Background(), nil, nil)

	require.ErrorIs(t, err, common.ErrNoUploads)
	assert.Empty(t, docs)
	assert.Empty(t, failures)
}

func TestRunnerCancellationAtChunkBoundary(t *testing.T) {
	r := NewRunner(&fakeExtractor{}, Config{ChunkSize: 10, InMemory: true}, testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	docs, _, err := r.Run(ctx, makeUploads(25), func(done, total int) {
		if done == 10 {
			cancel()
		}
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, docs, 10, "partial results from completed chunks are kept")
}

func TestRunnerProgressPanicContained(t *testing.T) {
	r := NewRunner(&fakeExtractor{}, Config{ChunkSize: 5, InMemory: true}, testLogger())

	docs, failures, err := r.Run(context.Background(), makeUploads(10), func(done, total int) {
		panic("observer bug")
	})

	require.NoError(t, err)
	assert.Empty(t, failures)
	assert.Len(t, docs, 10)
}

func TestRunnerDiskModeSpillsAndCleansUp(t *testing.T) {
	tempDir := t.TempDir()
	r := NewRunner(&fakeExtractor{}, Config{ChunkSize: 4, TempDir: tempDir}, testLogger())
	uploads := makeUploads(9)

	docs, failures, err := r.Run(context.Background(), uploads, nil)

	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, docs, 9)

	// Payloads round-trip through the spill files intact.
	for i, d := range docs {
		assert.Equal(t, fmt.Sprintf("payload-%02d", i), d.DocumentNumber)
	}

	// Upload buffers are released once their chunk is disk-backed.
	for _, u := range uploads {
		assert.Nil(t, u.Content)
	}

	// Every spill file is removed by the time the run returns.
	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunnerDefaultChunkSize(t *testing.T) {
	r := NewRunner(&fakeExtractor{}, Config{InMemory: true}, testLogger())

	var progress [][2]int
	docs, _, err := r.Run(context.Background(), makeUploads(15), func(done, total int) {
		progress = append(progress, [2]int{done, total})
	})

	require.NoError(t, err)
	assert.Len(t, docs, 15)
	assert.Equal(t, [][2]int{{10, 15}, {15, 15}}, progress)
}
