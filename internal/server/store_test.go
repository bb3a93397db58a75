package server

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-recon/internal/entity"
)

func TestRunStorePutGet(t *testing.T) {
	store := NewRunStore(4)
	report := &entity.RunReport{ID: uuid.New()}

	store.Put(report)

	got, ok := store.Get(report.ID)
	require.True(t, ok)
	assert.Equal(t, report, got)
	assert.Equal(t, 1, store.Len())
}

func TestRunStoreEvictsOldest(t *testing.T) {
	store := NewRunStore(2)
	first := &entity.RunReport{ID: uuid.New()}
	second := &entity.RunReport{ID: uuid.New()}
	third := &entity.RunReport{ID: uuid.New()}

	store.Put(first)
	store.Put(second)
	store.Put(third)

	_, ok := store.Get(first.ID)
	assert.False(t, ok, "oldest run is evicted at the bound")
	_, ok = store.Get(second.ID)
	assert.True(t, ok)
	_, ok = store.Get(third.ID)
	assert.True(t, ok)
	assert.Equal(t, 2, store.Len())
}

func TestRunStorePutSameIDTwice(t *testing.T) {
	store := NewRunStore(2)
	report := &entity.RunReport{ID: uuid.New()}

	store.Put(report)
	store.Put(report)

	assert.Equal(t, 1, store.Len())
}
