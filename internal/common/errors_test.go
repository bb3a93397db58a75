package common

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapsCause(t *testing.T) {
	err := NewAppError("EXTRACTION_ERROR", "analyze document", ErrInternal)

	assert.Contains(t, err.Error(), "EXTRACTION_ERROR")
	assert.Contains(t, err.Error(), "analyze document")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := NewAppError("CONFIG_ERROR", "something is off", nil)

	assert.Equal(t, "CONFIG_ERROR: something is off", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "context"))

	wrapped := WrapError(ErrNoUploads, "batch extraction")
	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, ErrNoUploads)
	assert.Contains(t, wrapped.Error(), "batch extraction")
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestIDFromContext(ctx))
	assert.Equal(t, "", RunIDFromContext(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithRunID(ctx, "run-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "run-1", RunIDFromContext(ctx))
}
