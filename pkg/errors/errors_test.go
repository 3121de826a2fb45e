package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext_PreservesSentinelIdentity(t *testing.T) {
	err := ErrNoteNotFound.WithContext("noteId", "a1b2c3d4")

	assert.True(t, stderrors.Is(err, ErrNoteNotFound))
	assert.Equal(t, "a1b2c3d4", err.Context["noteId"])
	// The sentinel itself must stay untouched.
	assert.Nil(t, ErrNoteNotFound.Context)
}

func TestWrap_ExposesInternalError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, ErrTypeStorage, "STORAGE_UNAVAILABLE", "failed to write notes")

	assert.True(t, stderrors.Is(err, ErrStorageUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}

func TestGetUserMessage_FallsBackToMessage(t *testing.T) {
	err := New(ErrTypeApp, "SOMETHING", "internal detail")
	assert.Equal(t, "internal detail", err.GetUserMessage())

	assert.NotEqual(t, ErrNoteNotFound.Message, ErrNoteNotFound.GetUserMessage())
}

func TestValidator_ValidateReorder(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.ValidateReorder(0, 2, 3).IsValid)
	assert.True(t, v.ValidateReorder(2, 0, 3).IsValid)

	for _, tc := range []struct{ from, to, length int }{
		{-1, 0, 3},
		{0, -1, 3},
		{3, 0, 3},
		{0, 3, 3},
		{0, 0, 0},
	} {
		result := v.ValidateReorder(tc.from, tc.to, tc.length)
		require.False(t, result.IsValid, "reorder(%d, %d) over %d should be rejected", tc.from, tc.to, tc.length)
		assert.True(t, stderrors.Is(result.GetFirstError(), ErrInvalidIndex))
	}
}

func TestValidator_ValidateTitle(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.ValidateTitle("Groceries").IsValid)

	result := v.ValidateTitle("   ")
	require.False(t, result.IsValid)
	assert.True(t, stderrors.Is(result.GetFirstError(), ErrEmptyTitle))
}

func TestValidator_ValidateNoteID(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.ValidateNoteID("a1b2c3d4").IsValid)
	assert.False(t, v.ValidateNoteID("").IsValid)
	assert.False(t, v.ValidateNoteID("  ").IsValid)
}
