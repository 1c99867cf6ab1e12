package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := New(KindInvalidSelector, "list", "")
	assert.True(t, errors.Is(err, ErrInvalidSelector))
	assert.False(t, errors.Is(err, ErrBackend))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidSelector))
	assert.Equal(t, KindInvalidSelector, KindOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(KindBackend, "write", cause)

	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrBackend))
	assert.Contains(t, err.Error(), "write")
	assert.Contains(t, err.Error(), "disk on fire")

	assert.NoError(t, Wrap(KindBackend, "write", nil))
}

func TestAtPosition(t *testing.T) {
	err := AtPosition(ErrUnexpectedEOF, 3)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 3, e.Pos)
	assert.Contains(t, err.Error(), "position 3")
	// the sentinel itself must stay untouched
	assert.Equal(t, -1, ErrUnexpectedEOF.Pos)

	plain := errors.New("plain")
	assert.Same(t, plain, AtPosition(plain, 1))
}

func TestBackendDoesNotRewrapKindedErrors(t *testing.T) {
	inner := New(KindPayloadCodec, "decode", "bad payload")
	assert.Equal(t, KindPayloadCodec, KindOf(Backend("range-scan", inner)))
	assert.Equal(t, KindBackend, KindOf(Backend("range-scan", errors.New("io"))))
	assert.NoError(t, Backend("range-scan", nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid selector", KindInvalidSelector.String())
	assert.Equal(t, "kind(200)", Kind(200).String())
}
