package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	t.Run("coded error", func(t *testing.T) {
		err := New(CodeNotFound, "User does not have a cart")
		assert.Equal(t, CodeNotFound, CodeOf(err))
		assert.Equal(t, "User does not have a cart", MessageOf(err))
	})

	t.Run("wrapped coded error", func(t *testing.T) {
		inner := New(CodeInvalidRequest, "Product not in cart")
		err := fmt.Errorf("remove: %w", inner)
		assert.Equal(t, CodeInvalidRequest, CodeOf(err))
		assert.Equal(t, "Product not in cart", MessageOf(err))
	})

	t.Run("plain error is internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
		assert.Equal(t, "internal error", MessageOf(errors.New("boom")))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, Code(""), CodeOf(nil))
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "store failed")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "store failed: connection reset", err.Error())
	assert.Equal(t, CodeInternal, CodeOf(err))
}
