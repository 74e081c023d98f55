package helper

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	t.Run("Prefixes the step", func(t *testing.T) {
		err := NewError("load headlines", errors.New("boom"))
		assert.EqualError(t, err, "load headlines: boom")
	})

	t.Run("Keeps the wrapped error reachable", func(t *testing.T) {
		err := NewError("outer", NewError("open file", fs.ErrNotExist))
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.EqualError(t, err, "outer: open file: file does not exist")
	})

	t.Run("Nil error stays nil", func(t *testing.T) {
		assert.NoError(t, NewError("noop", nil))
	})
}
