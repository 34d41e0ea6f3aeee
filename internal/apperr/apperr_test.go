package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = errors.New("email already registered")

func TestKindOf(t *testing.T) {
	err := Wrap(KindConflict, errSentinel)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.ErrorIs(t, err, errSentinel)

	// wrapping deeper keeps both the kind and the sentinel visible
	outer := fmt.Errorf("register: %w", err)
	assert.Equal(t, KindConflict, KindOf(outer))
	assert.ErrorIs(t, outer, errSentinel)
}

func TestKindOfUntagged(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("connection reset")))
}

func TestFields(t *testing.T) {
	err := New(KindBusinessRule, "insufficient inventory").
		WithFields(map[string]any{"requested": 10, "available": 8})
	assert.Equal(t, 10, FieldsOf(err)["requested"])
	assert.Nil(t, FieldsOf(errors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "nope", New(KindValidation, "nope").Error())
	assert.Equal(t, errSentinel.Error(), Wrap(KindConflict, errSentinel).Error())
}
