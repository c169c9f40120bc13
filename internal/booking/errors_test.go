package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err      error
		kind     ErrorKind
		sentinel error
	}{
		{NewValidationError("bad input"), KindValidation, ErrValidation},
		{NewConflictError("taken"), KindConflict, ErrConflict},
		{NewNotFoundError("missing"), KindNotFound, ErrNotFound},
		{NewInvalidTransitionError("nope"), KindInvalidTransition, ErrInvalidTransition},
		{NewBusyError("locked"), KindBusy, ErrBusy},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("create booking: %w", NewConflictError("taken"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestKindOf_Unclassified(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestError_Message(t *testing.T) {
	err := NewConflictError("slot %d is taken", 3)
	assert.Equal(t, "conflict: slot 3 is taken", err.Error())
}
