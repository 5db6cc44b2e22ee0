package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindOK, KindOf(nil))
	assert.Equal(t, KindUserNotFound, KindOf(ErrUserNotFound))
	assert.Equal(t, KindRateLimitExceeded, KindOf(fmt.Errorf("submit: %w", ErrRateLimitExceeded)))
	assert.Equal(t, KindInvalidInput, KindOf(invalid(FieldTitle)))
	assert.Equal(t, KindPaymentProvider, KindOf(fmt.Errorf("%w: card declined", ErrPaymentProvider)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", invalid(FieldStoryWords))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, FieldStoryWords, InvalidField(err))
	assert.Equal(t, "", InvalidField(ErrPersistence))
}
