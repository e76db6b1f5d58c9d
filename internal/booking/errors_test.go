package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClasses(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	tests := []struct {
		name  string
		err   error
		class error
	}{
		{"contact", ErrMissingContact, ErrValidation},
		{"schedule wrapped", fmt.Errorf("submit: %w", ErrMissingSchedule), ErrValidation},
		{"pricing", fmt.Errorf("%w: phone-unknown", ErrCategoryNotPriced), ErrPricing},
		{"network", NetworkError(cause), ErrNetwork},
		{"payment failed", PaymentFailedError(cause), ErrNetwork},
		{"verification", VerificationError(cause), ErrVerification},
		{"dismissed", ErrCheckoutDismissed, ErrCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.class, Class(tt.err))
		})
	}
	assert.Nil(t, Class(cause))
}

func TestNetworkErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := NetworkError(cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrVerification)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "network error, please try again", UserMessage(NetworkError(errors.New("x"))))
	assert.Equal(t, "payment verification failed - booking not saved", UserMessage(VerificationError(errors.New("x"))))
	assert.NotEqual(t, UserMessage(NetworkError(nil)), UserMessage(VerificationError(nil)))
	assert.Equal(t, "choose a date and time", UserMessage(fmt.Errorf("wrap: %w", ErrMissingSchedule)))
	assert.Equal(t, "something went wrong, please contact us", UserMessage(ErrCategoryNotPriced))
	assert.Equal(t, "something went wrong, please try again", UserMessage(errors.New("plain")))
	assert.Empty(t, UserMessage(nil))
}
