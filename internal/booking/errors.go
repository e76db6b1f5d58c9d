package booking

import "errors"

// Error classes. Every booking error satisfies errors.Is for exactly one of these.
var (
	// ErrValidation marks missing or malformed input; the user corrects it and nothing is lost.
	ErrValidation = errors.New("validation error")

	// ErrPricing marks a category with no price entry.
	ErrPricing = errors.New("pricing error")

	// ErrNetwork marks a failed or rejected outbound call. The draft is kept for a retry.
	ErrNetwork = errors.New("network error")

	// ErrVerification marks a checkout that succeeded at the gateway but was not verified.
	// Money may have moved, so it is reported apart from ErrNetwork.
	ErrVerification = errors.New("verification error")

	// ErrCancelled marks a checkout dismissed by the customer. Not a failure.
	ErrCancelled = errors.New("cancelled")
)

var (
	ErrMissingContact         = newError(ErrValidation, "missing contact details")
	ErrMissingPreferences     = newError(ErrValidation, "missing shoot preferences")
	ErrIncompletePreviousStep = newError(ErrValidation, "complete the previous step")
	ErrMissingSchedule        = newError(ErrValidation, "choose a date and time")
	ErrInvalidSchedule        = newError(ErrValidation, "choose a valid date and time slot")
	ErrFinalStep              = newError(ErrValidation, "submit the booking to finish")
	ErrUnknownField           = newError(ErrValidation, "unknown booking field")

	ErrCategoryNotPriced = newError(ErrPricing, "category not priced")

	ErrCheckoutDismissed = newError(ErrCancelled, "payment cancelled")
)

// Error is a booking failure carrying its class, a user-facing reason and an optional cause.
type Error struct {
	class  error
	reason string
	cause  error
}

func newError(class error, reason string) *Error {
	return &Error{class: class, reason: reason}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.reason + ": " + e.cause.Error()
	}
	return e.reason
}

// Reason is the message shown to the customer.
func (e *Error) Reason() string { return e.reason }

// Is matches the error's class, so errors.Is(err, ErrNetwork) holds for any network failure.
func (e *Error) Is(target error) bool {
	return target == e.class
}

func (e *Error) Unwrap() error { return e.cause }

// NetworkError wraps a failed outbound call.
func NetworkError(cause error) error {
	return &Error{class: ErrNetwork, reason: "network error, please try again", cause: cause}
}

// PaymentFailedError wraps a failure reported by the payment gateway itself.
func PaymentFailedError(cause error) error {
	return &Error{class: ErrNetwork, reason: "payment failed, please try again", cause: cause}
}

// VerificationError wraps a failed post-payment verification.
func VerificationError(cause error) error {
	return &Error{class: ErrVerification, reason: "payment verification failed - booking not saved", cause: cause}
}

// Class returns the error class of err, or nil when err is not a booking error.
func Class(err error) error {
	for _, class := range []error{ErrValidation, ErrPricing, ErrNetwork, ErrVerification, ErrCancelled} {
		if errors.Is(err, class) {
			return class
		}
	}
	return nil
}

// UserMessage maps err to the text shown in the customer's notification.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrPricing) {
		return "something went wrong, please contact us"
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Reason()
	}
	return "something went wrong, please try again"
}

// ClassName returns a short label for err's class, for metrics and logs.
func ClassName(err error) string {
	switch Class(err) {
	case ErrValidation:
		return "validation"
	case ErrPricing:
		return "pricing"
	case ErrNetwork:
		return "network"
	case ErrVerification:
		return "verification"
	case ErrCancelled:
		return "cancelled"
	}
	if err != nil {
		return "unknown"
	}
	return "none"
}
