package services

import "errors"

var (
	// ErrInvalidQuantity rejects cart adds with a quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrEmptySelection rejects a checkout with no selected cart lines.
	ErrEmptySelection = errors.New("no cart lines selected for checkout")
	// ErrNoPricingInput means the project has no areas or scope to price.
	ErrNoPricingInput = errors.New("project has no pricing input")
	// ErrUnknownOrder means no pending payment matches the gateway order id.
	ErrUnknownOrder = errors.New("no payment matches the gateway order")
	// ErrSignatureInvalid means the callback signature did not verify. The
	// payment stays unconfirmed.
	ErrSignatureInvalid = errors.New("payment signature verification failed")
	// ErrPaymentNotPending means the payment already reached a terminal
	// non-paid state and cannot be verified.
	ErrPaymentNotPending = errors.New("payment is not pending")
	// ErrInvalidTransition rejects a delivery stage change that is not the
	// immediate successor of the current stage.
	ErrInvalidTransition = errors.New("invalid delivery status transition")
	// ErrEstimateMismatch means the estimate does not belong to the project.
	ErrEstimateMismatch = errors.New("estimate does not belong to the project")
	// ErrNothingDue means the requested milestone is already covered by paid
	// payments.
	ErrNothingDue = errors.New("nothing due for this milestone")
)
