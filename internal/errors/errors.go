package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a request before any store call is made.
// Code distinguishes well-known rejections such as EMPTY_CART.
type ValidationError struct {
	Code    string
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}
}

func NewEmptyCartError() *ValidationError {
	return &ValidationError{
		Code:    "EMPTY_CART",
		Message: "cart has no items",
	}
}

func NewMixedRestaurantError() *ValidationError {
	return &ValidationError{
		Code:    "MIXED_RESTAURANT",
		Message: "cart items belong to more than one restaurant",
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

// ConflictError reports a state conflict: a transition raced by another
// actor, or a claim on an order that already has a delivery person.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	if fe, ok := err.(*ForbiddenError); ok {
		return fe, true
	}
	return nil, false
}

// IllegalTransitionError rejects a status update that has no edge in the
// order lifecycle graph. It always names both states; an illegal request
// is never a silent no-op.
type IllegalTransitionError struct {
	Current   string
	Requested string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.Current, e.Requested)
}

func NewIllegalTransitionError(current, requested string) *IllegalTransitionError {
	return &IllegalTransitionError{Current: current, Requested: requested}
}

func IsIllegalTransitionError(err error) (*IllegalTransitionError, bool) {
	if ite, ok := err.(*IllegalTransitionError); ok {
		return ite, true
	}
	return nil, false
}

// VerificationError reports a delivery-code mismatch at completion time.
// A wrong code is an expected user event; the order status stays put.
type VerificationError struct {
	OrderID string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("invalid verification code for order %s", e.OrderID)
}

func NewVerificationError(orderID string) *VerificationError {
	return &VerificationError{OrderID: orderID}
}

func IsVerificationError(err error) (*VerificationError, bool) {
	if ve, ok := err.(*VerificationError); ok {
		return ve, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
