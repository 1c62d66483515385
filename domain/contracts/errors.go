package contracts

import (
	"errors"
	"fmt"

	"propmgmt/domain/opportunity"
)

// Common errors for domain contracts
var (
	// ErrAccessDenied occurs when the caller's granular access or team membership does not permit the operation
	ErrAccessDenied = errors.New("access denied")

	// ErrNoItemsFound occurs when a lookup that expects at least one item returns none
	ErrNoItemsFound = errors.New("no items found")

	// ErrInvalidArgument occurs when a required argument is missing or malformed
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidTransition occurs when an opportunity is moved to a state it cannot reach
	ErrInvalidTransition = opportunity.ErrInvalidTransition
)

// ResponseError wraps an unexpected failure of a top-level operation while keeping the original error text.
type ResponseError struct {
	Op  string
	Err error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// WrapResponse wraps err as a ResponseError unless it already carries a classified sentinel.
func WrapResponse(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *ResponseError
	if errors.As(err, &re) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrNoItemsFound) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrInvalidTransition) {
		return err
	}
	return &ResponseError{Op: op, Err: err}
}
