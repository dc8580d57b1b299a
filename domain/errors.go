package domain

import (
	"errors"
	"fmt"
)

// NotFoundError indicates that no events exist for an aggregate identity.
// It is fatal to the current operation and never retried automatically.
type NotFoundError struct {
	AggregateType string
	AggregateID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("aggregate of type %q with ID %q not found", e.AggregateType, e.AggregateID)
}

// NewNotFound creates a NotFoundError for the given aggregate
func NewNotFound(aggregateType, aggregateID string) error {
	return &NotFoundError{AggregateType: aggregateType, AggregateID: aggregateID}
}

// ConcurrencyError indicates that the expected version supplied to a store
// operation is stale. Callers may reload the aggregate and retry.
type ConcurrencyError struct {
	AggregateID     string
	ExpectedVersion int
	ActualVersion   int
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("concurrency conflict for aggregate %q: expected version %d, but found version %d",
		e.AggregateID, e.ExpectedVersion, e.ActualVersion)
}

// NewConcurrency creates a ConcurrencyError for the given aggregate
func NewConcurrency(aggregateID string, expected, actual int) error {
	return &ConcurrencyError{AggregateID: aggregateID, ExpectedVersion: expected, ActualVersion: actual}
}

// InvariantViolationError indicates a business rule was broken given the
// aggregate's current state. It must be surfaced verbatim to the operator.
type InvariantViolationError struct {
	Message string
}

func (e *InvariantViolationError) Error() string {
	return e.Message
}

// NewInvariantViolation creates an InvariantViolationError with the given message
func NewInvariantViolation(format string, args ...interface{}) error {
	return &InvariantViolationError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConcurrency reports whether err is (or wraps) a ConcurrencyError
func IsConcurrency(err error) bool {
	var target *ConcurrencyError
	return errors.As(err, &target)
}

// IsInvariantViolation reports whether err is (or wraps) an InvariantViolationError
func IsInvariantViolation(err error) bool {
	var target *InvariantViolationError
	return errors.As(err, &target)
}
