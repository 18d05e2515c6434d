// Package result carries the outcome of domain operations and command
// handlers: either a value or a coded error. Expected failures (validation,
// business rules) travel as values; only misuse of a Result panics.
package result

import "errors"

// ErrNoValue is the panic value raised when the value of a failed Result is read.
var ErrNoValue = errors.New("result: no value for failure result")

// Error is a machine readable code paired with a human readable message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError builds an Error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// Result is either a success holding a value or a failure holding an Error.
// The zero Result is a failure with an empty code; build results with
// Success or Failure.
type Result[T any] struct {
	value T
	err   *Error
	ok    bool
}

// Success wraps a value.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failure builds a failed result from a code and message.
func Failure[T any](code, message string) Result[T] {
	return Result[T]{err: NewError(code, message)}
}

// FailureFrom builds a failed result carrying an existing error. A nil error
// is replaced by an empty one so that the failure is never mistaken for success.
func FailureFrom[T any](err *Error) Result[T] {
	if err == nil {
		err = &Error{}
	}
	e := *err
	return Result[T]{err: &e}
}

// IsSuccess reports whether the result holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.ok
}

// IsFailure reports whether the result holds an error.
func (r Result[T]) IsFailure() bool {
	return !r.ok
}

// Value returns the success value. Calling it on a failure is a programming
// error and panics with ErrNoValue.
func (r Result[T]) Value() T {
	if !r.ok {
		panic(ErrNoValue)
	}
	return r.value
}

// Err returns the failure error, or nil on success.
func (r Result[T]) Err() *Error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return &Error{}
	}
	e := *r.err
	return &e
}

// Get returns the value and error in the usual two-value form.
func (r Result[T]) Get() (T, *Error) {
	if r.ok {
		return r.value, nil
	}
	var zero T
	return zero, r.Err()
}

// Map transforms the value of a successful result. Failures pass through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.ok {
		return FailureFrom[U](r.err)
	}
	return Success(fn(r.value))
}

// Bind chains an operation that itself returns a Result.
func Bind[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if !r.ok {
		return FailureFrom[U](r.err)
	}
	return fn(r.value)
}
