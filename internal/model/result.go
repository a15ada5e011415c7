package model

// Result is the discriminated success/failure wrapper returned by every
// fallible core operation. Exactly one of value or error is populated;
// callers must check IsOk before reading the value.
type Result[T any] struct {
	value T
	err   *Error
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Fail wraps a structured failure.
func Fail[T any](err *Error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the result carries a value.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Value returns the success value. Meaningful only when IsOk is true.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, nil for successful results.
func (r Result[T]) Err() *Error {
	return r.err
}
