// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"time"

	"github.com/google/uuid"
)

// A Result is the outcome of a single step invocation: either a success
// carrying a value, or a failure carrying a termination error.
//
// Results are immutable once constructed. Every result is minted with a
// unique id and a creation timestamp at its originating invocation, so each
// element of a [Layer] remains traceable to the invocation that produced it
// even after passing through later pipeline stages.
//
// The zero Result is a failure with a nil termination error; prefer the
// [Ok] and [Err] constructors.
type Result[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	value     T
	err       error
	ok        bool
}

// Ok constructs a successful result carrying the given value.
func Ok[T any](value T) Result[T] {
	return Result[T]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		value:     value,
		ok:        true,
	}
}

// Err constructs a failed result carrying the given termination error.
func Err[T any](err error) Result[T] {
	return Result[T]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		err:       err,
	}
}

// ErrFrom re-tags a failed result to a new value type.
//
// The id, creation time, and termination error are preserved, so a failure
// passing untouched through later stages keeps the identity of its
// originating invocation. The source result's value (if any) is dropped.
func ErrFrom[Out, In any](r Result[In]) Result[Out] {
	return Result[Out]{
		id:        r.id,
		createdAt: r.createdAt,
		err:       r.err,
	}
}

// IsOk reports whether the result is a success.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// IsErr reports whether the result is a failure.
func (r Result[T]) IsErr() bool {
	return !r.ok
}

// Value returns the success value, or the zero value for a failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the termination error, or nil for a success.
func (r Result[T]) Err() error {
	return r.err
}

// Unwrap returns the value and error together, in the conventional Go shape.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// ID returns the unique identity minted at the originating invocation.
func (r Result[T]) ID() uuid.UUID {
	return r.id
}

// CreatedAt returns the UTC time at which the result was minted.
func (r Result[T]) CreatedAt() time.Time {
	return r.createdAt
}
