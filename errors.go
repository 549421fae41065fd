// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"fmt"
)

// PanicError is an error type that wraps a panic value recovered from a step
// or a composed flow.
type PanicError struct {
	Value any
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic recovered: %v", p.Value)
}

// safely invokes f, converting a panic into a [PanicError].
//
// This is the boundary at which a step "throwing" becomes an ordinary error:
// past this point failures only travel as values.
func safely[T any](f func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, &PanicError{Value: r}
		}
	}()
	return f()
}

// errLayer converts a captured failure into a one-element layer, applying the
// in-scope error mapper. This is the sole path by which a step failure enters
// a layer; failures never escape Exec as panics.
func errLayer[T any](opts Options, err error) Layer[T] {
	return Layer[T]{Err[T](opts.mapErr(err))}
}
