// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
	"fmt"
)

type stepNameKey struct{}

// NamedError is the error produced by [Named] and [NamedFan] when the
// wrapped step fails. It carries the step's name alongside the underlying
// error and can be inspected with [errors.As].
type NamedError struct {
	// Name is the name of the step that failed.
	Name string
	// Err is the underlying error from the step.
	Err error
}

// Error returns the formatted error message.
func (e NamedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e NamedError) Unwrap() error {
	return e.Err
}

// StepNames returns a copy of the step name stack from the context, or nil
// if no names are present.
//
// This is useful for custom logging decorators that need to inspect the
// current step hierarchy.
func StepNames(ctx context.Context) []string {
	names, ok := ctx.Value(stepNameKey{}).([]string)
	if !ok || len(names) == 0 {
		return nil
	}
	// Return a copy to prevent mutation
	return append([]string{}, names...)
}

// Named wraps a [Step] with a name.
//
// The name is pushed onto a stack of step names in the context, retrievable
// with [StepNames]; nested Named decorators build a hierarchical path
// (e.g. "process.parse.validate") which the logging decorators render. If
// the step fails, its error is wrapped in a [NamedError], so the name ends
// up on the failed layer element's termination error.
func Named[S, T any](name string, step Step[S, T]) Step[S, T] {
	return func(ctx context.Context, in S) (T, error) {
		v, err := step(pushName(ctx, name), in)
		if err != nil {
			return v, NamedError{Name: name, Err: err}
		}
		return v, nil
	}
}

// NamedFan wraps a [FanStep] with a name, as [Named] does for a [Step].
func NamedFan[S, T any](name string, step FanStep[S, T]) FanStep[S, T] {
	return func(ctx context.Context, in S) ([]T, error) {
		vs, err := step(pushName(ctx, name), in)
		if err != nil {
			return vs, NamedError{Name: name, Err: err}
		}
		return vs, nil
	}
}

func pushName(ctx context.Context, name string) context.Context {
	names, _ := ctx.Value(stepNameKey{}).([]string)
	newNames := append(append([]string{}, names...), name)
	return context.WithValue(ctx, stepNameKey{}, newNames)
}
