// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
)

// A Predicate is a failable boolean condition check over an input value.
type Predicate[T any] = func(context.Context, T) (bool, error)

// When runs the given step only if the predicate returns true.
//
// Skipping is expressed in layer terms: when the predicate returns false,
// the resulting fan step emits no elements, so the branch simply vanishes
// from the layer instead of contributing a placeholder. A predicate error
// fails the step and becomes one failed element.
func When[S, T any](predicate Predicate[S], step Step[S, T]) FanStep[S, T] {
	return func(ctx context.Context, in S) ([]T, error) {
		ok, err := predicate(ctx, in)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		v, err := step(ctx, in)
		if err != nil {
			return nil, err
		}
		return []T{v}, nil
	}
}

// Unless runs the given step only if the predicate returns false.
func Unless[S, T any](predicate Predicate[S], step Step[S, T]) FanStep[S, T] {
	return When(func(ctx context.Context, in S) (bool, error) {
		ok, err := predicate(ctx, in)
		return !ok, err
	}, step)
}

// Filter passes a live value through when the predicate holds for it and
// drops it otherwise.
//
// Used as a Then stage, this thins a layer's live elements without touching
// its failed ones:
//
//	evens := flow.Then(nums, flow.CallFan(flow.Filter(isEven)))
func Filter[T any](predicate Predicate[T]) FanStep[T, T] {
	return When(predicate, func(_ context.Context, in T) (T, error) {
		return in, nil
	})
}
