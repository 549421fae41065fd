// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// A Step is the unit lifted into a [Flow]: a failable, cancelable function
// from an input to a single value.
//
// A step fails by returning a non-nil error or by panicking; both are
// captured at the flow boundary and become one failed layer element.
//
// S is the input consumed by the step. T is the produced value.
type Step[S, T any] = func(context.Context, S) (T, error)

// A FanStep is a step that emits zero or more values for one input.
//
// Each emitted value becomes its own successful layer element, in slice
// order. An empty slice is valid and contributes nothing to the layer.
type FanStep[S, T any] = func(context.Context, S) ([]T, error)

// A LayerStep is a step that emits an explicit layer, mixing successes and
// failures freely. The returned layer is used as-is, order preserved.
type LayerStep[S, T any] = func(context.Context, S) (Layer[T], error)

// Options configures how a [Flow] runs its constituent steps.
type Options struct {
	// MapError converts a captured step failure into the termination error
	// recorded on the failed layer element.
	//
	// When nil, the captured error is recorded unchanged. Mappers must be
	// total and non-throwing; a panicking mapper is undefined behavior.
	MapError func(error) error

	// Limit bounds how many step or stage invocations of this flow may run
	// concurrently at each fan-out point.
	//
	// Numbers less than or equal to zero indicate no limit.
	Limit int
}

func (o Options) mapErr(err error) error {
	if o.MapError == nil {
		return err
	}
	return o.MapError(err)
}

// A Flow is an immutable, composable, re-executable computation from an
// input to a layer of results.
//
// Flows are built with [Lift] (and variants) and composed with [Then],
// [To], and [Merge]. Composition never runs anything: each combinator wraps
// the prior flow's behavior in a new one, leaving the original untouched.
// Execution happens only when [Flow.Exec] is invoked, and a flow holds no
// state between invocations, so it is safe to share and re-execute
// concurrently.
type Flow[S, T any] struct {
	run  func(context.Context, S) Layer[T]
	opts Options
}

// Exec runs the flow on the given input and returns the produced layer.
//
// Exec never panics and has no error return: every failure inside the
// pipeline is represented as a failed element of the layer. Each call
// re-runs the whole pipeline from scratch; nothing is cached.
func (f *Flow[S, T]) Exec(ctx context.Context, in S) Layer[T] {
	return f.run(ctx, in)
}

// Lift constructs a flow from one or more steps sharing an input type.
//
// On Exec, every step is invoked with the same input, concurrently and
// independently: one step failing does not affect or cancel the others.
// Each step contributes one element to the layer, and the per-step
// contributions are concatenated in the order the steps were supplied,
// regardless of which finished first.
//
// Example:
//
//	f := flow.Lift(fetchUser, fetchOrders) // both run on the same id
//	layer := f.Exec(ctx, id)               // [user-result, orders-result]
func Lift[S, T any](steps ...Step[S, T]) *Flow[S, T] {
	return LiftWith(Options{}, steps...)
}

// LiftWith is [Lift] with custom [Options].
func LiftWith[S, T any](opts Options, steps ...Step[S, T]) *Flow[S, T] {
	runs := make([]func(context.Context, S) Layer[T], len(steps))
	for i, step := range steps {
		runs[i] = normalizeStep(opts, step)
	}
	return newFlow(opts, runs)
}

// LiftFan constructs a flow from fan steps, each of which may emit zero or
// more values per input.
//
// The layer length equals the sum of the slice lengths emitted by the
// steps; a failing step contributes exactly one failed element.
//
// Example:
//
//	f := flow.LiftFan(func(_ context.Context, n int) ([]int, error) {
//	    return []int{n, n * 2, n * 3}, nil
//	})
func LiftFan[S, T any](steps ...FanStep[S, T]) *Flow[S, T] {
	return LiftFanWith(Options{}, steps...)
}

// LiftFanWith is [LiftFan] with custom [Options].
func LiftFanWith[S, T any](opts Options, steps ...FanStep[S, T]) *Flow[S, T] {
	runs := make([]func(context.Context, S) Layer[T], len(steps))
	for i, step := range steps {
		runs[i] = normalizeFanStep(opts, step)
	}
	return newFlow(opts, runs)
}

// LiftLayer constructs a flow from layer steps, each of which emits an
// explicit layer mixing successes and failures.
func LiftLayer[S, T any](steps ...LayerStep[S, T]) *Flow[S, T] {
	return LiftLayerWith(Options{}, steps...)
}

// LiftLayerWith is [LiftLayer] with custom [Options].
func LiftLayerWith[S, T any](opts Options, steps ...LayerStep[S, T]) *Flow[S, T] {
	runs := make([]func(context.Context, S) Layer[T], len(steps))
	for i, step := range steps {
		runs[i] = normalizeLayerStep(opts, step)
	}
	return newFlow(opts, runs)
}

// Merge combines flows sharing an input type into one flow that runs them
// all concurrently on the same input and concatenates their layers in
// argument order.
//
// Each merged flow keeps its own options for its internal steps.
func Merge[S, T any](flows ...*Flow[S, T]) *Flow[S, T] {
	runs := make([]func(context.Context, S) Layer[T], len(flows))
	for i, f := range flows {
		runs[i] = f.run
	}
	return newFlow(Options{}, runs)
}

// newFlow assembles a flow whose behavior fans out over the given
// normalized runs and joins their partial layers in order.
func newFlow[S, T any](opts Options, runs []func(context.Context, S) Layer[T]) *Flow[S, T] {
	return &Flow[S, T]{
		opts: opts,
		run: func(ctx context.Context, in S) Layer[T] {
			return fanOut(opts.Limit, len(runs), func(i int) Layer[T] {
				return runs[i](ctx, in)
			})
		},
	}
}

// fanOut runs n invocations concurrently and joins their partial layers in
// invocation order.
//
// The group carries no error and never cancels siblings: every invocation
// is total and runs to completion, so a slow or failed branch delays the
// join but cannot abort the others.
func fanOut[T any](limit, n int, invoke func(i int) Layer[T]) Layer[T] {
	parts := make([]Layer[T], n)
	var group errgroup.Group
	if limit > 0 {
		group.SetLimit(limit)
	}
	for i := range n {
		group.Go(func() error {
			parts[i] = invoke(i)
			return nil
		})
	}
	_ = group.Wait()
	return flatten(parts)
}

// normalizeStep converts a single-value step into the canonical total
// behavior: one Ok element, or one mapped failure.
func normalizeStep[S, T any](opts Options, step Step[S, T]) func(context.Context, S) Layer[T] {
	return func(ctx context.Context, in S) Layer[T] {
		v, err := safely(func() (T, error) { return step(ctx, in) })
		if err != nil {
			return errLayer[T](opts, err)
		}
		return Layer[T]{Ok(v)}
	}
}

// normalizeFanStep converts a fan step: one Ok element per emitted value.
func normalizeFanStep[S, T any](opts Options, step FanStep[S, T]) func(context.Context, S) Layer[T] {
	return func(ctx context.Context, in S) Layer[T] {
		vs, err := safely(func() ([]T, error) { return step(ctx, in) })
		if err != nil {
			return errLayer[T](opts, err)
		}
		return Oks(vs...)
	}
}

// normalizeLayerStep converts a layer step: the emitted layer is taken
// as-is.
func normalizeLayerStep[S, T any](opts Options, step LayerStep[S, T]) func(context.Context, S) Layer[T] {
	return func(ctx context.Context, in S) Layer[T] {
		l, err := safely(func() (Layer[T], error) { return step(ctx, in) })
		if err != nil {
			return errLayer[T](opts, err)
		}
		return l
	}
}
