// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
)

// A Stage is a downstream target supplied to [Then] or [To]: either an
// already-constructed [Flow], or a bare step to be lifted on the caller's
// behalf.
//
// Which constructor produced a stage is an explicit tag, not a structural
// property, so a step function can never be misclassified as a flow. A bare
// step is lifted lazily at composition time using the composing flow's
// options, which is how the error mapper is inherited down a pipeline; a
// [Via] stage keeps its own flow's options.
type Stage[S, T any] struct {
	flow *Flow[S, T]
	lift func(Options) *Flow[S, T]
}

// Via wraps an existing flow as a stage.
func Via[S, T any](f *Flow[S, T]) Stage[S, T] {
	return Stage[S, T]{flow: f}
}

// Call wraps a bare step as a stage.
func Call[S, T any](step Step[S, T]) Stage[S, T] {
	return Stage[S, T]{lift: func(opts Options) *Flow[S, T] {
		return LiftWith(opts, step)
	}}
}

// CallFan wraps a bare fan step as a stage.
func CallFan[S, T any](step FanStep[S, T]) Stage[S, T] {
	return Stage[S, T]{lift: func(opts Options) *Flow[S, T] {
		return LiftFanWith(opts, step)
	}}
}

// CallLayer wraps a bare layer step as a stage.
func CallLayer[S, T any](step LayerStep[S, T]) Stage[S, T] {
	return Stage[S, T]{lift: func(opts Options) *Flow[S, T] {
		return LiftLayerWith(opts, step)
	}}
}

// IsFlow reports whether the stage was constructed from a flow via [Via],
// as opposed to a bare step.
func (s Stage[S, T]) IsFlow() bool {
	return s.flow != nil
}

// bind resolves the stage to a flow, lifting a bare step with the
// composing flow's options.
func (s Stage[S, T]) bind(opts Options) *Flow[S, T] {
	if s.flow != nil {
		return s.flow
	}
	return s.lift(opts)
}

// bindAll resolves all stages against the composing flow's options.
func bindAll[S, T any](opts Options, stages []Stage[S, T]) []*Flow[S, T] {
	flows := make([]*Flow[S, T], len(stages))
	for i, s := range stages {
		flows[i] = s.bind(opts)
	}
	return flows
}

// guarded invokes a downstream flow with a defensive backstop: a panic
// escaping the flow's own capture becomes one failed element, converted
// with the invoking flow's mapper rather than the downstream flow's.
func guarded[S, T any](opts Options, f *Flow[S, T], ctx context.Context, in S) Layer[T] {
	l, err := safely(func() (Layer[T], error) { return f.run(ctx, in), nil })
	if err != nil {
		return errLayer[T](opts, err)
	}
	return l
}
