// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
)

// To composes a flow with downstream stages, per batch.
//
// Where [Then] fans each live element out individually, To collapses all
// live payloads of the upstream layer into one ordered slice and hands that
// whole slice, once, to each supplied stage: M stages yield exactly M
// downstream invocations regardless of how many live elements there are.
// This is how a pipeline moves from many independent branches back to one
// aggregate computation over all of them.
//
// Failed upstream elements never reach a stage; they pass through unchanged
// and precede all convergence results in the output layer. Stage results
// follow in the order the stages were supplied.
//
// Bare-step stages are lifted with the upstream flow's options, as in
// [Then].
//
// Example:
//
//	count := flow.To(nums, flow.Call(func(_ context.Context, ns []int) (int, error) {
//	    return len(ns), nil
//	}))
//	// with five live elements upstream: count.Exec(ctx, in) → [Ok(5)]
func To[S, T, U any](f *Flow[S, T], stages ...Stage[[]T, U]) *Flow[S, U] {
	opts := f.opts
	next := bindAll(opts, stages)
	run := func(ctx context.Context, in S) Layer[U] {
		layer := f.run(ctx, in)
		rights, lefts := layer.Partition()
		values := make([]T, len(rights))
		for i, r := range rights {
			values[i] = r.Value()
		}
		results := fanOut(opts.Limit, len(next), func(i int) Layer[U] {
			return guarded(opts, next[i], ctx, values)
		})
		return append(retag[U](lefts), results...)
	}
	return &Flow[S, U]{run: run, opts: opts}
}
