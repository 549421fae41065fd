// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
)

// Then composes a flow with downstream stages, per element.
//
// On Exec, the upstream flow runs first. Every live (successful) element's
// payload is then fed into every supplied stage, independently and
// concurrently: K live elements and M stages yield K×M downstream
// invocations. Already-failed elements never reach a downstream stage; they
// pass through unchanged, re-tagged to the new value type with their
// identity and termination error intact.
//
// The resulting layer is ordered: the upstream failures first, then the
// downstream results grouped by live element (outer) and by stage (inner).
// Supplying the same stage twice runs it twice; there is no deduplication.
// Supplying no stages discards all live elements and keeps only the
// failures.
//
// Bare-step stages are lifted with the upstream flow's options, so the
// error mapper travels down the pipeline unless a stage brings its own flow.
//
// Example:
//
//	nums := flow.LiftFan(func(context.Context, struct{}) ([]int, error) {
//	    return []int{1, 2, 3, 4, 5}, nil
//	})
//	incr := flow.Then(nums, flow.Call(func(_ context.Context, n int) (int, error) {
//	    return n + 1, nil
//	}))
//	// incr.Exec(ctx, struct{}{}) → [Ok(2) Ok(3) Ok(4) Ok(5) Ok(6)]
func Then[S, T, U any](f *Flow[S, T], stages ...Stage[T, U]) *Flow[S, U] {
	opts := f.opts
	next := bindAll(opts, stages)
	run := func(ctx context.Context, in S) Layer[U] {
		rights, lefts := f.run(ctx, in).Partition()
		results := fanOut(opts.Limit, len(rights)*len(next), func(i int) Layer[U] {
			r := rights[i/len(next)]
			return guarded(opts, next[i%len(next)], ctx, r.Value())
		})
		return append(retag[U](lefts), results...)
	}
	return &Flow[S, U]{run: run, opts: opts}
}
