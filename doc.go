// SPDX-License-Identifier: Apache-2.0

// Package flow provides a combinator engine for building pipelines of
// concurrent steps that can each independently succeed, fail, or fan out
// into multiple results, carrying partial failures forward as data instead
// of aborting the whole pipeline.
//
// # The Problem
//
// Pipelines that fan work out across branches usually die on the first
// error: one failed fetch cancels its siblings, and the partial results
// that did succeed are thrown away. Keeping every branch's outcome —
// success or failure — normally means hand-rolling goroutines, WaitGroups,
// per-branch error slots, and careful merging logic for every stage.
//
// Flow addresses this by making failure a value. Every stage produces a
// [Layer]: an ordered sequence of [Result] elements, each either a success
// carrying a payload or a failure carrying a termination error. Failed
// elements ride along inertly through later stages; live elements keep
// flowing. Nothing is cancelled, nothing escapes as a panic, and the caller
// inspects the final layer to see exactly what happened to each branch.
//
// # Core Concepts
//
// [Step] is the fundamental building block: a function from an input to a
// value, which may fail.
//
//	type Step[S, T any] = func(context.Context, S) (T, error)
//
// Two further shapes cover steps that emit many values ([FanStep]) or an
// explicit mix of successes and failures ([LayerStep]).
//
// [Lift] turns one or more steps into a [Flow], an immutable, re-executable
// computation from an input to a layer. Flows compose with [Then] and [To]
// and run with [Flow.Exec]; composition itself executes nothing.
//
// # Chaining and Convergence
//
// [Then] is per-element composition: each live element of the upstream
// layer is fed into each downstream stage, independently and concurrently.
// [To] is per-batch composition: all live payloads are collected into one
// slice and handed, once, to each downstream stage. Together they let a
// pipeline fan out into many branches and then collapse back into one
// aggregate computation:
//
//	nums := flow.LiftFan(func(context.Context, struct{}) ([]int, error) {
//	    return []int{1, 2, 3, 4, 5}, nil
//	})
//	incremented := flow.Then(nums,
//	    flow.Call(func(_ context.Context, n int) (int, error) { return n + 1, nil }))
//	total := flow.To(incremented,
//	    flow.Call(func(_ context.Context, ns []int) (int, error) { return sum(ns), nil }))
//
//	layer := total.Exec(context.Background(), struct{}{})
//	// layer is [Ok(20)]
//
// # Error Handling
//
// A step fails by returning an error or by panicking; both are captured at
// the flow boundary and become one failed layer element, optionally passed
// through the error mapper configured in [Options]. Exec never returns an
// error and never panics: failure is always data in the layer.
//
//	f := flow.LiftWith(flow.Options{
//	    MapError: func(err error) error { return fmt.Errorf("stage one: %w", err) },
//	}, fetchUser)
//
// Individual steps can additionally be hardened before lifting with
// [Retry], named with [Named], and instrumented with [WithLogging] or
// [WithSlogging].
//
// # Requirements
//
// Flow requires Go 1.24 or later and has minimal external dependencies.
package flow
