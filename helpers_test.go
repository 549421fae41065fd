// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
	"errors"
	"testing"
	"time"
)

// ==== Test Helpers: Error Variables ====

var error1 = errors.New("error 1")
var error2 = errors.New("error 2")
var error3 = errors.New("error 3")

// ==== Test Helpers: Step Builders ====

// constant returns a step that ignores its input and yields v.
func constant[S any](v int) Step[S, int] {
	return func(_ context.Context, _ S) (int, error) {
		return v, nil
	}
}

// add returns a step that adds n to its input.
func add(n int) Step[int, int] {
	return func(_ context.Context, in int) (int, error) {
		return in + n, nil
	}
}

// mul returns a step that multiplies its input by n.
func mul(n int) Step[int, int] {
	return func(_ context.Context, in int) (int, error) {
		return in * n, nil
	}
}

// failing returns a step that always fails with err.
func failing[S any](err error) Step[S, int] {
	return func(_ context.Context, _ S) (int, error) {
		return 0, err
	}
}

// panicking returns a step that panics with the given value.
func panicking[S any](value any) Step[S, int] {
	return func(_ context.Context, _ S) (int, error) {
		panic(value)
	}
}

// slow returns a step that yields v after the given delay.
func slow[S any](delay time.Duration, v int) Step[S, int] {
	return func(_ context.Context, _ S) (int, error) {
		time.Sleep(delay)
		return v, nil
	}
}

// emit returns a fan step that yields the given values for any input.
func emit[S any](vs ...int) FanStep[S, int] {
	return func(_ context.Context, _ S) ([]int, error) {
		return vs, nil
	}
}

// mixed returns a layer step yielding the given layer for any input.
func mixed[S any](l Layer[int]) LayerStep[S, int] {
	return func(_ context.Context, _ S) (Layer[int], error) {
		return l, nil
	}
}

// prefix returns an error mapper that wraps errors with a fixed name.
func prefix(name string) func(error) error {
	return func(err error) error {
		return NamedError{Name: name, Err: err}
	}
}

// ==== Test Helpers: Layer Validators ====

// wantValues checks the layer's live payloads, in order.
func wantValues(t *testing.T, l Layer[int], want ...int) {
	t.Helper()
	got := l.Values()
	if len(got) != len(want) {
		t.Fatalf("got live values %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got live values %v, want %v", got, want)
		}
	}
}

// wantErrs checks the layer's termination errors with errors.Is, in order.
func wantErrs(t *testing.T, l Layer[int], want ...error) {
	t.Helper()
	got := l.Errs()
	if len(got) != len(want) {
		t.Fatalf("got %d failed elements (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if !errors.Is(got[i], want[i]) {
			t.Errorf("failed element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

// wantPattern checks the ok/err shape of the layer, 'o' for a live
// element and 'e' for a failed one.
func wantPattern[T any](t *testing.T, l Layer[T], pattern string) {
	t.Helper()
	if len(l) != len(pattern) {
		t.Fatalf("got layer of length %d, want %d", len(l), len(pattern))
	}
	for i, r := range l {
		switch pattern[i] {
		case 'o':
			if !r.IsOk() {
				t.Errorf("element %d: got failure %v, want success", i, r.Err())
			}
		case 'e':
			if !r.IsErr() {
				t.Errorf("element %d: got success %v, want failure", i, r.Value())
			}
		}
	}
}
