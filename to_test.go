// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestToCollapsesLiveElements(t *testing.T) {
	t.Parallel()

	nums := LiftFan(emit[int](1, 2, 3, 4, 5))
	f := To(nums, Call(func(_ context.Context, ns []int) (int, error) {
		return len(ns), nil
	}))
	layer := f.Exec(t.Context(), 0)
	wantPattern(t, layer, "o")
	wantValues(t, layer, 5)
}

func TestToInvokesEachStageOnceWithAllValues(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	sum := Call(func(_ context.Context, ns []int) (int, error) {
		calls.Add(1)
		total := 0
		for _, n := range ns {
			total += n
		}
		return total, nil
	})

	nums := LiftFan(emit[int](1, 2, 3))
	layer := To(nums, sum, sum).Exec(t.Context(), 0)
	wantValues(t, layer, 6, 6)
	if calls.Load() != 2 {
		t.Errorf("got %d stage invocations, want exactly 2 regardless of element count", calls.Load())
	}
}

func TestToFailuresPassThroughAndPrecede(t *testing.T) {
	t.Parallel()

	base := LiftLayer(mixed[int](Layer[int]{Ok(1), Err[int](error1), Ok(2)}))
	f := To(base, Call(func(_ context.Context, ns []int) (int, error) {
		return len(ns), nil
	}))
	layer := f.Exec(t.Context(), 0)
	wantPattern(t, layer, "eo")
	wantErrs(t, layer, error1)
	wantValues(t, layer, 2)
}

func TestToStageOrder(t *testing.T) {
	t.Parallel()

	head := Call(func(_ context.Context, ns []int) (int, error) { return ns[0], nil })
	last := Call(func(_ context.Context, ns []int) (int, error) { return ns[len(ns)-1], nil })

	nums := LiftFan(emit[int](7, 8, 9))
	layer := To(nums, head, last).Exec(t.Context(), 0)
	wantValues(t, layer, 7, 9)
}

func TestToWithNoLiveElements(t *testing.T) {
	t.Parallel()

	base := LiftLayer(mixed[int](Layer[int]{Err[int](error1)}))
	f := To(base, Call(func(_ context.Context, ns []int) (int, error) {
		return len(ns), nil
	}))
	// the stage still runs, with an empty batch
	layer := f.Exec(t.Context(), 0)
	wantPattern(t, layer, "eo")
	wantValues(t, layer, 0)
}

func TestToStepStageInheritsCallerMapper(t *testing.T) {
	t.Parallel()

	base := LiftWith(Options{MapError: prefix("caller")}, constant[int](1))
	f := To(base, Call(func(_ context.Context, _ []int) (int, error) {
		return 0, error1
	}))
	layer := f.Exec(t.Context(), 0)
	wantPattern(t, layer, "e")

	var named NamedError
	if !errors.As(layer[0].Err(), &named) || named.Name != "caller" {
		t.Fatalf("got %v, want error mapped by the caller's mapper", layer[0].Err())
	}
}

func TestToThenRoundTrip(t *testing.T) {
	t.Parallel()

	// fan out, converge, fan out again
	nums := LiftFan(emit[int](1, 2, 3))
	total := To(nums, Call(func(_ context.Context, ns []int) (int, error) {
		sum := 0
		for _, n := range ns {
			sum += n
		}
		return sum, nil
	}))
	f := Then(total, Call(mul(10)))
	layer := f.Exec(t.Context(), 0)
	wantValues(t, layer, 60)
}
