// SPDX-License-Identifier: Apache-2.0

package flow

// A Layer is the ordered sequence of results produced by one pipeline stage.
//
// Order is significant and preserved through every transformation: it
// reflects the order in which the producing steps and values were supplied.
// A layer's length is not fixed; steps may emit zero, one, or many results.
type Layer[T any] []Result[T]

// Oks builds a layer of successful results from the given values, in order.
func Oks[T any](values ...T) Layer[T] {
	l := make(Layer[T], len(values))
	for i, v := range values {
		l[i] = Ok(v)
	}
	return l
}

// Values returns the payloads of the successful elements, in layer order.
func (l Layer[T]) Values() []T {
	var vs []T
	for _, r := range l {
		if r.IsOk() {
			vs = append(vs, r.value)
		}
	}
	return vs
}

// Errs returns the termination errors of the failed elements, in layer order.
func (l Layer[T]) Errs() []error {
	var errs []error
	for _, r := range l {
		if r.IsErr() {
			errs = append(errs, r.err)
		}
	}
	return errs
}

// Partition splits the layer into its successful and failed elements,
// preserving relative order within each half.
func (l Layer[T]) Partition() (oks, errs Layer[T]) {
	for _, r := range l {
		if r.IsOk() {
			oks = append(oks, r)
		} else {
			errs = append(errs, r)
		}
	}
	return oks, errs
}

// retag reinterprets failed elements at a new value type, pass-through.
func retag[Out, In any](errs Layer[In]) Layer[Out] {
	out := make(Layer[Out], len(errs))
	for i, r := range errs {
		out[i] = ErrFrom[Out](r)
	}
	return out
}

// flatten concatenates partial layers in order, one level deep.
func flatten[T any](parts []Layer[T]) Layer[T] {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make(Layer[T], 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
