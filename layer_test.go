// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOksBuildsLiveLayer(t *testing.T) {
	t.Parallel()

	l := Oks(1, 2, 3)
	require.Len(t, l, 3)
	for i, r := range l {
		assert.True(t, r.IsOk())
		assert.Equal(t, i+1, r.Value())
	}
}

func TestLayerValuesAndErrs(t *testing.T) {
	t.Parallel()

	l := Layer[int]{Ok(1), Err[int](error1), Ok(2), Err[int](error2)}
	assert.Equal(t, []int{1, 2}, l.Values())

	errs := l.Errs()
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], error1)
	assert.ErrorIs(t, errs[1], error2)
}

func TestLayerPartition(t *testing.T) {
	t.Parallel()

	l := Layer[int]{Err[int](error1), Ok(1), Ok(2), Err[int](error2)}
	oks, errs := l.Partition()

	assert.Equal(t, []int{1, 2}, oks.Values())
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0].Err(), error1)
	assert.ErrorIs(t, errs[1].Err(), error2)
}

func TestLayerPartitionEmpty(t *testing.T) {
	t.Parallel()

	oks, errs := Layer[int]{}.Partition()
	assert.Empty(t, oks)
	assert.Empty(t, errs)
}

func TestRetagPreservesOrderAndIdentity(t *testing.T) {
	t.Parallel()

	src := Layer[int]{Err[int](error1), Err[int](error2)}
	dst := retag[string](src)

	require.Len(t, dst, 2)
	for i := range src {
		assert.Equal(t, src[i].ID(), dst[i].ID())
		assert.ErrorIs(t, dst[i].Err(), src[i].Err())
	}
}

func TestFlattenConcatenatesInOrder(t *testing.T) {
	t.Parallel()

	l := flatten([]Layer[int]{Oks(1, 2), nil, Oks(3)})
	assert.Equal(t, []int{1, 2, 3}, l.Values())
}
