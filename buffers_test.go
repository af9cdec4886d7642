package slicego

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/slicego/slicespec"
	"github.com/gomlx/slicego/types/shapes"
	"github.com/gomlx/slicego/types/xslices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferFromFlatData(t *testing.T) {
	flat := []float32{1, 2, 3, 4, 5, 6}
	buf, err := engine.BufferFromFlatData(flat, shapes.Make(dtypes.Float32, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, buf.Shape().Dimensions)
	assert.Equal(t, flat, buf.Flat().([]float32))

	// The buffer holds a copy.
	flat[0] = -1
	assert.Equal(t, float32(1), buf.Flat().([]float32)[0])

	_, err = engine.BufferFromFlatData(float32(1), shapes.Make(dtypes.Float32))
	require.Error(t, err)
	_, err = engine.BufferFromFlatData([]float64{1, 2}, shapes.Make(dtypes.Float32, 2))
	require.Error(t, err)
	_, err = engine.BufferFromFlatData([]float32{1, 2}, shapes.Make(dtypes.Float32, 3))
	require.Error(t, err)
}

func TestBufferFinalize(t *testing.T) {
	buf := engine.NewBuffer(shapes.Make(dtypes.Int32, 4))
	require.NoError(t, engine.BufferFinalize(buf))
	// Double finalize is an error.
	require.Error(t, engine.BufferFinalize(buf))
	require.Error(t, engine.BufferFinalize(nil))
}

func TestZeroedBufferAfterReuse(t *testing.T) {
	// Dirty a pooled buffer, return it, and check a zeroed allocation of the
	// same dtype/size comes back clean.
	shape := shapes.Make(dtypes.Float64, 3, 3)
	dirty := engine.NewBuffer(shape)
	xslices.FillSlice(dirty.Flat().([]float64), 13.0)
	require.NoError(t, engine.BufferFinalize(dirty))

	zeroed := engine.newZeroedBuffer(shape)
	assert.Equal(t, make([]float64, 9), zeroed.Flat().([]float64))
}

func TestIntVector(t *testing.T) {
	// Int32 operands are widened.
	buf := bufferFromFlat([]int32{1, -2, 3}, 3)
	got, err := intVector(buf, "begin")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -2, 3}, got)

	// Int64 operands are copied, not aliased.
	buf = vector(4, 5)
	got, err = intVector(buf, "end")
	require.NoError(t, err)
	got[0] = -1
	assert.Equal(t, int64(4), buf.Flat().([]int64)[0])

	_, err = intVector(bufferFromFlat([]float32{1}, 1), "strides")
	require.ErrorIs(t, err, slicespec.ErrInvalidArgument)
	_, err = intVector(bufferFromFlat([]int64{1, 2}, 1, 2), "begin")
	require.ErrorIs(t, err, slicespec.ErrInvalidArgument)
}
