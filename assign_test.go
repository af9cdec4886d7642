package slicego

import (
	"fmt"
	"testing"

	"github.com/gomlx/slicego/slicespec"
	"github.com/gomlx/slicego/types/xslices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceAssignRow(t *testing.T) {
	ref := bufferFromFlat(xslices.Iota(float32(0), 9), 3, 3)
	value := bufferFromFlat([]float32{10, 11, 12}, 1, 3)
	err := engine.SliceAssign(ref, vector(1, 0), vector(2, 3), vector(1, 1), slicespec.Masks{}, value)
	require.NoError(t, err)
	fmt.Printf("\tref=%v\n", ref.Flat())
	assert.Equal(t, []float32{0, 1, 2, 10, 11, 12, 6, 7, 8}, ref.Flat().([]float32))
}

func TestSliceAssignShrink(t *testing.T) {
	ref := bufferFromFlat([]int32{1, 2, 3, 4}, 2, 2)
	value := bufferFromFlat([]int32{9, 8}, 2)
	err := engine.SliceAssign(ref, vector(0, 0), vector(0, 2), vector(1, 1),
		slicespec.Masks{Shrink: 0b01}, value)
	require.NoError(t, err)
	assert.Equal(t, []int32{9, 8, 3, 4}, ref.Flat().([]int32))
}

func TestSliceAssignNegativeStride(t *testing.T) {
	ref := bufferFromFlat(xslices.Iota(int64(0), 5), 5)
	value := bufferFromFlat([]int64{10, 20, 30, 40, 50}, 5)
	err := engine.SliceAssign(ref, vector(0), vector(0), vector(-1),
		slicespec.Masks{Begin: 0b1, End: 0b1}, value)
	require.NoError(t, err)
	assert.Equal(t, []int64{50, 40, 30, 20, 10}, ref.Flat().([]int64))
}

func TestSliceAssignScalar(t *testing.T) {
	ref := bufferFromFlat([]float64{1})
	value := bufferFromFlat([]float64{2})
	err := engine.SliceAssign(ref, vector(), vector(), vector(), slicespec.Masks{}, value)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, ref.Flat().([]float64))
}

func TestSliceAssignEmptyNoOp(t *testing.T) {
	ref := bufferFromFlat(xslices.Iota(float32(0), 5), 5)
	value := bufferFromFlat([]float32{}, 0)
	err := engine.SliceAssign(ref, vector(2), vector(2), vector(1), slicespec.Masks{}, value)
	require.NoError(t, err)
	assert.Equal(t, xslices.Iota(float32(0), 5), ref.Flat().([]float32))
}

func TestSliceAssignErrors(t *testing.T) {
	ref := bufferFromFlat(xslices.Iota(float32(0), 9), 3, 3)

	// The value shape must equal the sliced shape exactly, no broadcasting.
	value := bufferFromFlat([]float32{10, 11, 12}, 3)
	err := engine.SliceAssign(ref, vector(1, 0), vector(2, 3), vector(1, 1), slicespec.Masks{}, value)
	require.ErrorIs(t, err, slicespec.ErrUnimplemented)
	assert.Contains(t, err.Error(), "broadcasting")

	// DType mismatch.
	badValue := bufferFromFlat([]float64{10, 11, 12}, 1, 3)
	err = engine.SliceAssign(ref, vector(1, 0), vector(2, 3), vector(1, 1), slicespec.Masks{}, badValue)
	require.ErrorIs(t, err, slicespec.ErrInvalidArgument)

	// The failed assignments must not have touched ref.
	assert.Equal(t, xslices.Iota(float32(0), 9), ref.Flat().([]float32))
}
