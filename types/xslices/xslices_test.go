package xslices

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtAndLast(t *testing.T) {
	slice := []int{0, 1, 2, 3, 4, 5}
	assert.Equal(t, 5, At(slice, -1))
	assert.Equal(t, 4, At(slice, -2))
	assert.Equal(t, 1, At(slice, 1))
	assert.Equal(t, 5, Last(slice))
	SetAt(slice, -1, 7)
	assert.Equal(t, 7, Last(slice))
}

func TestCopyAndFill(t *testing.T) {
	slice := []int32{1, 2, 3}
	slice2 := Copy(slice)
	slice2[0] = 7
	assert.Equal(t, int32(1), slice[0])
	assert.Nil(t, Copy[int]((nil)))

	FillSlice(slice, 11)
	assert.Equal(t, []int32{11, 11, 11}, slice)
	assert.Equal(t, []float32{3, 3}, SliceWithValue(2, float32(3)))
}

func TestIota(t *testing.T) {
	assert.Equal(t, []uint32{3, 4, 5, 6}, Iota[uint32](3, 4))
	assert.Equal(t, []float64{0, 1, 2}, Iota[float64](0, 3))
}

func TestMap(t *testing.T) {
	count := 17
	in := make([]int, count)
	for ii := 0; ii < count; ii++ {
		in[ii] = ii
	}
	out := Map(in, func(v int) int32 { return int32(v + 1) })
	for ii := 0; ii < count; ii++ {
		assert.Equalf(t, int32(ii+1), out[ii], "element %d doesn't match", ii)
	}
}

func TestMaxMin(t *testing.T) {
	assert.Equal(t, 7, Max([]int{3, 7, -1}))
	assert.Equal(t, -1, Min([]int{3, 7, -1}))
	assert.Equal(t, 0, Max[int](nil))
}
