package shapes

import (
	"fmt"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeBasics(t *testing.T) {
	s := Make(dtypes.Float32, 3, 4)
	assert.Equal(t, 2, s.Rank())
	assert.Equal(t, 12, s.Size())
	assert.Equal(t, 4, s.Dim(1))
	assert.Equal(t, 4, s.Dim(-1))
	assert.Equal(t, "(Float32)[3 4]", s.String())
	assert.True(t, s.Equal(Make(dtypes.Float32, 3, 4)))
	assert.False(t, s.Equal(Make(dtypes.Float64, 3, 4)))
	assert.True(t, s.EqualDimensions(Make(dtypes.Float64, 3, 4)))

	scalar := Scalar[float32]()
	assert.True(t, scalar.IsScalar())
	assert.Equal(t, 1, scalar.Size())

	assert.False(t, Invalid().Ok())
	require.Panics(t, func() { Make(dtypes.Int32, 2, -1) })
}

func TestShapeZeroSizedAxes(t *testing.T) {
	s := Make(dtypes.Int64, 3, 0, 5)
	assert.True(t, s.Ok())
	assert.Equal(t, 3, s.Rank())
	assert.Equal(t, 0, s.Size())
	assert.Equal(t, uintptr(0), s.Memory())
}

func TestShapeClone(t *testing.T) {
	s := Make(dtypes.Int8, 2, 3)
	s2 := s.Clone()
	s2.Dimensions[0] = 7
	assert.Equal(t, 2, s.Dimensions[0])
}

func TestShapeIter(t *testing.T) {
	s := Make(dtypes.Float64, 2, 1, 3)
	var got [][]int
	for indices := range s.Iter() {
		cp := make([]int, len(indices))
		copy(cp, indices)
		got = append(got, cp)
	}
	fmt.Printf("\tindices=%v\n", got)
	want := [][]int{
		{0, 0, 0}, {0, 0, 1}, {0, 0, 2},
		{1, 0, 0}, {1, 0, 1}, {1, 0, 2},
	}
	assert.Equal(t, want, got)

	// A scalar yields exactly one (empty) set of indices.
	count := 0
	for range Scalar[int32]().Iter() {
		count++
	}
	assert.Equal(t, 1, count)

	// Zero-sized axes yield nothing.
	for range Make(dtypes.Float32, 2, 0).Iter() {
		t.Fatal("iterated over an empty shape")
	}
}
