package slicego

import "github.com/gomlx/slicego/slicespec"

// calculateStrides returns the row-major flat strides for the given
// dimensions: the stride of the last axis is 1, and each axis' stride is the
// product of the dimensions after it.
func calculateStrides(dimensions []int) []int {
	strides := make([]int, len(dimensions))
	stride := 1
	for axis := len(dimensions) - 1; axis >= 0; axis-- {
		strides[axis] = stride
		stride *= dimensions[axis]
	}
	return strides
}

// indexIterator walks the canonical (begin, end, stride) index space of a
// resolved slice in row-major order, yielding flat operand indices.
//
// Only the first numAxes processing axes are iterated; the begin offsets of
// every axis (iterated or not) are folded into the yielded flat index. With
// numAxes == rank-1 and a unit stride on the last axis, each yielded index is
// the base of a contiguous row of processingShape.Dimensions[rank-1] elements.
type indexIterator struct {
	flatIdx     int
	perAxisIdx  []int
	sizes       []int
	flatStrides []int
}

// newIndexIterator creates an iterator over the first numAxes processing axes
// of spec, positioned at the given linear index of the iterated output space.
//
// Every iterated axis must have size > 0.
func newIndexIterator(operandDimensions []int, spec *slicespec.Resolved, numAxes, startPos int) *indexIterator {
	operandStrides := calculateStrides(operandDimensions)
	it := &indexIterator{
		perAxisIdx:  make([]int, numAxes),
		sizes:       spec.ProcessingShape.Dimensions[:numAxes],
		flatStrides: make([]int, numAxes),
	}
	for axis, stride := range operandStrides {
		it.flatIdx += stride * int(spec.Begin[axis])
	}
	for axis := 0; axis < numAxes; axis++ {
		// Scale the flat strides by the requested slice stride per axis.
		it.flatStrides[axis] = operandStrides[axis] * int(spec.Strides[axis])
	}
	for axis := numAxes - 1; axis >= 0 && startPos > 0; axis-- {
		idx := startPos % it.sizes[axis]
		startPos /= it.sizes[axis]
		it.perAxisIdx[axis] = idx
		it.flatIdx += idx * it.flatStrides[axis]
	}
	return it
}

// next returns the current flat operand index and advances to the next
// position in row-major order (last iterated axis varies fastest).
func (it *indexIterator) next() int {
	flatIdx := it.flatIdx
	for axis := len(it.sizes) - 1; axis >= 0; axis-- {
		if it.sizes[axis] == 1 {
			// Nothing to iterate at this axis.
			continue
		}
		it.perAxisIdx[axis]++
		it.flatIdx += it.flatStrides[axis]
		if it.perAxisIdx[axis] < it.sizes[axis] {
			// Done for this step.
			break
		}
		// Rewind this axis and carry over to the next higher-order one.
		it.perAxisIdx[axis] = 0
		it.flatIdx -= it.sizes[axis] * it.flatStrides[axis]
	}
	return flatIdx
}
