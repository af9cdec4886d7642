package slicego

import (
	"github.com/gomlx/slicego/slicespec"
	"k8s.io/klog/v2"
)

// Slice extracts a strided sub-array from input, returning a new buffer of
// the slice's final shape.
//
// begin, end and strides are 1-D Int32 or Int64 buffers of equal length, at
// most the input rank plus the number of rank-expanding mask bits. Bit i of
// each mask in masks refers to position i of those vectors. See
// slicespec.Masks for the mask semantics.
//
// Empty selections are valid and produce zero-sized axes. Slices whose
// processing rank exceeds MaxRank fail with slicespec.ErrUnimplemented
// unless a contiguous fast path applies.
func (e *Engine) Slice(input, begin, end, strides *Buffer, masks slicespec.Masks) (*Buffer, error) {
	spec, err := sparseSpec(begin, end, strides, masks)
	if err != nil {
		return nil, err
	}
	resolved, err := slicespec.Resolve(input.shape, spec)
	if err != nil {
		return nil, err
	}
	finalShape := resolved.FinalShape

	// Optimization #1: the slice is a no-op plus reshape.
	if resolved.IsIdentity {
		klog.V(2).Infof("Slice: identity fast path, shape=%s", finalShape)
		output := e.cloneBuffer(input)
		output.shape = finalShape
		return output, nil
	}

	if resolved.ProcessingShape.Size() == 0 {
		// Nothing to copy. A shrink of an empty axis may leave a non-empty
		// final shape; it reads as zeros.
		return e.newZeroedBuffer(finalShape), nil
	}

	processingRank := resolved.ProcessingShape.Rank()
	if processingRank == 0 {
		// Only new-axis positions: a single element, reshaped.
		output := e.NewBuffer(finalShape)
		copyFlatRange(output, input, 0, 1)
		return output, nil
	}

	// Optimization #2: the slice is memory contiguous, trimming only the
	// outermost axis.
	if resolved.SliceDim0 {
		klog.V(2).Infof("Slice: contiguous outer-axis fast path, shape=%s", finalShape)
		innerSize := input.shape.Size() / input.shape.Dimensions[0]
		output := e.NewBuffer(finalShape)
		copyFlatRange(output, input, int(resolved.Begin[0])*innerSize, int(resolved.End[0])*innerSize)
		return output, nil
	}

	if processingRank > MaxRank {
		return nil, wrapUnimplementedf("unhandled input rank %d (up to %d supported)", processingRank, MaxRank)
	}

	output := e.NewBuffer(finalShape)
	// Optimization #3: two-dimensional unit-stride slice, one contiguous
	// copy per row.
	if resolved.IsSimpleSlice && input.shape.Rank() == 2 && processingRank == 2 && finalShape.Rank() == 2 {
		execSlice2D(e, input, output, resolved)
		return output, nil
	}
	execGather(e, input, output, resolved)
	return output, nil
}

// sparseSpec assembles a slicespec.Spec from the begin/end/strides buffer
// operands.
func sparseSpec(begin, end, strides *Buffer, masks slicespec.Masks) (spec slicespec.Spec, err error) {
	spec.Begin, err = intVector(begin, "begin")
	if err != nil {
		return
	}
	spec.End, err = intVector(end, "end")
	if err != nil {
		return
	}
	spec.Strides, err = intVector(strides, "strides")
	if err != nil {
		return
	}
	spec.Masks = masks
	return
}
