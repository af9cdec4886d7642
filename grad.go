package slicego

import (
	"github.com/gomlx/slicego/slicespec"
	"github.com/gomlx/slicego/types/shapes"
)

// SliceGrad computes the gradient of a Slice: a new buffer of the original
// input shape, zero everywhere except at the sliced coordinates, which
// receive the elements of the upstream gradient dy.
//
// shape is a 1-D Int32 or Int64 buffer holding the original input's
// dimensions -- the original array itself need not exist anymore. The slice
// spec (begin, end, strides, masks) must be the one used by the forward
// Slice, and dy's shape must equal the forward result's shape exactly; no
// broadcasting.
//
// Each sliced coordinate is written at most once, so this is a plain scatter
// of dy with no accumulation.
func (e *Engine) SliceGrad(shape, begin, end, strides *Buffer, masks slicespec.Masks, dy *Buffer) (*Buffer, error) {
	dims, err := dimsFromIntVector(shape)
	if err != nil {
		return nil, err
	}
	inputShape := shapes.Make(dy.shape.DType, dims...)

	spec, err := sparseSpec(begin, end, strides, masks)
	if err != nil {
		return nil, err
	}
	resolved, err := slicespec.Resolve(inputShape, spec)
	if err != nil {
		return nil, err
	}
	if !resolved.FinalShape.EqualDimensions(dy.shape) {
		return nil, wrapInvalidf("shape of dy was %s instead of %s", dy.shape, resolved.FinalShape)
	}

	output := e.newZeroedBuffer(inputShape)
	processingRank := resolved.ProcessingShape.Rank()
	if processingRank == 0 || resolved.IsIdentity {
		// The whole array was selected (scalar slice or identity): the
		// gradient is dy itself.
		copyFlat(output.flat, dy.flat)
		return output, nil
	}
	if resolved.ProcessingShape.Size() == 0 {
		return output, nil
	}
	if processingRank > MaxRank {
		e.putBuffer(output)
		return nil, wrapUnimplementedf("unhandled input rank %d (up to %d supported)", processingRank, MaxRank)
	}
	execScatter(e, output, dy, resolved)
	return output, nil
}
