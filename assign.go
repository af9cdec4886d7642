package slicego

import (
	"github.com/gomlx/slicego/slicespec"
)

// SliceAssign overwrites the sliced coordinates of ref with the elements of
// value, in place: ref's backing storage is both read and written, and there
// is no output buffer. The caller must guarantee no concurrent reader or
// writer touches ref during the call.
//
// The slice spec is resolved against ref's current shape. value's shape must
// equal the slice's final shape exactly; a mismatch fails with
// slicespec.ErrUnimplemented (broadcasting assignment is unsupported).
// Assigning through an empty selection is a no-op.
func (e *Engine) SliceAssign(ref, begin, end, strides *Buffer, masks slicespec.Masks, value *Buffer) error {
	spec, err := sparseSpec(begin, end, strides, masks)
	if err != nil {
		return err
	}
	resolved, err := slicespec.Resolve(ref.shape, spec)
	if err != nil {
		return err
	}
	if resolved.ProcessingShape.Size() == 0 {
		return nil
	}
	if value.shape.DType != ref.shape.DType {
		return wrapInvalidf("value dtype %s does not match input dtype %s", value.shape.DType, ref.shape.DType)
	}
	if !resolved.FinalShape.EqualDimensions(value.shape) {
		return wrapUnimplementedf(
			"sliced l-value shape %s does not match r-value shape %s. Automatic broadcasting not yet implemented",
			resolved.FinalShape, value.shape)
	}

	processingRank := resolved.ProcessingShape.Rank()
	if processingRank == 0 {
		// Left and right sides are the same scalar shape: a whole-buffer
		// assign.
		copyFlat(ref.flat, value.flat)
		return nil
	}
	if processingRank > MaxRank {
		return wrapUnimplementedf("unhandled input rank %d (up to %d supported)", processingRank, MaxRank)
	}
	execScatter(e, ref, value, resolved)
	return nil
}
