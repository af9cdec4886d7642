package slicego

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/gomlx/slicego/types/shapes"
	"github.com/gomlx/slicego/types/xslices"
	"github.com/x448/float16"
)

// SupportedTypesConstraints enumerates the element types the engine supports.
// The kernels only move memory around, so any byte-copyable type works the
// same way.
type SupportedTypesConstraints interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | float16.Float16 | bfloat16.BFloat16
}

// zeroFlat sets every element of the buffer to zero.
func zeroFlat(buffer *Buffer) {
	switch buffer.shape.DType {
	case dtypes.Bool:
		zeroFlatGeneric[bool](buffer)
	case dtypes.Int8:
		zeroFlatGeneric[int8](buffer)
	case dtypes.Int16:
		zeroFlatGeneric[int16](buffer)
	case dtypes.Int32:
		zeroFlatGeneric[int32](buffer)
	case dtypes.Int64:
		zeroFlatGeneric[int64](buffer)
	case dtypes.Uint8:
		zeroFlatGeneric[uint8](buffer)
	case dtypes.Uint16:
		zeroFlatGeneric[uint16](buffer)
	case dtypes.Uint32:
		zeroFlatGeneric[uint32](buffer)
	case dtypes.Uint64:
		zeroFlatGeneric[uint64](buffer)
	case dtypes.Float32:
		zeroFlatGeneric[float32](buffer)
	case dtypes.Float64:
		zeroFlatGeneric[float64](buffer)
	case dtypes.Float16:
		zeroFlatGeneric[float16.Float16](buffer)
	case dtypes.BFloat16:
		zeroFlatGeneric[bfloat16.BFloat16](buffer)
	default:
		exceptions.Panicf("unsupported DType %s for buffer of shape %s", buffer.shape.DType, buffer.shape)
	}
}

func zeroFlatGeneric[T SupportedTypesConstraints](buffer *Buffer) {
	var zero T
	xslices.FillSlice(buffer.flat.([]T), zero)
}

// intVector converts a 1-D Int32 or Int64 buffer into a []int64.
// Used for the begin/end/strides operands of the slice operations.
func intVector(buf *Buffer, name string) ([]int64, error) {
	if buf.shape.Rank() != 1 {
		return nil, wrapInvalidf("%s must be 1-D, got %s.shape = %s", name, name, buf.shape)
	}
	switch buf.shape.DType {
	case dtypes.Int32:
		return xslices.Map(buf.flat.([]int32), func(v int32) int64 { return int64(v) }), nil
	case dtypes.Int64:
		return xslices.Copy(buf.flat.([]int64)), nil
	}
	return nil, wrapInvalidf("%s must have type Int32 or Int64, got %s", name, buf.shape.DType)
}

// dimsFromIntVector reads a 1-D integer buffer as array dimensions.
// Unlike the begin/end/strides operands, an unsupported dtype here is a
// caller precondition violation and panics.
func dimsFromIntVector(buf *Buffer) ([]int, error) {
	if buf.shape.Rank() != 1 {
		return nil, wrapInvalidf("shape must be 1-D, got shape.shape = %s", buf.shape)
	}
	var dims []int
	switch buf.shape.DType {
	case dtypes.Int32:
		dims = xslices.Map(buf.flat.([]int32), func(v int32) int { return int(v) })
	case dtypes.Int64:
		dims = xslices.Map(buf.flat.([]int64), func(v int64) int { return int(v) })
	default:
		exceptions.Panicf("shape must have type Int32 or Int64, got %s", buf.shape.DType)
	}
	for i, dim := range dims {
		if dim < 0 {
			return nil, wrapInvalidf("shape dimensions must be non-negative, got shape[%d]=%d", i, dim)
		}
	}
	return dims, nil
}

// Compile-time check that shapes and dtypes agree on the HasShape surface.
var _ shapes.HasShape = (*Buffer)(nil)
