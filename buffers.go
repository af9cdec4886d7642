package slicego

import (
	"reflect"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/slicego/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Buffer holds a shape and a reference to the flat data.
//
// The flat data is always a Go slice of the shape's underlying data type
// ([]T for shape.DType), in row-major order. Buffers are recycled through the
// engine's pools, so drop all references after BufferFinalize.
type Buffer struct {
	shape shapes.Shape
	valid bool

	// flat is always a slice of the underlying data type (shape.DType).
	flat any
}

// Shape of the buffer.
func (b *Buffer) Shape() shapes.Shape { return b.shape }

// Flat returns the buffer storage directly, a []T for the shape's DType.
// The slice becomes invalid after the buffer is finalized.
func (b *Buffer) Flat() any { return b.flat }

type bufferPoolKey struct {
	dtype  dtypes.DType
	length int
}

// getBufferPool for the given dtype/length.
func (e *Engine) getBufferPool(dtype dtypes.DType, length int) *sync.Pool {
	key := bufferPoolKey{dtype: dtype, length: length}
	poolInterface, ok := e.bufferPools.Load(key)
	if !ok {
		poolInterface, _ = e.bufferPools.LoadOrStore(key, &sync.Pool{
			New: func() interface{} {
				if klog.V(2).Enabled() {
					klog.Infof("slicego: allocating %s buffer of %s", dtype,
						humanize.Bytes(uint64(dtype.Memory())*uint64(length)))
				}
				return &Buffer{
					flat:  reflect.MakeSlice(reflect.SliceOf(dtype.GoType()), length, length).Interface(),
					shape: shapes.Make(dtype, length),
				}
			},
		})
	}
	return poolInterface.(*sync.Pool)
}

// getBuffer from the engine pool of buffers.
// The returned buffer contents are whatever the previous user left there.
func (e *Engine) getBuffer(dtype dtypes.DType, length int) *Buffer {
	pool := e.getBufferPool(dtype, length)
	buf := pool.Get().(*Buffer)
	buf.valid = true
	return buf
}

// putBuffer back into the engine pool of buffers.
// After this, any references to the buffer should be dropped.
func (e *Engine) putBuffer(buffer *Buffer) {
	if buffer == nil || !buffer.shape.Ok() {
		return
	}
	buffer.valid = false
	pool := e.getBufferPool(buffer.shape.DType, buffer.shape.Size())
	pool.Put(buffer)
}

// NewBuffer creates a buffer of the given shape, with uninitialized contents.
func (e *Engine) NewBuffer(shape shapes.Shape) *Buffer {
	buffer := e.getBuffer(shape.DType, shape.Size())
	buffer.shape = shape.Clone()
	return buffer
}

// newZeroedBuffer creates a buffer of the given shape with every element set
// to zero. Pooled buffers come back dirty, so this always clears the storage.
func (e *Engine) newZeroedBuffer(shape shapes.Shape) *Buffer {
	buffer := e.NewBuffer(shape)
	zeroFlat(buffer)
	return buffer
}

// cloneBuffer using the pool to allocate the copy.
func (e *Engine) cloneBuffer(buffer *Buffer) *Buffer {
	newBuffer := e.getBuffer(buffer.shape.DType, buffer.shape.Size())
	newBuffer.shape = buffer.shape.Clone()
	copyFlat(newBuffer.flat, buffer.flat)
	return newBuffer
}

// copyFlat assumes both flat slices are of the same underlying type.
func copyFlat(flatDst, flatSrc any) {
	reflect.Copy(reflect.ValueOf(flatDst), reflect.ValueOf(flatSrc))
}

// copyFlatRange copies elements [from, to) of src's flat data to the start of
// dst's flat data. Both buffers must have the same dtype.
func copyFlatRange(dst, src *Buffer, from, to int) {
	reflect.Copy(reflect.ValueOf(dst.flat), reflect.ValueOf(src.flat).Slice(from, to))
}

// BufferFromFlatData creates a buffer of the given shape with a copy of flat,
// which must be a slice of the Go type corresponding to the shape's DType,
// with exactly shape.Size() elements.
func (e *Engine) BufferFromFlatData(flat any, shape shapes.Shape) (*Buffer, error) {
	flatValue := reflect.ValueOf(flat)
	if flatValue.Kind() != reflect.Slice {
		return nil, errors.Errorf("flat data must be a slice, got %T", flat)
	}
	if dtypes.FromGoType(flatValue.Type().Elem()) != shape.DType {
		return nil, errors.Errorf("flat data type (%s) does not match shape DType (%s)",
			flatValue.Type().Elem(), shape.DType)
	}
	if flatValue.Len() != shape.Size() {
		return nil, errors.Errorf("flat data has %d elements, shape %s requires %d",
			flatValue.Len(), shape, shape.Size())
	}
	buffer := e.NewBuffer(shape)
	copyFlat(buffer.flat, flat)
	return buffer, nil
}

// BufferFinalize informs the engine that the buffer is no longer needed and
// its storage can be recycled.
//
// A finalized buffer should never be used again. Preferably, set references
// to it to nil.
func (e *Engine) BufferFinalize(buffer *Buffer) error {
	if buffer == nil || buffer.flat == nil || !buffer.shape.Ok() || !buffer.valid {
		return errors.Errorf("BufferFinalize(%p): buffer was already finalized or never valid", buffer)
	}
	e.putBuffer(buffer)
	return nil
}
