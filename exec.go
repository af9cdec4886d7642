package slicego

import (
	"runtime"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/gomlx/slicego/slicespec"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

func wrapInvalidf(format string, args ...any) error {
	return errors.Wrapf(slicespec.ErrInvalidArgument, format, args...)
}

func wrapUnimplementedf(format string, args ...any) error {
	return errors.Wrapf(slicespec.ErrUnimplemented, format, args...)
}

// minParallelWork is the number of elements a kernel must move before it is
// worth splitting the work across workers.
const minParallelWork = 16 * 1024

// parallelFor splits [0, n) units of work, each moving workPerUnit elements,
// into contiguous chunks run on the workers pool. Small workloads, or pools
// with parallelism disabled, run inline.
//
// fn must be safe to run concurrently on disjoint ranges.
func (e *Engine) parallelFor(n, workPerUnit int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if !e.workers.IsEnabled() || n*workPerUnit < minParallelWork {
		fn(0, n)
		return
	}
	numChunks := min(n, goroutineToParallelismRatio*runtime.GOMAXPROCS(0))
	if numChunks <= 1 {
		fn(0, n)
		return
	}
	chunkSize := (n + numChunks - 1) / numChunks
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		task := func() {
			defer wg.Done()
			fn(start, end)
		}
		if !e.workers.StartIfAvailable(task) {
			task()
		}
	}
	wg.Wait()
}

// execGather copies the sliced coordinates of operand into output, in
// row-major output order. output must have spec.ProcessingShape.Size()
// elements.
func execGather(e *Engine, operand, output *Buffer, spec *slicespec.Resolved) {
	switch operand.shape.DType {
	case dtypes.Bool:
		execGatherGeneric[bool](e, operand, output, spec)
	case dtypes.Int8:
		execGatherGeneric[int8](e, operand, output, spec)
	case dtypes.Int16:
		execGatherGeneric[int16](e, operand, output, spec)
	case dtypes.Int32:
		execGatherGeneric[int32](e, operand, output, spec)
	case dtypes.Int64:
		execGatherGeneric[int64](e, operand, output, spec)
	case dtypes.Uint8:
		execGatherGeneric[uint8](e, operand, output, spec)
	case dtypes.Uint16:
		execGatherGeneric[uint16](e, operand, output, spec)
	case dtypes.Uint32:
		execGatherGeneric[uint32](e, operand, output, spec)
	case dtypes.Uint64:
		execGatherGeneric[uint64](e, operand, output, spec)
	case dtypes.Float32:
		execGatherGeneric[float32](e, operand, output, spec)
	case dtypes.Float64:
		execGatherGeneric[float64](e, operand, output, spec)
	case dtypes.Float16:
		execGatherGeneric[float16.Float16](e, operand, output, spec)
	case dtypes.BFloat16:
		execGatherGeneric[bfloat16.BFloat16](e, operand, output, spec)
	default:
		exceptions.Panicf("unsupported DType %s for Slice operation", operand.shape.DType)
	}
}

func execGatherGeneric[T SupportedTypesConstraints](e *Engine, operand, output *Buffer, spec *slicespec.Resolved) {
	operandFlat := operand.flat.([]T)
	outputFlat := output.flat.([]T)
	dims := spec.ProcessingShape.Dimensions
	rank := len(dims)
	size := spec.ProcessingShape.Size()

	rowLen := 1
	if rank > 0 && spec.Strides[rank-1] == 1 {
		rowLen = dims[rank-1]
	}
	if rowLen <= 1 {
		// Non-unit innermost stride: element by element.
		e.parallelFor(size, 1, func(start, end int) {
			it := newIndexIterator(operand.shape.Dimensions, spec, rank, start)
			for i := start; i < end; i++ {
				outputFlat[i] = operandFlat[it.next()]
			}
		})
		return
	}
	// Unit stride on the innermost axis: each row is one contiguous copy.
	numRows := size / rowLen
	e.parallelFor(numRows, rowLen, func(start, end int) {
		it := newIndexIterator(operand.shape.Dimensions, spec, rank-1, start)
		for row := start; row < end; row++ {
			base := it.next()
			copy(outputFlat[row*rowLen:(row+1)*rowLen], operandFlat[base:base+rowLen])
		}
	})
}

// execScatter writes the elements of src (read sequentially, in row-major
// order) into the sliced coordinates of dst. src must have
// spec.ProcessingShape.Size() elements. The untouched coordinates of dst are
// left as they are.
func execScatter(e *Engine, dst, src *Buffer, spec *slicespec.Resolved) {
	switch dst.shape.DType {
	case dtypes.Bool:
		execScatterGeneric[bool](e, dst, src, spec)
	case dtypes.Int8:
		execScatterGeneric[int8](e, dst, src, spec)
	case dtypes.Int16:
		execScatterGeneric[int16](e, dst, src, spec)
	case dtypes.Int32:
		execScatterGeneric[int32](e, dst, src, spec)
	case dtypes.Int64:
		execScatterGeneric[int64](e, dst, src, spec)
	case dtypes.Uint8:
		execScatterGeneric[uint8](e, dst, src, spec)
	case dtypes.Uint16:
		execScatterGeneric[uint16](e, dst, src, spec)
	case dtypes.Uint32:
		execScatterGeneric[uint32](e, dst, src, spec)
	case dtypes.Uint64:
		execScatterGeneric[uint64](e, dst, src, spec)
	case dtypes.Float32:
		execScatterGeneric[float32](e, dst, src, spec)
	case dtypes.Float64:
		execScatterGeneric[float64](e, dst, src, spec)
	case dtypes.Float16:
		execScatterGeneric[float16.Float16](e, dst, src, spec)
	case dtypes.BFloat16:
		execScatterGeneric[bfloat16.BFloat16](e, dst, src, spec)
	default:
		exceptions.Panicf("unsupported DType %s for scatter operation", dst.shape.DType)
	}
}

func execScatterGeneric[T SupportedTypesConstraints](e *Engine, dst, src *Buffer, spec *slicespec.Resolved) {
	dstFlat := dst.flat.([]T)
	srcFlat := src.flat.([]T)
	dims := spec.ProcessingShape.Dimensions
	rank := len(dims)
	size := spec.ProcessingShape.Size()

	rowLen := 1
	if rank > 0 && spec.Strides[rank-1] == 1 {
		rowLen = dims[rank-1]
	}
	if rowLen <= 1 {
		e.parallelFor(size, 1, func(start, end int) {
			it := newIndexIterator(dst.shape.Dimensions, spec, rank, start)
			for i := start; i < end; i++ {
				dstFlat[it.next()] = srcFlat[i]
			}
		})
		return
	}
	numRows := size / rowLen
	e.parallelFor(numRows, rowLen, func(start, end int) {
		it := newIndexIterator(dst.shape.Dimensions, spec, rank-1, start)
		for row := start; row < end; row++ {
			base := it.next()
			copy(dstFlat[base:base+rowLen], srcFlat[row*rowLen:(row+1)*rowLen])
		}
	})
}

// execSlice2D is the specialized gather for 2-D unit-stride slices: each
// output row is one contiguous copy of (end1-begin1) elements, without going
// through the generic iterator.
func execSlice2D(e *Engine, operand, output *Buffer, spec *slicespec.Resolved) {
	switch operand.shape.DType {
	case dtypes.Bool:
		execSlice2DGeneric[bool](e, operand, output, spec)
	case dtypes.Int8:
		execSlice2DGeneric[int8](e, operand, output, spec)
	case dtypes.Int16:
		execSlice2DGeneric[int16](e, operand, output, spec)
	case dtypes.Int32:
		execSlice2DGeneric[int32](e, operand, output, spec)
	case dtypes.Int64:
		execSlice2DGeneric[int64](e, operand, output, spec)
	case dtypes.Uint8:
		execSlice2DGeneric[uint8](e, operand, output, spec)
	case dtypes.Uint16:
		execSlice2DGeneric[uint16](e, operand, output, spec)
	case dtypes.Uint32:
		execSlice2DGeneric[uint32](e, operand, output, spec)
	case dtypes.Uint64:
		execSlice2DGeneric[uint64](e, operand, output, spec)
	case dtypes.Float32:
		execSlice2DGeneric[float32](e, operand, output, spec)
	case dtypes.Float64:
		execSlice2DGeneric[float64](e, operand, output, spec)
	case dtypes.Float16:
		execSlice2DGeneric[float16.Float16](e, operand, output, spec)
	case dtypes.BFloat16:
		execSlice2DGeneric[bfloat16.BFloat16](e, operand, output, spec)
	default:
		exceptions.Panicf("unsupported DType %s for Slice operation", operand.shape.DType)
	}
}

func execSlice2DGeneric[T SupportedTypesConstraints](e *Engine, operand, output *Buffer, spec *slicespec.Resolved) {
	in := operand.flat.([]T)
	out := output.flat.([]T)
	inCols := operand.shape.Dimensions[1]
	begin0 := int(spec.Begin[0])
	begin1, end1 := int(spec.Begin[1]), int(spec.End[1])
	outCols := end1 - begin1
	numRows := spec.ProcessingShape.Dimensions[0]
	e.parallelFor(numRows, outCols, func(start, end int) {
		for row := start; row < end; row++ {
			rowIn := begin0 + row
			copy(out[row*outCols:(row+1)*outCols], in[rowIn*inCols+begin1:rowIn*inCols+end1])
		}
	})
}
