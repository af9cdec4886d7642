// Package slicego implements NumPy-style strided slicing over dense,
// row-major multi-dimensional arrays: extracting a strided sub-array
// (Engine.Slice), computing the gradient of an extraction by scattering into
// a zero array shaped like the original input (Engine.SliceGrad), and
// assigning into a sliced region of a mutable array in place
// (Engine.SliceAssign).
//
// The three operations share one shape-resolution algorithm (package
// slicespec) and one family of dimension-generic kernels, with mutually
// exclusive fast paths picked by data layout: identity copy-with-reshape,
// contiguous outer-axis trim, 2-D unit-stride row copy, and a dynamic-rank
// strided walk for everything else.
//
// Each call is a self-contained synchronous computation: the engine keeps no
// state across invocations other than its buffer pools. SliceAssign mutates
// its first argument; the caller must guarantee exclusive access to that
// buffer for the duration of the call.
package slicego

import "sync"

// MaxRank is the largest processing-shape rank the generic kernels accept.
// Slices of higher-rank arrays fail with slicespec.ErrUnimplemented, unless a
// contiguous fast path applies first.
const MaxRank = 6

// Engine executes slice operations over pooled buffers.
//
// It is safe for concurrent use: operations on distinct buffers never
// interact, and the pools are internally synchronized.
type Engine struct {
	// bufferPools maps bufferPoolKey to *sync.Pool of reusable buffers.
	bufferPools sync.Map

	workers workersPool
}

// New creates an Engine with parallelism set to the number of CPUs.
func New() *Engine {
	e := &Engine{}
	e.workers.Initialize()
	return e
}

// SetMaxParallelism sets the soft target for parallel work inside kernels.
// 0 disables parallelism, -1 makes it unlimited.
//
// Only change the parallelism while no operation is running.
func (e *Engine) SetMaxParallelism(maxParallelism int) {
	e.workers.SetMaxParallelism(maxParallelism)
}

// MaxParallelism returns the current soft target for parallel work.
func (e *Engine) MaxParallelism() int {
	return e.workers.MaxParallelism()
}
