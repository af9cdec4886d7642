// Package slicespec resolves NumPy-style strided-slice specifications.
//
// A caller-facing slice specification is "sparse": per-position (begin, end,
// stride) triples plus five bitmasks (begin, end, ellipsis, new-axis,
// shrink-axis), where bit i of each mask refers to sparse position i. The
// sparse spec may cover fewer axes than the input's rank -- the ellipsis and
// the implicit trailing positions expand to full-axis selections.
//
// Resolve turns a sparse Spec into a Resolved spec: canonical per-axis
// (begin, end, stride) aligned 1:1 with the input axes, the processing shape
// (input rank, shrink axes kept with size 1), the final shape (new axes
// inserted, shrink axes removed), and the fast-path eligibility flags used by
// the execution engine.
//
// Resolution is pure: no buffers are touched and nothing is retained between
// calls.
package slicespec

import (
	"math/bits"

	"github.com/gomlx/slicego/types/shapes"
	"github.com/pkg/errors"
)

// Error classes for slice operations, matchable with errors.Is.
var (
	// ErrInvalidArgument flags malformed slice specifications or mismatched
	// operand shapes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnimplemented flags valid requests the engine does not support:
	// ranks above the generic kernel bound and broadcasting assignments.
	ErrUnimplemented = errors.New("unimplemented")
)

// Masks are the five independent bit-sets of a sparse slice specification.
// Bit i of each mask refers to sparse position i, as written by the caller.
type Masks struct {
	// Begin: ignore the provided begin for this position; use the start of
	// the axis (or its end, for negative strides).
	Begin int32

	// End: ignore the provided end for this position; use the end of the
	// axis (or its start, for negative strides).
	End int32

	// Ellipsis marks one position as "expand to as many full axes as
	// needed". At most one bit may be set.
	Ellipsis int32

	// NewAxis inserts a size-1 axis at this position, consuming no input
	// axis.
	NewAxis int32

	// Shrink takes a single index at this position and removes the axis
	// from the final shape.
	Shrink int32
}

// Spec is the sparse, caller-facing slice specification.
// Begin, End and Strides must have the same length, at most MaxSparseLength.
type Spec struct {
	Begin, End, Strides []int64
	Masks               Masks
}

// MaxSparseLength is the maximum number of sparse positions: the masks carry
// one bit per position in an int32.
const MaxSparseLength = 32

// Resolved is the canonical slice specification produced by Resolve.
//
// Begin, End and Strides have exactly ProcessingShape.Rank() entries, one per
// input axis. The number of valid positions of axis i is
// max(0, ceil((End[i]-Begin[i])/Strides[i])) == ProcessingShape.Dimensions[i].
type Resolved struct {
	// ProcessingShape is the input shape after resolving the sparse spec:
	// same rank as the input, shrink axes kept with size 1 (or 0, when the
	// axis was empty).
	ProcessingShape shapes.Shape

	// FinalShape is the externally visible output shape: new axes inserted
	// with size 1, shrink axes removed.
	FinalShape shapes.Shape

	// Canonical per-input-axis bounds. Strides are never zero.
	Begin, End, Strides []int64

	// IsIdentity is true iff the slice selects every element in order and
	// inserts/removes no axes: the output equals the input.
	IsIdentity bool

	// IsSimpleSlice is true iff every canonical stride is 1.
	IsSimpleSlice bool

	// SliceDim0 is true iff the slice only trims the outermost axis: every
	// other axis is a full unit-stride selection.
	SliceDim0 bool

	// shrunk marks the input axes removed from FinalShape.
	shrunk []bool
}

// Shrunk returns whether input axis i is removed from the final shape.
func (r *Resolved) Shrunk(axis int) bool { return r.shrunk[axis] }

// tagNewAxis marks a new-axis entry in the final-shape assembly list; other
// entries are input-axis indices.
const tagNewAxis = -1

// denseAxis is the per-input-axis role produced by the sparse walk, before
// canonicalization.
type denseAxis struct {
	begin, end, stride       int64
	beginMasked, endMasked   bool
	shrink                   bool
	identity                 bool // emitted by ellipsis expansion or trailing pad
}

// Resolve expands and canonicalizes the sparse spec against the input shape.
//
// Out-of-range begin/end values are clamped, and ranges that select nothing
// (begin past end for the stride's direction) normalize to zero-sized axes --
// they are not errors. Zero strides, mismatched spec lengths, more than one
// ellipsis bit, and specs that consume more axes than the input has are
// ErrInvalidArgument.
func Resolve(input shapes.Shape, spec Spec) (*Resolved, error) {
	if !input.Ok() {
		return nil, errors.Wrapf(ErrInvalidArgument, "invalid input shape %s", input)
	}
	sparseLen := len(spec.Begin)
	if len(spec.End) != sparseLen || len(spec.Strides) != sparseLen {
		return nil, errors.Wrapf(ErrInvalidArgument,
			"begin, end and strides must have the same length, got %d, %d and %d",
			sparseLen, len(spec.End), len(spec.Strides))
	}
	if sparseLen > MaxSparseLength {
		return nil, errors.Wrapf(ErrInvalidArgument,
			"slice spec has %d positions, masks only support up to %d", sparseLen, MaxSparseLength)
	}
	for i, stride := range spec.Strides {
		if stride == 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "strides must be non-zero, got strides[%d]=0", i)
		}
	}
	if bits.OnesCount32(uint32(spec.Masks.Ellipsis)) > 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "at most one ellipsis bit may be set, got mask %#b", spec.Masks.Ellipsis)
	}

	rank := input.Rank()
	dense := make([]denseAxis, 0, rank)
	// gather assembles the final shape: one entry per output position before
	// shrink removal, either an input-axis index or tagNewAxis.
	gather := make([]int, 0, rank+bits.OnesCount32(uint32(spec.Masks.NewAxis)))

	// Walk the sparse positions left to right, consuming input axes.
	for i := 0; i < sparseLen; i++ {
		bit := int32(1) << i
		switch {
		case spec.Masks.NewAxis&bit != 0:
			gather = append(gather, tagNewAxis)

		case spec.Masks.Ellipsis&bit != 0:
			// Fill with as many full axes as needed so that the sparse
			// positions after the ellipsis line up with the trailing input
			// axes. New-axis positions after the ellipsis consume nothing.
			remaining := 0
			for j := i + 1; j < sparseLen; j++ {
				if spec.Masks.NewAxis&(int32(1)<<j) == 0 {
					remaining++
				}
			}
			skip := rank - len(dense) - remaining
			for ; skip > 0; skip-- {
				gather = append(gather, len(dense))
				dense = append(dense, denseAxis{identity: true})
			}

		default:
			if len(dense) >= rank {
				return nil, errors.Wrapf(ErrInvalidArgument,
					"slice spec position %d would use input axis %d, but input rank is only %d (input shape %s)",
					i, len(dense), rank, input)
			}
			gather = append(gather, len(dense))
			dense = append(dense, denseAxis{
				begin:       spec.Begin[i],
				end:         spec.End[i],
				stride:      spec.Strides[i],
				beginMasked: spec.Masks.Begin&bit != 0,
				endMasked:   spec.Masks.End&bit != 0,
				shrink:      spec.Masks.Shrink&bit != 0,
			})
		}
	}
	// Input axes past the sparse spec pass through whole.
	for len(dense) < rank {
		gather = append(gather, len(dense))
		dense = append(dense, denseAxis{identity: true})
	}

	res := &Resolved{
		Begin:         make([]int64, rank),
		End:           make([]int64, rank),
		Strides:       make([]int64, rank),
		IsIdentity:    true,
		IsSimpleSlice: true,
		SliceDim0:     true,
		shrunk:        make([]bool, rank),
	}
	processing := make([]int, rank)

	for i := range dense {
		d := &dense[i]
		dim := int64(input.Dimensions[i])
		if d.identity {
			res.Begin[i], res.End[i], res.Strides[i] = 0, dim, 1
			processing[i] = int(dim)
			continue
		}

		stride := d.stride
		res.Strides[i] = stride
		var b, e int64
		if d.shrink {
			// A single index: wrap negatives and clamp, the axis becomes
			// size 1 in the processing shape and is dropped from the final
			// shape. Shrinking an empty axis normalizes to an empty
			// selection like every other empty range.
			res.shrunk[i] = true
			if dim == 0 {
				processing[i] = 0
			} else {
				b = d.begin
				if b < 0 {
					b += dim
				}
				b = min(max(b, 0), dim-1)
				if stride > 0 {
					e = b + 1
				} else {
					e = b - 1
				}
				res.Begin[i], res.End[i] = b, e
				processing[i] = 1
			}
		} else {
			// The valid index range depends on the stride direction:
			// backward slices may stop just before index 0 (the -1
			// sentinel) and start at most at dim-1.
			var lo, hi int64
			if stride > 0 {
				lo, hi = 0, dim
			} else {
				lo, hi = -1, dim-1
			}
			canonical := func(x int64, masked bool, maskedValue int64) int64 {
				if masked {
					return maskedValue
				}
				if x < 0 {
					x += dim
				}
				return min(max(x, lo), hi)
			}
			if stride > 0 {
				b = canonical(d.begin, d.beginMasked, lo)
				e = canonical(d.end, d.endMasked, hi)
			} else {
				b = canonical(d.begin, d.beginMasked, hi)
				e = canonical(d.end, d.endMasked, lo)
			}
			res.Begin[i], res.End[i] = b, e
			processing[i] = axisLength(b, e, stride)
		}

		takeAll := stride == 1 && b == 0 && e == dim
		res.IsIdentity = res.IsIdentity && takeAll && !d.shrink
		res.SliceDim0 = res.SliceDim0 && ((i == 0 && stride == 1) || takeAll)
		res.IsSimpleSlice = res.IsSimpleSlice && stride == 1
	}

	finalDims := make([]int, 0, len(gather))
	for _, g := range gather {
		if g == tagNewAxis {
			finalDims = append(finalDims, 1)
			continue
		}
		if res.shrunk[g] {
			continue
		}
		finalDims = append(finalDims, processing[g])
	}
	if len(gather) != rank {
		// New axes present: the final shape cannot equal the input.
		res.IsIdentity = false
	}

	res.ProcessingShape = shapes.Shape{DType: input.DType, Dimensions: processing}
	res.FinalShape = shapes.Shape{DType: input.DType, Dimensions: finalDims}
	return res, nil
}

// axisLength is the number of valid positions of a canonical axis:
// max(0, ceil((end-begin)/stride)).
func axisLength(begin, end, stride int64) int {
	interval := end - begin
	if interval == 0 || (interval < 0) != (stride < 0) {
		return 0
	}
	length := interval / stride
	if interval%stride != 0 {
		length++
	}
	return int(length)
}
