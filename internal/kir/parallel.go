package kir

import "fmt"

// ParallelType identifies the parallel axis a loop or symbol is bound to.
type ParallelType uint8

const (
	// ParallelSerial represents an axis with no parallelization.
	ParallelSerial ParallelType = iota
	// ParallelTIDx represents the thread x dimension.
	ParallelTIDx
	// ParallelTIDy represents the thread y dimension.
	ParallelTIDy
	// ParallelTIDz represents the thread z dimension.
	ParallelTIDz
	// ParallelBIDx represents the block x dimension.
	ParallelBIDx
	// ParallelBIDy represents the block y dimension.
	ParallelBIDy
	// ParallelBIDz represents the block z dimension.
	ParallelBIDz
	// ParallelUnroll represents an unrolled axis.
	ParallelUnroll
	// ParallelVectorize represents a vectorized axis.
	ParallelVectorize
)

// String returns a human-readable name for the parallel type.
func (pt ParallelType) String() string {
	switch pt {
	case ParallelSerial:
		return "serial"
	case ParallelTIDx:
		return "TIDx"
	case ParallelTIDy:
		return "TIDy"
	case ParallelTIDz:
		return "TIDz"
	case ParallelBIDx:
		return "BIDx"
	case ParallelBIDy:
		return "BIDy"
	case ParallelBIDz:
		return "BIDz"
	case ParallelUnroll:
		return "unroll"
	case ParallelVectorize:
		return "vectorize"
	default:
		return fmt.Sprintf("ParallelType(%d)", pt)
	}
}

// IsThreadDim reports whether the parallel type is one of the six
// thread/block dimensions whose extent is a launch parameter.
func (pt ParallelType) IsThreadDim() bool {
	switch pt {
	case ParallelTIDx, ParallelTIDy, ParallelTIDz, ParallelBIDx, ParallelBIDy, ParallelBIDz:
		return true
	default:
		return false
	}
}

// ExtentName returns the canonical named-scalar key for the extent of a
// thread/block dimension. Panics for non-thread parallel types.
func (pt ParallelType) ExtentName() string {
	switch pt {
	case ParallelTIDx:
		return "blockDim.x"
	case ParallelTIDy:
		return "blockDim.y"
	case ParallelTIDz:
		return "blockDim.z"
	case ParallelBIDx:
		return "gridDim.x"
	case ParallelBIDy:
		return "gridDim.y"
	case ParallelBIDz:
		return "gridDim.z"
	default:
		panic(fmt.Errorf("kir: %s has no extent name", pt))
	}
}

// ThreadDims lists the six thread/block dimensions in canonical order.
func ThreadDims() []ParallelType {
	return []ParallelType{
		ParallelTIDx, ParallelTIDy, ParallelTIDz,
		ParallelBIDx, ParallelBIDy, ParallelBIDz,
	}
}
