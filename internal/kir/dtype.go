// Package kir provides the scalar expression graph of the kernel IR.
//
// The graph is an arena of immutable scalar nodes (Val) connected by
// unary and binary expressions (Expr). Nodes are addressed by stable
// ValID indices; two structurally identical nodes are still distinct
// unless they share an id. The arena only represents the graph — the
// evaluation of node values lives in internal/eval.
package kir

import "fmt"

// DType identifies the scalar kind of a Val.
type DType uint8

const (
	// DTypeInvalid represents an uninitialized scalar kind.
	DTypeInvalid DType = iota
	// DTypeInt represents a 64-bit signed integer.
	DTypeInt
	// DTypeDouble represents a double-precision float.
	DTypeDouble
)

// String returns a human-readable name for the scalar kind.
func (d DType) String() string {
	switch d {
	case DTypeInvalid:
		return "invalid"
	case DTypeInt:
		return "int"
	case DTypeDouble:
		return "double"
	default:
		return fmt.Sprintf("DType(%d)", d)
	}
}

// IsScalar reports whether the kind is one of the two supported
// scalar domains.
func (d DType) IsScalar() bool {
	return d == DTypeInt || d == DTypeDouble
}
