package kir

import "fmt"

// ValID identifies a scalar node within a Graph.
type ValID uint32

// ExprID identifies an expression within a Graph.
type ExprID uint32

// Invalid ID constants (zero is sentinel).
const (
	NoValID  ValID  = 0
	NoExprID ExprID = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id ValID) IsValid() bool  { return id != NoValID }
func (id ExprID) IsValid() bool { return id != NoExprID }

// ValKind classifies a scalar node.
type ValKind uint8

const (
	// ValScalar represents a free scalar leaf awaiting a binding.
	ValScalar ValKind = iota
	// ValConst represents a compile-time constant leaf.
	ValConst
	// ValNamed represents a named runtime symbol leaf.
	ValNamed
)

// String returns a human-readable name for the val kind.
func (k ValKind) String() string {
	switch k {
	case ValScalar:
		return "scalar"
	case ValConst:
		return "const"
	case ValNamed:
		return "named"
	default:
		return fmt.Sprintf("ValKind(%d)", k)
	}
}

// Val represents an immutable scalar node in the graph.
type Val struct {
	ID    ValID
	DType DType
	Kind  ValKind

	IntVal    int64   // For ValConst with DTypeInt
	DoubleVal float64 // For ValConst with DTypeDouble
	Name      string  // For ValNamed

	// Def is the expression producing this node, NoExprID for leaves.
	Def ExprID
}

// IsConst reports whether the node is a compile-time constant.
func (v *Val) IsConst() bool {
	return v.Kind == ValConst
}

// IsLeaf reports whether the node has no defining expression.
func (v *Val) IsLeaf() bool {
	return v.Def == NoExprID
}
