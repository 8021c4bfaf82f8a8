package kir

import "fmt"

// UnaryOpKind enumerates unary operators.
type UnaryOpKind uint8

const (
	// UnaryNeg represents arithmetic negation.
	UnaryNeg UnaryOpKind = iota
	// UnarySet represents an identity copy.
	UnarySet
	// UnaryCast represents a cast to the output node's scalar kind.
	UnaryCast
	// UnaryAbs represents absolute value.
	UnaryAbs
	// UnaryAddress represents taking a buffer address; never folded.
	UnaryAddress
)

// String returns a human-readable name for the unary operator.
func (op UnaryOpKind) String() string {
	switch op {
	case UnaryNeg:
		return "neg"
	case UnarySet:
		return "set"
	case UnaryCast:
		return "cast"
	case UnaryAbs:
		return "abs"
	case UnaryAddress:
		return "address"
	default:
		return fmt.Sprintf("UnaryOpKind(%d)", op)
	}
}

// BinaryOpKind enumerates binary operators.
type BinaryOpKind uint8

const (
	// BinaryAdd represents addition.
	BinaryAdd BinaryOpKind = iota
	// BinarySub represents subtraction.
	BinarySub
	// BinaryMul represents multiplication.
	BinaryMul
	// BinaryDiv represents division.
	BinaryDiv
	// BinaryMod represents modulo.
	BinaryMod
	// BinaryCeilDiv represents ceiling division.
	BinaryCeilDiv
	// BinaryAnd represents logical and over truthiness.
	BinaryAnd
	// BinaryMax represents the pairwise maximum.
	BinaryMax
	// BinaryMin represents the pairwise minimum.
	BinaryMin
	// BinaryShr represents a right shift; never folded.
	BinaryShr
)

// String returns a human-readable name for the binary operator.
func (op BinaryOpKind) String() string {
	switch op {
	case BinaryAdd:
		return "add"
	case BinarySub:
		return "sub"
	case BinaryMul:
		return "mul"
	case BinaryDiv:
		return "div"
	case BinaryMod:
		return "mod"
	case BinaryCeilDiv:
		return "ceilDiv"
	case BinaryAnd:
		return "and"
	case BinaryMax:
		return "max"
	case BinaryMin:
		return "min"
	case BinaryShr:
		return "shr"
	default:
		return fmt.Sprintf("BinaryOpKind(%d)", op)
	}
}

// ExprKind distinguishes expression arities.
type ExprKind uint8

const (
	// ExprUnary represents a unary expression.
	ExprUnary ExprKind = iota
	// ExprBinary represents a binary expression.
	ExprBinary
)

// Expr represents an expression producing one scalar node.
type Expr struct {
	Kind ExprKind

	Unary  UnaryExpr
	Binary BinaryExpr
}

// UnaryExpr applies a unary operator to one operand.
type UnaryExpr struct {
	Op  UnaryOpKind
	In  ValID
	Out ValID
}

// BinaryExpr applies a binary operator to two operands.
type BinaryExpr struct {
	Op  BinaryOpKind
	Lhs ValID
	Rhs ValID
	Out ValID
}

// Out returns the node produced by the expression.
func (e *Expr) Out() ValID {
	if e.Kind == ExprUnary {
		return e.Unary.Out
	}
	return e.Binary.Out
}
