package kir

import (
	"fmt"

	"fortio.org/safecast"
)

// Graph is an arena of scalar nodes and the expressions connecting them.
//
// Nodes and expressions are append-only; an expression's operands must
// already exist when it is created, so arena order is a topological order
// of the dataflow and cycles are unrepresentable.
type Graph struct {
	vals  []Val
	exprs []Expr
}

// NewGraph constructs an empty scalar graph.
func NewGraph() *Graph {
	g := &Graph{
		vals:  make([]Val, 1, 16), // reserve 0 as invalid sentinel
		exprs: make([]Expr, 1, 16),
	}
	return g
}

// NumVals returns the number of nodes in the graph.
func (g *Graph) NumVals() int { return len(g.vals) - 1 }

// NumExprs returns the number of expressions in the graph.
func (g *Graph) NumExprs() int { return len(g.exprs) - 1 }

// Val returns the node for an id. Panics on an invalid id.
func (g *Graph) Val(id ValID) *Val {
	if id == NoValID || int(id) >= len(g.vals) {
		panic(fmt.Errorf("kir: val id %d out of range", id))
	}
	return &g.vals[id]
}

// Expr returns the expression for an id. Panics on an invalid id.
func (g *Graph) Expr(id ExprID) *Expr {
	if id == NoExprID || int(id) >= len(g.exprs) {
		panic(fmt.Errorf("kir: expr id %d out of range", id))
	}
	return &g.exprs[id]
}

// Exprs iterates expressions in arena (topological) order.
func (g *Graph) Exprs(fn func(ExprID, *Expr)) {
	for i := 1; i < len(g.exprs); i++ {
		id, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("kir: expr id overflow: %w", err))
		}
		fn(ExprID(id), &g.exprs[i])
	}
}

func (g *Graph) addVal(v Val) ValID {
	g.vals = append(g.vals, v)
	slot, err := safecast.Conv[uint32](len(g.vals) - 1)
	if err != nil {
		panic(fmt.Errorf("kir: val id overflow: %w", err))
	}
	id := ValID(slot)
	g.vals[id].ID = id
	return id
}

func (g *Graph) addExpr(e Expr) ExprID {
	g.exprs = append(g.exprs, e)
	slot, err := safecast.Conv[uint32](len(g.exprs) - 1)
	if err != nil {
		panic(fmt.Errorf("kir: expr id overflow: %w", err))
	}
	return ExprID(slot)
}

// NewScalar creates a free leaf node of the given kind.
func (g *Graph) NewScalar(dt DType) ValID {
	if !dt.IsScalar() {
		panic(fmt.Errorf("kir: cannot create scalar of kind %s", dt))
	}
	return g.addVal(Val{DType: dt, Kind: ValScalar})
}

// NewIntConst creates an integer constant leaf.
func (g *Graph) NewIntConst(v int64) ValID {
	return g.addVal(Val{DType: DTypeInt, Kind: ValConst, IntVal: v})
}

// NewDoubleConst creates a double constant leaf.
func (g *Graph) NewDoubleConst(v float64) ValID {
	return g.addVal(Val{DType: DTypeDouble, Kind: ValConst, DoubleVal: v})
}

// NewNamedScalar creates a named symbol leaf.
func (g *Graph) NewNamedScalar(name string, dt DType) ValID {
	if !dt.IsScalar() {
		panic(fmt.Errorf("kir: cannot create named scalar %q of kind %s", name, dt))
	}
	if name == "" {
		panic(fmt.Errorf("kir: named scalar requires a name"))
	}
	return g.addVal(Val{DType: dt, Kind: ValNamed, Name: name})
}

// ThreadExtent creates the named scalar for a thread/block dimension
// extent (e.g. blockDim.x for TIDx).
func (g *Graph) ThreadExtent(pt ParallelType) ValID {
	if !pt.IsThreadDim() {
		panic(fmt.Errorf("kir: %s is not a thread dimension", pt))
	}
	return g.NewNamedScalar(pt.ExtentName(), DTypeInt)
}

// promote returns the output kind of a binary arithmetic expression.
func (g *Graph) promote(lhs, rhs ValID) DType {
	if g.Val(lhs).DType == DTypeDouble || g.Val(rhs).DType == DTypeDouble {
		return DTypeDouble
	}
	return DTypeInt
}

func (g *Graph) newUnary(op UnaryOpKind, in ValID, outDT DType) ValID {
	g.Val(in) // range check
	out := g.addVal(Val{DType: outDT, Kind: ValScalar})
	def := g.addExpr(Expr{Kind: ExprUnary, Unary: UnaryExpr{Op: op, In: in, Out: out}})
	g.vals[out].Def = def
	return out
}

func (g *Graph) newBinary(op BinaryOpKind, lhs, rhs ValID, outDT DType) ValID {
	g.Val(lhs)
	g.Val(rhs)
	out := g.addVal(Val{DType: outDT, Kind: ValScalar})
	def := g.addExpr(Expr{Kind: ExprBinary, Binary: BinaryExpr{Op: op, Lhs: lhs, Rhs: rhs, Out: out}})
	g.vals[out].Def = def
	return out
}

// Neg creates the negation of a node.
func (g *Graph) Neg(in ValID) ValID {
	return g.newUnary(UnaryNeg, in, g.Val(in).DType)
}

// Set creates an identity copy of a node.
func (g *Graph) Set(in ValID) ValID {
	return g.newUnary(UnarySet, in, g.Val(in).DType)
}

// Cast creates a cast of a node to the given scalar kind.
func (g *Graph) Cast(in ValID, dt DType) ValID {
	if !dt.IsScalar() {
		panic(fmt.Errorf("kir: cannot cast to kind %s", dt))
	}
	return g.newUnary(UnaryCast, in, dt)
}

// Abs creates the absolute value of a node.
func (g *Graph) Abs(in ValID) ValID {
	return g.newUnary(UnaryAbs, in, g.Val(in).DType)
}

// Add creates the sum of two nodes.
func (g *Graph) Add(lhs, rhs ValID) ValID {
	return g.newBinary(BinaryAdd, lhs, rhs, g.promote(lhs, rhs))
}

// Sub creates the difference of two nodes.
func (g *Graph) Sub(lhs, rhs ValID) ValID {
	return g.newBinary(BinarySub, lhs, rhs, g.promote(lhs, rhs))
}

// Mul creates the product of two nodes.
func (g *Graph) Mul(lhs, rhs ValID) ValID {
	return g.newBinary(BinaryMul, lhs, rhs, g.promote(lhs, rhs))
}

// Div creates the quotient of two nodes.
func (g *Graph) Div(lhs, rhs ValID) ValID {
	return g.newBinary(BinaryDiv, lhs, rhs, g.promote(lhs, rhs))
}

// Mod creates the remainder of two integer nodes.
func (g *Graph) Mod(lhs, rhs ValID) ValID {
	if g.promote(lhs, rhs) != DTypeInt {
		panic(fmt.Errorf("kir: mod requires integer operands"))
	}
	return g.newBinary(BinaryMod, lhs, rhs, DTypeInt)
}

// CeilDiv creates the ceiling quotient of two nodes.
func (g *Graph) CeilDiv(lhs, rhs ValID) ValID {
	return g.newBinary(BinaryCeilDiv, lhs, rhs, g.promote(lhs, rhs))
}

// And creates the logical conjunction of two nodes' truthiness.
func (g *Graph) And(lhs, rhs ValID) ValID {
	return g.newBinary(BinaryAnd, lhs, rhs, DTypeInt)
}

// Max creates the pairwise maximum of two nodes.
func (g *Graph) Max(lhs, rhs ValID) ValID {
	return g.newBinary(BinaryMax, lhs, rhs, g.promote(lhs, rhs))
}

// Min creates the pairwise minimum of two nodes.
func (g *Graph) Min(lhs, rhs ValID) ValID {
	return g.newBinary(BinaryMin, lhs, rhs, g.promote(lhs, rhs))
}
