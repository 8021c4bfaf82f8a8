package eval

import (
	"fmt"

	"fusor/internal/kir"
)

// ExpressionEvaluator resolves concrete values for scalar nodes of one
// graph. It is created once per evaluation session (one kernel-launch
// attempt), populated by Bind calls, and discarded at session end.
//
// Not safe for concurrent use; callers serialize binds and evaluations
// per instance or use one instance per goroutine.
type ExpressionEvaluator struct {
	graph      *kir.Graph
	known      map[kir.ValID]Scalar
	knownNamed map[string]Scalar

	// precomputed is an optional fast path the evaluator does not own.
	precomputed *PrecomputedValues
}

// NewExpressionEvaluator constructs an evaluator for a graph. The
// precomputed table is optional; pass nil when there is none.
func NewExpressionEvaluator(g *kir.Graph, precomputed *PrecomputedValues) *ExpressionEvaluator {
	return &ExpressionEvaluator{
		graph:       g,
		known:       make(map[kir.ValID]Scalar, 16),
		knownNamed:  make(map[string]Scalar, 8),
		precomputed: precomputed,
	}
}

// Bind associates a concrete value with a free leaf node. Binding a
// constant, a computed node, or a value whose kind disagrees with the
// node's declared kind is a caller bug and panics.
func (ev *ExpressionEvaluator) Bind(id kir.ValID, value Scalar) {
	v := ev.graph.Val(id)
	if !v.DType.IsScalar() {
		panic(fmt.Errorf("eval: cannot bind v%d of kind %s", id, v.DType))
	}
	if v.IsConst() {
		panic(fmt.Errorf("eval: tried to bind to constant %s", ev.graph.InlineString(id)))
	}
	if !v.IsLeaf() {
		panic(fmt.Errorf("eval: tried to bind to computed node %s with %s", ev.graph.InlineString(id), value))
	}
	if value.DType != v.DType {
		panic(fmt.Errorf("eval: bound %s value to %s node v%d", value.DType, v.DType, id))
	}
	ev.known[id] = value
}

// BindParallelDim associates a concrete extent with a thread/block
// dimension. When a precomputed table is attached the binding is
// forwarded to it; otherwise it is recorded under the dimension's
// canonical extent name.
func (ev *ExpressionEvaluator) BindParallelDim(pt kir.ParallelType, extent int64) {
	if !pt.IsThreadDim() {
		panic(fmt.Errorf("eval: %s is not a thread dimension", pt))
	}
	if ev.precomputed != nil {
		ev.precomputed.BindConcreteParallelTypeValue(pt, extent)
		return
	}
	ev.knownNamed[pt.ExtentName()] = MakeInt(extent)
}

// Evaluate returns the concrete value of a node, or false when the node
// is unbound and not computable from currently known values.
func (ev *ExpressionEvaluator) Evaluate(id kir.ValID) (Scalar, bool) {
	if ev.precomputed != nil && ev.precomputed.Ready() {
		if s, ok := ev.precomputed.GetMaybeValueFor(id); ok {
			return s, true
		}
	}

	s, ok := ev.getValue(id)
	if !ok {
		v := ev.graph.Val(id)
		if !v.IsLeaf() {
			ev.fold(ev.graph.Expr(v.Def))
			s, ok = ev.getValue(id)
		}
	}
	return s, ok
}

// getValue resolves a node without folding: constants answer directly,
// named symbols consult the name table, everything else the identity
// table.
func (ev *ExpressionEvaluator) getValue(id kir.ValID) (Scalar, bool) {
	v := ev.graph.Val(id)
	if !v.DType.IsScalar() {
		panic(fmt.Errorf("eval: v%d of kind %s is not supported in expression evaluation", id, v.DType))
	}

	if v.IsConst() {
		if v.DType == kir.DTypeDouble {
			return MakeDouble(v.DoubleVal), true
		}
		return MakeInt(v.IntVal), true
	}

	if v.Kind == kir.ValNamed {
		if s, ok := ev.knownNamed[v.Name]; ok {
			return s, true
		}
	}

	s, ok := ev.known[id]
	return s, ok
}
