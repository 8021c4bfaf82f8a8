package eval

import (
	"fmt"
	"io"

	"fusor/internal/kir"
)

// PrecomputedValues is a dense table of resolved values for every node
// of one graph, filled by a single ahead-of-time evaluation pass so
// later queries bypass the recursive evaluator.
//
// Bindings are staged first; Evaluate folds every expression in arena
// order and flips the table to ready. Binding anything after that
// clears readiness until the next Evaluate.
type PrecomputedValues struct {
	graph   *kir.Graph
	values  []Scalar
	defined []bool
	extents map[kir.ParallelType]int64
	ready   bool
}

// NewPrecomputedValues constructs an empty table for a graph.
func NewPrecomputedValues(g *kir.Graph) *PrecomputedValues {
	return &PrecomputedValues{
		graph:   g,
		values:  make([]Scalar, g.NumVals()+1),
		defined: make([]bool, g.NumVals()+1),
		extents: make(map[kir.ParallelType]int64, 6),
	}
}

// Ready reports whether the table has been evaluated and may answer
// queries.
func (pv *PrecomputedValues) Ready() bool { return pv.ready }

// GetMaybeValueFor returns the table's value for a node, if defined.
func (pv *PrecomputedValues) GetMaybeValueFor(id kir.ValID) (Scalar, bool) {
	if int(id) >= len(pv.defined) || !pv.defined[id] {
		return Scalar{}, false
	}
	return pv.values[id], true
}

// BindValue stages a concrete value for a free leaf node. The same
// contract as ExpressionEvaluator.Bind applies.
func (pv *PrecomputedValues) BindValue(id kir.ValID, value Scalar) {
	v := pv.graph.Val(id)
	if v.IsConst() {
		panic(fmt.Errorf("eval: tried to bind to constant %s", pv.graph.InlineString(id)))
	}
	if !v.IsLeaf() {
		panic(fmt.Errorf("eval: tried to bind to computed node %s with %s", pv.graph.InlineString(id), value))
	}
	if value.DType != v.DType {
		panic(fmt.Errorf("eval: bound %s value to %s node v%d", value.DType, v.DType, id))
	}
	pv.values[id] = value
	pv.defined[id] = true
	pv.ready = false
}

// BindConcreteParallelTypeValue stages a concrete extent for a
// thread/block dimension.
func (pv *PrecomputedValues) BindConcreteParallelTypeValue(pt kir.ParallelType, extent int64) {
	if !pt.IsThreadDim() {
		panic(fmt.Errorf("eval: %s is not a thread dimension", pt))
	}
	pv.extents[pt] = extent
	pv.ready = false
}

// Evaluate folds the whole graph from the staged bindings and marks the
// table ready. Nodes that remain unresolvable stay undefined.
func (pv *PrecomputedValues) Evaluate() {
	ev := NewExpressionEvaluator(pv.graph, nil)
	for pt, extent := range pv.extents {
		ev.knownNamed[pt.ExtentName()] = MakeInt(extent)
	}
	for i := 1; i <= pv.graph.NumVals(); i++ {
		id := kir.ValID(i)
		v := pv.graph.Val(id)
		if pv.defined[id] && v.IsLeaf() && !v.IsConst() {
			if v.Kind == kir.ValNamed {
				ev.knownNamed[v.Name] = pv.values[id]
			} else {
				ev.known[id] = pv.values[id]
			}
		}
	}
	for i := 1; i <= pv.graph.NumVals(); i++ {
		id := kir.ValID(i)
		if s, ok := ev.Evaluate(id); ok {
			pv.values[id] = s
			pv.defined[id] = true
		}
	}
	pv.ready = true
}

// Print writes a plain-text rendering of the table for debugging.
func (pv *PrecomputedValues) Print(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Precomputed values (ready=%v)\n", pv.ready); err != nil {
		return err
	}
	for _, e := range pv.DumpEntries() {
		if _, err := fmt.Fprintf(w, "  %s = %s ; %s\n", e.Key, e.Value, e.DType); err != nil {
			return err
		}
	}
	return nil
}

// DumpEntries lists every defined table entry in node order.
func (pv *PrecomputedValues) DumpEntries() []DumpEntry {
	entries := make([]DumpEntry, 0, len(pv.values))
	for i := 1; i < len(pv.values); i++ {
		if !pv.defined[i] {
			continue
		}
		id := kir.ValID(i)
		entries = append(entries, DumpEntry{
			Key:   pv.graph.InlineString(id),
			Value: pv.values[id],
			DType: pv.graph.Val(id).DType,
		})
	}
	return entries
}
