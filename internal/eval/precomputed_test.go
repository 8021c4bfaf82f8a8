package eval_test

import (
	"testing"

	"fusor/internal/eval"
	"fusor/internal/kir"
)

// launchGraph builds the usual launch-parameter shape: ceilDiv of a
// bound extent by the thread-dimension extent.
func launchGraph() (*kir.Graph, kir.ValID, kir.ValID) {
	g := kir.NewGraph()
	n := g.NewScalar(kir.DTypeInt)
	bdimx := g.ThreadExtent(kir.ParallelTIDx)
	blocks := g.CeilDiv(n, bdimx)
	return g, n, blocks
}

func TestPrecomputedEvaluatePass(t *testing.T) {
	g, n, blocks := launchGraph()
	pv := eval.NewPrecomputedValues(g)

	if pv.Ready() {
		t.Fatalf("table must not be ready before Evaluate")
	}
	pv.BindValue(n, eval.MakeInt(1000))
	pv.BindConcreteParallelTypeValue(kir.ParallelTIDx, 128)
	pv.Evaluate()

	if !pv.Ready() {
		t.Fatalf("table must be ready after Evaluate")
	}
	if s, ok := pv.GetMaybeValueFor(blocks); !ok || !s.Equal(eval.MakeInt(8)) {
		t.Fatalf("blocks = %v, %v, want ceil(1000/128)=8", s, ok)
	}
}

func TestPrecomputedPartialGraphStaysUndefined(t *testing.T) {
	g, _, blocks := launchGraph()
	pv := eval.NewPrecomputedValues(g)
	pv.BindConcreteParallelTypeValue(kir.ParallelTIDx, 128)
	pv.Evaluate()

	if _, ok := pv.GetMaybeValueFor(blocks); ok {
		t.Fatalf("blocks must stay undefined while n is unbound")
	}
}

func TestPrecomputedBindingInvalidatesReady(t *testing.T) {
	g, n, _ := launchGraph()
	pv := eval.NewPrecomputedValues(g)
	pv.BindValue(n, eval.MakeInt(10))
	pv.BindConcreteParallelTypeValue(kir.ParallelTIDx, 4)
	pv.Evaluate()

	pv.BindConcreteParallelTypeValue(kir.ParallelTIDx, 8)
	if pv.Ready() {
		t.Fatalf("rebinding must clear readiness until re-evaluated")
	}
}

func TestPrecomputedFastPathAnswersFirst(t *testing.T) {
	g, n, blocks := launchGraph()
	pv := eval.NewPrecomputedValues(g)
	ev := eval.NewExpressionEvaluator(g, pv)

	// Forwarded through the evaluator because a table is attached.
	ev.BindParallelDim(kir.ParallelTIDx, 128)
	pv.BindValue(n, eval.MakeInt(1000))

	// Not ready yet: the fast path is skipped and the evaluator's own
	// tables know nothing about n.
	if _, ok := ev.Evaluate(n); ok {
		t.Fatalf("n must be absent while the table is not ready")
	}

	pv.Evaluate()
	if s, ok := ev.Evaluate(n); !ok || !s.Equal(eval.MakeInt(1000)) {
		t.Fatalf("n = %v, %v via fast path", s, ok)
	}
	if s, ok := ev.Evaluate(blocks); !ok || !s.Equal(eval.MakeInt(8)) {
		t.Fatalf("blocks = %v, %v via fast path, want 8", s, ok)
	}
}

func TestPrecomputedBindContracts(t *testing.T) {
	g := kir.NewGraph()
	konst := g.NewIntConst(2)
	computed := g.Add(konst, konst)
	pv := eval.NewPrecomputedValues(g)

	mustPanic(t, func() { pv.BindValue(konst, eval.MakeInt(1)) })
	mustPanic(t, func() { pv.BindValue(computed, eval.MakeInt(1)) })
	mustPanic(t, func() { pv.BindConcreteParallelTypeValue(kir.ParallelSerial, 1) })
}
