package eval

import (
	"fmt"

	"fusor/internal/kir"
)

// fold computes an expression's output from its operands and memoizes
// it. An unresolved operand is the normal "not yet known" state: the
// fold silently produces nothing, before any operator validity checks.
func (ev *ExpressionEvaluator) fold(e *kir.Expr) {
	switch e.Kind {
	case kir.ExprUnary:
		ev.foldUnary(&e.Unary)
	case kir.ExprBinary:
		ev.foldBinary(&e.Binary)
	default:
		panic(fmt.Errorf("eval: unexpected expression kind %d", e.Kind))
	}
}

func (ev *ExpressionEvaluator) foldUnary(u *kir.UnaryExpr) {
	in, ok := ev.Evaluate(u.In)
	if !ok {
		return
	}
	switch u.Op {
	case kir.UnaryNeg:
		ev.known[u.Out] = in.Neg()
	case kir.UnarySet:
		ev.known[u.Out] = in
	case kir.UnaryCast:
		out := ev.graph.Val(u.Out)
		if !out.DType.IsScalar() {
			panic(fmt.Errorf("eval: kind %s not supported in evaluator cast", out.DType))
		}
		ev.known[u.Out] = in.Cast(out.DType)
	case kir.UnaryAbs:
		ev.known[u.Out] = in.Abs()
	default:
		panic(fmt.Errorf("eval: unexpected operator %s in %s", u.Op, ev.graph.InlineString(u.Out)))
	}
}

func (ev *ExpressionEvaluator) foldBinary(b *kir.BinaryExpr) {
	lhs, lok := ev.Evaluate(b.Lhs)
	rhs, rok := ev.Evaluate(b.Rhs)
	if !lok || !rok {
		return
	}
	switch b.Op {
	case kir.BinaryAdd:
		ev.known[b.Out] = lhs.Add(rhs)
	case kir.BinarySub:
		ev.known[b.Out] = lhs.Sub(rhs)
	case kir.BinaryMul:
		ev.known[b.Out] = lhs.Mul(rhs)
	case kir.BinaryDiv:
		ev.checkNonZero(rhs, b)
		ev.known[b.Out] = lhs.Div(rhs)
	case kir.BinaryMod:
		ev.checkNonZero(rhs, b)
		ev.known[b.Out] = lhs.Mod(rhs)
	case kir.BinaryCeilDiv:
		ev.checkNonZero(rhs, b)
		ev.known[b.Out] = lhs.CeilDiv(rhs)
	case kir.BinaryAnd:
		ev.known[b.Out] = lhs.And(rhs)
	case kir.BinaryMax:
		ev.known[b.Out] = lhs.Max(rhs)
	case kir.BinaryMin:
		ev.known[b.Out] = lhs.Min(rhs)
	default:
		panic(fmt.Errorf("eval: unexpected operator %s in %s", b.Op, ev.graph.InlineString(b.Out)))
	}
}

func (ev *ExpressionEvaluator) checkNonZero(rhs Scalar, b *kir.BinaryExpr) {
	if rhs.IsZero() {
		panic(fmt.Errorf("eval: %s by zero in %s", b.Op, ev.graph.InlineString(b.Out)))
	}
}
