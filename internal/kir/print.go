package kir

import (
	"fmt"
	"io"
	"strconv"
)

// InlineString renders a node as a compact expression for diagnostics.
// Computed nodes render their defining expression one level deep.
func (g *Graph) InlineString(id ValID) string {
	v := g.Val(id)
	switch v.Kind {
	case ValConst:
		if v.DType == DTypeDouble {
			return strconv.FormatFloat(v.DoubleVal, 'g', -1, 64)
		}
		return strconv.FormatInt(v.IntVal, 10)
	case ValNamed:
		return v.Name
	default:
		if v.IsLeaf() {
			return fmt.Sprintf("v%d", id)
		}
		e := g.Expr(v.Def)
		if e.Kind == ExprUnary {
			return fmt.Sprintf("%s(v%d)", e.Unary.Op, e.Unary.In)
		}
		return fmt.Sprintf("%s(v%d, v%d)", e.Binary.Op, e.Binary.Lhs, e.Binary.Rhs)
	}
}

// DumpGraph writes a human-readable listing of every node and expression.
func DumpGraph(w io.Writer, g *Graph) error {
	if w == nil || g == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "vals=%d exprs=%d\n", g.NumVals(), g.NumExprs()); err != nil {
		return err
	}
	for i := 1; i < len(g.vals); i++ {
		v := &g.vals[i]
		def := ""
		if !v.IsLeaf() {
			def = " := " + g.InlineString(v.ID)
		}
		name := ""
		if v.Kind == ValNamed {
			name = " name=" + v.Name
		}
		if _, err := fmt.Fprintf(w, "  v%d: %s %s%s%s\n", i, v.DType, v.Kind, name, def); err != nil {
			return err
		}
	}
	return nil
}
