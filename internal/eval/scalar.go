// Package eval implements demand-driven evaluation of kernel IR scalar
// expressions: a memoizing evaluator over a kir.Graph, an optional
// precomputed fast-path value table, and the concrete Scalar value type.
package eval

import (
	"fmt"
	"math"
	"strconv"

	"fusor/internal/kir"
)

// Scalar is a concrete runtime value: either a 64-bit signed integer or
// a double-precision float, tagged by its kir.DType.
type Scalar struct {
	DType  kir.DType
	Int    int64   // For kir.DTypeInt
	Double float64 // For kir.DTypeDouble
}

// MakeInt constructs an integer scalar.
func MakeInt(v int64) Scalar {
	return Scalar{DType: kir.DTypeInt, Int: v}
}

// MakeDouble constructs a double scalar.
func MakeDouble(v float64) Scalar {
	return Scalar{DType: kir.DTypeDouble, Double: v}
}

// IsInt reports whether the scalar holds an integer.
func (s Scalar) IsInt() bool { return s.DType == kir.DTypeInt }

// IsZero reports whether the scalar compares equal to zero.
func (s Scalar) IsZero() bool {
	if s.IsInt() {
		return s.Int == 0
	}
	return s.Double == 0
}

// Bool returns the scalar's truthiness.
func (s Scalar) Bool() bool { return !s.IsZero() }

// AsDouble returns the value widened to a double.
func (s Scalar) AsDouble() float64 {
	if s.IsInt() {
		return float64(s.Int)
	}
	return s.Double
}

// Cast reinterprets the value as the given scalar kind: truncation
// toward zero for int, widening for double. Panics on any other kind.
func (s Scalar) Cast(dt kir.DType) Scalar {
	switch dt {
	case kir.DTypeInt:
		if s.IsInt() {
			return s
		}
		return MakeInt(int64(s.Double))
	case kir.DTypeDouble:
		return MakeDouble(s.AsDouble())
	default:
		panic(fmt.Errorf("eval: cast to unsupported kind %s", dt))
	}
}

// String renders the scalar for diagnostics.
func (s Scalar) String() string {
	if s.IsInt() {
		return strconv.FormatInt(s.Int, 10)
	}
	return strconv.FormatFloat(s.Double, 'g', -1, 64)
}

// bothInt reports whether both scalars are integers.
func bothInt(a, b Scalar) bool { return a.IsInt() && b.IsInt() }

// Neg returns the arithmetic negation.
func (s Scalar) Neg() Scalar {
	if s.IsInt() {
		return MakeInt(-s.Int)
	}
	return MakeDouble(-s.Double)
}

// Abs returns the magnitude.
func (s Scalar) Abs() Scalar {
	if s.IsInt() {
		if s.Int < 0 {
			return MakeInt(-s.Int)
		}
		return s
	}
	return MakeDouble(math.Abs(s.Double))
}

// Add returns the sum. A double operand promotes the result to double.
func (s Scalar) Add(o Scalar) Scalar {
	if bothInt(s, o) {
		return MakeInt(s.Int + o.Int)
	}
	return MakeDouble(s.AsDouble() + o.AsDouble())
}

// Sub returns the difference.
func (s Scalar) Sub(o Scalar) Scalar {
	if bothInt(s, o) {
		return MakeInt(s.Int - o.Int)
	}
	return MakeDouble(s.AsDouble() - o.AsDouble())
}

// Mul returns the product.
func (s Scalar) Mul(o Scalar) Scalar {
	if bothInt(s, o) {
		return MakeInt(s.Int * o.Int)
	}
	return MakeDouble(s.AsDouble() * o.AsDouble())
}

// Div returns the quotient. Integer division truncates toward zero and
// panics on a zero divisor.
func (s Scalar) Div(o Scalar) Scalar {
	if bothInt(s, o) {
		if o.Int == 0 {
			panic(fmt.Errorf("eval: integer division by zero"))
		}
		return MakeInt(s.Int / o.Int)
	}
	return MakeDouble(s.AsDouble() / o.AsDouble())
}

// Mod returns the remainder. Both operands must be integers.
func (s Scalar) Mod(o Scalar) Scalar {
	if !bothInt(s, o) {
		panic(fmt.Errorf("eval: modulo requires integer operands, got %s and %s", s.DType, o.DType))
	}
	if o.Int == 0 {
		panic(fmt.Errorf("eval: integer modulo by zero"))
	}
	return MakeInt(s.Int % o.Int)
}

// CeilDiv returns the quotient rounded toward positive infinity.
func (s Scalar) CeilDiv(o Scalar) Scalar {
	if bothInt(s, o) {
		if o.Int == 0 {
			panic(fmt.Errorf("eval: integer ceil division by zero"))
		}
		return MakeInt((s.Int + o.Int - 1) / o.Int)
	}
	return MakeDouble(math.Ceil(s.AsDouble() / o.AsDouble()))
}

// And returns the logical conjunction of both truthiness values as a
// 0/1 integer.
func (s Scalar) And(o Scalar) Scalar {
	if s.Bool() && o.Bool() {
		return MakeInt(1)
	}
	return MakeInt(0)
}

// Max returns the larger value.
func (s Scalar) Max(o Scalar) Scalar {
	if bothInt(s, o) {
		return MakeInt(max(s.Int, o.Int))
	}
	return MakeDouble(math.Max(s.AsDouble(), o.AsDouble()))
}

// Min returns the smaller value.
func (s Scalar) Min(o Scalar) Scalar {
	if bothInt(s, o) {
		return MakeInt(min(s.Int, o.Int))
	}
	return MakeDouble(math.Min(s.AsDouble(), o.AsDouble()))
}

// Equal reports value equality within the same scalar kind.
func (s Scalar) Equal(o Scalar) bool {
	if s.DType != o.DType {
		return false
	}
	if s.IsInt() {
		return s.Int == o.Int
	}
	return s.Double == o.Double
}
