package eval

import (
	"testing"

	"fusor/internal/kir"
)

func TestScalarArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Scalar
		want Scalar
	}{
		{"add_int", MakeInt(6).Add(MakeInt(4)), MakeInt(10)},
		{"add_mixed_promotes", MakeInt(1).Add(MakeDouble(0.5)), MakeDouble(1.5)},
		{"sub_int", MakeInt(3).Sub(MakeInt(5)), MakeInt(-2)},
		{"mul_double", MakeDouble(1.5).Mul(MakeInt(4)), MakeDouble(6)},
		{"div_int_truncates", MakeInt(7).Div(MakeInt(2)), MakeInt(3)},
		{"div_double", MakeInt(7).Div(MakeDouble(2)), MakeDouble(3.5)},
		{"mod_int", MakeInt(10).Mod(MakeInt(4)), MakeInt(2)},
		{"ceildiv_exact", MakeInt(8).CeilDiv(MakeInt(4)), MakeInt(2)},
		{"ceildiv_rounds_up", MakeInt(10).CeilDiv(MakeInt(4)), MakeInt(3)},
		{"ceildiv_double", MakeDouble(10).CeilDiv(MakeInt(4)), MakeDouble(3)},
		{"neg", MakeInt(5).Neg(), MakeInt(-5)},
		{"abs_negative", MakeInt(-5).Abs(), MakeInt(5)},
		{"abs_double", MakeDouble(-2.5).Abs(), MakeDouble(2.5)},
		{"and_true", MakeInt(3).And(MakeDouble(0.5)), MakeInt(1)},
		{"and_false", MakeInt(3).And(MakeInt(0)), MakeInt(0)},
		{"max_int", MakeInt(3).Max(MakeInt(8)), MakeInt(8)},
		{"min_mixed", MakeInt(3).Min(MakeDouble(2.5)), MakeDouble(2.5)},
		{"cast_truncates", MakeDouble(2.9).Cast(kir.DTypeInt), MakeInt(2)},
		{"cast_widens", MakeInt(2).Cast(kir.DTypeDouble), MakeDouble(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(tt.want) {
				t.Fatalf("got %s (%s), want %s (%s)", tt.got, tt.got.DType, tt.want, tt.want.DType)
			}
		})
	}
}

func TestScalarZeroAndTruthiness(t *testing.T) {
	if !MakeInt(0).IsZero() || !MakeDouble(0).IsZero() {
		t.Fatalf("zero values must report IsZero")
	}
	if MakeInt(-1).IsZero() || MakeDouble(0.1).IsZero() {
		t.Fatalf("nonzero values must not report IsZero")
	}
	if MakeInt(0).Bool() || !MakeDouble(0.5).Bool() {
		t.Fatalf("truthiness follows nonzero")
	}
}

func TestScalarContractPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"div_by_int_zero", func() { MakeInt(1).Div(MakeInt(0)) }},
		{"mod_by_zero", func() { MakeInt(1).Mod(MakeInt(0)) }},
		{"mod_double_operand", func() { MakeDouble(1).Mod(MakeInt(2)) }},
		{"ceildiv_by_int_zero", func() { MakeInt(1).CeilDiv(MakeInt(0)) }},
		{"cast_invalid_kind", func() { MakeInt(1).Cast(kir.DTypeInvalid) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			tt.fn()
		})
	}
}
