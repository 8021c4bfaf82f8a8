package kir

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// Fingerprint digests the arena's structure: node kinds, scalar kinds,
// names, constant payloads, and every expression's operator and
// operands. Two graphs share a fingerprint only when they are
// structurally identical, node for node.
func (g *Graph) Fingerprint() [sha256.Size]byte {
	h := sha256.New()
	var buf [8]byte
	u64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	u64(uint64(len(g.vals)))
	for i := 1; i < len(g.vals); i++ {
		v := &g.vals[i]
		u64(uint64(v.DType)<<8 | uint64(v.Kind))
		u64(uint64(v.IntVal))
		u64(math.Float64bits(v.DoubleVal))
		u64(uint64(v.Def))
		h.Write([]byte(v.Name))
		h.Write([]byte{0})
	}

	u64(uint64(len(g.exprs)))
	for i := 1; i < len(g.exprs); i++ {
		e := &g.exprs[i]
		u64(uint64(e.Kind))
		switch e.Kind {
		case ExprUnary:
			u64(uint64(e.Unary.Op))
			u64(uint64(e.Unary.In))
			u64(uint64(e.Unary.Out))
		default:
			u64(uint64(e.Binary.Op))
			u64(uint64(e.Binary.Lhs))
			u64(uint64(e.Binary.Rhs))
			u64(uint64(e.Binary.Out))
		}
	}

	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
