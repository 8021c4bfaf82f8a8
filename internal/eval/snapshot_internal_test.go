package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"fusor/internal/kir"
)

// A snapshot whose value columns are shorter than NumVals must be
// rejected as truncated, not indexed past their length.
func TestLoadSnapshotRejectsTruncatedColumns(t *testing.T) {
	g := kir.NewGraph()
	a := g.NewScalar(kir.DTypeInt)
	b := g.NewScalar(kir.DTypeInt)
	g.Add(a, b)

	fingerprint := g.Fingerprint()
	payload := snapshotPayload{
		Schema:      snapshotSchemaVersion,
		NumVals:     g.NumVals(),
		NumExprs:    g.NumExprs(),
		Fingerprint: fingerprint[:],
		Ready:       true,
		Defined:     []bool{true, true, true},
		DTypes:      []uint8{uint8(kir.DTypeInt), uint8(kir.DTypeInt), uint8(kir.DTypeInt)},
		Ints:        []int64{6}, // short: two columns missing
		Doubles:     []float64{0, 0, 0},
	}
	data, err := msgpack.Marshal(&payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	path := filepath.Join(t.TempDir(), "truncated.mp")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	pv := NewPrecomputedValues(g)
	if err := pv.LoadSnapshot(path); err == nil {
		t.Fatalf("truncated snapshot must be rejected")
	}
	if pv.Ready() {
		t.Fatalf("rejected snapshot must not mark the table ready")
	}
}
