package eval

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"fusor/internal/kir"
)

// Current schema version - increment when snapshotPayload format changes
const snapshotSchemaVersion uint16 = 2

// snapshotPayload is the on-disk form of an evaluated table. The graph
// fingerprint (a structural digest of the arena) guards against
// applying a snapshot to a different graph.
type snapshotPayload struct {
	Schema      uint16
	NumVals     int
	NumExprs    int
	Fingerprint []byte
	Ready       bool

	Defined []bool
	DTypes  []uint8
	Ints    []int64
	Doubles []float64

	Extents map[uint8]int64
}

// SaveSnapshot persists the table so resolved launch parameters can be
// reused across launch attempts for the same graph.
func (pv *PrecomputedValues) SaveSnapshot(path string) error {
	fingerprint := pv.graph.Fingerprint()
	payload := snapshotPayload{
		Schema:      snapshotSchemaVersion,
		NumVals:     pv.graph.NumVals(),
		NumExprs:    pv.graph.NumExprs(),
		Fingerprint: fingerprint[:],
		Ready:       pv.ready,
		Defined:     pv.defined[1:],
		DTypes:      make([]uint8, 0, len(pv.values)-1),
		Ints:        make([]int64, 0, len(pv.values)-1),
		Doubles:     make([]float64, 0, len(pv.values)-1),
		Extents:     make(map[uint8]int64, len(pv.extents)),
	}
	for _, v := range pv.values[1:] {
		payload.DTypes = append(payload.DTypes, uint8(v.DType))
		payload.Ints = append(payload.Ints, v.Int)
		payload.Doubles = append(payload.Doubles, v.Double)
	}
	for pt, extent := range pv.extents {
		payload.Extents[uint8(pt)] = extent
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// LoadSnapshot restores a table previously saved for the same graph.
// A snapshot from another graph or schema is rejected, not misapplied.
func (pv *PrecomputedValues) LoadSnapshot(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var payload snapshotPayload
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&payload); err != nil {
		return fmt.Errorf("eval: decode snapshot %s: %w", path, err)
	}
	if payload.Schema != snapshotSchemaVersion {
		return fmt.Errorf("eval: snapshot %s has schema %d, want %d", path, payload.Schema, snapshotSchemaVersion)
	}
	if payload.NumVals != pv.graph.NumVals() || payload.NumExprs != pv.graph.NumExprs() {
		return fmt.Errorf("eval: snapshot %s does not match graph (vals %d/%d, exprs %d/%d)",
			path, payload.NumVals, pv.graph.NumVals(), payload.NumExprs, pv.graph.NumExprs())
	}
	fingerprint := pv.graph.Fingerprint()
	if !bytes.Equal(payload.Fingerprint, fingerprint[:]) {
		return fmt.Errorf("eval: snapshot %s was taken from a structurally different graph", path)
	}
	if len(payload.Defined) != payload.NumVals || len(payload.DTypes) != payload.NumVals ||
		len(payload.Ints) != payload.NumVals || len(payload.Doubles) != payload.NumVals {
		return fmt.Errorf("eval: snapshot %s is truncated", path)
	}

	for i := range payload.Defined {
		pv.defined[i+1] = payload.Defined[i]
		pv.values[i+1] = Scalar{
			DType:  kir.DType(payload.DTypes[i]),
			Int:    payload.Ints[i],
			Double: payload.Doubles[i],
		}
	}
	pv.extents = make(map[kir.ParallelType]int64, len(payload.Extents))
	for pt, extent := range payload.Extents {
		pv.extents[kir.ParallelType(pt)] = extent
	}
	pv.ready = payload.Ready
	return nil
}
