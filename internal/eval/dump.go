package eval

import (
	"fmt"
	"io"
	"slices"

	"fusor/internal/kir"
)

// DumpEntry is one resolved binding in a context dump.
type DumpEntry struct {
	Key   string
	Value Scalar
	DType kir.DType
}

// ContextDump is a structured snapshot of the evaluation context.
// Rendering is the caller's concern.
type ContextDump struct {
	Known            []DumpEntry
	Named            []DumpEntry
	Precomputed      []DumpEntry
	PrecomputedReady bool
}

// DumpContext collects every identity-bound and name-bound entry plus
// the precomputed table's entries, in deterministic order.
func (ev *ExpressionEvaluator) DumpContext() ContextDump {
	var d ContextDump

	ids := make([]kir.ValID, 0, len(ev.known))
	for id := range ev.known {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		d.Known = append(d.Known, DumpEntry{
			Key:   ev.graph.InlineString(id),
			Value: ev.known[id],
			DType: ev.graph.Val(id).DType,
		})
	}

	names := make([]string, 0, len(ev.knownNamed))
	for name := range ev.knownNamed {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		s := ev.knownNamed[name]
		d.Named = append(d.Named, DumpEntry{Key: name, Value: s, DType: s.DType})
	}

	if ev.precomputed != nil {
		d.Precomputed = ev.precomputed.DumpEntries()
		d.PrecomputedReady = ev.precomputed.Ready()
	}
	return d
}

// Print writes a plain-text rendering of the dump for debugging.
func (d ContextDump) Print(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Evaluation context\n"); err != nil {
		return err
	}
	for _, e := range d.Known {
		if _, err := fmt.Fprintf(w, "  %s = %s ; %s\n", e.Key, e.Value, e.DType); err != nil {
			return err
		}
	}
	for _, e := range d.Named {
		if _, err := fmt.Fprintf(w, "  %s = %s ;\n", e.Key, e.Value); err != nil {
			return err
		}
	}
	if d.Precomputed != nil || d.PrecomputedReady {
		if _, err := fmt.Fprintf(w, "Precomputed values (ready=%v)\n", d.PrecomputedReady); err != nil {
			return err
		}
		for _, e := range d.Precomputed {
			if _, err := fmt.Fprintf(w, "  %s = %s ; %s\n", e.Key, e.Value, e.DType); err != nil {
				return err
			}
		}
	}
	return nil
}
