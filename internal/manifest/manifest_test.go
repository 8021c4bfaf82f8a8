package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"fusor/internal/eval"
	"fusor/internal/kir"
	"fusor/internal/manifest"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

const launchManifest = `
targets = ["c", "d"]

[graph]
name = "launch_bounds"

[[scalar]]
name = "a"

[[scalar]]
name = "b"

[[op]]
out = "c"
op = "add"
lhs = "a"
rhs = "b"

[[op]]
out = "d"
op = "ceildiv"
lhs = "c"
rhs = "b"

[bindings]
a = 6
b = 4

[parallel]
TIDx = 128
`

func TestLoadAndEvaluate(t *testing.T) {
	prog, err := manifest.Load(writeManifest(t, launchManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if prog.Name != "launch_bounds" {
		t.Fatalf("name = %q", prog.Name)
	}
	if len(prog.Targets) != 2 {
		t.Fatalf("targets = %v", prog.Targets)
	}
	if prog.Parallel[kir.ParallelTIDx] != 128 {
		t.Fatalf("parallel = %v", prog.Parallel)
	}

	ev := prog.NewEvaluator(nil)
	if s, ok := ev.Evaluate(prog.Vals["c"]); !ok || !s.Equal(eval.MakeInt(10)) {
		t.Fatalf("c = %v, %v, want 10", s, ok)
	}
	if s, ok := ev.Evaluate(prog.Vals["d"]); !ok || !s.Equal(eval.MakeInt(3)) {
		t.Fatalf("d = %v, %v, want 3", s, ok)
	}
}

func TestLoadUnaryAndNamed(t *testing.T) {
	body := `
targets = ["rounded"]

[[named]]
name = "bdimx"
symbol = "blockDim.x"

[[const]]
name = "half"
double = 0.5

[[op]]
out = "scaled"
op = "mul"
lhs = "bdimx"
rhs = "half"

[[op]]
out = "rounded"
op = "cast"
in = "scaled"
dtype = "int"

[parallel]
tidx = 31
`
	prog, err := manifest.Load(writeManifest(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ev := prog.NewEvaluator(nil)
	if s, ok := ev.Evaluate(prog.Vals["rounded"]); !ok || !s.Equal(eval.MakeInt(15)) {
		t.Fatalf("rounded = %v, %v, want int(31*0.5)=15", s, ok)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"duplicate_name", `
[[scalar]]
name = "a"

[[scalar]]
name = "a"
`},
		{"unknown_operator", `
[[scalar]]
name = "a"

[[op]]
out = "b"
op = "xor"
lhs = "a"
rhs = "a"
`},
		{"unknown_operand", `
[[op]]
out = "b"
op = "neg"
in = "ghost"
`},
		{"unknown_target", `
targets = ["missing"]

[[scalar]]
name = "a"
`},
		{"binding_unknown_node", `
[bindings]
ghost = 1
`},
		{"binding_constant", `
[[const]]
name = "two"
int = 2

[bindings]
two = 3
`},
		{"float_binding_for_int_node", `
[[scalar]]
name = "a"

[bindings]
a = 1.5
`},
		{"const_without_value", `
[[const]]
name = "empty"
`},
		{"unknown_parallel_dim", `
[parallel]
warp = 32
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manifest.Load(writeManifest(t, tt.body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestBindingOrderIsDeterministic(t *testing.T) {
	body := `
[[scalar]]
name = "z"

[[scalar]]
name = "m"

[[scalar]]
name = "a"

[bindings]
z = 1
m = 2
a = 3
`
	prog, err := manifest.Load(writeManifest(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"a", "m", "z"}
	if len(prog.Bindings) != len(want) {
		t.Fatalf("bindings = %d, want %d", len(prog.Bindings), len(want))
	}
	for i, b := range prog.Bindings {
		if b.Name != want[i] {
			t.Fatalf("bindings[%d] = %q, want %q", i, b.Name, want[i])
		}
	}
}

func TestNewEvaluatorWithPrecomputed(t *testing.T) {
	prog, err := manifest.Load(writeManifest(t, launchManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := eval.NewPrecomputedValues(prog.Graph)
	ev := prog.NewEvaluator(pv)
	for _, b := range prog.Bindings {
		pv.BindValue(b.ID, b.Value)
	}
	pv.Evaluate()

	if s, ok := ev.Evaluate(prog.Vals["d"]); !ok || !s.Equal(eval.MakeInt(3)) {
		t.Fatalf("d = %v, %v via precomputed table", s, ok)
	}
}
