// Package manifest loads declarative TOML descriptions of a scalar
// graph, its bindings, and the target nodes to evaluate. It is the
// input format of the fusor CLI.
package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"fusor/internal/eval"
	"fusor/internal/kir"
)

// Config mirrors the TOML document.
type Config struct {
	Graph    GraphConfig      `toml:"graph"`
	Scalars  []ScalarConfig   `toml:"scalar"`
	Consts   []ConstConfig    `toml:"const"`
	Named    []NamedConfig    `toml:"named"`
	Ops      []OpConfig       `toml:"op"`
	Bindings map[string]any   `toml:"bindings"`
	Parallel map[string]int64 `toml:"parallel"`
	Targets  []string         `toml:"targets"`
}

// GraphConfig describes the [graph] section.
type GraphConfig struct {
	Name string `toml:"name"`
}

// ScalarConfig declares a free leaf node.
type ScalarConfig struct {
	Name  string `toml:"name"`
	DType string `toml:"dtype"`
}

// ConstConfig declares a constant leaf node.
type ConstConfig struct {
	Name   string   `toml:"name"`
	Int    *int64   `toml:"int"`
	Double *float64 `toml:"double"`
}

// NamedConfig declares a named symbol leaf node.
type NamedConfig struct {
	Name   string `toml:"name"`
	Symbol string `toml:"symbol"`
	DType  string `toml:"dtype"`
}

// OpConfig declares one expression node.
type OpConfig struct {
	Out   string `toml:"out"`
	Op    string `toml:"op"`
	Lhs   string `toml:"lhs"`
	Rhs   string `toml:"rhs"`
	In    string `toml:"in"`
	DType string `toml:"dtype"` // cast target, cast only
}

// Binding is a resolved leaf binding.
type Binding struct {
	Name  string
	ID    kir.ValID
	Value eval.Scalar
}

// Program is a built graph plus the session inputs derived from a
// manifest.
type Program struct {
	Name     string
	Graph    *kir.Graph
	Vals     map[string]kir.ValID
	Bindings []Binding
	Parallel map[kir.ParallelType]int64
	Targets  []string
}

// Load parses and builds a manifest file.
func Load(path string) (*Program, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	prog, err := Build(&cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

func parseDType(s string) (kir.DType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "int":
		return kir.DTypeInt, nil
	case "double", "float":
		return kir.DTypeDouble, nil
	default:
		return kir.DTypeInvalid, fmt.Errorf("manifest: unknown dtype %q", s)
	}
}

// Build constructs the graph and session inputs from a decoded config.
func Build(cfg *Config) (*Program, error) {
	prog := &Program{
		Name:     cfg.Graph.Name,
		Graph:    kir.NewGraph(),
		Vals:     make(map[string]kir.ValID),
		Parallel: make(map[kir.ParallelType]int64),
		Targets:  cfg.Targets,
	}

	define := func(name string, id kir.ValID) error {
		if name == "" {
			return fmt.Errorf("manifest: node without a name")
		}
		if _, dup := prog.Vals[name]; dup {
			return fmt.Errorf("manifest: duplicate node name %q", name)
		}
		prog.Vals[name] = id
		return nil
	}

	for _, sc := range cfg.Scalars {
		dt, err := parseDType(sc.DType)
		if err != nil {
			return nil, err
		}
		if err := define(sc.Name, prog.Graph.NewScalar(dt)); err != nil {
			return nil, err
		}
	}
	for _, cc := range cfg.Consts {
		var id kir.ValID
		switch {
		case cc.Int != nil && cc.Double != nil:
			return nil, fmt.Errorf("manifest: const %q has both int and double", cc.Name)
		case cc.Int != nil:
			id = prog.Graph.NewIntConst(*cc.Int)
		case cc.Double != nil:
			id = prog.Graph.NewDoubleConst(*cc.Double)
		default:
			return nil, fmt.Errorf("manifest: const %q has no value", cc.Name)
		}
		if err := define(cc.Name, id); err != nil {
			return nil, err
		}
	}
	for _, nc := range cfg.Named {
		dt, err := parseDType(nc.DType)
		if err != nil {
			return nil, err
		}
		symbol := nc.Symbol
		if symbol == "" {
			symbol = nc.Name
		}
		if err := define(nc.Name, prog.Graph.NewNamedScalar(symbol, dt)); err != nil {
			return nil, err
		}
	}

	for i := range cfg.Ops {
		if err := buildOp(prog, &cfg.Ops[i], define); err != nil {
			return nil, err
		}
	}

	if err := resolveBindings(prog, cfg.Bindings); err != nil {
		return nil, err
	}
	if err := resolveParallel(prog, cfg.Parallel); err != nil {
		return nil, err
	}

	for _, target := range cfg.Targets {
		if _, ok := prog.Vals[target]; !ok {
			return nil, fmt.Errorf("manifest: unknown target %q", target)
		}
	}
	return prog, nil
}

func buildOp(prog *Program, op *OpConfig, define func(string, kir.ValID) error) error {
	lookup := func(name string) (kir.ValID, error) {
		id, ok := prog.Vals[name]
		if !ok {
			return kir.NoValID, fmt.Errorf("manifest: op %q references unknown node %q", op.Out, name)
		}
		return id, nil
	}

	unary := func(build func(kir.ValID) kir.ValID) error {
		if op.In == "" {
			return fmt.Errorf("manifest: unary op %q requires in", op.Out)
		}
		in, err := lookup(op.In)
		if err != nil {
			return err
		}
		return define(op.Out, build(in))
	}
	binary := func(build func(kir.ValID, kir.ValID) kir.ValID) error {
		if op.Lhs == "" || op.Rhs == "" {
			return fmt.Errorf("manifest: binary op %q requires lhs and rhs", op.Out)
		}
		lhs, err := lookup(op.Lhs)
		if err != nil {
			return err
		}
		rhs, err := lookup(op.Rhs)
		if err != nil {
			return err
		}
		return define(op.Out, build(lhs, rhs))
	}

	g := prog.Graph
	switch strings.ToLower(op.Op) {
	case "neg":
		return unary(g.Neg)
	case "set":
		return unary(g.Set)
	case "abs":
		return unary(g.Abs)
	case "cast":
		dt, err := parseDType(op.DType)
		if err != nil {
			return err
		}
		return unary(func(in kir.ValID) kir.ValID { return g.Cast(in, dt) })
	case "add":
		return binary(g.Add)
	case "sub":
		return binary(g.Sub)
	case "mul":
		return binary(g.Mul)
	case "div":
		return binary(g.Div)
	case "mod":
		return binary(g.Mod)
	case "ceildiv":
		return binary(g.CeilDiv)
	case "and":
		return binary(g.And)
	case "max":
		return binary(g.Max)
	case "min":
		return binary(g.Min)
	default:
		return fmt.Errorf("manifest: op %q has unknown operator %q", op.Out, op.Op)
	}
}

func resolveBindings(prog *Program, bindings map[string]any) error {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		raw := bindings[name]
		id, ok := prog.Vals[name]
		if !ok {
			return fmt.Errorf("manifest: binding for unknown node %q", name)
		}
		v := prog.Graph.Val(id)
		if v.IsConst() || !v.IsLeaf() {
			return fmt.Errorf("manifest: binding %q must target a free leaf node", name)
		}
		var value eval.Scalar
		switch concrete := raw.(type) {
		case int64:
			if v.DType == kir.DTypeDouble {
				value = eval.MakeDouble(float64(concrete))
			} else {
				value = eval.MakeInt(concrete)
			}
		case float64:
			if v.DType != kir.DTypeDouble {
				return fmt.Errorf("manifest: binding %q: float value for int node", name)
			}
			value = eval.MakeDouble(concrete)
		default:
			return fmt.Errorf("manifest: binding %q has non-numeric value %v", name, raw)
		}
		prog.Bindings = append(prog.Bindings, Binding{Name: name, ID: id, Value: value})
	}
	return nil
}

func resolveParallel(prog *Program, parallel map[string]int64) error {
	for key, extent := range parallel {
		pt, err := parseParallelType(key)
		if err != nil {
			return err
		}
		prog.Parallel[pt] = extent
	}
	return nil
}

func parseParallelType(s string) (kir.ParallelType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tidx":
		return kir.ParallelTIDx, nil
	case "tidy":
		return kir.ParallelTIDy, nil
	case "tidz":
		return kir.ParallelTIDz, nil
	case "bidx":
		return kir.ParallelBIDx, nil
	case "bidy":
		return kir.ParallelBIDy, nil
	case "bidz":
		return kir.ParallelBIDz, nil
	default:
		return kir.ParallelSerial, fmt.Errorf("manifest: unknown parallel dimension %q", s)
	}
}

// NewEvaluator creates an evaluator for the program with every manifest
// binding applied. The precomputed table is optional.
func (p *Program) NewEvaluator(precomputed *eval.PrecomputedValues) *eval.ExpressionEvaluator {
	ev := eval.NewExpressionEvaluator(p.Graph, precomputed)
	for _, b := range p.Bindings {
		ev.Bind(b.ID, b.Value)
	}
	for pt, extent := range p.Parallel {
		ev.BindParallelDim(pt, extent)
	}
	return ev
}
