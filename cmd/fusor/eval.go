package main

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fusor/internal/eval"
	"fusor/internal/manifest"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] <manifest.toml>...",
	Short: "Evaluate the target nodes of one or more graph manifests",
	Long:  `Build the scalar graph described by each manifest, apply its bindings, and evaluate its target nodes`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEval,
}

func init() {
	evalCmd.Flags().Bool("dump", false, "print the full evaluation context after evaluating")
	evalCmd.Flags().Bool("precompute", false, "evaluate through a precomputed value table")
	evalCmd.Flags().String("snapshot", "", "load/save the precomputed table at this path (implies --precompute)")
	evalCmd.Flags().Int("jobs", 0, "number of manifests evaluated concurrently (0 = GOMAXPROCS)")
}

// evalResult is one manifest's rendered report. Each manifest gets its
// own graph and evaluator; only the rendering is shared.
type evalResult struct {
	path   string
	report string
}

func runEval(cmd *cobra.Command, args []string) error {
	dump, _ := cmd.Flags().GetBool("dump")
	precompute, _ := cmd.Flags().GetBool("precompute")
	snapshot, _ := cmd.Flags().GetString("snapshot")
	jobs, _ := cmd.Flags().GetInt("jobs")
	if snapshot != "" {
		precompute = true
	}
	if snapshot != "" && len(args) > 1 {
		return fmt.Errorf("--snapshot supports a single manifest, got %d", len(args))
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	render := newRenderer(colorEnabled(cmd))

	results := make([]evalResult, len(args))
	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(jobs, len(args)))

	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			report, err := evalManifest(path, render, dump, precompute, snapshot)
			if err != nil {
				return err
			}
			results[i] = evalResult{path: path, report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		fmt.Fprint(out, res.report)
	}
	return nil
}

func evalManifest(path string, render *renderer, dump, precompute bool, snapshot string) (report string, err error) {
	// Contract violations in the manifest's graph surface as panics from
	// the evaluator; turn them into command errors instead of aborting
	// the whole process.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", path, r)
		}
	}()

	prog, err := manifest.Load(path)
	if err != nil {
		return "", err
	}

	var pv *eval.PrecomputedValues
	if precompute {
		pv = eval.NewPrecomputedValues(prog.Graph)
	}
	ev := prog.NewEvaluator(pv)
	if pv != nil {
		if snapshot != "" {
			// A stale or foreign snapshot is rejected by LoadSnapshot;
			// fall through to a fresh evaluation in that case.
			if loadErr := pv.LoadSnapshot(snapshot); loadErr != nil {
				for _, b := range prog.Bindings {
					pv.BindValue(b.ID, b.Value)
				}
				pv.Evaluate()
			}
		} else {
			for _, b := range prog.Bindings {
				pv.BindValue(b.ID, b.Value)
			}
			pv.Evaluate()
		}
	}

	var sb strings.Builder
	sb.WriteString(render.header(path, prog.Name))

	targets := prog.Targets
	if len(targets) == 0 {
		targets = allNodeNames(prog)
	}
	for _, target := range targets {
		id := prog.Vals[target]
		if s, ok := ev.Evaluate(id); ok {
			sb.WriteString(render.target(target, s.String(), s.DType.String()))
		} else {
			sb.WriteString(render.absent(target))
		}
	}

	if dump {
		sb.WriteString(render.dump(ev.DumpContext()))
	}
	if pv != nil && snapshot != "" {
		if saveErr := pv.SaveSnapshot(snapshot); saveErr != nil {
			return "", fmt.Errorf("%s: %w", path, saveErr)
		}
	}
	return sb.String(), nil
}

func allNodeNames(prog *manifest.Program) []string {
	names := make([]string, 0, len(prog.Vals))
	for name := range prog.Vals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
