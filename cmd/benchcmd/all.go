// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package benchcmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sparkstack/sparkctl/pkg/bench"
	"github.com/sparkstack/sparkctl/pkg/cluster"
	"github.com/sparkstack/sparkctl/pkg/models"
	"github.com/sparkstack/sparkctl/pkg/ux"
)

var (
	singleNodeOnly bool
	multiNodeOnly  bool
	skipGated      bool
	modelsFlag     string
	allProfileFlag string
	metricFlag     string
	dryRun         bool
)

func newAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Benchmark every selected model and rank the results",
		Long: `All walks the model catalog: for each selected model it switches the
cluster config, relaunches, waits for readiness, runs the load test and
collects the result. A failure in one model's pipeline becomes that
model's status tag; the batch always finishes and renders a ranked
report over every model.`,
		RunE: runAll,
	}
	cmd.Flags().BoolVar(&singleNodeOnly, "single-node-only", false, "only benchmark single-node models")
	cmd.Flags().BoolVar(&multiNodeOnly, "multi-node-only", false, "only benchmark multi-node models")
	cmd.Flags().BoolVar(&skipGated, "skip-gated", false, "skip models that need an HF token")
	cmd.Flags().StringVar(&modelsFlag, "models", "", "comma-separated subset of catalog model names")
	cmd.Flags().StringVar(&allProfileFlag, "profile", "short", "load profile for every model")
	cmd.Flags().StringVar(&metricFlag, "metric", string(bench.MetricRequestThroughput), "ranking metric: request_throughput|output_throughput|mean_ttft_ms|p99_ttft_ms|mean_tpot_ms")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the selected models and stop")
	return cmd
}

func runAll(_ *cobra.Command, _ []string) error {
	if singleNodeOnly && multiNodeOnly {
		return fmt.Errorf("--single-node-only and --multi-node-only are mutually exclusive")
	}
	profile, err := bench.LookupProfile(allProfileFlag)
	if err != nil {
		return err
	}
	catalog, err := app.LoadCatalog()
	if err != nil {
		return err
	}
	var names []string
	if modelsFlag != "" {
		names = strings.Split(modelsFlag, ",")
	}
	selection := bench.FilterSelection(catalog, singleNodeOnly, multiNodeOnly, skipGated, names)
	if len(selection) == 0 {
		return fmt.Errorf("no models selected; check the filters against: sparkctl model list")
	}

	ux.Logger.PrintToUser("Benchmarking %d model(s) with the %s profile:", len(selection), profile.Name)
	for _, m := range selection {
		ux.Logger.PrintToUser("  - %s (%d node(s))", m.ModelID, m.NumNodes)
	}
	if dryRun {
		return nil
	}

	dir := resolveOutputDir()
	env, err := app.LoadClusterEnv()
	if err != nil {
		return err
	}
	runner := bench.NewRunner()

	pipeline := bench.Pipeline{
		OnModel: func(m models.Model) {
			ux.Logger.PrintLineSeparator()
			ux.Logger.PrintToUser("Model %s", m.ModelID)
		},
		Switch: func(_ context.Context, m models.Model) error {
			return cluster.ApplyModelSwitch(app.GetClusterLocalEnvPath(), m)
		},
		Relaunch: func(ctx context.Context, m models.Model) error {
			spec, err := cluster.ResolveFromApp(app, cluster.Overrides{Model: m.ModelID})
			if err != nil {
				return err
			}
			result, err := cluster.RelaunchAndWait(ctx, spec, cluster.DefaultPollConfig(spec.MultiNode()))
			if err != nil {
				return err
			}
			if result.Verdict != cluster.VerdictReady {
				return fmt.Errorf("%w: %s", bench.ErrStartupFailed, result.Verdict)
			}
			return nil
		},
		Run: func(_ context.Context, m models.Model) (bench.Result, error) {
			return runner.Run(bench.RunSpec{
				ModelID:   m.ModelID,
				Profile:   profile,
				OutputDir: dir,
				Image:     serveImage(env),
			})
		},
	}

	results := bench.RunBatch(benchContext(), pipeline, selection)

	bench.SortResults(results, bench.Metric(metricFlag))
	ux.Logger.PrintLineSeparator()
	bench.RenderTable(os.Stdout, results)
	if err := bench.Export(dir, results); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Report written to %s", dir)
	return nil
}
