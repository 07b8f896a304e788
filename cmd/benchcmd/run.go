// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package benchcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sparkstack/sparkctl/pkg/bench"
	"github.com/sparkstack/sparkctl/pkg/cluster"
	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/ux"
)

var (
	profileFlag string
	numPrompts  int
	inputLen    int
	outputLen   int
	requestRate float64
	concurrency int
	outputDir   string
	external    bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark the currently served model",
		Long: `Run drives one synthetic load test against the live cluster and prints
the parsed result. The cluster must already be serving; run
'sparkctl cluster launch' first.`,
		RunE: runBench,
	}
	cmd.Flags().StringVar(&profileFlag, "profile", "short", "load profile: quick|short|medium|long|throughput|latency|stress|custom")
	cmd.Flags().IntVar(&numPrompts, "num-prompts", 0, "override: number of prompts")
	cmd.Flags().IntVar(&inputLen, "input-len", 0, "override: random input length in tokens")
	cmd.Flags().IntVar(&outputLen, "output-len", 0, "override: random output length in tokens")
	cmd.Flags().Float64Var(&requestRate, "request-rate", 0, "override: request rate per second (0 = unbounded)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "override: max in-flight requests")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for result files (default under ~/.sparkctl/benchmarks)")
	cmd.Flags().BoolVar(&external, "external", false, "run the load generator on the host instead of in a container")
	return cmd
}

func buildProfile() (bench.Profile, error) {
	profile, err := bench.LookupProfile(profileFlag)
	if err != nil {
		return bench.Profile{}, err
	}
	if numPrompts > 0 {
		profile.NumPrompts = numPrompts
	}
	if inputLen > 0 {
		profile.InputLen = inputLen
	}
	if outputLen > 0 {
		profile.OutputLen = outputLen
	}
	if requestRate > 0 {
		profile.RequestRate = requestRate
	}
	if concurrency > 0 {
		profile.Concurrency = concurrency
	}
	return profile, nil
}

func resolveOutputDir() string {
	if outputDir != "" {
		return outputDir
	}
	return filepath.Join(app.GetBenchDir(), time.Now().Format("20060102-150405"))
}

func serveImage(env map[string]string) string {
	if img := env[constants.EnvKeyServeImage]; img != "" {
		return img
	}
	return constants.DefaultServeImage + ":" + constants.DefaultServeImageTag
}

func runBench(_ *cobra.Command, _ []string) error {
	profile, err := buildProfile()
	if err != nil {
		return err
	}
	env, err := app.LoadClusterEnv()
	if err != nil {
		return err
	}
	catalog, err := app.LoadCatalog()
	if err != nil {
		return err
	}
	model, err := cluster.ModelFromEnv(env, catalog)
	if err != nil {
		return err
	}
	checker := cluster.NewHealthChecker("")
	if !checker.Healthy(benchContext()) {
		return fmt.Errorf("the serving endpoint %s is not answering health checks; launch the cluster first: sparkctl cluster launch", constants.LocalAPIEndpoint)
	}

	dir := resolveOutputDir()
	ux.Logger.PrintToUser("Benchmarking %s with the %s profile (%d prompts, %d in / %d out, concurrency %d)",
		model.ModelID, profile.Name, profile.NumPrompts, profile.InputLen, profile.OutputLen, profile.Concurrency)

	runner := bench.NewRunner()
	result, err := runner.Run(bench.RunSpec{
		ModelID:   model.ModelID,
		Profile:   profile,
		OutputDir: dir,
		External:  external,
		Image:     serveImage(env),
	})
	if err != nil {
		return err
	}

	bench.RenderTable(os.Stdout, []bench.Result{result})
	ux.Logger.GreenCheckmarkToUser("Results written to %s", dir)
	return nil
}
