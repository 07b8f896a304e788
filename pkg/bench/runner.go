// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/engine"
)

// RunSpec describes one benchmark invocation of the load generator against
// the locally exposed serving endpoint.
type RunSpec struct {
	ModelID   string
	Profile   Profile
	OutputDir string
	// External runs the generator on the host instead of inside the serving
	// image.
	External bool
	Image    string
	Endpoint string
}

// Runner executes the load generator and collects its JSON result.
type Runner struct {
	Exec    engine.Runner
	Timeout time.Duration
}

func NewRunner() *Runner {
	return &Runner{Exec: engine.LocalRunner{}, Timeout: constants.BenchProcessTimeout}
}

// Run drives one benchmark: generator process, then result-file parse.
// The generator itself is an external collaborator; only its CLI and result
// schema are known here.
func (r *Runner) Run(spec RunSpec) (Result, error) {
	if err := os.MkdirAll(spec.OutputDir, constants.DefaultPerms755); err != nil {
		return Result{Model: spec.ModelID, Status: StatusNoResult}, err
	}
	resultFile := filepath.Join(spec.OutputDir, resultFileName(spec.ModelID, spec.Profile.Name))

	script := r.benchCommand(spec, resultFile)
	if out, err := r.Exec.Command(script, nil, r.Timeout); err != nil {
		status := StatusNoResult
		if strings.Contains(err.Error(), "deadline exceeded") || strings.Contains(err.Error(), "signal: killed") {
			status = StatusBenchTimeout
		}
		return Result{Model: spec.ModelID, Profile: spec.Profile.Name, Status: status},
			fmt.Errorf("benchmark process: %w: %s", err, string(out))
	}

	result, err := ParseResultFile(resultFile)
	if err != nil {
		return Result{Model: spec.ModelID, Profile: spec.Profile.Name, Status: StatusNoResult}, err
	}
	if result.Model == "" {
		result.Model = spec.ModelID
	}
	result.Profile = spec.Profile.Name
	return result, nil
}

func (r *Runner) benchCommand(spec RunSpec, resultFile string) string {
	endpoint := spec.Endpoint
	if endpoint == "" {
		endpoint = constants.LocalAPIEndpoint
	}
	args := []string{
		"bench", "serve",
		"--model", spec.ModelID,
		"--base-url", endpoint,
		"--num-prompts", fmt.Sprintf("%d", spec.Profile.NumPrompts),
		"--random-input-len", fmt.Sprintf("%d", spec.Profile.InputLen),
		"--random-output-len", fmt.Sprintf("%d", spec.Profile.OutputLen),
		"--max-concurrency", fmt.Sprintf("%d", spec.Profile.Concurrency),
		"--save-result", "--result-filename", resultFile,
	}
	if spec.Profile.RequestRate > 0 {
		args = append(args, "--request-rate", fmt.Sprintf("%.1f", spec.Profile.RequestRate))
	}
	if spec.External {
		return "vllm " + strings.Join(args, " ")
	}
	// containerized run shares the host network and mounts the output dir
	// so the result file lands on the host
	return fmt.Sprintf("docker run --rm --network host -v %s:%s %s vllm %s",
		spec.OutputDir, spec.OutputDir, spec.Image, strings.Join(args, " "))
}

func resultFileName(modelID, profile string) string {
	sanitized := strings.NewReplacer("/", "_", ":", "_").Replace(modelID)
	return fmt.Sprintf("%s_%s.json", sanitized, profile)
}
