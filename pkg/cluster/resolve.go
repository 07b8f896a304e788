// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cluster

import (
	"context"
	"os"

	"github.com/sparkstack/sparkctl/pkg/application"
	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/engine"
	"github.com/sparkstack/sparkctl/pkg/netutil"
	"github.com/sparkstack/sparkctl/pkg/ux"
)

// Overrides are command-line refinements applied on top of the env files.
type Overrides struct {
	WorkerMgmtAddrs   []string
	WorkerFabricAddrs []string
	HeadOnly          bool
	Model             string
}

// ResolveFromApp builds the ClusterSpec for the current configuration:
// merged env files, model catalog, locally detected fabric interface and IB
// devices, with command-line overrides applied last. Resolution warnings
// are surfaced to the operator.
func ResolveFromApp(app *application.App, overrides Overrides) (*ClusterSpec, error) {
	env, err := app.LoadClusterEnv()
	if err != nil {
		return nil, err
	}
	catalog, err := app.LoadCatalog()
	if err != nil {
		return nil, err
	}

	if overrides.Model != "" {
		env[constants.EnvKeyModelID] = overrides.Model
	}
	resolved, err := ModelFromEnv(env, catalog)
	if err != nil {
		return nil, err
	}

	input := InputFromEnv(env, resolved)
	input.HeadOnly = overrides.HeadOnly
	input.SSHKeyPath = app.Conf.GetConfigStringValue(constants.ConfigSSHKeyPathKey)
	if len(overrides.WorkerMgmtAddrs) > 0 {
		input.WorkerMgmtAddrs = overrides.WorkerMgmtAddrs
	}
	if len(overrides.WorkerFabricAddrs) > 0 {
		input.WorkerFabricAddrs = overrides.WorkerFabricAddrs
	}
	if input.HFToken == "" {
		input.HFToken = os.Getenv(constants.HFTokenEnvVar)
	}

	fabricCIDR := env[constants.EnvKeyFabricCIDR]
	if fabricCIDR == "" {
		fabricCIDR = constants.DefaultFabricCIDR
	}
	if fabric, err := netutil.DetectFabricInterface(fabricCIDR); err == nil {
		input.SocketIfname = fabric.Name
		input.FabricBindIP = fabric.Addr
		if input.RendezvousHost == "" {
			input.RendezvousHost = fabric.Addr
		}
	} else {
		app.Log.Infof("fabric interface detection: %s", err)
	}
	if out, err := (engine.LocalRunner{}).Command("ibstat 2>/dev/null", nil, constants.ContainerInspectTimeout); err == nil {
		input.IBDevices = netutil.ParseIBDevices(string(out))
	}

	spec, err := ResolveTopology(input)
	if err != nil {
		return nil, err
	}
	for _, warning := range spec.Warnings {
		ux.Logger.PrintToUser("Warning: %s", warning)
	}
	return spec, nil
}

// RelaunchAndWait drives a full stop → launch → readiness cycle and returns
// the poll result. Used by the model switcher and the benchmark batch.
func RelaunchAndWait(ctx context.Context, spec *ClusterSpec, cfg PollConfig) (PollResult, error) {
	launcher := NewLauncher(spec)
	if err := launcher.Stop(ctx); err != nil {
		return PollResult{}, err
	}
	if err := launcher.Launch(ctx, BuildLaunchRequests(spec)); err != nil {
		return PollResult{}, err
	}
	poller := NewPoller(cfg, DefaultProbes(NewHealthChecker(""), engine.LocalRunner{}))
	poller.OnProgress = func(excerpt string) {
		if excerpt != "" {
			ux.Logger.PrintToUser("  engine: %s", excerpt)
		}
	}
	return poller.Wait(ctx), nil
}
