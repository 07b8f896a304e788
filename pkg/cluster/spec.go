// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cluster

import (
	"fmt"

	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/models"
)

// Worker is one non-zero rank of the cluster with its two addresses: the
// management address reaches the node at all (control network), the fabric
// address carries inter-node collective traffic.
type Worker struct {
	Rank       int
	MgmtAddr   string
	FabricAddr string
}

// ClusterSpec is the resolved, internally consistent description of one
// cluster run. Immutable after resolution; rank 0 is always the local node.
type ClusterSpec struct {
	NodeCount      int
	RendezvousHost string
	RendezvousPort int
	Workers        []Worker

	Model models.Model

	ServeImage    string
	SSHUser       string
	SSHKeyPath    string
	HFToken       string
	SocketIfname  string
	IBDevices     []string
	FabricBindIP  string

	// Warnings collected during resolution, surfaced to the operator.
	Warnings []string
}

// TopologyInput is the raw user/environment input to resolution.
type TopologyInput struct {
	DeclaredNodeCount int
	WorkerMgmtAddrs   []string
	WorkerFabricAddrs []string
	RendezvousHost    string
	RendezvousPort    int
	HeadOnly          bool

	Model models.Model

	ServeImage   string
	SSHUser      string
	SSHKeyPath   string
	HFToken      string
	SocketIfname string
	IBDevices    []string
	FabricBindIP string
}

// ResolveTopology turns raw input into a ClusterSpec, applying the
// soft-correct and fail-fast rules:
//   - missing management addresses fall back to fabric addresses (warn);
//   - a declared node count that disagrees with the address list is
//     recomputed as len(addresses)+1 (warn), trusting what is configured
//     over what is declared;
//   - multi-node declared with zero addresses and no head-only request is a
//     hard configuration error.
func ResolveTopology(in TopologyInput) (*ClusterSpec, error) {
	spec := &ClusterSpec{
		RendezvousHost: in.RendezvousHost,
		RendezvousPort: in.RendezvousPort,
		Model:          in.Model,
		ServeImage:     in.ServeImage,
		SSHUser:        in.SSHUser,
		SSHKeyPath:     in.SSHKeyPath,
		HFToken:        in.HFToken,
		SocketIfname:   in.SocketIfname,
		IBDevices:      in.IBDevices,
		FabricBindIP:   in.FabricBindIP,
	}
	if spec.RendezvousPort == 0 {
		spec.RendezvousPort = constants.RendezvousPort
	}

	fabric := in.WorkerFabricAddrs
	mgmt := in.WorkerMgmtAddrs

	if in.HeadOnly {
		spec.NodeCount = 1
		if in.DeclaredNodeCount > 1 {
			spec.warn("head-only run requested, ignoring NNODES=%d", in.DeclaredNodeCount)
		}
		return spec, nil
	}

	if len(mgmt) == 0 && len(fabric) > 0 {
		spec.warn("no worker management addresses configured, reusing fabric addresses for management traffic")
		mgmt = fabric
	}

	if in.DeclaredNodeCount > 1 && len(fabric) == 0 && len(mgmt) == 0 {
		return nil, constants.ErrNoWorkerAddrs
	}

	// the fabric list defines how many workers exist; an empty fabric list
	// with management addresses present mirrors the management list
	if len(fabric) == 0 {
		fabric = mgmt
	}

	if in.DeclaredNodeCount != len(fabric)+1 {
		spec.warn("declared node count %d disagrees with %d configured worker address(es), using %d nodes",
			in.DeclaredNodeCount, len(fabric), len(fabric)+1)
	}
	spec.NodeCount = len(fabric) + 1

	for i, fabricAddr := range fabric {
		mgmtAddr := fabricAddr
		if i < len(mgmt) {
			mgmtAddr = mgmt[i]
		} else {
			spec.warn("no management address for worker %d, using fabric address %s", i+1, fabricAddr)
		}
		spec.Workers = append(spec.Workers, Worker{
			Rank:       i + 1,
			MgmtAddr:   mgmtAddr,
			FabricAddr: fabricAddr,
		})
	}
	return spec, nil
}

// MultiNode reports whether the run spans more than one node.
func (s *ClusterSpec) MultiNode() bool {
	return s.NodeCount > 1
}

// ReadyBudgetTicks is the readiness time budget: distributed startups get a
// longer budget than single-node ones.
func (s *ClusterSpec) ReadyBudgetTicks() int {
	if s.MultiNode() {
		return constants.MultiNodeReadyBudget
	}
	return constants.SingleNodeReadyBudget
}

func (s *ClusterSpec) warn(msg string, args ...interface{}) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(msg, args...))
}
