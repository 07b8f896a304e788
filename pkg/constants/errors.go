// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrNoWorkerAddrs = errors.New("\n\nMulti-node launch requested but no worker addresses are configured. To resolve this:\n- Set WORKER_ADDRS (management IPs) and WORKER_FABRIC_ADDRS (RDMA IPs) in cluster.local.env, e.g.\n    WORKER_ADDRS=\"10.0.0.12\"\n    WORKER_FABRIC_ADDRS=\"192.168.100.12\"\n- Or pass --workers / --fabric-addrs on the command line.\n- Or run a single-node cluster with --head-only.\n") //nolint:stylecheck
	ErrWorkerUnreachable = errors.New("worker unreachable over ssh")
	ErrModelNotFound     = errors.New("model not found in catalog")
	ErrNoFabricInterface = errors.New("no network interface found on the fabric subnet")
	ErrAborted           = errors.New("aborted by user")
)
