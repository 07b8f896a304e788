// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644

	BaseDirName = ".sparkctl"
	LogDir      = "logs"
	LogFileName = "sparkctl.log"
	RunDir      = "runs"
	BenchDir    = "benchmarks"

	ClusterEnvFileName      = "cluster.env"
	ClusterLocalEnvFileName = "cluster.local.env"
	ModelCatalogFileName    = "models.yaml"
	ConfigFileName          = "config.json"

	// SSH constants
	RemoteSSHUser         = "nvidia"
	SSHPort               = 22
	SSHConnectTimeout     = 10 * time.Second
	SSHProbeTimeout       = 5 * time.Second
	SSHFileOpsTimeout     = 30 * time.Second
	SSHScriptTimeout      = 120 * time.Second
	SSHLongScriptTimeout  = 10 * time.Minute
	SSHSleepBetweenChecks = 1 * time.Second

	// Serving engine constants
	ServeContainerName   = "spark-vllm"
	DefaultServeImage    = "nvcr.io/nvidia/vllm"
	DefaultServeImageTag = "latest"
	ServePort            = 8000
	RendezvousPort       = 6379
	HealthEndpointPath   = "/health"
	ChatCompletionsPath  = "/v1/chat/completions"
	LocalAPIEndpoint     = "http://127.0.0.1:8000"

	// Readiness poller constants
	PollInterval              = 1 * time.Second
	PollFailureCeiling        = 10
	PollProgressEvery         = 30
	SingleNodeReadyBudget     = 600  // ticks
	MultiNodeReadyBudget      = 1200 // ticks
	WorkerStartGracePeriod    = 5 * time.Second
	HealthProbeTimeout        = 3 * time.Second
	FunctionalProbeTimeout    = 60 * time.Second
	ImagePullTimeout          = 30 * time.Minute
	BenchProcessTimeout       = 60 * time.Minute
	ContainerInspectTimeout   = 10 * time.Second
	ContainerTeardownTimeout  = 60 * time.Second
	ContainerLogExcerptLines  = 1
	ContainerLogTailOnFailure = 40

	// NCCL / fabric constants
	DefaultFabricCIDR  = "192.168.100.0/24"
	NCCLSocketIfname   = "NCCL_SOCKET_IFNAME"
	NCCLIBHCA          = "NCCL_IB_HCA"
	GlooSocketIfname   = "GLOO_SOCKET_IFNAME"
	HFTokenEnvVar      = "HF_TOKEN"
	HFHomeContainerDir = "/root/.cache/huggingface"

	// Cluster env file keys managed by the model switcher
	EnvKeyModelID         = "MODEL_ID"
	EnvKeyTPSize          = "TP_SIZE"
	EnvKeyNumNodes        = "NNODES"
	EnvKeyGPUMemFraction  = "GPU_MEM_FRACTION"
	EnvKeyReasoningParser = "REASONING_PARSER"
	EnvKeyToolParser      = "TOOL_PARSER"
	EnvKeyExtraArgs       = "EXTRA_ARGS"

	// Cluster env file keys owned by the operator
	EnvKeyHeadAddr     = "HEAD_ADDR"
	EnvKeyWorkerAddrs  = "WORKER_ADDRS"
	EnvKeyWorkerFabric = "WORKER_FABRIC_ADDRS"
	EnvKeyFabricCIDR   = "FABRIC_CIDR"
	EnvKeyServeImage   = "SERVE_IMAGE"
	EnvKeySSHUser      = "SSH_USER"
	EnvKeyHFToken      = "HF_TOKEN"

	// Config keys
	ConfigSSHKeyPathKey     = "ssh-key-path"
	ConfigModelCatalogKey   = "model-catalog"
	ConfigNonInteractiveKey = "non-interactive"
)
