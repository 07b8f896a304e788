// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/melbahja/goph"
	"golang.org/x/crypto/ssh"

	"github.com/sparkstack/sparkctl/pkg/constants"
)

// Host is the remote execution channel to one cluster node: run a shell
// program, capture combined output, upload a file. The zero client connects
// lazily on first use.
type Host struct {
	NodeID     string
	IP         string
	SSHUser    string
	SSHKeyPath string

	client *goph.Client
}

func NewHost(nodeID, ip, sshUser, sshKeyPath string) *Host {
	if sshUser == "" {
		sshUser = constants.RemoteSSHUser
	}
	return &Host{
		NodeID:     nodeID,
		IP:         ip,
		SSHUser:    sshUser,
		SSHKeyPath: sshKeyPath,
	}
}

// Connect establishes the SSH connection with a bounded timeout.
func (h *Host) Connect() error {
	if h.client != nil {
		return nil
	}
	auth, err := h.auth()
	if err != nil {
		return err
	}
	client, err := goph.NewConn(&goph.Config{
		User:    h.SSHUser,
		Addr:    h.IP,
		Port:    constants.SSHPort,
		Auth:    auth,
		Timeout: constants.SSHConnectTimeout,
		// single-operator tool on a private network; hosts are reimaged often
		Callback: ssh.InsecureIgnoreHostKey(),
	})
	if err != nil {
		return fmt.Errorf("ssh connect to %s@%s: %w", h.SSHUser, h.IP, err)
	}
	h.client = client
	return nil
}

func (h *Host) auth() (goph.Auth, error) {
	if h.SSHKeyPath != "" {
		return goph.Key(h.SSHKeyPath, "")
	}
	return goph.UseAgent()
}

// Command runs a shell program on the host and returns its combined output.
// Env entries of the form KEY=VALUE are prefixed onto the command line so
// they take effect regardless of the remote sshd AcceptEnv policy.
func (h *Host) Command(script string, env []string, timeout time.Duration) ([]byte, error) {
	if err := h.Connect(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if len(env) > 0 {
		script = strings.Join(env, " ") + " " + script
	}
	cmd, err := h.client.CommandContext(ctx, script)
	if err != nil {
		return nil, err
	}
	return cmd.CombinedOutput()
}

// Upload copies a local file to the host.
func (h *Host) Upload(localPath, remotePath string, timeout time.Duration) error {
	if err := h.Connect(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- h.client.Upload(localPath, remotePath)
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("upload of %s to %s[%s] timed out after %s", localPath, h.NodeID, h.IP, timeout)
	}
}

// Probe is the short connect-and-echo liveness test run before any launch.
func (h *Host) Probe() error {
	out, err := h.Command("echo ok", nil, constants.SSHProbeTimeout)
	if err != nil {
		return fmt.Errorf("%w: %s[%s]: %v", constants.ErrWorkerUnreachable, h.NodeID, h.IP, err)
	}
	if !strings.Contains(string(out), "ok") {
		return fmt.Errorf("%w: %s[%s]: unexpected probe output %q", constants.ErrWorkerUnreachable, h.NodeID, h.IP, string(out))
	}
	return nil
}

// Disconnect closes the SSH connection if one was established.
func (h *Host) Disconnect() error {
	if h.client == nil {
		return nil
	}
	err := h.client.Close()
	h.client = nil
	return err
}
