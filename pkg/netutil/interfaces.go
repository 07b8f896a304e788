// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package netutil

import (
	"fmt"
	"net"
	"strings"

	gopsutilnet "github.com/shirou/gopsutil/net"

	"github.com/sparkstack/sparkctl/pkg/constants"
)

// FabricInterface is the local NIC sitting on the low-latency fabric subnet,
// used for NCCL_SOCKET_IFNAME and the rendezvous bind address.
type FabricInterface struct {
	Name string
	Addr string
}

// DetectFabricInterface finds the interface holding an address inside cidr.
func DetectFabricInterface(cidr string) (FabricInterface, error) {
	ifaces, err := gopsutilnet.Interfaces()
	if err != nil {
		return FabricInterface{}, fmt.Errorf("listing network interfaces: %w", err)
	}
	return findOnSubnet(ifaces, cidr)
}

func findOnSubnet(ifaces []gopsutilnet.InterfaceStat, cidr string) (FabricInterface, error) {
	_, subnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return FabricInterface{}, fmt.Errorf("invalid fabric CIDR %q: %w", cidr, err)
	}
	for _, iface := range ifaces {
		for _, addr := range iface.Addrs {
			ip, _, err := net.ParseCIDR(addr.Addr)
			if err != nil {
				ip = net.ParseIP(addr.Addr)
			}
			if ip != nil && subnet.Contains(ip) {
				return FabricInterface{Name: iface.Name, Addr: ip.String()}, nil
			}
		}
	}
	return FabricInterface{}, fmt.Errorf("%w: %s", constants.ErrNoFabricInterface, cidr)
}

// ParseIBDevices extracts active InfiniBand/RoCE device names from `ibstat`
// output. Only textual parsing; the tool itself is an external collaborator.
func ParseIBDevices(ibstatOutput string) []string {
	devices := []string{}
	current := ""
	active := false
	flush := func() {
		if current != "" && active {
			devices = append(devices, current)
		}
	}
	for _, line := range strings.Split(ibstatOutput, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "CA '"):
			flush()
			current = strings.Trim(strings.TrimPrefix(trimmed, "CA "), "'")
			active = false
		case strings.HasPrefix(trimmed, "State:"):
			if strings.Contains(trimmed, "Active") {
				active = true
			}
		}
	}
	flush()
	return devices
}
