// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package netutil

import (
	"testing"

	gopsutilnet "github.com/shirou/gopsutil/net"
	"github.com/stretchr/testify/require"
)

const ibstatSample = `CA 'mlx5_0'
	CA type: MT4129
	Number of ports: 1
	Port 1:
		State: Active
		Physical state: LinkUp
		Rate: 200
CA 'mlx5_1'
	CA type: MT4129
	Number of ports: 1
	Port 1:
		State: Down
		Physical state: Disabled
		Rate: 10
CA 'mlx5_2'
	Port 1:
		State: Active
		Rate: 200
`

func TestParseIBDevices_onlyActiveDevices(t *testing.T) {
	assert := require.New(t)
	devices := ParseIBDevices(ibstatSample)
	assert.Equal([]string{"mlx5_0", "mlx5_2"}, devices)
}

func TestParseIBDevices_emptyOutput(t *testing.T) {
	assert := require.New(t)
	assert.Empty(ParseIBDevices(""))
}

func TestFindOnSubnet(t *testing.T) {
	assert := require.New(t)
	ifaces := []gopsutilnet.InterfaceStat{
		{Name: "eno1", Addrs: []gopsutilnet.InterfaceAddr{{Addr: "10.0.0.11/24"}}},
		{Name: "enP2p1s0", Addrs: []gopsutilnet.InterfaceAddr{{Addr: "192.168.100.11/24"}}},
	}
	fabric, err := findOnSubnet(ifaces, "192.168.100.0/24")
	assert.NoError(err)
	assert.Equal("enP2p1s0", fabric.Name)
	assert.Equal("192.168.100.11", fabric.Addr)
}

func TestFindOnSubnet_noMatch(t *testing.T) {
	assert := require.New(t)
	ifaces := []gopsutilnet.InterfaceStat{
		{Name: "eno1", Addrs: []gopsutilnet.InterfaceAddr{{Addr: "10.0.0.11/24"}}},
	}
	_, err := findOnSubnet(ifaces, "192.168.100.0/24")
	assert.Error(err)
}

func TestFindOnSubnet_invalidCIDR(t *testing.T) {
	assert := require.New(t)
	_, err := findOnSubnet(nil, "not-a-cidr")
	assert.Error(err)
}
