package network

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
)

func TestSnapshot(t *testing.T) {
	lo := &netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "lo", Index: 1, MTU: 65536, EncapType: "loopback"}}
	eth0 := &netlink.Device{LinkAttrs: netlink.LinkAttrs{
		Name:         "eth0",
		Index:        2,
		MTU:          1500,
		EncapType:    "ether",
		HardwareAddr: net.HardwareAddr{0x52, 0x54, 0x00, 0x12, 0x34, 0x56},
	}}
	br0 := &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: "br0", Index: 3}}

	_, v4net, _ := net.ParseCIDR("192.168.1.10/24")
	v4net.IP = net.ParseIP("192.168.1.10")
	_, dst, _ := net.ParseCIDR("10.0.0.0/8")

	nl := new(MockNetlinker)
	nl.On("LinkList").Return([]netlink.Link{lo, eth0, br0}, nil)
	nl.On("AddrList", lo, FamilyUnspec.AF()).Return([]netlink.Addr{}, nil)
	nl.On("AddrList", eth0, FamilyUnspec.AF()).Return([]netlink.Addr{
		{IPNet: v4net, Broadcast: net.ParseIP("192.168.1.255")},
	}, nil)
	nl.On("AddrList", br0, FamilyUnspec.AF()).Return([]netlink.Addr{}, nil)
	nl.On("RouteList", lo, FamilyUnspec.AF()).Return([]netlink.Route{}, nil)
	nl.On("RouteList", eth0, FamilyUnspec.AF()).Return([]netlink.Route{
		{Gw: net.ParseIP("192.168.1.1")},
		{Dst: dst, Gw: net.ParseIP("192.168.1.2")},
		{Dst: nil},
	}, nil)
	nl.On("RouteList", br0, FamilyUnspec.AF()).Return([]netlink.Route{}, nil)

	drv := new(MockDriverInfo)
	drv.On("Driver", "eth0").Return("virtio_net", nil)
	drv.On("Driver", "br0").Return("", errors.New("not supported"))

	table, err := Snapshot(nl, drv)
	require.NoError(t, err)
	defer table.Close()

	require.Equal(t, 3, table.Len())
	assert.Equal(t, LinkLoopback, table.Lookup("lo").Type)
	assert.Equal(t, LinkBridge, table.Lookup("br0").Type)
	assert.Empty(t, table.Lookup("br0").Driver)

	got := table.Lookup("eth0")
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Refs())
	assert.Equal(t, LinkEthernet, got.Type)
	assert.Equal(t, "virtio_net", got.Driver)
	assert.Equal(t, 1500, got.MTU)
	require.Len(t, got.Addresses, 1)
	assert.Equal(t, "192.168.1.10/24 brd 192.168.1.255", got.Addresses[0].String())
	require.Len(t, got.Routes, 2)
	assert.Equal(t, "default via 192.168.1.1 dev eth0", got.Routes[0].String())
	assert.Equal(t, "10.0.0.0/8 via 192.168.1.2 dev eth0", got.Routes[1].String())

	nl.AssertExpectations(t)
	drv.AssertNotCalled(t, "Driver", "lo")
}

func TestSnapshotLinkListError(t *testing.T) {
	nl := new(MockNetlinker)
	nl.On("LinkList").Return(nil, errors.New("netlink down"))

	_, err := Snapshot(nl, nil)
	assert.ErrorContains(t, err, "netlink down")
}

func TestSnapshotAddrListError(t *testing.T) {
	eth0 := &netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "eth0", Index: 2}}
	nl := new(MockNetlinker)
	nl.On("LinkList").Return([]netlink.Link{eth0}, nil)
	nl.On("AddrList", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

	_, err := Snapshot(nl, nil)
	assert.ErrorContains(t, err, "eth0")
}
