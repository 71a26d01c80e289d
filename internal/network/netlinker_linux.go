//go:build linux

package network

import (
	"fmt"
	"runtime"

	"github.com/safchain/ethtool"
	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"
)

// AF returns the kernel address family constant.
func (f Family) AF() int {
	switch f {
	case FamilyIPv4:
		return unix.AF_INET
	case FamilyIPv6:
		return unix.AF_INET6
	}
	return unix.AF_UNSPEC
}

// RealNetlinker queries the kernel through a netlink handle, optionally bound
// to a network namespace.
type RealNetlinker struct {
	handle *netlink.Handle
	ns     netns.NsHandle
}

// NewNetlinker returns a netlinker for the current network namespace.
func NewNetlinker() (*RealNetlinker, error) {
	h, err := netlink.NewHandle()
	if err != nil {
		return nil, fmt.Errorf("failed to open netlink handle: %w", err)
	}
	return &RealNetlinker{handle: h, ns: netns.None()}, nil
}

// NewNetlinkerAt returns a netlinker for the named network namespace.
func NewNetlinkerAt(name string) (*RealNetlinker, error) {
	if name == "" {
		return NewNetlinker()
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ns, err := netns.GetFromName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open netns %s: %w", name, err)
	}
	h, err := netlink.NewHandleAt(ns)
	if err != nil {
		ns.Close()
		return nil, fmt.Errorf("failed to open netlink handle in %s: %w", name, err)
	}
	return &RealNetlinker{handle: h, ns: ns}, nil
}

// Close releases the netlink handle and namespace.
func (r *RealNetlinker) Close() error {
	r.handle.Close()
	if r.ns.IsOpen() {
		return r.ns.Close()
	}
	return nil
}

// LinkByName retrieves a link by name.
func (r *RealNetlinker) LinkByName(name string) (netlink.Link, error) {
	return r.handle.LinkByName(name)
}

// LinkList retrieves all links.
func (r *RealNetlinker) LinkList() ([]netlink.Link, error) {
	return r.handle.LinkList()
}

// AddrList retrieves the addresses of a link.
func (r *RealNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return r.handle.AddrList(link, family)
}

// RouteList retrieves the routes of a link.
func (r *RealNetlinker) RouteList(link netlink.Link, family int) ([]netlink.Route, error) {
	return r.handle.RouteList(link, family)
}

// EthtoolDriverInfo reads driver names with the ethtool ioctl.
type EthtoolDriverInfo struct {
	handle *ethtool.Ethtool
}

// NewEthtoolDriverInfo opens an ethtool handle.
func NewEthtoolDriverInfo() (*EthtoolDriverInfo, error) {
	h, err := ethtool.NewEthtool()
	if err != nil {
		return nil, fmt.Errorf("failed to open ethtool handle: %w", err)
	}
	return &EthtoolDriverInfo{handle: h}, nil
}

// Driver returns the driver name of ifname.
func (e *EthtoolDriverInfo) Driver(ifname string) (string, error) {
	info, err := e.handle.DriverInfo(ifname)
	if err != nil {
		return "", fmt.Errorf("ethtool DriverInfo failed for %s: %w", ifname, err)
	}
	return info.Driver, nil
}

// Close closes the ethtool handle.
func (e *EthtoolDriverInfo) Close() {
	e.handle.Close()
}

func tuntapType(link netlink.Link) LinkType {
	if tt, ok := link.(*netlink.Tuntap); ok && tt.Mode == netlink.TUNTAP_MODE_TAP {
		return LinkTap
	}
	return LinkTun
}
