package network

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/vishvananda/netlink"
)

// Snapshot reads every link with its addresses and routes into a new
// InterfaceTable. drv may be nil, in which case Driver is left empty.
func Snapshot(nl Netlinker, drv DriverInfo) (*InterfaceTable, error) {
	links, err := nl.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	table := NewInterfaceTable()
	for _, link := range links {
		ifp, err := snapshotLink(nl, drv, link)
		if err != nil {
			table.Close()
			return nil, err
		}
		if err := table.Add(ifp); err != nil {
			table.Close()
			return nil, err
		}
		// the table now holds the only reference
		ifp.Put()
	}
	return table, nil
}

func snapshotLink(nl Netlinker, drv DriverInfo, link netlink.Link) (*Interface, error) {
	attrs := link.Attrs()
	ifp := NewInterface(attrs.Name, attrs.Index)
	ifp.Type = linkTypeOf(link)
	ifp.HWAddr = attrs.HardwareAddr
	ifp.MTU = attrs.MTU

	if drv != nil && ifp.Type != LinkLoopback {
		if name, err := drv.Driver(attrs.Name); err == nil {
			ifp.Driver = name
		}
	}

	addrs, err := nl.AddrList(link, FamilyUnspec.AF())
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses of %s: %w", attrs.Name, err)
	}
	for _, a := range addrs {
		if ap := addressFromNetlink(a); ap != nil {
			ifp.Addresses.Add(ap)
		}
	}

	routes, err := nl.RouteList(link, FamilyUnspec.AF())
	if err != nil {
		return nil, fmt.Errorf("failed to list routes of %s: %w", attrs.Name, err)
	}
	for _, r := range routes {
		if rp := routeFromNetlink(r); rp != nil {
			rp.NextHop.Device = attrs.Name
			ifp.Routes.Append(rp)
		}
	}
	return ifp, nil
}

func addressFromNetlink(a netlink.Addr) *Address {
	if a.IPNet == nil {
		return nil
	}
	local, ok := netip.AddrFromSlice(a.IPNet.IP)
	if !ok {
		return nil
	}
	ones, _ := a.IPNet.Mask.Size()
	ap := NewAddress(local.Unmap(), ones)
	if a.Peer != nil {
		ap.Peer = ipToAddr(a.Peer.IP)
	}
	ap.Broadcast = ipToAddr(a.Broadcast)
	return ap
}

func routeFromNetlink(r netlink.Route) *Route {
	gw := ipToAddr(r.Gw)
	if r.Dst == nil {
		if !gw.IsValid() {
			return nil
		}
		return NewDefaultRoute(gw)
	}
	dest := ipToAddr(r.Dst.IP)
	if !dest.IsValid() {
		return nil
	}
	ones, _ := r.Dst.Mask.Size()
	return NewRoute(ones, dest, gw)
}

func ipToAddr(ip net.IP) netip.Addr {
	if ip == nil {
		return netip.Addr{}
	}
	a, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}
	}
	return a.Unmap()
}

// linkTypeOf maps a netlink link kind, then its encapsulation, to a LinkType.
func linkTypeOf(link netlink.Link) LinkType {
	attrs := link.Attrs()
	switch link.Type() {
	case "bridge":
		return LinkBridge
	case "bond":
		return LinkBond
	case "vlan":
		return LinkVlan
	case "dummy":
		return LinkDummy
	case "gre", "gretap":
		return LinkGRE
	case "sit":
		return LinkSIT
	case "ipip":
		return LinkTunnel
	case "ip6tnl":
		return LinkTunnel6
	case "ipoib":
		return LinkInfiniband
	case "tuntap":
		return tuntapType(link)
	}

	switch attrs.EncapType {
	case "loopback":
		return LinkLoopback
	case "infiniband":
		return LinkInfiniband
	case "ppp":
		return LinkPPP
	case "slip", "cslip", "slip6", "cslip6":
		return LinkSLIP
	case "sit":
		return LinkSIT
	case "gre", "ip6gre":
		return LinkGRE
	case "ipip":
		return LinkTunnel
	case "tunnel6":
		return LinkTunnel6
	case "ether":
		return LinkEthernet
	}
	return GuessLinkType(attrs.Name)
}
