package network

import (
	"github.com/vishvananda/netlink"
)

// Netlinker abstracts the read side of netlink so kernel snapshots can be
// tested with MockNetlinker.
type Netlinker interface {
	LinkByName(name string) (netlink.Link, error)
	LinkList() ([]netlink.Link, error)
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
	RouteList(link netlink.Link, family int) ([]netlink.Route, error)
}

// DriverInfo reports the kernel driver bound to an interface.
type DriverInfo interface {
	Driver(ifname string) (string, error)
}
