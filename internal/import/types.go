package imports

import (
	"errors"
	"fmt"
	"net"
	"time"

	"grimm.is/ifcompat/internal/network"
)

var (
	ErrMissingOrBlacklistedFile = errors.New("missing or blacklisted ifcfg file")
	ErrUnreadableConfigFile     = errors.New("unreadable config file")
	ErrRouteFileParse           = errors.New("route file parse error")
	ErrMalformedBondOption      = errors.New("malformed bonding option")
	ErrBondValidation           = errors.New("bonding validation failed")
	ErrMalformedBridgeOption    = errors.New("malformed bridge option")
	ErrBridgeValidation         = errors.New("bridge validation failed")
	ErrVlanSelfReference        = errors.New("vlan refers to itself")
	ErrInvalidVlanTag           = errors.New("invalid vlan tag")
)

// InterfaceError reports the failure to translate one interface.
type InterfaceError struct {
	Name string
	File string
	Err  error
}

func (e *InterfaceError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("ifcfg-%s (%s): %v", e.Name, e.File, e.Err)
	}
	return fmt.Sprintf("ifcfg-%s: %v", e.Name, e.Err)
}

func (e *InterfaceError) Unwrap() error {
	return e.Err
}

// InterfaceConfig is the normalized configuration of one interface.
type InterfaceConfig struct {
	Name      string
	File      string
	Link      LinkConfig
	MTU       uint32
	HWAddr    net.HardwareAddr
	Control   ControlPolicy
	Addresses network.AddressList
	Routes    network.RouteList
	DHCP4     DHCP4Options
	DHCP6     DHCP6Options
	Warnings  []string
}

// Type returns the link type of the interface.
func (c *InterfaceConfig) Type() network.LinkType {
	if c.Link == nil {
		return network.LinkUnknown
	}
	return c.Link.Type()
}

// LinkConfig is the link-type specific part of an InterfaceConfig. It is one
// of LoopbackLink, EthernetLink, *BondLink, *BridgeLink, VlanLink,
// WirelessLink, TunnelLink or UnknownLink.
type LinkConfig interface {
	Type() network.LinkType
}

type UnknownLink struct{}

func (UnknownLink) Type() network.LinkType { return network.LinkUnknown }

type LoopbackLink struct{}

func (LoopbackLink) Type() network.LinkType { return network.LinkLoopback }

// EthernetLink carries ETHTOOL_OPTIONS verbatim.
type EthernetLink struct {
	Options string
}

func (EthernetLink) Type() network.LinkType { return network.LinkEthernet }

// VlanLink is an 802.1Q device on top of Parent.
type VlanLink struct {
	Parent string
	Tag    uint16
}

func (VlanLink) Type() network.LinkType { return network.LinkVlan }

// WirelessLink is recognized but not translated beyond its ESSID.
type WirelessLink struct {
	ESSID string
}

func (WirelessLink) Type() network.LinkType { return network.LinkWireless }

// TunnelLink is a tun/tap or IP tunnel device.
type TunnelLink struct {
	Kind string
	kind network.LinkType
}

func (t TunnelLink) Type() network.LinkType { return t.kind }

// ControlPolicy is the activation policy derived from STARTMODE.
type ControlPolicy struct {
	Mode        string
	LinkBoot    string
	RequireLink string
	Mandatory   bool
	Persistent  bool
	Timeout     time.Duration
	Infinite    bool
}

// DHCP4Options are the DHCPv4 request parameters of an interface.
type DHCP4Options struct {
	Enabled         bool
	Hostname        string
	ClientID        string
	VendorClass     string
	AcquireTimeout  time.Duration
	AcquireInfinite bool
	LeaseTime       time.Duration
	LeaseInfinite   bool
}

// DHCP6Options are the DHCPv6 request parameters of an interface.
type DHCP6Options struct {
	Enabled bool
}
