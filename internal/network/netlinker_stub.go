//go:build !linux

package network

import (
	"errors"

	"github.com/vishvananda/netlink"
)

var errUnsupported = errors.New("netlink is not supported on this platform")

// AF returns 0; kernel address families are only meaningful on Linux.
func (f Family) AF() int { return 0 }

// RealNetlinker is unavailable outside Linux.
type RealNetlinker struct{}

// NewNetlinker always fails outside Linux.
func NewNetlinker() (*RealNetlinker, error) { return nil, errUnsupported }

// NewNetlinkerAt always fails outside Linux.
func NewNetlinkerAt(string) (*RealNetlinker, error) { return nil, errUnsupported }

func (r *RealNetlinker) Close() error { return nil }

func (r *RealNetlinker) LinkByName(string) (netlink.Link, error) { return nil, errUnsupported }

func (r *RealNetlinker) LinkList() ([]netlink.Link, error) { return nil, errUnsupported }

func (r *RealNetlinker) AddrList(netlink.Link, int) ([]netlink.Addr, error) {
	return nil, errUnsupported
}

func (r *RealNetlinker) RouteList(netlink.Link, int) ([]netlink.Route, error) {
	return nil, errUnsupported
}

// EthtoolDriverInfo is unavailable outside Linux.
type EthtoolDriverInfo struct{}

// NewEthtoolDriverInfo always fails outside Linux.
func NewEthtoolDriverInfo() (*EthtoolDriverInfo, error) { return nil, errUnsupported }

func (e *EthtoolDriverInfo) Driver(string) (string, error) { return "", errUnsupported }

func (e *EthtoolDriverInfo) Close() {}

func tuntapType(netlink.Link) LinkType { return LinkTun }
