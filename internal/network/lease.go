package network

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/google/uuid"
)

// AddrconfMode is the mechanism that produced a lease.
type AddrconfMode int

const (
	AddrconfDHCP AddrconfMode = iota
	AddrconfStatic
	AddrconfAutoconf
	AddrconfIBFT
)

var addrconfNames = map[AddrconfMode]string{
	AddrconfDHCP:     "dhcp",
	AddrconfStatic:   "static",
	AddrconfAutoconf: "auto",
	AddrconfIBFT:     "ibft",
}

func (m AddrconfMode) String() string {
	if name, ok := addrconfNames[m]; ok {
		return name
	}
	return fmt.Sprintf("addrconf(%d)", int(m))
}

// ParseAddrconfMode maps an addrconf name to its constant.
func ParseAddrconfMode(name string) (AddrconfMode, error) {
	for m, n := range addrconfNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown addrconf mode %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m AddrconfMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// LeaseState tracks where an addrconf exchange stands.
type LeaseState int

const (
	LeaseNone LeaseState = iota
	LeaseRequesting
	LeaseGranted
	LeaseReleasing
	LeaseReleased
	LeaseFailed
)

var leaseStateNames = [...]string{"none", "requesting", "granted", "releasing", "released", "failed"}

func (s LeaseState) String() string {
	if int(s) >= 0 && int(s) < len(leaseStateNames) {
		return leaseStateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s LeaseState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LeaseKey identifies a lease slot on an interface.
type LeaseKey struct {
	Family Family
	Mode   AddrconfMode
}

// Lease is the set of addresses and routes granted to an interface by one
// addrconf mechanism.
type Lease struct {
	UUID      uuid.UUID    `json:"uuid" yaml:"uuid"`
	Family    Family       `json:"family" yaml:"family"`
	Mode      AddrconfMode `json:"mode" yaml:"mode"`
	State     LeaseState   `json:"state" yaml:"state"`
	Owner     string       `json:"owner,omitempty" yaml:"owner,omitempty"`
	Hostname  string       `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Addresses AddressList  `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	Routes    RouteList    `json:"routes,omitempty" yaml:"routes,omitempty"`
	DNS       []netip.Addr `json:"dns,omitempty" yaml:"dns,omitempty"`
	Acquired  time.Time    `json:"acquired,omitzero" yaml:"acquired,omitempty"`
	Expires   time.Time    `json:"expires,omitzero" yaml:"expires,omitempty"`
}

// NewLease returns an empty lease with a fresh UUID.
func NewLease(family Family, mode AddrconfMode) *Lease {
	return &Lease{
		UUID:   uuid.New(),
		Family: family,
		Mode:   mode,
	}
}

// Key returns the (family, mode) slot of the lease.
func (l *Lease) Key() LeaseKey {
	return LeaseKey{Family: l.Family, Mode: l.Mode}
}

func (l *Lease) isAutoconf6() bool {
	return l.Family == FamilyIPv6 && l.Mode == AddrconfAutoconf
}

// OwnsAddress reports whether match was handed out by this lease. Entries
// that expired at or before now are ignored.
//
// IPv6 autoconf leases only record prefixes, so ownership is a prefix match
// against the lease's routes and addresses. Every other lease must carry an
// address with the same local, peer and anycast address.
func (l *Lease) OwnsAddress(match *Address, now time.Time) bool {
	if l == nil || match == nil || l.Family != match.Family {
		return false
	}

	if l.isAutoconf6() {
		for _, rp := range l.Routes {
			if rp.PrefixLen != match.PrefixLen || rp.Expired(now) {
				continue
			}
			if PrefixMatch(rp.PrefixLen, rp.Destination, match.Local) {
				return true
			}
		}
	}

	for _, ap := range l.Addresses {
		if ap.PrefixLen != match.PrefixLen || ap.Expired(now) {
			continue
		}
		if l.isAutoconf6() {
			if !PrefixMatch(match.PrefixLen, ap.Local, match.Local) {
				continue
			}
		} else if ap.Local != match.Local {
			continue
		}
		if ap.Peer == match.Peer && ap.Anycast == match.Anycast {
			return true
		}
	}
	return false
}

// OwnsRoute returns the lease route equal to rp, or nil.
func (l *Lease) OwnsRoute(rp *Route) *Route {
	if l == nil || rp == nil {
		return nil
	}
	return l.Routes.Find(rp)
}

// impliesRoute reports whether rp is the on-link route of one of the lease's
// addresses.
func (l *Lease) impliesRoute(rp *Route) bool {
	for _, ap := range l.Addresses {
		if rp.PrefixLen == ap.PrefixLen && PrefixMatch(ap.PrefixLen, rp.Destination, ap.Local) {
			return true
		}
	}
	return false
}
