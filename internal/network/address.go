package network

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"grimm.is/ifcompat/internal/clock"

	"github.com/samber/lo"
)

// Address is an interface address. Broadcast is only meaningful for IPv4.
// A zero Expires means the address does not expire.
type Address struct {
	Family    Family     `json:"family" yaml:"family"`
	PrefixLen int        `json:"prefix_len" yaml:"prefix_len"`
	Local     netip.Addr `json:"local" yaml:"local"`
	Broadcast netip.Addr `json:"broadcast,omitzero" yaml:"broadcast"`
	Peer      netip.Addr `json:"peer,omitzero" yaml:"peer"`
	Anycast   netip.Addr `json:"anycast,omitzero" yaml:"anycast"`
	Expires   time.Time  `json:"expires,omitzero" yaml:"expires,omitempty"`
}

// NewAddress returns an address for local with the given prefix length.
func NewAddress(local netip.Addr, prefixLen int) *Address {
	return &Address{
		Family:    FamilyOf(local),
		PrefixLen: prefixLen,
		Local:     local,
	}
}

// addressKey is the identity of an address for deduplication.
type addressKey struct {
	family    Family
	prefixLen int
	local     netip.Addr
	peer      netip.Addr
	anycast   netip.Addr
}

func (a *Address) key() addressKey {
	return addressKey{a.Family, a.PrefixLen, a.Local, a.Peer, a.Anycast}
}

// Equal compares the identifying fields: family, prefix length, local,
// peer and anycast address.
func (a *Address) Equal(b *Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.key() == b.key()
}

// Prefix returns the network prefix of the address.
func (a *Address) Prefix() netip.Prefix {
	p, err := a.Local.Prefix(a.PrefixLen)
	if err != nil {
		return netip.Prefix{}
	}
	return p
}

// CanReach reports whether gw lies inside the subnet of a.
func (a *Address) CanReach(gw netip.Addr) bool {
	if a.Family != FamilyOf(gw) {
		return false
	}
	return PrefixMatch(a.PrefixLen, a.Local, gw)
}

// Expired reports whether the address has a deadline before now.
func (a *Address) Expired(now time.Time) bool {
	return clock.Expired(a.Expires, now)
}

// Clone returns a copy of a.
func (a *Address) Clone() *Address {
	c := *a
	return &c
}

func (a *Address) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%d", a.Local, a.PrefixLen)
	if a.Peer.IsValid() {
		fmt.Fprintf(&b, " peer %s", a.Peer)
	}
	if a.Broadcast.IsValid() {
		fmt.Fprintf(&b, " brd %s", a.Broadcast)
	}
	return b.String()
}

// AddressList is an ordered list of addresses.
type AddressList []*Address

// Find returns the first address with the given local address.
func (l AddressList) Find(local netip.Addr) *Address {
	found, _ := lo.Find(l, func(a *Address) bool {
		return a.Local == local
	})
	return found
}

// Add appends a to the list.
func (l *AddressList) Add(a *Address) {
	*l = append(*l, a)
}

// Dedup returns the list with duplicate addresses removed. The first
// occurrence of each identity is kept and order is preserved.
func (l AddressList) Dedup() AddressList {
	return lo.UniqBy(l, func(a *Address) addressKey {
		return a.key()
	})
}

// Family returns the addresses of one family.
func (l AddressList) Family(f Family) AddressList {
	return lo.Filter(l, func(a *Address, _ int) bool {
		return a.Family == f
	})
}
