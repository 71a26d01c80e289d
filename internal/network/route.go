package network

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"grimm.is/ifcompat/internal/clock"
)

// NextHop is the gateway of a route. An invalid Gateway means the route is
// directly connected.
type NextHop struct {
	Gateway netip.Addr `json:"gateway,omitzero" yaml:"gateway"`
	Device  string     `json:"device,omitempty" yaml:"device,omitempty"`
}

// Route is a static or lease-provided route.
type Route struct {
	Family      Family     `json:"family" yaml:"family"`
	PrefixLen   int        `json:"prefix_len" yaml:"prefix_len"`
	Destination netip.Addr `json:"destination,omitzero" yaml:"destination"`
	NextHop     NextHop    `json:"nexthop" yaml:"nexthop"`
	Expires     time.Time  `json:"expires,omitzero" yaml:"expires,omitempty"`
}

// NewRoute returns a route to dest/prefixLen via gw. The family comes from
// the destination, or from the gateway when the destination is unset.
func NewRoute(prefixLen int, dest, gw netip.Addr) *Route {
	family := FamilyOf(dest)
	if family == FamilyUnspec {
		family = FamilyOf(gw)
	}
	return &Route{
		Family:      family,
		PrefixLen:   prefixLen,
		Destination: dest,
		NextHop:     NextHop{Gateway: gw},
	}
}

// NewDefaultRoute returns a default route via gw.
func NewDefaultRoute(gw netip.Addr) *Route {
	var dest netip.Addr
	switch FamilyOf(gw) {
	case FamilyIPv4:
		dest = netip.IPv4Unspecified()
	case FamilyIPv6:
		dest = netip.IPv6Unspecified()
	}
	return NewRoute(0, dest, gw)
}

// IsDefault reports whether r is a default route.
func (r *Route) IsDefault() bool {
	return r.PrefixLen == 0
}

// Equal compares family, prefix, destination and next hop.
func (r *Route) Equal(o *Route) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Family == o.Family &&
		r.PrefixLen == o.PrefixLen &&
		r.Destination == o.Destination &&
		r.NextHop == o.NextHop
}

// Expired reports whether the route has a deadline before now.
func (r *Route) Expired(now time.Time) bool {
	return clock.Expired(r.Expires, now)
}

// Clone returns a copy of r.
func (r *Route) Clone() *Route {
	c := *r
	return &c
}

func (r *Route) String() string {
	var b strings.Builder
	if r.IsDefault() {
		b.WriteString("default")
	} else {
		fmt.Fprintf(&b, "%s/%d", r.Destination, r.PrefixLen)
	}
	if r.NextHop.Gateway.IsValid() {
		fmt.Fprintf(&b, " via %s", r.NextHop.Gateway)
	}
	if r.NextHop.Device != "" {
		fmt.Fprintf(&b, " dev %s", r.NextHop.Device)
	}
	return b.String()
}

// RouteList is an ordered list of routes. Order is the application order.
type RouteList []*Route

// Append adds r at the end of the list.
func (l *RouteList) Append(r *Route) {
	*l = append(*l, r)
}

// Clone returns a deep copy of the list.
func (l RouteList) Clone() RouteList {
	if l == nil {
		return nil
	}
	out := make(RouteList, len(l))
	for i, r := range l {
		out[i] = r.Clone()
	}
	return out
}

// Find returns the first route equal to r.
func (l RouteList) Find(r *Route) *Route {
	for _, own := range l {
		if own.Equal(r) {
			return own
		}
	}
	return nil
}
