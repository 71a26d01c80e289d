package network

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"slices"
	"sync"
	"time"

	"grimm.is/ifcompat/internal/clock"
)

// ErrRefcount is returned when an interface is released more often than it
// was acquired.
var ErrRefcount = errors.New("interface reference count underflow")

// Interface is the runtime view of a network device. It is reference
// counted: NewInterface returns a handle with one reference, Get adds one and
// Put drops one. When the last reference is dropped the interface is torn
// down and its lists are cleared.
//
// Get, Put, Refs and Released may be called concurrently. Other mutation
// is not synchronized; callers serialize it.
type Interface struct {
	Name      string           `json:"name" yaml:"name"`
	Index     int              `json:"index" yaml:"index"`
	Type      LinkType         `json:"type" yaml:"type"`
	HWAddr    net.HardwareAddr `json:"hwaddr,omitempty" yaml:"hwaddr,omitempty"`
	MTU       int              `json:"mtu,omitempty" yaml:"mtu,omitempty"`
	Driver    string           `json:"driver,omitempty" yaml:"driver,omitempty"`
	Addresses AddressList      `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	Routes    RouteList        `json:"routes,omitempty" yaml:"routes,omitempty"`
	Leases    []*Lease         `json:"leases,omitempty" yaml:"leases,omitempty"`

	refMu     sync.Mutex
	users     int
	clock     clock.Clock
	onRelease []func(*Interface)
}

// NewInterface returns an interface holding one reference.
func NewInterface(name string, index int) *Interface {
	return &Interface{
		Name:  name,
		Index: index,
		Type:  LinkUnknown,
		users: 1,
		clock: clock.Default(),
	}
}

// SetClock replaces the time source used for lease expiry checks.
func (i *Interface) SetClock(c clock.Clock) {
	i.clock = c
}

// Get takes another reference. It returns nil if the interface has already
// been torn down.
func (i *Interface) Get() *Interface {
	i.refMu.Lock()
	defer i.refMu.Unlock()
	if i.users == 0 {
		return nil
	}
	i.users++
	return i
}

// Put drops a reference and returns the remaining count. Releasing an
// interface that has no references left returns ErrRefcount.
func (i *Interface) Put() (int, error) {
	i.refMu.Lock()
	if i.users == 0 {
		i.refMu.Unlock()
		return 0, fmt.Errorf("%w: %s", ErrRefcount, i.Name)
	}
	i.users--
	left := i.users
	i.refMu.Unlock()

	if left == 0 {
		i.teardown()
	}
	return left, nil
}

// Refs returns the current reference count.
func (i *Interface) Refs() int {
	i.refMu.Lock()
	defer i.refMu.Unlock()
	return i.users
}

// Released reports whether the interface has been torn down.
func (i *Interface) Released() bool {
	return i.Refs() == 0
}

// OnRelease registers fn to run once when the last reference is dropped.
func (i *Interface) OnRelease(fn func(*Interface)) {
	i.onRelease = append(i.onRelease, fn)
}

func (i *Interface) teardown() {
	hooks := i.onRelease
	i.onRelease = nil
	for _, fn := range hooks {
		fn(i)
	}
	i.Addresses = nil
	i.Routes = nil
	i.Leases = nil
}

// GuessType sets Type from the interface name if it is still unknown and
// returns the result.
func (i *Interface) GuessType() LinkType {
	if i.Type == LinkUnknown && i.Name != "" {
		i.Type = GuessLinkType(i.Name)
	}
	return i.Type
}

func (i *Interface) findLease(key LeaseKey) int {
	return slices.IndexFunc(i.Leases, func(l *Lease) bool {
		return l.Key() == key
	})
}

// SetLease attaches lease, replacing any lease with the same family and
// addrconf mode.
func (i *Interface) SetLease(lease *Lease) {
	i.UnsetLease(lease.Family, lease.Mode)
	i.Leases = append(i.Leases, lease)
}

// UnsetLease detaches the lease for family and mode. It returns the removed
// lease, or nil if there was none.
func (i *Interface) UnsetLease(family Family, mode AddrconfMode) *Lease {
	idx := i.findLease(LeaseKey{Family: family, Mode: mode})
	if idx < 0 {
		return nil
	}
	old := i.Leases[idx]
	i.Leases = slices.Delete(i.Leases, idx, idx+1)
	return old
}

// GetLease returns the lease for family and mode.
func (i *Interface) GetLease(family Family, mode AddrconfMode) *Lease {
	idx := i.findLease(LeaseKey{Family: family, Mode: mode})
	if idx < 0 {
		return nil
	}
	return i.Leases[idx]
}

// LeaseByOwner returns the first lease with the given owner tag.
func (i *Interface) LeaseByOwner(owner string) *Lease {
	for _, l := range i.Leases {
		if l.Owner == owner {
			return l
		}
	}
	return nil
}

// AddressToLease returns the lease that owns ap.
func (i *Interface) AddressToLease(ap *Address) *Lease {
	now := i.now()
	for _, l := range i.Leases {
		if l.OwnsAddress(ap, now) {
			return l
		}
	}
	return nil
}

// RouteToLease returns the lease that owns rp, either because rp is the
// on-link route of one of its addresses or because the lease carries it.
func (i *Interface) RouteToLease(rp *Route) *Lease {
	if rp == nil {
		return nil
	}
	for _, l := range i.Leases {
		if l.impliesRoute(rp) || l.OwnsRoute(rp) != nil {
			return l
		}
	}
	return nil
}

// AddRoute appends a route with the given destination and gateway.
func (i *Interface) AddRoute(prefixLen int, dest, gw netip.Addr) *Route {
	rp := NewRoute(prefixLen, dest, gw)
	i.Routes.Append(rp)
	return rp
}

func (i *Interface) now() time.Time {
	c := i.clock
	if c == nil {
		c = clock.Default()
	}
	return c.Now()
}
