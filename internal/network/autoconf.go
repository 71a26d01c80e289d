package network

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/mdlayher/ndp"
)

// LeaseFromRouterAdvertisement builds an IPv6 autoconf lease from a router
// advertisement. Autonomous prefixes are recorded as prefix routes and as
// prefix addresses; the host part is chosen by the kernel and never seen
// here. A non-zero router lifetime adds a default route via router.
func LeaseFromRouterAdvertisement(ra *ndp.RouterAdvertisement, router netip.Addr, ifname string, now time.Time) (*Lease, error) {
	if ra == nil {
		return nil, fmt.Errorf("nil router advertisement")
	}

	lease := NewLease(FamilyIPv6, AddrconfAutoconf)
	lease.State = LeaseGranted
	lease.Acquired = now
	lease.Owner = router.String()

	for _, opt := range ra.Options {
		switch o := opt.(type) {
		case *ndp.PrefixInformation:
			if !o.AutonomousAddressConfiguration || o.Prefix.IsLinkLocalUnicast() {
				continue
			}
			plen := int(o.PrefixLength)
			prefix, err := o.Prefix.Prefix(plen)
			if err != nil {
				continue
			}
			var expires time.Time
			if o.ValidLifetime > 0 && o.ValidLifetime != ndp.Infinity {
				expires = now.Add(o.ValidLifetime)
			}

			rp := NewRoute(plen, prefix.Addr(), netip.Addr{})
			rp.NextHop.Device = ifname
			rp.Expires = expires
			lease.Routes.Append(rp)

			addr := NewAddress(prefix.Addr(), plen)
			addr.Expires = expires
			lease.Addresses.Add(addr)

		case *ndp.RecursiveDNSServer:
			lease.DNS = append(lease.DNS, o.Servers...)
		}
	}

	if ra.RouterLifetime > 0 && router.IsValid() {
		rp := NewDefaultRoute(router)
		rp.NextHop.Device = ifname
		rp.Expires = now.Add(ra.RouterLifetime)
		lease.Routes.Append(rp)
		lease.Expires = rp.Expires
	}

	if len(lease.Routes) == 0 {
		return nil, fmt.Errorf("router advertisement from %s carries no usable prefix or route", router)
	}
	return lease, nil
}
