package network

import (
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/insomniacslk/dhcp/dhcpv6"
)

// LeaseFromDHCPv4 converts a DHCPv4 ACK into a lease. ifname is recorded as
// the device of the routes the server handed out. A zero lease time yields a
// lease without expiry.
func LeaseFromDHCPv4(ack *dhcpv4.DHCPv4, ifname string, now time.Time) (*Lease, error) {
	if ack == nil {
		return nil, fmt.Errorf("nil DHCPv4 message")
	}
	if ack.MessageType() != dhcpv4.MessageTypeAck {
		return nil, fmt.Errorf("DHCPv4 message is %s, not ACK", ack.MessageType())
	}

	local, ok := netip.AddrFromSlice(ack.YourIPAddr.To4())
	if !ok || local.IsUnspecified() {
		return nil, fmt.Errorf("no IP in DHCP ACK")
	}

	prefixLen := 32
	if mask := ack.SubnetMask(); mask != nil {
		ones, bits := mask.Size()
		if bits != 32 {
			return nil, fmt.Errorf("%w: non-contiguous subnet mask %s", ErrMalformedNetmask, net.IP(mask))
		}
		prefixLen = ones
	}

	lease := NewLease(FamilyIPv4, AddrconfDHCP)
	lease.State = LeaseGranted
	lease.Acquired = now
	lease.Hostname = ack.HostName()

	addr := NewAddress(local, prefixLen)
	if bcast, ok := netip.AddrFromSlice(ack.BroadcastAddress().To4()); ok {
		addr.Broadcast = bcast
	}
	if lt := ack.IPAddressLeaseTime(0); lt > 0 {
		lease.Expires = now.Add(lt)
		addr.Expires = lease.Expires
	}
	lease.Addresses.Add(addr)

	// Option 121 takes precedence over option 3 (RFC 3442).
	if static := ack.ClasslessStaticRoute(); len(static) > 0 {
		for _, r := range static {
			dest, ok := netip.AddrFromSlice(r.Dest.IP.To4())
			if !ok {
				continue
			}
			ones, _ := r.Dest.Mask.Size()
			gw, _ := netip.AddrFromSlice(r.Router.To4())
			rp := NewRoute(ones, dest, gw)
			rp.NextHop.Device = ifname
			rp.Expires = lease.Expires
			lease.Routes.Append(rp)
		}
	} else if routers := ack.Router(); len(routers) > 0 {
		if gw, ok := netip.AddrFromSlice(routers[0].To4()); ok {
			rp := NewDefaultRoute(gw)
			rp.NextHop.Device = ifname
			rp.Expires = lease.Expires
			lease.Routes.Append(rp)
		}
	}

	for _, dns := range ack.DNS() {
		if a, ok := netip.AddrFromSlice(dns.To4()); ok {
			lease.DNS = append(lease.DNS, a)
		}
	}

	return lease, nil
}

// LeaseFromDHCPv6 converts the IA_NA addresses of a DHCPv6 reply into a
// lease. Addresses are recorded as /128 with their valid lifetime.
func LeaseFromDHCPv6(msg *dhcpv6.Message, now time.Time) (*Lease, error) {
	if msg == nil {
		return nil, fmt.Errorf("nil DHCPv6 message")
	}

	lease := NewLease(FamilyIPv6, AddrconfDHCP)
	lease.State = LeaseGranted
	lease.Acquired = now

	for _, opt := range msg.Options.Options {
		ianaOpt, ok := opt.(*dhcpv6.OptIANA)
		if !ok {
			continue
		}
		for _, subOpt := range ianaOpt.Options.Options {
			iaaddr, ok := subOpt.(*dhcpv6.OptIAAddress)
			if !ok {
				continue
			}
			a, ok := netip.AddrFromSlice(iaaddr.IPv6Addr)
			if !ok {
				continue
			}
			addr := NewAddress(a, 128)
			if iaaddr.ValidLifetime > 0 {
				addr.Expires = now.Add(iaaddr.ValidLifetime)
				if lease.Expires.IsZero() || addr.Expires.Before(lease.Expires) {
					lease.Expires = addr.Expires
				}
			}
			lease.Addresses.Add(addr)
		}
	}
	if len(lease.Addresses) == 0 {
		return nil, fmt.Errorf("no IA_NA address in DHCPv6 reply")
	}

	for _, dns := range msg.Options.DNS() {
		if a, ok := netip.AddrFromSlice(dns); ok {
			lease.DNS = append(lease.DNS, a)
		}
	}

	return lease, nil
}
