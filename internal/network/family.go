package network

import (
	"fmt"
	"net/netip"
	"strings"
)

// Family is an address family.
type Family uint8

const (
	FamilyUnspec Family = iota
	FamilyIPv4
	FamilyIPv6
)

// FamilyOf returns the family of a; invalid addresses are FamilyUnspec.
// IPv4-mapped IPv6 addresses count as IPv4.
func FamilyOf(a netip.Addr) Family {
	switch {
	case !a.IsValid():
		return FamilyUnspec
	case a.Unmap().Is4():
		return FamilyIPv4
	default:
		return FamilyIPv6
	}
}

// Bits returns the address width of the family in bits.
func (f Family) Bits() int {
	switch f {
	case FamilyIPv4:
		return 32
	case FamilyIPv6:
		return 128
	}
	return 0
}

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	}
	return "unspec"
}

// ParseFamily maps "ipv4"/"ipv6" to a Family.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(s) {
	case "ipv4", "inet", "4":
		return FamilyIPv4, nil
	case "ipv6", "inet6", "6":
		return FamilyIPv6, nil
	}
	return FamilyUnspec, fmt.Errorf("unknown address family %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
