package network

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

var (
	ErrMalformedAddress = errors.New("malformed address")
	ErrMalformedNetmask = errors.New("malformed netmask")
	ErrMalformedPrefix  = errors.New("malformed prefix length")
)

// ParseAddr parses a literal IPv4 or IPv6 address. IPv4-mapped IPv6
// addresses are returned in their IPv4 form.
func ParseAddr(text string) (netip.Addr, error) {
	a, _, err := parseAddr(text)
	return a, err
}

func parseAddr(text string) (addr netip.Addr, mapped bool, err error) {
	a, err := netip.ParseAddr(strings.TrimSpace(text))
	if err != nil {
		return netip.Addr{}, false, fmt.Errorf("%w: %q", ErrMalformedAddress, text)
	}
	if a.Is4In6() {
		return a.Unmap(), true, nil
	}
	return a, false, nil
}

// ParsePrefix parses "addr" or "addr/len". hasPrefix reports whether a
// length was present in the text. The length is decimal. For an IPv4-mapped
// IPv6 address it counts over 128 bits and must cover the ::ffff:0:0/96
// part; the result is the matching IPv4 length.
func ParsePrefix(text string) (addr netip.Addr, prefixLen int, hasPrefix bool, err error) {
	host, length, found := strings.Cut(strings.TrimSpace(text), "/")

	addr, mapped, err := parseAddr(host)
	if err != nil {
		return netip.Addr{}, 0, false, err
	}
	if !found {
		return addr, FamilyOf(addr).Bits(), false, nil
	}

	if mapped {
		n, err := parsePrefixLen(length, FamilyIPv6)
		if err != nil || n < 96 {
			return netip.Addr{}, 0, false, fmt.Errorf("%w: %q for mapped %s", ErrMalformedPrefix, length, addr)
		}
		return addr, n - 96, true, nil
	}

	prefixLen, err = parsePrefixLen(length, FamilyOf(addr))
	if err != nil {
		return netip.Addr{}, 0, false, err
	}
	return addr, prefixLen, true, nil
}

// parsePrefixLen parses a decimal prefix length no longer than the family's
// address width. Leading zeros do not select another base.
func parsePrefixLen(text string, family Family) (int, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(text), 10, 16)
	if err != nil || int(n) > family.Bits() {
		return 0, fmt.Errorf("%w: %q for %s", ErrMalformedPrefix, text, family)
	}
	return int(n), nil
}

// NetmaskBits counts the prefix length of a dotted netmask. Non-contiguous
// masks are rejected.
func NetmaskBits(mask netip.Addr) (int, error) {
	if !mask.IsValid() {
		return 0, fmt.Errorf("%w: invalid address", ErrMalformedNetmask)
	}
	raw := mask.AsSlice()
	ones := 0
	seenZero := false
	for _, b := range raw {
		for i := 7; i >= 0; i-- {
			if b&(1<<i) != 0 {
				if seenZero {
					return 0, fmt.Errorf("%w: %s is not contiguous", ErrMalformedNetmask, mask)
				}
				ones++
			} else {
				seenZero = true
			}
		}
	}
	return ones, nil
}

// ParseNetmask parses a dotted netmask of the given family and returns its
// prefix length.
func ParseNetmask(text string, family Family) (int, error) {
	mask, err := netip.ParseAddr(strings.TrimSpace(text))
	if err != nil || FamilyOf(mask) != family {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNetmask, text)
	}
	return NetmaskBits(mask)
}

// ParseAddress builds an Address from a local address text and optional
// PREFIXLEN and NETMASK values. The prefix length comes from, in order: the
// address text itself, prefixLen, the netmask (IPv4 only), and finally the
// full address width.
func ParseAddress(text, prefixLen, netmask string) (*Address, error) {
	local, plen, has, err := ParsePrefix(text)
	if err != nil {
		return nil, err
	}
	family := FamilyOf(local)

	switch {
	case has:
	case strings.TrimSpace(prefixLen) != "":
		if plen, err = parsePrefixLen(prefixLen, family); err != nil {
			return nil, err
		}
	case family == FamilyIPv4 && strings.TrimSpace(netmask) != "":
		if plen, err = ParseNetmask(netmask, FamilyIPv4); err != nil {
			return nil, err
		}
	default:
		plen = family.Bits()
	}

	return NewAddress(local, plen), nil
}

// PrefixMatch reports whether a and b agree in their first n bits.
func PrefixMatch(n int, a, b netip.Addr) bool {
	if !a.IsValid() || !b.IsValid() || FamilyOf(a) != FamilyOf(b) {
		return false
	}
	a, b = a.Unmap(), b.Unmap()
	if n < 0 || n > a.BitLen() {
		return false
	}
	pa, err := a.Prefix(n)
	if err != nil {
		return false
	}
	return pa.Contains(b)
}
