package network

import (
	"fmt"
	"strings"
)

// LinkType identifies the kind of a network device.
type LinkType int

const (
	LinkUnknown LinkType = iota
	LinkLoopback
	LinkEthernet
	LinkBridge
	LinkBond
	LinkVlan
	LinkWireless
	LinkInfiniband
	LinkPPP
	LinkSLIP
	LinkSIT
	LinkGRE
	LinkISDN
	LinkTunnel
	LinkTunnel6
	LinkTun
	LinkTap
	LinkDummy
)

var linkTypeNames = map[LinkType]string{
	LinkUnknown:    "unknown",
	LinkLoopback:   "loopback",
	LinkEthernet:   "ethernet",
	LinkBridge:     "bridge",
	LinkBond:       "bond",
	LinkVlan:       "vlan",
	LinkWireless:   "wireless",
	LinkInfiniband: "infiniband",
	LinkPPP:        "ppp",
	LinkSLIP:       "slip",
	LinkSIT:        "sit",
	LinkGRE:        "gre",
	LinkISDN:       "isdn",
	LinkTunnel:     "tunnel",
	LinkTunnel6:    "tunnel6",
	LinkTun:        "virtual-tunnel",
	LinkTap:        "virtual-tap",
	LinkDummy:      "dummy",
}

func (t LinkType) String() string {
	if name, ok := linkTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("linktype(%d)", int(t))
}

// ParseLinkType maps a link type name back to its constant.
func ParseLinkType(name string) (LinkType, error) {
	for t, n := range linkTypeNames {
		if n == name {
			return t, nil
		}
	}
	return LinkUnknown, fmt.Errorf("unknown link type %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t LinkType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *LinkType) UnmarshalText(b []byte) error {
	v, err := ParseLinkType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Interface name prefixes that identify a link type when followed by a digit.
var ifnameTypes = []struct {
	prefix string
	typ    LinkType
}{
	{"ib", LinkInfiniband},
	{"ip6tunl", LinkTunnel6},
	{"ipip", LinkTunnel},
	{"sit", LinkSIT},
	{"tun", LinkTun},
}

// GuessLinkType infers a link type from an interface name. "lo" is loopback,
// known prefixes followed by a digit map to their type and everything else is
// assumed to be ethernet.
func GuessLinkType(name string) LinkType {
	if name == "" {
		return LinkUnknown
	}
	if name == "lo" {
		return LinkLoopback
	}
	for _, m := range ifnameTypes {
		rest, ok := strings.CutPrefix(name, m.prefix)
		if ok && rest != "" && rest[0] >= '0' && rest[0] <= '9' {
			return m.typ
		}
	}
	return LinkEthernet
}
