package imports

import (
	"grimm.is/ifcompat/internal/network"
	"grimm.is/ifcompat/internal/sysconfig"
)

// recognizeCtx is what a link type recognizer sees of one interface.
type recognizeCtx struct {
	name string
	sc   *sysconfig.File
	warn func(kind, msg string, args ...any)
}

// A recognizer either declines (ok false) or claims the interface. An error
// aborts translation of the interface.
type recognizer func(*recognizeCtx) (link LinkConfig, ok bool, err error)

// recognizers run in priority order; the first match wins.
var recognizers = []struct {
	name string
	fn   recognizer
}{
	{"loopback", tryLoopback},
	{"bonding", tryBonding},
	{"bridge", tryBridge},
	{"vlan", tryVlan},
	{"wireless", tryWireless},
	{"tunnel", tryTunnel},
	{"ethernet", tryEthernet},
}

func recognizeLink(ctx *recognizeCtx) (LinkConfig, error) {
	for _, r := range recognizers {
		link, ok, err := r.fn(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			return link, nil
		}
	}
	return UnknownLink{}, nil
}

func tryLoopback(ctx *recognizeCtx) (LinkConfig, bool, error) {
	if ctx.name != "lo" {
		return nil, false, nil
	}
	return LoopbackLink{}, true, nil
}

func tryWireless(ctx *recognizeCtx) (LinkConfig, bool, error) {
	essid, ok := ctx.sc.Get("WIRELESS_ESSID")
	if !ok {
		return nil, false, nil
	}
	ctx.warn("wireless", "conversion of wireless interfaces not yet supported")
	return WirelessLink{ESSID: essid}, true, nil
}

var tunnelKinds = map[string]network.LinkType{
	"tun":    network.LinkTun,
	"tap":    network.LinkTap,
	"sit":    network.LinkSIT,
	"gre":    network.LinkGRE,
	"ipip":   network.LinkTunnel,
	"ip6tnl": network.LinkTunnel6,
}

func tryTunnel(ctx *recognizeCtx) (LinkConfig, bool, error) {
	kind := ctx.sc.Value("TUNNEL")
	lt, ok := tunnelKinds[kind]
	if !ok {
		return nil, false, nil
	}
	return TunnelLink{Kind: kind, kind: lt}, true, nil
}

func tryEthernet(ctx *recognizeCtx) (LinkConfig, bool, error) {
	opts := ctx.sc.Value("ETHTOOL_OPTIONS")
	if opts == "" {
		return nil, false, nil
	}
	return EthernetLink{Options: opts}, true, nil
}
