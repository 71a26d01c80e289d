package imports

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/insomniacslk/dhcp/dhcpv6"

	"grimm.is/ifcompat/internal/sysconfig"
)

// applyDHCP4Options overlays the DHCLIENT_* settings of sc onto o. Values
// that do not parse are reported through warn and leave o unchanged.
func applyDHCP4Options(sc *sysconfig.File, o *DHCP4Options, warn func(kind, msg string, args ...any)) {
	if v := sc.Value("DHCLIENT_HOSTNAME_OPTION"); v != "" && !strings.EqualFold(v, "auto") {
		o.Hostname = v
	}
	if v := sc.Value("DHCLIENT_CLIENT_ID"); v != "" {
		o.ClientID = v
	}
	if v := sc.Value("DHCLIENT_VENDOR_CLASS_ID"); v != "" {
		o.VendorClass = v
	}

	if v := sc.Value("DHCLIENT_WAIT_AT_BOOT"); v != "" {
		if n, ok := sc.Uint("DHCLIENT_WAIT_AT_BOOT"); ok {
			o.AcquireInfinite = n == 0
			o.AcquireTimeout = time.Duration(n) * time.Second
		} else {
			warn("dhcp", "%s: cannot parse DHCLIENT_WAIT_AT_BOOT=%q", sc.Path, v)
		}
	}

	if v := sc.Value("DHCLIENT_LEASE_TIME"); v != "" {
		n, err := strconv.ParseInt(v, 0, 64)
		switch {
		case errors.Is(err, strconv.ErrRange), err == nil && (n < 0 || n > math.MaxInt32):
			o.LeaseInfinite = true
			o.LeaseTime = 0
		case err == nil:
			o.LeaseInfinite = false
			o.LeaseTime = time.Duration(n) * time.Second
		default:
			warn("dhcp", "%s: cannot parse DHCLIENT_LEASE_TIME=%q", sc.Path, v)
		}
	}
}

// Modifiers turns the options into request modifiers for a DHCPv4 client.
func (o DHCP4Options) Modifiers() []dhcpv4.Modifier {
	var mods []dhcpv4.Modifier
	if o.Hostname != "" {
		mods = append(mods, dhcpv4.WithOption(dhcpv4.OptHostName(o.Hostname)))
	}
	if o.ClientID != "" {
		mods = append(mods, dhcpv4.WithOption(dhcpv4.OptClientIdentifier([]byte(o.ClientID))))
	}
	if o.VendorClass != "" {
		mods = append(mods, dhcpv4.WithOption(dhcpv4.OptClassIdentifier(o.VendorClass)))
	}
	switch {
	case o.LeaseInfinite:
		mods = append(mods, dhcpv4.WithLeaseTime(math.MaxUint32))
	case o.LeaseTime > 0:
		mods = append(mods, dhcpv4.WithLeaseTime(uint32(o.LeaseTime/time.Second)))
	}
	return mods
}

// Modifiers returns the request modifiers for a DHCPv6 client identified by
// duid. DHCPv6 options are not translated from ifcfg files, so only the
// client identifier is set.
func (o DHCP6Options) Modifiers(duid dhcpv6.DUID) []dhcpv6.Modifier {
	if duid == nil {
		return nil
	}
	return []dhcpv6.Modifier{dhcpv6.WithClientID(duid)}
}

func (t *translation) enableDHCP4() {
	o := &t.cfg.DHCP4
	if o.Enabled {
		return
	}
	if t.globals != nil && t.globals.DHCP != nil {
		applyDHCP4Options(t.globals.DHCP, o, t.warn)
	}
	applyDHCP4Options(t.sc, o, t.warn)
	o.Enabled = true
}

func (t *translation) enableDHCP6() {
	o := &t.cfg.DHCP6
	if o.Enabled {
		return
	}
	// DHCLIENT6_* settings are not translated; the client uses its defaults.
	o.Enabled = true
}
