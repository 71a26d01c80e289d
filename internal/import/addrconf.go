package imports

import (
	"net/netip"
	"path/filepath"

	"grimm.is/ifcompat/internal/network"
)

var (
	loopback4 = netip.MustParseAddr("127.0.0.1")
	loopback6 = netip.IPv6Loopback()
)

// buildStatic collects the IPADDR family of variables, the interface route
// file and the matching global routes.
func (t *translation) buildStatic() error {
	for _, v := range t.sc.Indexed("IPADDR") {
		if v.Value == "" {
			continue
		}
		ap, err := t.parseIPAddr(v.Suffix, v.Value)
		if err != nil {
			return wrapf(err, "%s=%q", v.Name, v.Value)
		}
		t.cfg.Addresses.Add(ap)
	}

	if t.cfg.Name == "lo" {
		if t.cfg.Addresses.Find(loopback4) == nil {
			t.cfg.Addresses.Add(network.NewAddress(loopback4, 8))
		}
		if t.cfg.Addresses.Find(loopback6) == nil {
			t.cfg.Addresses.Add(network.NewAddress(loopback6, 128))
		}
	}

	if err := t.readInterfaceRoutes(); err != nil {
		return err
	}
	t.attachGlobalRoutes()

	t.cfg.Addresses = t.cfg.Addresses.Dedup()
	return nil
}

// parseIPAddr builds the address of one IPADDR<suffix> variable together
// with its PREFIXLEN, NETMASK, BROADCAST and REMOTE_IPADDR companions.
func (t *translation) parseIPAddr(suffix, text string) (*network.Address, error) {
	prefixLen, _ := t.sc.Lookup("PREFIXLEN", suffix)
	netmask, _ := t.sc.Lookup("NETMASK", suffix)

	ap, err := network.ParseAddress(text, prefixLen, netmask)
	if err != nil {
		return nil, err
	}

	if ap.Family == network.FamilyIPv4 {
		if v, ok := t.sc.Lookup("BROADCAST", suffix); ok {
			if a, err := network.ParseAddr(v); err == nil && network.FamilyOf(a) == ap.Family {
				ap.Broadcast = a
			} else {
				t.warn("family_mismatch", "ignoring BROADCAST%s=%s (wrong address family)", suffix, v)
			}
		}
	}

	if v, ok := t.sc.Lookup("REMOTE_IPADDR", suffix); ok {
		if a, err := network.ParseAddr(v); err == nil && network.FamilyOf(a) == ap.Family {
			ap.Peer = a
		} else {
			t.warn("family_mismatch", "ignoring REMOTE_IPADDR%s=%s (wrong address family)", suffix, v)
		}
	}
	return ap, nil
}

// readInterfaceRoutes loads ifroute-<name> from the directory of the config
// file. A route file that fails to parse fails the interface.
func (t *translation) readInterfaceRoutes() error {
	if t.cfg.File == "" {
		return nil
	}
	path := filepath.Join(filepath.Dir(t.cfg.File), RoutesPrefix+t.cfg.Name)
	ok, err := fileExists(path)
	if err != nil || !ok {
		return err
	}
	routes, err := ReadRoutes(path)
	if err != nil {
		return err
	}
	t.metrics.RecordRoutes(len(routes))
	t.cfg.Routes = routes
	return nil
}

// attachGlobalRoutes copies the global routes that belong to this
// interface. IPv4 routes must be unbound or bound to this interface and
// have a gateway one of its IPv4 addresses can reach. IPv6 routes must be
// explicitly bound to this interface.
func (t *translation) attachGlobalRoutes() {
	if t.globals == nil {
		return
	}
	v4 := t.cfg.Addresses.Family(network.FamilyIPv4)

	for _, rp := range t.globals.Routes {
		dev := rp.NextHop.Device
		switch rp.Family {
		case network.FamilyIPv4:
			if dev != "" && dev != t.cfg.Name {
				continue
			}
			gw := rp.NextHop.Gateway
			if network.FamilyOf(gw) != network.FamilyIPv4 {
				continue
			}
			for _, ap := range v4 {
				if ap.CanReach(gw) {
					t.cfg.Routes.Append(rp.Clone())
					break
				}
			}
		case network.FamilyIPv6:
			if dev == t.cfg.Name {
				t.cfg.Routes.Append(rp.Clone())
			}
		}
	}
}
