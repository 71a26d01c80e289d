package imports

import (
	"bufio"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"grimm.is/ifcompat/internal/network"
)

// ParseRoutes reads a route file: one "destination gateway [mask [device
// [type]]]" entry per line, "#" starting a comment and "-" standing for an
// absent field. Any malformed line fails the whole file and no routes are
// returned.
func ParseRoutes(r io.Reader, name string) (network.RouteList, error) {
	var routes network.RouteList

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexAny(line, "#\r"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		rp, err := parseRouteFields(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %w", ErrRouteFileParse, name, lineNo, err)
		}
		routes.Append(rp)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRouteFileParse, name, err)
	}
	return routes, nil
}

// ReadRoutes opens and parses a route file.
func ReadRoutes(path string) (network.RouteList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableConfigFile, err)
	}
	defer f.Close()
	return ParseRoutes(f, path)
}

func field(fields []string, i int) string {
	if i < len(fields) && fields[i] != "-" {
		return fields[i]
	}
	return ""
}

func parseRouteFields(fields []string) (*network.Route, error) {
	dest, gwText, mask, device := fields[0], field(fields, 1), field(fields, 2), field(fields, 3)
	// fields[4] is the route type, which is informational only

	var gw netip.Addr
	if gwText != "" {
		var err error
		if gw, err = network.ParseAddr(gwText); err != nil {
			return nil, fmt.Errorf("cannot parse gateway: %w", err)
		}
	}

	var rp *network.Route
	if dest == "default" {
		if !gw.IsValid() {
			return nil, fmt.Errorf("default route without gateway")
		}
		rp = network.NewDefaultRoute(gw)
	} else {
		addr, plen, err := parseRouteDestination(dest, mask)
		if err != nil {
			return nil, err
		}
		if gw.IsValid() && network.FamilyOf(gw) != network.FamilyOf(addr) {
			return nil, fmt.Errorf("gateway %s does not match family of %s", gw, addr)
		}
		rp = network.NewRoute(plen, addr, gw)
	}

	if device != "" {
		rp.NextHop.Device = device
	}
	return rp, nil
}

// parseRouteDestination returns the destination and its prefix length from
// "addr/len", or "addr" plus an optional dotted mask. Without either the
// route is a host route.
func parseRouteDestination(dest, mask string) (netip.Addr, int, error) {
	if strings.Contains(dest, "/") {
		addr, n, _, err := network.ParsePrefix(dest)
		if err != nil {
			return netip.Addr{}, 0, fmt.Errorf("cannot parse destination: %w", err)
		}
		return addr, n, nil
	}

	addr, err := network.ParseAddr(dest)
	if err != nil {
		return netip.Addr{}, 0, fmt.Errorf("cannot parse destination: %w", err)
	}
	bits := network.FamilyOf(addr).Bits()

	if mask != "" {
		m, err := network.ParseAddr(mask)
		if err != nil {
			return netip.Addr{}, 0, fmt.Errorf("cannot parse mask: %w", err)
		}
		n, err := network.NetmaskBits(m)
		if err != nil {
			return netip.Addr{}, 0, err
		}
		if n > bits {
			return netip.Addr{}, 0, fmt.Errorf("%w: mask %s too long for %s", network.ErrMalformedNetmask, m, addr)
		}
		return addr, n, nil
	}
	return addr, bits, nil
}
