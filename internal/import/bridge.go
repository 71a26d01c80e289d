package imports

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"grimm.is/ifcompat/internal/network"
	"grimm.is/ifcompat/internal/validation"
)

// Bridge parameter limits, as enforced by the kernel bridge driver.
const (
	BridgePriorityMax     = 65535
	BridgePortPriorityMax = 63
	BridgePathCostMax     = 65535
)

var (
	bridgeForwardDelayRange = [2]time.Duration{2 * time.Second, 30 * time.Second}
	bridgeHelloTimeRange    = [2]time.Duration{1 * time.Second, 10 * time.Second}
	bridgeMaxAgeRange       = [2]time.Duration{6 * time.Second, 40 * time.Second}
	bridgeAgeingTimeMax     = time.Duration(math.MaxInt32/100) * time.Second
)

// BridgePort is a bridge member. Nil fields keep the kernel default.
type BridgePort struct {
	Name     string
	Priority *uint32
	PathCost *uint32
}

// BridgeLink is a software bridge. Nil fields keep the kernel default.
type BridgeLink struct {
	STP          bool
	Priority     *uint32
	AgeingTime   *time.Duration
	ForwardDelay *time.Duration
	HelloTime    *time.Duration
	MaxAge       *time.Duration
	Ports        []BridgePort
}

func (*BridgeLink) Type() network.LinkType { return network.LinkBridge }

// Validate checks the bridge parameters and port list. name is the bridge's
// own interface name, which may not appear as a port.
func (b *BridgeLink) Validate(name string) error {
	if b.Priority != nil && *b.Priority > BridgePriorityMax {
		return fmt.Errorf("%w: priority %d out of range", ErrBridgeValidation, *b.Priority)
	}
	if err := checkDuration("forward delay", b.ForwardDelay, bridgeForwardDelayRange); err != nil {
		return err
	}
	if err := checkDuration("hello time", b.HelloTime, bridgeHelloTimeRange); err != nil {
		return err
	}
	if err := checkDuration("max age", b.MaxAge, bridgeMaxAgeRange); err != nil {
		return err
	}
	if err := checkDuration("ageing time", b.AgeingTime, [2]time.Duration{0, bridgeAgeingTimeMax}); err != nil {
		return err
	}

	seen := make(map[string]bool, len(b.Ports))
	for _, p := range b.Ports {
		if p.Name == name {
			return fmt.Errorf("%w: bridge %s cannot be its own port", ErrBridgeValidation, name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate port %s", ErrBridgeValidation, p.Name)
		}
		seen[p.Name] = true
		if p.Priority != nil && *p.Priority > BridgePortPriorityMax {
			return fmt.Errorf("%w: port %s priority %d out of range", ErrBridgeValidation, p.Name, *p.Priority)
		}
		if p.PathCost != nil && (*p.PathCost < 1 || *p.PathCost > BridgePathCostMax) {
			return fmt.Errorf("%w: port %s path cost %d out of range", ErrBridgeValidation, p.Name, *p.PathCost)
		}
	}
	return nil
}

func checkDuration(what string, d *time.Duration, r [2]time.Duration) error {
	if d != nil && (*d < r[0] || *d > r[1]) {
		return fmt.Errorf("%w: %s %s not within %s..%s", ErrBridgeValidation, what, *d, r[0], r[1])
	}
	return nil
}

func tryBridge(ctx *recognizeCtx) (LinkConfig, bool, error) {
	if enabled, ok := ctx.sc.Bool("BRIDGE"); !ok || !enabled {
		return nil, false, nil
	}

	br := &BridgeLink{}
	sc := ctx.sc

	if v := sc.Value("BRIDGE_STP"); v != "" {
		switch strings.ToLower(v) {
		case "on", "yes":
			br.STP = true
		case "off", "no":
			br.STP = false
		default:
			return nil, false, fmt.Errorf("%w: BRIDGE_STP=%q", ErrMalformedBridgeOption, v)
		}
	}

	if v := sc.Value("BRIDGE_PRIORITY"); v != "" {
		n, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return nil, false, fmt.Errorf("%w: BRIDGE_PRIORITY=%q", ErrMalformedBridgeOption, v)
		}
		prio := uint32(n)
		br.Priority = &prio
	}

	for _, t := range []struct {
		key string
		dst **time.Duration
	}{
		{"BRIDGE_AGEINGTIME", &br.AgeingTime},
		{"BRIDGE_FORWARDDELAY", &br.ForwardDelay},
		{"BRIDGE_HELLOTIME", &br.HelloTime},
		{"BRIDGE_MAXAGE", &br.MaxAge},
	} {
		v := sc.Value(t.key)
		if v == "" {
			continue
		}
		d, err := parseSeconds(v)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s=%q", ErrMalformedBridgeOption, t.key, v)
		}
		*t.dst = &d
	}

	ports := sc.Value("BRIDGE_PORTS")
	for _, name := range strings.Fields(ports) {
		if err := validation.ValidateInterfaceName(name); err != nil {
			return nil, false, fmt.Errorf("%w: BRIDGE_PORTS=%q: %w", ErrMalformedBridgeOption, ports, err)
		}
		br.Ports = append(br.Ports, BridgePort{Name: name})
	}

	if err := setPortValues(br.Ports, "BRIDGE_PORTPRIORITIES", sc.Value("BRIDGE_PORTPRIORITIES"),
		func(p *BridgePort, n uint32) { p.Priority = &n }); err != nil {
		return nil, false, err
	}
	if err := setPortValues(br.Ports, "BRIDGE_PATHCOSTS", sc.Value("BRIDGE_PATHCOSTS"),
		func(p *BridgePort, n uint32) { p.PathCost = &n }); err != nil {
		return nil, false, err
	}

	if err := br.Validate(ctx.name); err != nil {
		return nil, false, err
	}
	return br, true, nil
}

// setPortValues applies a whitespace separated list positionally to ports.
// "-" keeps the default and entries beyond the port count are ignored.
func setPortValues(ports []BridgePort, key, list string, set func(*BridgePort, uint32)) error {
	for i, tok := range strings.Fields(list) {
		if i >= len(ports) {
			break
		}
		if tok == "-" {
			continue
		}
		n, err := strconv.ParseUint(tok, 0, 32)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: port %s value %q", ErrMalformedBridgeOption, key, list, ports[i].Name, tok)
		}
		set(&ports[i], uint32(n))
	}
	return nil
}

// parseSeconds parses a decimal number of seconds.
func parseSeconds(s string) (time.Duration, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) > math.MaxInt64/float64(time.Second) {
		return 0, fmt.Errorf("invalid number of seconds %q", s)
	}
	return time.Duration(f * float64(time.Second)), nil
}
