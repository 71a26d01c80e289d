package imports

import (
	"fmt"
	"net/netip"
	"slices"
	"strconv"
	"strings"

	"grimm.is/ifcompat/internal/network"
)

// Bonding modes in kernel numbering order.
var bondModes = []string{
	"balance-rr", "active-backup", "balance-xor", "broadcast",
	"802.3ad", "balance-tlb", "balance-alb",
}

// Enumerated bonding options, in kernel numbering order where the kernel
// also accepts a number.
var bondEnums = map[string][]string{
	"mode":             bondModes,
	"arp_validate":     {"none", "active", "backup", "all"},
	"xmit_hash_policy": {"layer2", "layer3+4", "layer2+3", "encap2+3", "encap3+4"},
	"lacp_rate":        {"slow", "fast"},
	"ad_select":        {"stable", "bandwidth", "count"},
	"fail_over_mac":    {"none", "active", "follow"},
	"primary_reselect": {"always", "better", "failure"},
}

const maxArpTargets = 16

// BondOption is one key=value pair of BONDING_MODULE_OPTS.
type BondOption struct {
	Key   string
	Value string
}

// BondLink is a bonding master with its slaves and module options.
type BondLink struct {
	Slaves  []string
	Options []BondOption

	Mode            string
	Miimon          uint32
	UpDelay         uint32
	DownDelay       uint32
	UseCarrier      bool
	ArpInterval     uint32
	ArpIPTargets    []netip.Addr
	ArpValidate     string
	Primary         string
	XmitHashPolicy  string
	LACPRate        string
	ADSelect        string
	FailOverMAC     string
	PrimaryReselect string
	NumGratArp      uint32
	AllSlavesActive bool
	ResendIGMP      uint32
	MinLinks        uint32
}

// NewBondLink returns a bond with kernel defaults.
func NewBondLink() *BondLink {
	return &BondLink{
		Mode:       "balance-rr",
		UseCarrier: true,
	}
}

func (*BondLink) Type() network.LinkType { return network.LinkBond }

// AddSlave appends a slave device.
func (b *BondLink) AddSlave(name string) {
	b.Slaves = append(b.Slaves, name)
}

// SetOptions applies a whitespace separated key=value list.
func (b *BondLink) SetOptions(opts string) error {
	for _, kv := range strings.Fields(opts) {
		key, val, _ := strings.Cut(kv, "=")
		if key == "" || val == "" {
			return fmt.Errorf("%w: cannot parse %q", ErrMalformedBondOption, opts)
		}
		if err := b.SetOption(key, val); err != nil {
			return err
		}
	}
	return nil
}

// SetOption sets a single bonding module option.
func (b *BondLink) SetOption(key, val string) error {
	var err error
	switch key {
	case "mode":
		b.Mode, err = bondEnum(key, val)
	case "miimon":
		b.Miimon, err = bondUint(key, val)
	case "updelay":
		b.UpDelay, err = bondUint(key, val)
	case "downdelay":
		b.DownDelay, err = bondUint(key, val)
	case "use_carrier":
		b.UseCarrier, err = bondBool(key, val)
	case "arp_interval":
		b.ArpInterval, err = bondUint(key, val)
	case "arp_ip_target":
		b.ArpIPTargets, err = bondTargets(val)
	case "arp_validate":
		b.ArpValidate, err = bondEnum(key, val)
	case "primary":
		b.Primary = val
	case "xmit_hash_policy":
		b.XmitHashPolicy, err = bondEnum(key, val)
	case "lacp_rate":
		b.LACPRate, err = bondEnum(key, val)
	case "ad_select":
		b.ADSelect, err = bondEnum(key, val)
	case "fail_over_mac":
		b.FailOverMAC, err = bondEnum(key, val)
	case "primary_reselect":
		b.PrimaryReselect, err = bondEnum(key, val)
	case "num_grat_arp", "num_unsol_na":
		b.NumGratArp, err = bondUint(key, val)
	case "all_slaves_active":
		b.AllSlavesActive, err = bondBool(key, val)
	case "resend_igmp":
		b.ResendIGMP, err = bondUint(key, val)
	case "min_links":
		b.MinLinks, err = bondUint(key, val)
	default:
		return fmt.Errorf("%w: unknown option %s=%s", ErrMalformedBondOption, key, val)
	}
	if err != nil {
		return err
	}
	b.Options = append(b.Options, BondOption{Key: key, Value: val})
	return nil
}

// Validate checks the aggregate bonding configuration.
func (b *BondLink) Validate() error {
	if len(b.Slaves) == 0 {
		return fmt.Errorf("%w: no slaves", ErrBondValidation)
	}
	if !slices.Contains(bondModes, b.Mode) {
		return fmt.Errorf("%w: unknown mode %q", ErrBondValidation, b.Mode)
	}
	if b.Miimon > 0 && b.ArpInterval > 0 {
		return fmt.Errorf("%w: miimon and arp_interval are mutually exclusive", ErrBondValidation)
	}
	if b.ArpInterval > 0 && len(b.ArpIPTargets) == 0 {
		return fmt.Errorf("%w: arp_interval requires arp_ip_target", ErrBondValidation)
	}
	if b.ArpInterval == 0 && b.ArpValidate != "" && b.ArpValidate != "none" {
		return fmt.Errorf("%w: arp_validate requires arp_interval", ErrBondValidation)
	}
	if b.Primary != "" {
		switch b.Mode {
		case "active-backup", "balance-tlb", "balance-alb":
		default:
			return fmt.Errorf("%w: primary is not supported in mode %s", ErrBondValidation, b.Mode)
		}
		if !slices.Contains(b.Slaves, b.Primary) {
			return fmt.Errorf("%w: primary %s is not a slave", ErrBondValidation, b.Primary)
		}
	}
	if b.LACPRate != "" && b.Mode != "802.3ad" {
		return fmt.Errorf("%w: lacp_rate requires mode 802.3ad", ErrBondValidation)
	}
	seen := make(map[string]bool, len(b.Slaves))
	for _, s := range b.Slaves {
		if seen[s] {
			return fmt.Errorf("%w: duplicate slave %s", ErrBondValidation, s)
		}
		seen[s] = true
	}
	return nil
}

func bondEnum(key, val string) (string, error) {
	names := bondEnums[key]
	if slices.Contains(names, val) {
		return val, nil
	}
	if n, err := strconv.ParseUint(val, 10, 8); err == nil && int(n) < len(names) {
		return names[n], nil
	}
	return "", fmt.Errorf("%w: invalid %s=%s", ErrMalformedBondOption, key, val)
}

func bondUint(key, val string) (uint32, error) {
	n, err := strconv.ParseUint(val, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s=%s", ErrMalformedBondOption, key, val)
	}
	return uint32(n), nil
}

func bondBool(key, val string) (bool, error) {
	switch val {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("%w: invalid %s=%s", ErrMalformedBondOption, key, val)
}

func bondTargets(val string) ([]netip.Addr, error) {
	parts := strings.Split(val, ",")
	if len(parts) > maxArpTargets {
		return nil, fmt.Errorf("%w: more than %d arp_ip_target entries", ErrMalformedBondOption, maxArpTargets)
	}
	targets := make([]netip.Addr, 0, len(parts))
	for _, p := range parts {
		a, err := netip.ParseAddr(p)
		if err != nil || !a.Is4() {
			return nil, fmt.Errorf("%w: invalid arp_ip_target %q", ErrMalformedBondOption, p)
		}
		targets = append(targets, a)
	}
	return targets, nil
}

func tryBonding(ctx *recognizeCtx) (LinkConfig, bool, error) {
	if enabled, ok := ctx.sc.Bool("BONDING_MASTER"); !ok || !enabled {
		return nil, false, nil
	}

	bond := NewBondLink()
	for _, slave := range ctx.sc.Indexed("BONDING_SLAVE") {
		if slave.Value != "" {
			bond.AddSlave(slave.Value)
		}
	}

	if opts := ctx.sc.Value("BONDING_MODULE_OPTS"); opts != "" {
		if err := bond.SetOptions(opts); err != nil {
			return nil, false, err
		}
	}
	if err := bond.Validate(); err != nil {
		return nil, false, err
	}
	return bond, true, nil
}
