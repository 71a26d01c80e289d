package imports

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/samber/lo"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v2"

	"grimm.is/ifcompat/internal/network"
)

// InterfaceView is the serialized form of an InterfaceConfig used by the
// JSON and YAML exporters.
type InterfaceView struct {
	Name      string     `json:"name" yaml:"name"`
	File      string     `json:"file,omitempty" yaml:"file,omitempty"`
	Type      string     `json:"type" yaml:"type"`
	StartMode string     `json:"startmode" yaml:"startmode"`
	MTU       uint32     `json:"mtu,omitempty" yaml:"mtu,omitempty"`
	HWAddr    string     `json:"hwaddr,omitempty" yaml:"hwaddr,omitempty"`
	Link      *LinkView  `json:"link,omitempty" yaml:"link,omitempty"`
	Addresses []string   `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	Routes    []string   `json:"routes,omitempty" yaml:"routes,omitempty"`
	DHCP4     *DHCP4View `json:"dhcp4,omitempty" yaml:"dhcp4,omitempty"`
	DHCP6     bool       `json:"dhcp6,omitempty" yaml:"dhcp6,omitempty"`
	Warnings  []string   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// LinkView holds the link type specific settings. Only the fields of the
// interface's link type are set.
type LinkView struct {
	Parent  string   `json:"parent,omitempty" yaml:"parent,omitempty"`
	Tag     *uint16  `json:"tag,omitempty" yaml:"tag,omitempty"`
	Mode    string      `json:"mode,omitempty" yaml:"mode,omitempty"`
	Slaves  []string    `json:"slaves,omitempty" yaml:"slaves,omitempty"`
	Options []string    `json:"options,omitempty" yaml:"options,omitempty"`
	Bridge  *BridgeView `json:"bridge,omitempty" yaml:"bridge,omitempty"`
	ESSID   string      `json:"essid,omitempty" yaml:"essid,omitempty"`
	Tunnel  string      `json:"tunnel,omitempty" yaml:"tunnel,omitempty"`
	Ethtool string      `json:"ethtool_options,omitempty" yaml:"ethtool_options,omitempty"`
}

// BridgeView is the serialized form of BridgeLink. Unset parameters are
// omitted; durations use time.Duration notation.
type BridgeView struct {
	STP          bool             `json:"stp" yaml:"stp"`
	Priority     *uint32          `json:"priority,omitempty" yaml:"priority,omitempty"`
	AgeingTime   string           `json:"ageing_time,omitempty" yaml:"ageing_time,omitempty"`
	ForwardDelay string           `json:"forward_delay,omitempty" yaml:"forward_delay,omitempty"`
	HelloTime    string           `json:"hello_time,omitempty" yaml:"hello_time,omitempty"`
	MaxAge       string           `json:"max_age,omitempty" yaml:"max_age,omitempty"`
	Ports        []BridgePortView `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// BridgePortView is one bridge port with its optional STP settings.
type BridgePortView struct {
	Name     string  `json:"name" yaml:"name"`
	Priority *uint32 `json:"priority,omitempty" yaml:"priority,omitempty"`
	PathCost *uint32 `json:"path_cost,omitempty" yaml:"path_cost,omitempty"`
}

// DHCP4View is the serialized form of DHCP4Options.
type DHCP4View struct {
	Hostname       string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	ClientID       string `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	VendorClass    string `json:"vendor_class,omitempty" yaml:"vendor_class,omitempty"`
	AcquireTimeout string `json:"acquire_timeout,omitempty" yaml:"acquire_timeout,omitempty"`
	LeaseTime      string `json:"lease_time,omitempty" yaml:"lease_time,omitempty"`
}

// View converts cfg to its serialized form.
func View(cfg *InterfaceConfig) InterfaceView {
	v := InterfaceView{
		Name:      cfg.Name,
		File:      cfg.File,
		Type:      cfg.Type().String(),
		StartMode: cfg.Control.Mode,
		MTU:       cfg.MTU,
		Link:      linkView(cfg.Link),
		Addresses: lo.Map(cfg.Addresses, func(a *network.Address, _ int) string { return a.String() }),
		Routes:    lo.Map(cfg.Routes, func(r *network.Route, _ int) string { return r.String() }),
		DHCP6:     cfg.DHCP6.Enabled,
		Warnings:  cfg.Warnings,
	}
	if cfg.HWAddr != nil {
		v.HWAddr = cfg.HWAddr.String()
	}
	if cfg.DHCP4.Enabled {
		v.DHCP4 = dhcp4View(cfg.DHCP4)
	}
	return v
}

func dhcp4View(o DHCP4Options) *DHCP4View {
	v := &DHCP4View{
		Hostname:    o.Hostname,
		ClientID:    o.ClientID,
		VendorClass: o.VendorClass,
	}
	switch {
	case o.AcquireInfinite:
		v.AcquireTimeout = "infinite"
	case o.AcquireTimeout > 0:
		v.AcquireTimeout = o.AcquireTimeout.String()
	}
	switch {
	case o.LeaseInfinite:
		v.LeaseTime = "infinite"
	case o.LeaseTime > 0:
		v.LeaseTime = o.LeaseTime.String()
	}
	return v
}

func linkView(link LinkConfig) *LinkView {
	switch l := link.(type) {
	case VlanLink:
		tag := l.Tag
		return &LinkView{Parent: l.Parent, Tag: &tag}
	case *BondLink:
		return &LinkView{
			Mode:    l.Mode,
			Slaves:  l.Slaves,
			Options: lo.Map(l.Options, func(o BondOption, _ int) string { return o.Key + "=" + o.Value }),
		}
	case *BridgeLink:
		return &LinkView{Bridge: bridgeView(l)}
	case WirelessLink:
		return &LinkView{ESSID: l.ESSID}
	case TunnelLink:
		return &LinkView{Tunnel: l.Kind}
	case EthernetLink:
		return &LinkView{Ethtool: l.Options}
	}
	return nil
}

func bridgeView(l *BridgeLink) *BridgeView {
	return &BridgeView{
		STP:          l.STP,
		Priority:     l.Priority,
		AgeingTime:   durationString(l.AgeingTime),
		ForwardDelay: durationString(l.ForwardDelay),
		HelloTime:    durationString(l.HelloTime),
		MaxAge:       durationString(l.MaxAge),
		Ports: lo.Map(l.Ports, func(p BridgePort, _ int) BridgePortView {
			return BridgePortView{Name: p.Name, Priority: p.Priority, PathCost: p.PathCost}
		}),
	}
}

func durationString(d *time.Duration) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// MarshalJSON renders configs as an indented JSON array.
func MarshalJSON(configs []*InterfaceConfig) ([]byte, error) {
	views := lo.Map(configs, func(c *InterfaceConfig, _ int) InterfaceView { return View(c) })
	return json.MarshalIndent(views, "", "  ")
}

// MarshalYAML renders configs as a YAML list.
func MarshalYAML(configs []*InterfaceConfig) ([]byte, error) {
	views := lo.Map(configs, func(c *InterfaceConfig, _ int) InterfaceView { return View(c) })
	return yaml.Marshal(views)
}

// GenerateHCL renders configs as a sequence of interface blocks.
func GenerateHCL(configs []*InterfaceConfig) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for i, cfg := range configs {
		if i > 0 {
			body.AppendNewline()
		}
		writeInterfaceBlock(body, cfg)
	}
	return hclwrite.Format(f.Bytes())
}

func writeInterfaceBlock(parent *hclwrite.Body, cfg *InterfaceConfig) {
	b := parent.AppendNewBlock("interface", []string{cfg.Name}).Body()

	b.SetAttributeValue("type", cty.StringVal(cfg.Type().String()))
	b.SetAttributeValue("startmode", cty.StringVal(cfg.Control.Mode))
	if cfg.MTU > 0 {
		b.SetAttributeValue("mtu", cty.NumberUIntVal(uint64(cfg.MTU)))
	}
	if cfg.HWAddr != nil {
		b.SetAttributeValue("hwaddr", cty.StringVal(cfg.HWAddr.String()))
	}

	if len(cfg.Addresses) > 0 {
		b.SetAttributeValue("addresses", stringList(lo.Map(cfg.Addresses,
			func(a *network.Address, _ int) string { return a.String() })))
	}
	if len(cfg.Routes) > 0 {
		b.SetAttributeValue("routes", stringList(lo.Map(cfg.Routes,
			func(r *network.Route, _ int) string { return r.String() })))
	}

	switch l := cfg.Link.(type) {
	case VlanLink:
		vb := b.AppendNewBlock("vlan", nil).Body()
		vb.SetAttributeValue("parent", cty.StringVal(l.Parent))
		vb.SetAttributeValue("tag", cty.NumberUIntVal(uint64(l.Tag)))
	case *BondLink:
		bb := b.AppendNewBlock("bond", nil).Body()
		bb.SetAttributeValue("mode", cty.StringVal(l.Mode))
		bb.SetAttributeValue("slaves", stringList(l.Slaves))
		for _, o := range l.Options {
			if o.Key != "mode" {
				bb.SetAttributeValue(o.Key, cty.StringVal(o.Value))
			}
		}
	case *BridgeLink:
		writeBridgeBlock(b, l)
	case TunnelLink:
		b.AppendNewBlock("tunnel", nil).Body().SetAttributeValue("kind", cty.StringVal(l.Kind))
	case EthernetLink:
		b.SetAttributeValue("ethtool_options", cty.StringVal(l.Options))
	case WirelessLink:
		b.SetAttributeValue("essid", cty.StringVal(l.ESSID))
	}

	if cfg.DHCP4.Enabled {
		db := b.AppendNewBlock("dhcp4", nil).Body()
		v := dhcp4View(cfg.DHCP4)
		for _, kv := range [][2]string{
			{"hostname", v.Hostname},
			{"client_id", v.ClientID},
			{"vendor_class", v.VendorClass},
			{"acquire_timeout", v.AcquireTimeout},
			{"lease_time", v.LeaseTime},
		} {
			if kv[1] != "" {
				db.SetAttributeValue(kv[0], cty.StringVal(kv[1]))
			}
		}
	}
	if cfg.DHCP6.Enabled {
		b.SetAttributeValue("dhcp6", cty.True)
	}

	for _, w := range cfg.Warnings {
		b.AppendUnstructuredTokens(hclwrite.Tokens{{
			Type:  hclsyntax.TokenComment,
			Bytes: []byte(fmt.Sprintf("# warning: %s\n", w)),
		}})
	}
}

func writeBridgeBlock(parent *hclwrite.Body, br *BridgeLink) {
	b := parent.AppendNewBlock("bridge", nil).Body()
	b.SetAttributeValue("stp", cty.BoolVal(br.STP))
	if br.Priority != nil {
		b.SetAttributeValue("priority", cty.NumberUIntVal(uint64(*br.Priority)))
	}
	for _, d := range []struct {
		name string
		val  *time.Duration
	}{
		{"ageing_time", br.AgeingTime},
		{"forward_delay", br.ForwardDelay},
		{"hello_time", br.HelloTime},
		{"max_age", br.MaxAge},
	} {
		if d.val != nil {
			b.SetAttributeValue(d.name, cty.StringVal(d.val.String()))
		}
	}
	for _, p := range br.Ports {
		pb := b.AppendNewBlock("port", []string{p.Name}).Body()
		if p.Priority != nil {
			pb.SetAttributeValue("priority", cty.NumberUIntVal(uint64(*p.Priority)))
		}
		if p.PathCost != nil {
			pb.SetAttributeValue("path_cost", cty.NumberUIntVal(uint64(*p.PathCost)))
		}
	}
}

func stringList(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	return cty.ListVal(lo.Map(items, func(s string, _ int) cty.Value { return cty.StringVal(s) }))
}
