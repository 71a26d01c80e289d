package imports

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/ifcompat/internal/logging"
	"grimm.is/ifcompat/internal/metrics"
	"grimm.is/ifcompat/internal/network"
	"grimm.is/ifcompat/internal/sysconfig"
	"grimm.is/ifcompat/internal/validation"
)

func newTestTranslator() *Translator {
	return NewTranslator(logging.Discard(), metrics.New(prometheus.NewRegistry()))
}

func addressStrings(l network.AddressList) []string {
	out := make([]string, len(l))
	for i, a := range l {
		out[i] = a.String()
	}
	return out
}

func routeStrings(l network.RouteList) []string {
	out := make([]string, len(l))
	for i, r := range l {
		out[i] = r.String()
	}
	return out
}

func translate(t *testing.T, name string, pairs ...string) (*InterfaceConfig, error) {
	t.Helper()
	return newTestTranslator().Translate(name, sysconfig.New("", pairs...), nil)
}

func TestTranslate_Static(t *testing.T) {
	cfg, err := translate(t, "eth0",
		"STARTMODE", "auto",
		"BOOTPROTO", "static",
		"MTU", "9000",
		"LLADDR", "52:54:00:12:34:56",
		"IPADDR", "192.168.1.10/24",
		"IPADDR_1", "10.0.0.5",
		"PREFIXLEN_1", "16",
		"IPADDR_2", "172.16.0.1",
		"NETMASK_2", "255.255.255.0",
		"BROADCAST_2", "172.16.0.255",
		"IPADDR_3", "2001:db8::1/64",
		"IPADDR_4", "10.9.9.9",
		"REMOTE_IPADDR_4", "10.9.9.10",
	)
	require.NoError(t, err)

	assert.Equal(t, "eth0", cfg.Name)
	assert.Equal(t, "auto", cfg.Control.Mode)
	assert.Equal(t, uint32(9000), cfg.MTU)
	assert.Equal(t, net.HardwareAddr{0x52, 0x54, 0, 0x12, 0x34, 0x56}, cfg.HWAddr)
	assert.Equal(t, network.LinkUnknown, cfg.Type())
	assert.False(t, cfg.DHCP4.Enabled)
	assert.False(t, cfg.DHCP6.Enabled)
	assert.Equal(t, []string{
		"192.168.1.10/24",
		"10.0.0.5/16",
		"172.16.0.1/24 brd 172.16.0.255",
		"2001:db8::1/64",
		"10.9.9.9/32 peer 10.9.9.10",
	}, addressStrings(cfg.Addresses))
	assert.Empty(t, cfg.Warnings)
}

func TestTranslate_PrefixPriority(t *testing.T) {
	cfg, err := translate(t, "eth0",
		"IPADDR", "10.0.0.1/8",
		"PREFIXLEN", "16",
		"NETMASK", "255.255.255.0",
		"IPADDR_a", "10.1.0.1",
		"PREFIXLEN_a", "16",
		"NETMASK_a", "255.255.255.0",
		"IPADDR_b", "2001:db8::2",
		"NETMASK_b", "255.255.255.0",
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1/8", "10.1.0.1/16", "2001:db8::2/128"}, addressStrings(cfg.Addresses))
}

func TestTranslate_FamilyMismatchWarns(t *testing.T) {
	cfg, err := translate(t, "eth0",
		"IPADDR", "192.168.1.10/24",
		"BROADCAST", "ff02::1",
		"REMOTE_IPADDR", "fe80::1",
	)
	require.NoError(t, err)
	require.Len(t, cfg.Addresses, 1)
	assert.False(t, cfg.Addresses[0].Broadcast.IsValid())
	assert.False(t, cfg.Addresses[0].Peer.IsValid())
	assert.Len(t, cfg.Warnings, 2)
}

func TestTranslate_Dedup(t *testing.T) {
	cfg, err := translate(t, "eth0",
		"IPADDR", "192.168.1.10/24",
		"IPADDR_0", "192.168.1.10",
		"NETMASK_0", "255.255.255.0",
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.1.10/24"}, addressStrings(cfg.Addresses))
}

func TestTranslate_MalformedAddress(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		wantErr error
	}{
		{"address", []string{"IPADDR", "192.168.1.300"}, network.ErrMalformedAddress},
		{"prefix", []string{"IPADDR", "192.168.1.3/33"}, network.ErrMalformedPrefix},
		{"prefixlen", []string{"IPADDR", "192.168.1.3", "PREFIXLEN", "abc"}, network.ErrMalformedPrefix},
		{"netmask", []string{"IPADDR", "192.168.1.3", "NETMASK", "255.0.255.0"}, network.ErrMalformedNetmask},
		{"netmask family", []string{"IPADDR", "192.168.1.3", "NETMASK", "ffff::"}, network.ErrMalformedNetmask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := translate(t, "eth0", tt.pairs...)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)

			var ierr *InterfaceError
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, "eth0", ierr.Name)
		})
	}
}

func TestTranslate_Loopback(t *testing.T) {
	cfg, err := translate(t, "lo", "BOOTPROTO", "dhcp", "IPADDR", "127.0.0.2/8")
	require.NoError(t, err)

	assert.Equal(t, network.LinkLoopback, cfg.Type())
	assert.False(t, cfg.DHCP4.Enabled)
	assert.Equal(t, []string{"127.0.0.2/8", "127.0.0.1/8", "::1/128"}, addressStrings(cfg.Addresses))

	cfg, err = translate(t, "lo", "IPADDR", "127.0.0.1/8")
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1/8", "::1/128"}, addressStrings(cfg.Addresses))
}

func TestTranslate_Bootproto(t *testing.T) {
	tests := []struct {
		bootproto string
		dhcp4     bool
		dhcp6     bool
		static    bool
		warnings  int
	}{
		{"", false, false, true, 0},
		{"static", false, false, true, 0},
		{"6to4", false, false, true, 0},
		{"none", false, false, false, 0},
		{"ibft", false, false, false, 0},
		{"dhcp", true, true, true, 0},
		{"DHCP", true, true, true, 0},
		{"dhcp4", true, false, true, 0},
		{"dhcp6", false, true, true, 0},
		{"dhcp4+autoip", true, false, true, 0},
		{"autoip", false, false, true, 0},
		{"dhcp6+bogus", false, true, true, 1},
		{"bogus", false, false, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.bootproto, func(t *testing.T) {
			cfg, err := translate(t, "eth0", "BOOTPROTO", tt.bootproto, "IPADDR", "10.0.0.1/24")
			require.NoError(t, err)
			assert.Equal(t, tt.dhcp4, cfg.DHCP4.Enabled, "dhcp4")
			assert.Equal(t, tt.dhcp6, cfg.DHCP6.Enabled, "dhcp6")
			assert.Equal(t, tt.static, len(cfg.Addresses) == 1, "static addresses")
			assert.Len(t, cfg.Warnings, tt.warnings)
		})
	}
}

func TestTranslate_DHCPDefaults(t *testing.T) {
	globals := &GlobalDefaults{DHCP: sysconfig.New("dhcp",
		"DHCLIENT_HOSTNAME_OPTION", "global",
		"DHCLIENT_LEASE_TIME", "600",
	)}
	sc := sysconfig.New("", "BOOTPROTO", "dhcp4", "DHCLIENT_HOSTNAME_OPTION", "local", "DHCLIENT_WAIT_AT_BOOT", "0")

	cfg, err := newTestTranslator().Translate("eth0", sc, globals)
	require.NoError(t, err)
	assert.Equal(t, DHCP4Options{
		Enabled:         true,
		Hostname:        "local",
		AcquireInfinite: true,
		LeaseTime:       10 * time.Minute,
	}, cfg.DHCP4)
}

func TestTranslate_BadLinkLayer(t *testing.T) {
	cfg, err := translate(t, "eth0", "LLADDR", "zz:zz", "MTU", "huge")
	require.NoError(t, err)
	assert.Nil(t, cfg.HWAddr)
	assert.Zero(t, cfg.MTU)
	assert.Len(t, cfg.Warnings, 2)
}

func TestTranslate_RecognizerErrorFailsInterface(t *testing.T) {
	_, err := translate(t, "vlan5", "ETHERDEVICE", "vlan5")
	assert.ErrorIs(t, err, ErrVlanSelfReference)

	_, err = translate(t, "bond0", "BONDING_MASTER", "yes", "BONDING_SLAVE_0", "eth0", "BONDING_MODULE_OPTS", "miimon")
	assert.ErrorIs(t, err, ErrMalformedBondOption)
}

func TestTranslate_GlobalRoutes(t *testing.T) {
	routes, err := ParseRoutes(strings.NewReader(`
default 192.168.1.1 - -
10.0.0.0/8 192.168.1.2 - eth0
172.16.0.0/12 192.168.1.3 - eth1
192.168.50.0/24 10.99.0.1 - -
2001:db8:1::/48 fe80::1 - eth0
2001:db8:2::/48 fe80::1 - -
`), "routes")
	require.NoError(t, err)
	globals := &GlobalDefaults{Routes: routes}

	sc := sysconfig.New("", "IPADDR", "192.168.1.10/24", "IPADDR_6", "2001:db8::10/64")
	cfg, err := newTestTranslator().Translate("eth0", sc, globals)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"default via 192.168.1.1",
		"10.0.0.0/8 via 192.168.1.2 dev eth0",
		"2001:db8:1::/48 via fe80::1 dev eth0",
	}, routeStrings(cfg.Routes))

	// attached routes are copies
	cfg.Routes[0].NextHop.Device = "changed"
	assert.Empty(t, globals.Routes[0].NextHop.Device)

	sc = sysconfig.New("", "IPADDR", "10.99.0.5/16")
	cfg, err = newTestTranslator().Translate("eth1", sc, globals)
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.50.0/24 via 10.99.0.1"}, routeStrings(cfg.Routes))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, GlobalRoutesFile, "default 192.168.1.1 - -\n")
	writeFixture(t, dir, GlobalDHCPFile, "DHCLIENT_VENDOR_CLASS_ID='acme'\n")
	path := writeFixture(t, dir, "ifcfg-eth0", `
STARTMODE='auto'
BOOTPROTO='dhcp+static'
IPADDR='192.168.1.10/24'
`)
	writeFixture(t, dir, "ifroute-eth0", "10.10.0.0/16 192.168.1.254 - eth0\n")

	cfg, err := newTestTranslator().ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "eth0", cfg.Name)
	assert.Equal(t, path, cfg.File)
	assert.True(t, cfg.DHCP4.Enabled)
	assert.Equal(t, "acme", cfg.DHCP4.VendorClass)
	assert.True(t, cfg.DHCP6.Enabled)
	assert.Equal(t, []string{"192.168.1.10/24"}, addressStrings(cfg.Addresses))
	assert.Equal(t, []string{
		"10.10.0.0/16 via 192.168.1.254 dev eth0",
		"default via 192.168.1.1",
	}, routeStrings(cfg.Routes))
	// "static" is an unknown token inside a + list
	assert.Len(t, cfg.Warnings, 1)
}

func TestReadFile_Rejects(t *testing.T) {
	dir := t.TempDir()
	tr := newTestTranslator()

	_, err := tr.ReadFile(writeFixture(t, dir, "ifcfg-eth0.rpmsave", "BOOTPROTO=dhcp\n"))
	assert.ErrorIs(t, err, ErrMissingOrBlacklistedFile)

	_, err = tr.ReadFile(writeFixture(t, dir, "eth0.conf", "BOOTPROTO=dhcp\n"))
	assert.ErrorIs(t, err, ErrMissingOrBlacklistedFile)
}

func TestReadFile_InvalidName(t *testing.T) {
	dir := t.TempDir()
	_, err := newTestTranslator().ReadFile(writeFixture(t, dir, "ifcfg-_eth0", "BOOTPROTO=dhcp\n"))
	assert.ErrorIs(t, err, validation.ErrInvalidInterfaceName)
}

func TestReadFile_Unreadable(t *testing.T) {
	dir := t.TempDir()
	_, err := newTestTranslator().ReadFile(writeFixture(t, dir, "ifcfg-eth0", "not an assignment\n"))
	assert.ErrorIs(t, err, ErrUnreadableConfigFile)

	_, err = newTestTranslator().ReadFile(filepath.Join(dir, "ifcfg-eth9"))
	assert.ErrorIs(t, err, ErrUnreadableConfigFile)
}

func TestReadFile_BadRouteFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "ifcfg-eth0", "IPADDR=192.168.1.10/24\n")
	writeFixture(t, dir, "ifroute-eth0", "10.10.0.0/16 192.168.1.254\n10.20.0.0/99 - - -\n")

	cfg, err := newTestTranslator().ReadFile(path)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrRouteFileParse)
}

func TestReadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, GlobalRoutesFile, "default 192.168.1.1 - -\n")
	writeFixture(t, dir, "ifcfg-lo", "STARTMODE=nfsroot\n")
	writeFixture(t, dir, "ifcfg-eth0", "STARTMODE=hotplug\nBOOTPROTO=none\n")
	writeFixture(t, dir, "ifcfg-eth1", "STARTMODE=hotplug\nBOOTPROTO=none\n")
	writeFixture(t, dir, "ifcfg-bond0", `
STARTMODE=auto
BOOTPROTO=static
IPADDR=192.168.1.10/24
BONDING_MASTER=yes
BONDING_SLAVE_0=eth0
BONDING_SLAVE_1=eth1
BONDING_MODULE_OPTS="mode=active-backup miimon=100"
`)
	writeFixture(t, dir, "ifcfg-bond0.old", "garbage\n")

	configs, err := newTestTranslator().ReadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, configs, 4)

	byName := map[string]*InterfaceConfig{}
	for _, c := range configs {
		byName[c.Name] = c
	}
	assert.Equal(t, []string{"bond0", "eth0", "eth1", "lo"},
		[]string{configs[0].Name, configs[1].Name, configs[2].Name, configs[3].Name})

	bond := byName["bond0"]
	assert.Equal(t, network.LinkBond, bond.Type())
	assert.Equal(t, []string{"default via 192.168.1.1"}, routeStrings(bond.Routes))

	assert.Empty(t, byName["eth0"].Addresses)
	assert.Equal(t, "hotplug", byName["eth0"].Control.Mode)

	lo := byName["lo"]
	assert.True(t, lo.Control.Infinite)
	assert.Equal(t, []string{"127.0.0.1/8", "::1/128"}, addressStrings(lo.Addresses))
}

func TestReadDirectory_AllOrNothing(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "ifcfg-eth0", "BOOTPROTO=dhcp\n")
	writeFixture(t, dir, "ifcfg-eth1", "ETHERDEVICE=eth1\n")
	writeFixture(t, dir, "ifcfg-eth2", "BOOTPROTO=dhcp\n")

	configs, err := newTestTranslator().ReadDirectory(dir)
	assert.Nil(t, configs)
	assert.ErrorIs(t, err, ErrVlanSelfReference)

	var ierr *InterfaceError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "eth1", ierr.Name)
}

func TestReadDirectory_BadGlobals(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "ifcfg-eth0", "BOOTPROTO=dhcp\n")
	writeFixture(t, dir, GlobalRoutesFile, "default nowhere\n")

	configs, err := newTestTranslator().ReadDirectory(dir)
	assert.Nil(t, configs)
	assert.ErrorIs(t, err, ErrRouteFileParse)
}

func TestRead_Dispatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "ifcfg-eth0", "BOOTPROTO=dhcp\n")
	tr := newTestTranslator()

	configs, err := tr.Read(dir)
	require.NoError(t, err)
	require.Len(t, configs, 1)

	configs, err = tr.Read(path)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "eth0", configs[0].Name)

	_, err = tr.Read(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrMissingOrBlacklistedFile)
}

func TestTranslate_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	tr := NewTranslator(logging.Discard(), metrics.New(reg))

	_, err := tr.Translate("eth0", sysconfig.New("", "BOOTPROTO", "bogus"), nil)
	require.NoError(t, err)
	_, err = tr.Translate("eth0", sysconfig.New("", "IPADDR", "bad"), nil)
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "," + l.GetName() + "=" + l.GetValue()
			}
			if c := m.GetCounter(); c != nil {
				counts[key] = c.GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, counts["ifcompat_translations_total,result=ok"])
	assert.Equal(t, 1.0, counts["ifcompat_translations_total,result=error"])
	assert.Equal(t, 1.0, counts["ifcompat_translation_warnings_total,kind=bootproto"])
}

func TestInterfaceError(t *testing.T) {
	err := &InterfaceError{Name: "eth0", File: "/etc/ifcfg-eth0", Err: os.ErrNotExist}
	assert.Equal(t, "ifcfg-eth0 (/etc/ifcfg-eth0): file does not exist", err.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = &InterfaceError{Name: "eth0", Err: os.ErrNotExist}
	assert.Equal(t, "ifcfg-eth0: file does not exist", err.Error())
}
