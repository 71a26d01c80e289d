package imports

import (
	"math"
	"net"
	"testing"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/insomniacslk/dhcp/dhcpv6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/ifcompat/internal/sysconfig"
)

func TestApplyDHCP4Options(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
		want  DHCP4Options
	}{
		{"empty", nil, DHCP4Options{}},
		{"hostname", []string{"DHCLIENT_HOSTNAME_OPTION", "myhost"}, DHCP4Options{Hostname: "myhost"}},
		{"hostname auto", []string{"DHCLIENT_HOSTNAME_OPTION", "AUTO"}, DHCP4Options{}},
		{"client id and vendor", []string{"DHCLIENT_CLIENT_ID", "01:02", "DHCLIENT_VENDOR_CLASS_ID", "acme"},
			DHCP4Options{ClientID: "01:02", VendorClass: "acme"}},
		{"wait at boot", []string{"DHCLIENT_WAIT_AT_BOOT", "15"}, DHCP4Options{AcquireTimeout: 15 * time.Second}},
		{"wait forever", []string{"DHCLIENT_WAIT_AT_BOOT", "0"}, DHCP4Options{AcquireInfinite: true}},
		{"lease time", []string{"DHCLIENT_LEASE_TIME", "3600"}, DHCP4Options{LeaseTime: time.Hour}},
		{"negative lease time", []string{"DHCLIENT_LEASE_TIME", "-1"}, DHCP4Options{LeaseInfinite: true}},
		{"lease time beyond int32", []string{"DHCLIENT_LEASE_TIME", "4294967296"}, DHCP4Options{LeaseInfinite: true}},
		{"lease time overflow", []string{"DHCLIENT_LEASE_TIME", "99999999999999999999"}, DHCP4Options{LeaseInfinite: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				got DHCP4Options
				w   warnings
			)
			applyDHCP4Options(sysconfig.New("test", tt.pairs...), &got, w.warn)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, w)
		})
	}
}

func TestApplyDHCP4Options_Layering(t *testing.T) {
	defaults := sysconfig.New("dhcp",
		"DHCLIENT_HOSTNAME_OPTION", "global",
		"DHCLIENT_VENDOR_CLASS_ID", "acme",
		"DHCLIENT_WAIT_AT_BOOT", "0",
	)
	iface := sysconfig.New("ifcfg-eth0",
		"DHCLIENT_HOSTNAME_OPTION", "local",
		"DHCLIENT_WAIT_AT_BOOT", "20",
	)

	var o DHCP4Options
	var w warnings
	applyDHCP4Options(defaults, &o, w.warn)
	applyDHCP4Options(iface, &o, w.warn)
	assert.Empty(t, w)

	assert.Equal(t, "local", o.Hostname)
	assert.Equal(t, "acme", o.VendorClass)
	assert.False(t, o.AcquireInfinite)
	assert.Equal(t, 20*time.Second, o.AcquireTimeout)
}

func TestApplyDHCP4Options_Unparsable(t *testing.T) {
	o := DHCP4Options{AcquireTimeout: 10 * time.Second, LeaseTime: time.Hour}
	var w warnings
	applyDHCP4Options(sysconfig.New("ifcfg-eth0",
		"DHCLIENT_WAIT_AT_BOOT", "soon",
		"DHCLIENT_LEASE_TIME", "forever",
	), &o, w.warn)

	assert.Equal(t, warnings{"dhcp", "dhcp"}, w)
	assert.Equal(t, 10*time.Second, o.AcquireTimeout)
	assert.False(t, o.AcquireInfinite)
	assert.Equal(t, time.Hour, o.LeaseTime)
}

func TestTranslate_DHCPWaitWarning(t *testing.T) {
	cfg, err := newTestTranslator().Translate("eth0", sysconfig.New("ifcfg-eth0",
		"BOOTPROTO", "dhcp4",
		"DHCLIENT_WAIT_AT_BOOT", "soon",
	), nil)
	require.NoError(t, err)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "DHCLIENT_WAIT_AT_BOOT")
	assert.True(t, cfg.DHCP4.Enabled)
}

func TestDHCP4Options_Modifiers(t *testing.T) {
	o := DHCP4Options{
		Enabled:     true,
		Hostname:    "myhost",
		ClientID:    "client-1",
		VendorClass: "acme",
		LeaseTime:   time.Hour,
	}

	msg, err := dhcpv4.New(o.Modifiers()...)
	require.NoError(t, err)
	assert.Equal(t, "myhost", msg.HostName())
	assert.Equal(t, "acme", msg.ClassIdentifier())
	assert.Equal(t, []byte("client-1"), msg.GetOneOption(dhcpv4.OptionClientIdentifier))
	assert.Equal(t, time.Hour, msg.IPAddressLeaseTime(0))

	o = DHCP4Options{LeaseInfinite: true}
	msg, err = dhcpv4.New(o.Modifiers()...)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(math.MaxUint32)*time.Second, msg.IPAddressLeaseTime(0))

	assert.Empty(t, DHCP4Options{}.Modifiers())
}

func TestDHCP6Options_Modifiers(t *testing.T) {
	assert.Nil(t, DHCP6Options{Enabled: true}.Modifiers(nil))

	duid := &dhcpv6.DUIDLL{HWType: 1, LinkLayerAddr: net.HardwareAddr{0, 1, 2, 3, 4, 5}}
	msg, err := dhcpv6.NewMessage(DHCP6Options{Enabled: true}.Modifiers(duid)...)
	require.NoError(t, err)
	assert.True(t, duid.Equal(msg.Options.ClientID()))
}
