package imports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGlobals(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, GlobalConfigFile, "CHECK_DUPLICATE_IP=\"yes\"\n")
	writeFixture(t, dir, GlobalDHCPFile, "DHCLIENT_HOSTNAME_OPTION=\"AUTO\"\nDHCLIENT_WAIT_AT_BOOT=\"15\"\n")
	writeFixture(t, dir, GlobalRoutesFile, "default 192.168.1.1 - -\n2001:db8::/64 - - eth0\n")

	g, err := LoadGlobals(dir)
	require.NoError(t, err)
	defer g.Close()

	assert.Equal(t, dir, g.Dir)
	require.NotNil(t, g.Config)
	assert.Equal(t, "yes", g.Config.Value("CHECK_DUPLICATE_IP"))
	require.NotNil(t, g.DHCP)
	assert.Equal(t, "15", g.DHCP.Value("DHCLIENT_WAIT_AT_BOOT"))
	assert.Len(t, g.Routes, 2)
}

func TestLoadGlobals_Optional(t *testing.T) {
	g, err := LoadGlobals(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, g.Config)
	assert.Nil(t, g.DHCP)
	assert.Empty(t, g.Routes)
}

func TestLoadGlobals_BadRoutes(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, GlobalDHCPFile, "DHCLIENT_WAIT_AT_BOOT=\"15\"\n")
	writeFixture(t, dir, GlobalRoutesFile, "default 192.168.1.1 - -\n10.0.0.0/40 - - -\n")

	g, err := LoadGlobals(dir)
	assert.Nil(t, g)
	assert.True(t, errors.Is(err, ErrRouteFileParse), "got %v", err)
}

func TestLoadGlobals_BadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, GlobalConfigFile, "this is not sysconfig\n")

	_, err := LoadGlobals(dir)
	assert.ErrorIs(t, err, ErrUnreadableConfigFile)
}

func TestGlobalDefaults_Close(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, GlobalRoutesFile, "default 192.168.1.1\n")

	g, err := LoadGlobals(dir)
	require.NoError(t, err)
	g.Close()
	g.Close()
	assert.Nil(t, g.Routes)

	var nilGlobals *GlobalDefaults
	nilGlobals.Close()
}
