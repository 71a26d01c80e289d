package metrics

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"grimm.is/ifcompat/internal/logging"
	"grimm.is/ifcompat/internal/network"

	"github.com/prometheus/client_golang/prometheus"
)

// metricValue returns the counter or gauge value of the series name{labels}.
func metricValue(t *testing.T, g prometheus.Gatherer, name string, labels ...string) float64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			got := make(map[string]string)
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for i := 0; i+1 < len(labels); i += 2 {
				if got[labels[i]] != labels[i+1] {
					continue series
				}
			}
			return m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
	}
	return 0
}

func fakeTable(t *testing.T) *network.InterfaceTable {
	t.Helper()
	table := network.NewInterfaceTable()

	lo := network.NewInterface("lo", 1)
	lo.Type = network.LinkLoopback
	lo.Addresses.Add(network.NewAddress(netip.MustParseAddr("127.0.0.1"), 8))
	lo.Addresses.Add(network.NewAddress(netip.MustParseAddr("::1"), 128))

	eth0 := network.NewInterface("eth0", 2)
	eth0.Type = network.LinkEthernet
	eth0.Driver = "e1000e"
	eth0.Addresses.Add(network.NewAddress(netip.MustParseAddr("192.168.1.10"), 24))
	eth0.Routes.Append(network.NewDefaultRoute(netip.MustParseAddr("192.168.1.1")))

	for _, ifp := range []*network.Interface{lo, eth0} {
		if err := table.Add(ifp); err != nil {
			t.Fatal(err)
		}
		ifp.Put()
	}
	return table
}

func TestCollector_Collect(t *testing.T) {
	prom := prometheus.NewRegistry()
	reg := New(prom)
	c := NewCollector(logging.Discard(), reg, time.Minute, func() (*network.InterfaceTable, error) {
		return fakeTable(t), nil
	})

	if !c.GetLastUpdate().IsZero() {
		t.Error("new collector should not have run")
	}

	c.Collect()

	if c.LastError() != nil {
		t.Fatalf("unexpected error: %v", c.LastError())
	}
	stats := c.GetLinkStats()
	if len(stats) != 2 {
		t.Fatalf("expected 2 links, got %d", len(stats))
	}
	if stats["eth0"].Driver != "e1000e" || stats["eth0"].Routes != 1 {
		t.Errorf("eth0 stats mismatch: %+v", stats["eth0"])
	}
	if stats["lo"].IPv6Addrs != 1 {
		t.Errorf("lo should have one IPv6 address, got %d", stats["lo"].IPv6Addrs)
	}

	if got := metricValue(t, prom, "ifcompat_interfaces", "type", "ethernet"); got != 1 {
		t.Errorf("ethernet gauge = %v, want 1", got)
	}
	if got := metricValue(t, prom, "ifcompat_interface_addresses", "interface", "eth0", "family", "ipv4"); got != 1 {
		t.Errorf("eth0 ipv4 gauge = %v, want 1", got)
	}

	stats["eth0"].Routes = 99
	if c.GetLinkStats()["eth0"].Routes != 1 {
		t.Error("GetLinkStats should return copies")
	}
}

func TestCollector_SnapshotError(t *testing.T) {
	prom := prometheus.NewRegistry()
	reg := New(prom)
	c := NewCollector(logging.Discard(), reg, time.Minute, func() (*network.InterfaceTable, error) {
		return nil, errors.New("netlink unavailable")
	})

	c.Collect()

	if c.LastError() == nil {
		t.Fatal("expected error to be recorded")
	}
	if c.GetLastUpdate().IsZero() {
		t.Error("last update should be set after a failed attempt")
	}
	if got := metricValue(t, prom, "ifcompat_snapshot_errors_total"); got != 1 {
		t.Errorf("snapshot errors = %v, want 1", got)
	}
}

func TestRegistry_Record(t *testing.T) {
	prom := prometheus.NewRegistry()
	reg := New(prom)

	reg.RecordTranslation(nil)
	reg.RecordTranslation(errors.New("boom"))
	reg.RecordTranslation(nil)
	reg.RecordWarning("family_mismatch")
	reg.RecordRoutes(3)
	reg.RecordRoutes(0)
	reg.ObserveScan(5 * time.Millisecond)

	if got := metricValue(t, prom, "ifcompat_translations_total", "result", "ok"); got != 2 {
		t.Errorf("ok translations = %v, want 2", got)
	}
	if got := metricValue(t, prom, "ifcompat_translations_total", "result", "error"); got != 1 {
		t.Errorf("failed translations = %v, want 1", got)
	}
	if got := metricValue(t, prom, "ifcompat_routes_parsed_total"); got != 3 {
		t.Errorf("routes parsed = %v, want 3", got)
	}
}

func TestRegistry_NilSafe(t *testing.T) {
	var reg *Registry
	reg.RecordTranslation(nil)
	reg.RecordWarning("x")
	reg.RecordRoutes(1)
	reg.ObserveScan(time.Second)
}
