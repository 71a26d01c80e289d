package metrics

import (
	"context"
	"sync"
	"time"

	"grimm.is/ifcompat/internal/clock"
	"grimm.is/ifcompat/internal/logging"
	"grimm.is/ifcompat/internal/network"
)

// SnapshotFunc reads the current kernel interface table.
type SnapshotFunc func() (*network.InterfaceTable, error)

// Collector periodically snapshots kernel interfaces and updates the
// Prometheus registry.
type Collector struct {
	registry *Registry
	logger   *logging.Logger
	interval time.Duration
	snapshot SnapshotFunc

	// Cached results for API access
	mu         sync.RWMutex
	lastUpdate time.Time
	linkStats  map[string]*LinkStats
	lastErr    error
}

// LinkStats summarizes one kernel interface.
type LinkStats struct {
	Name      string `json:"name"`
	Index     int    `json:"index"`
	Type      string `json:"type"`
	Driver    string `json:"driver,omitempty"`
	MTU       int    `json:"mtu,omitempty"`
	IPv4Addrs int    `json:"ipv4_addresses"`
	IPv6Addrs int    `json:"ipv6_addresses"`
	Routes    int    `json:"routes"`
}

// NewCollector creates a collector that calls snapshot every interval.
func NewCollector(logger *logging.Logger, registry *Registry, interval time.Duration, snapshot SnapshotFunc) *Collector {
	return &Collector{
		registry:  registry,
		logger:    logger,
		interval:  interval,
		snapshot:  snapshot,
		linkStats: make(map[string]*LinkStats),
	}
}

// Start runs the collection loop until ctx is cancelled. The first
// collection happens immediately.
func (c *Collector) Start(ctx context.Context) {
	c.logger.Info("Starting metrics collector", "interval", c.interval.String())

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Collect()
	for {
		select {
		case <-ticker.C:
			c.Collect()
		case <-ctx.Done():
			c.logger.Info("Stopping metrics collector")
			return
		}
	}
}

// Collect takes one snapshot and updates the gauges.
func (c *Collector) Collect() {
	table, err := c.snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastUpdate = clock.Now()
	c.lastErr = err
	if err != nil {
		c.logger.Warn("Failed to snapshot interfaces", "error", err)
		if c.registry != nil {
			c.registry.SnapshotErrors.Inc()
		}
		return
	}
	defer table.Close()

	stats := make(map[string]*LinkStats, table.Len())
	byType := make(map[string]int)
	for _, ifp := range table.List() {
		s := &LinkStats{
			Name:      ifp.Name,
			Index:     ifp.Index,
			Type:      ifp.Type.String(),
			Driver:    ifp.Driver,
			MTU:       ifp.MTU,
			IPv4Addrs: len(ifp.Addresses.Family(network.FamilyIPv4)),
			IPv6Addrs: len(ifp.Addresses.Family(network.FamilyIPv6)),
			Routes:    len(ifp.Routes),
		}
		stats[s.Name] = s
		byType[s.Type]++
	}
	c.linkStats = stats

	if c.registry == nil {
		return
	}
	c.registry.Interfaces.Reset()
	c.registry.InterfaceAddresses.Reset()
	c.registry.InterfaceRoutes.Reset()
	for typ, n := range byType {
		c.registry.Interfaces.WithLabelValues(typ).Set(float64(n))
	}
	for _, s := range stats {
		c.registry.InterfaceAddresses.WithLabelValues(s.Name, "ipv4").Set(float64(s.IPv4Addrs))
		c.registry.InterfaceAddresses.WithLabelValues(s.Name, "ipv6").Set(float64(s.IPv6Addrs))
		c.registry.InterfaceRoutes.WithLabelValues(s.Name).Set(float64(s.Routes))
	}
}

// GetLinkStats returns a copy of the last collected link summaries.
func (c *Collector) GetLinkStats() map[string]*LinkStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]*LinkStats, len(c.linkStats))
	for k, v := range c.linkStats {
		copied := *v
		result[k] = &copied
	}
	return result
}

// GetLastUpdate returns the time of the last collection attempt.
func (c *Collector) GetLastUpdate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

// LastError returns the error of the last collection attempt, if any.
func (c *Collector) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}
