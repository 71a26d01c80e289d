package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all ifcompat metrics. A nil *Registry is valid and records
// nothing.
type Registry struct {
	// Translation metrics
	TranslationsTotal *prometheus.CounterVec
	WarningsTotal     *prometheus.CounterVec
	RoutesParsed      prometheus.Counter
	ScanDuration      prometheus.Histogram

	// Kernel snapshot metrics
	Interfaces         *prometheus.GaugeVec
	InterfaceAddresses *prometheus.GaugeVec
	InterfaceRoutes    *prometheus.GaugeVec
	SnapshotErrors     prometheus.Counter
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = New(prometheus.DefaultRegisterer)
	})
	return registry
}

// New registers a fresh set of metrics with reg.
func New(reg prometheus.Registerer) *Registry {
	f := promauto.With(reg)
	r := &Registry{}

	r.TranslationsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "ifcompat_translations_total",
		Help: "Interface configuration files translated, by result",
	}, []string{"result"})

	r.WarningsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "ifcompat_translation_warnings_total",
		Help: "Non-fatal translation warnings, by kind",
	}, []string{"kind"})

	r.RoutesParsed = f.NewCounter(prometheus.CounterOpts{
		Name: "ifcompat_routes_parsed_total",
		Help: "Routes read from route files",
	})

	r.ScanDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "ifcompat_scan_duration_seconds",
		Help:    "Time spent translating a configuration directory",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	r.Interfaces = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ifcompat_interfaces",
		Help: "Kernel interfaces seen in the last snapshot, by link type",
	}, []string{"type"})

	r.InterfaceAddresses = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ifcompat_interface_addresses",
		Help: "Addresses configured on each interface",
	}, []string{"interface", "family"})

	r.InterfaceRoutes = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ifcompat_interface_routes",
		Help: "Routes bound to each interface",
	}, []string{"interface"})

	r.SnapshotErrors = f.NewCounter(prometheus.CounterOpts{
		Name: "ifcompat_snapshot_errors_total",
		Help: "Failed kernel snapshots",
	})

	return r
}

// RecordTranslation counts one translated file.
func (r *Registry) RecordTranslation(err error) {
	if r == nil {
		return
	}
	r.TranslationsTotal.WithLabelValues(resultString(err)).Inc()
}

// RecordWarning counts one translation warning of the given kind.
func (r *Registry) RecordWarning(kind string) {
	if r == nil {
		return
	}
	r.WarningsTotal.WithLabelValues(kind).Inc()
}

// RecordRoutes counts n parsed routes.
func (r *Registry) RecordRoutes(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.RoutesParsed.Add(float64(n))
}

// ObserveScan records the duration of a directory scan.
func (r *Registry) ObserveScan(d time.Duration) {
	if r == nil {
		return
	}
	r.ScanDuration.Observe(d.Seconds())
}

func resultString(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
