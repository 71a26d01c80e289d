package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grimm.is/ifcompat/internal/config"
	"grimm.is/ifcompat/internal/health"
	"grimm.is/ifcompat/internal/i18n"
	"grimm.is/ifcompat/internal/metrics"
	"grimm.is/ifcompat/internal/network"
	"grimm.is/ifcompat/internal/validation"
)

// RunServeMetrics serves Prometheus metrics until interrupted. Kernel
// interface gauges are refreshed by a background collector.
func RunServeMetrics(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("serve-metrics", flag.ContinueOnError)
	configFile := fs.String("config", "", "Configuration file")
	fs.StringVar(configFile, "c", "", "Configuration file (short)")
	listen := fs.String("listen", "", "Listen address (default: from config)")
	fs.StringVar(listen, "l", "", "Listen address (short)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	logger := setupLogging(cfg).WithComponent("metrics")
	if *listen == "" {
		*listen = cfg.Metrics.Listen
	}
	if err := validation.ValidateListenAddress(*listen); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.Get()
	nsName := cfg.Netns
	collector := metrics.NewCollector(logger, reg, cfg.MetricsInterval(), func() (*network.InterfaceTable, error) {
		return snapshot(nsName)
	})
	go collector.Start(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", newHealthChecker(cfg, collector).Handler())
	mux.Handle("/livez", health.LivenessHandler())

	srv := &http.Server{
		Addr:              *listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	Printer.Fprintf(out, i18n.MsgMetricsServe, *listen)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newHealthChecker reports unhealthy until the collector has a snapshot, and
// degraded once three intervals pass without a fresh one.
func newHealthChecker(cfg *config.Config, src health.SnapshotSource) *health.Checker {
	checker := health.NewChecker(5 * time.Second)
	checker.Register("snapshot", health.SnapshotCheck(src, 3*cfg.MetricsInterval()))
	checker.Register("sysconfig", health.SysconfigCheck(cfg.SysconfigDir))
	return checker
}
