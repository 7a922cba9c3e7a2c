package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidleathers/phonenumbers-na/internal/api/rest"
)

// dependencyMonitor publishes build metadata and the reachability of the
// configured backends on the API's Prometheus registry.
type dependencyMonitor struct {
	checkers []rest.HealthChecker
	logger   *slog.Logger

	up        *prometheus.GaugeVec
	checkTime *prometheus.HistogramVec
	startedAt prometheus.Gauge
}

func newDependencyMonitor(reg prometheus.Registerer, version, environment string, checkers []rest.HealthChecker, logger *slog.Logger) (*dependencyMonitor, error) {
	buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "nanp",
		Name:        "build_info",
		Help:        "Build metadata for the running API",
		ConstLabels: prometheus.Labels{"version": version, "environment": environment},
	})
	m := &dependencyMonitor{
		checkers: checkers,
		logger:   logger,
		up: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "nanp",
			Subsystem: "dependency",
			Name:      "up",
			Help:      "Whether the last check of a dependency succeeded",
		}, []string{"dependency"}),
		checkTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nanp",
			Subsystem: "dependency",
			Name:      "check_duration_seconds",
			Help:      "Dependency check latency",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}, []string{"dependency"}),
		startedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nanp",
			Name:      "start_time_seconds",
			Help:      "Unix time the API started",
		}),
	}

	for _, c := range []prometheus.Collector{buildInfo, m.up, m.checkTime, m.startedAt} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	buildInfo.Set(1)
	m.startedAt.Set(float64(time.Now().Unix()))
	return m, nil
}

// Run checks every dependency immediately and then on each interval until ctx is done.
func (m *dependencyMonitor) Run(ctx context.Context, interval time.Duration) {
	if len(m.checkers) == 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.checkAll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *dependencyMonitor) checkAll(ctx context.Context) {
	for _, c := range m.checkers {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		start := time.Now()
		result := c.Check(checkCtx)
		cancel()

		m.checkTime.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
		if result.Status != rest.HealthStatusPass {
			m.up.WithLabelValues(c.Name()).Set(0)
			if ctx.Err() == nil {
				m.logger.Warn("dependency check failed", "dependency", c.Name(), "error", result.Error)
			}
			continue
		}
		m.up.WithLabelValues(c.Name()).Set(1)
	}
}
