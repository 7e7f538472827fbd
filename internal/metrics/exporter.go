// Package metrics exposes the published snapshots as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"netspeed-monitor/internal/domain"
)

const namespace = "netspeed"

var healthStates = []domain.NetworkHealth{
	domain.HealthDetecting,
	domain.HealthGood,
	domain.HealthFair,
	domain.HealthPoor,
}

// Exporter is a domain.Subscriber that mirrors every update into gauges and
// counters on its own registry.
type Exporter struct {
	registry *prometheus.Registry

	rate          *prometheus.GaugeVec
	transferred   *prometheus.CounterVec
	today         *prometheus.GaugeVec
	month         *prometheus.GaugeVec
	pingLatency   prometheus.Gauge
	pingSuccess   prometheus.Gauge
	health        *prometheus.GaugeVec
	processBytes  *prometheus.GaugeVec
	processConns  *prometheus.GaugeVec
	processSource *prometheus.GaugeVec

	mu sync.Mutex
}

func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		rate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "throughput_bytes_per_second",
			Help:      "Aggregate throughput over the accepted interfaces during the last tick.",
		}, []string{"direction"}),
		transferred: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transferred_bytes_total",
			Help:      "Bytes observed since the monitor started.",
		}, []string{"direction"}),
		today: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "usage_today_bytes",
			Help:      "Bytes accumulated since the last daily reset.",
		}, []string{"direction"}),
		month: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "usage_month_bytes",
			Help:      "Bytes accumulated since the last monthly reset.",
		}, []string{"direction"}),
		pingLatency: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ping_latency_seconds",
			Help:      "Round-trip time of the last successful ping.",
		}),
		pingSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ping_success",
			Help:      "1 when the last ping got a reply.",
		}),
		health: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_health",
			Help:      "1 for the current health grade, 0 otherwise.",
		}, []string{"state"}),
		processBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_bytes",
			Help:      "Bytes attributed to a top process in the last sample.",
		}, []string{"process", "direction"}),
		processConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_connections",
			Help:      "Open connections of a top process when byte accounting is unavailable.",
		}, []string{"process"}),
		processSource: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_source",
			Help:      "1 for the source of the last process sample.",
		}, []string{"source"}),
	}

	e.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		e.rate, e.transferred, e.today, e.month,
		e.pingLatency, e.pingSuccess, e.health,
		e.processBytes, e.processConns, e.processSource,
	)

	e.setHealth(domain.HealthDetecting)
	return e
}

func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{Registry: e.registry})
}

func (e *Exporter) OnSpeedUpdate(s domain.SpeedSnapshot) {
	e.rate.WithLabelValues("download").Set(float64(s.DownloadBytesPerSec))
	e.rate.WithLabelValues("upload").Set(float64(s.UploadBytesPerSec))

	e.transferred.WithLabelValues("download").Add(float64(s.DownloadBytesPerSec))
	e.transferred.WithLabelValues("upload").Add(float64(s.UploadBytesPerSec))

	e.today.WithLabelValues("download").Set(float64(s.TodayReceived))
	e.today.WithLabelValues("upload").Set(float64(s.TodaySent))
	e.month.WithLabelValues("download").Set(float64(s.MonthReceived))
	e.month.WithLabelValues("upload").Set(float64(s.MonthSent))
}

func (e *Exporter) OnInfoUpdate(s domain.NetworkInfoSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setHealth(s.Health)

	switch {
	case s.PingLatency == domain.PingTimeout:
		e.pingSuccess.Set(0)
	case s.PingLatency != domain.PingPending:
		if ms, ok := parseMillis(s.PingLatency); ok {
			e.pingSuccess.Set(1)
			e.pingLatency.Set(ms / 1000)
		}
	}
}

// OnProcessUpdate replaces the previous process series wholesale so that
// processes dropping out of the top list disappear.
func (e *Exporter) OnProcessUpdate(p []domain.ProcessTraffic) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.processBytes.Reset()
	e.processConns.Reset()

	for _, proc := range p {
		e.processBytes.WithLabelValues(proc.ProcessName, "download").Set(float64(proc.DownloadBytes))
		e.processBytes.WithLabelValues(proc.ProcessName, "upload").Set(float64(proc.UploadBytes))
		if proc.Connections > 0 {
			e.processConns.WithLabelValues(proc.ProcessName).Set(float64(proc.Connections))
		}
	}
}

// OnProcessReport records the sample source alongside the process series.
func (e *Exporter) OnProcessReport(r domain.ProcessReport) {
	e.OnProcessUpdate(r.Processes)

	src := r.Source
	for _, s := range []domain.ProcessSource{
		domain.ProcessSourceNone,
		domain.ProcessSourceTraffic,
		domain.ProcessSourceConnections,
	} {
		v := 0.0
		if s == src {
			v = 1
		}
		e.processSource.WithLabelValues(string(s)).Set(v)
	}
}

func (e *Exporter) setHealth(current domain.NetworkHealth) {
	for _, h := range healthStates {
		v := 0.0
		if h == current {
			v = 1
		}
		e.health.WithLabelValues(string(h)).Set(v)
	}
}

func parseMillis(label string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(label, "ms")), 64)
	return v, err == nil
}
