package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	ticksAggregated  *prometheus.CounterVec
	pumpsDetected    *prometheus.CounterVec
	signalsGenerated *prometheus.CounterVec
	signalsClosed    *prometheus.CounterVec
	lastPrice        *prometheus.GaugeVec
	errorsTotal      *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		ticksAggregated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pumppulse_ticks_aggregated_total",
				Help: "Aggregation ticks completed, by exchange",
			},
			[]string{"exchange"},
		),
		pumpsDetected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pumppulse_pumps_detected_total",
				Help: "Pump events detected",
			},
			[]string{"symbol"},
		),
		signalsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pumppulse_signals_generated_total",
				Help: "Signals generated, by trigger type",
			},
			[]string{"trigger"},
		),
		signalsClosed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pumppulse_signals_closed_total",
				Help: "Signals moved to a terminal status",
			},
			[]string{"status"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pumppulse_last_price",
				Help: "Last aggregated price for a symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pumppulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pumppulse_operation_duration_seconds",
				Help:    "Duration of pipeline operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTickAggregated counts one exchange contribution to an aggregation tick.
func (r *Recorder) RecordTickAggregated(exchange string, symbols int) {
	r.ticksAggregated.WithLabelValues(exchange).Add(float64(symbols))
}

// RecordPumpDetected counts a detected pump.
func (r *Recorder) RecordPumpDetected(symbol string) {
	r.pumpsDetected.WithLabelValues(symbol).Inc()
}

// RecordSignalGenerated counts a generated signal.
func (r *Recorder) RecordSignalGenerated(trigger string) {
	r.signalsGenerated.WithLabelValues(trigger).Inc()
}

// RecordSignalClosed counts a lifecycle closure.
func (r *Recorder) RecordSignalClosed(status string) {
	r.signalsClosed.WithLabelValues(status).Inc()
}

// RecordLastPrice records the last aggregated price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
