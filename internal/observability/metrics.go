package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskibarqy/dirty-thirty/external/espn"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

const metricsNamespace = "dirty_thirty"

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	aggregationDuration prometheus.Histogram
	aggregationTeams    prometheus.Gauge
	aggregationPlayers  prometheus.Gauge
	aggregationFailures prometheus.Counter

	reconcileCycles   *prometheus.CounterVec
	reconcileDuration prometheus.Histogram
	boxScores         *prometheus.CounterVec
	liveGames         prometheus.Gauge

	feedRequests *prometheus.CounterVec
	feedDuration *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var (
	_ usecase.ServiceMetrics = (*Metrics)(nil)
	_ espn.RequestObserver   = (*Metrics)(nil)
)

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		aggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Time to build a game day's player universe.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 32},
		}),
		aggregationTeams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "aggregation_teams",
			Help:      "Teams in the last aggregated game day.",
		}),
		aggregationPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "aggregation_players",
			Help:      "Players in the last aggregated game day.",
		}),
		aggregationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "aggregation_failed_units_total",
			Help:      "Roster fetches that failed during aggregation.",
		}),
		reconcileCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reconcile_cycles_total",
			Help:      "Reconcile cycles by outcome.",
		}, []string{"outcome"}),
		reconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Time spent in one reconcile cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
		boxScores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "box_scores_total",
			Help:      "Box scores by result.",
		}, []string{"result"}),
		liveGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "live_games",
			Help:      "Games in progress after the last cycle.",
		}),
		feedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "feed_requests_total",
			Help:      "Upstream feed request attempts.",
		}, []string{"endpoint", "outcome"}),
		feedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "feed_request_duration_seconds",
			Help:      "Upstream feed request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Inbound HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Inbound HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.aggregationDuration,
		m.aggregationTeams,
		m.aggregationPlayers,
		m.aggregationFailures,
		m.reconcileCycles,
		m.reconcileDuration,
		m.boxScores,
		m.liveGames,
		m.feedRequests,
		m.feedDuration,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveAggregation(_ string, teams, players, failedUnits int, elapsed time.Duration) {
	m.aggregationDuration.Observe(elapsed.Seconds())
	m.aggregationTeams.Set(float64(teams))
	m.aggregationPlayers.Set(float64(players))
	m.aggregationFailures.Add(float64(failedUnits))
}

func (m *Metrics) ObserveReconcile(outcome string, applied, stale, failed int, elapsed time.Duration) {
	m.reconcileCycles.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		m.reconcileDuration.Observe(elapsed.Seconds())
	}
	m.boxScores.WithLabelValues("applied").Add(float64(applied))
	m.boxScores.WithLabelValues("stale").Add(float64(stale))
	m.boxScores.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) SetLiveGames(count int) {
	m.liveGames.Set(float64(count))
}

func (m *Metrics) ObserveFeedRequest(endpoint, outcome string, elapsed time.Duration) {
	m.feedRequests.WithLabelValues(endpoint, outcome).Inc()
	m.feedDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveHTTPRequest records one inbound request. route must be the pattern, not the raw path.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
