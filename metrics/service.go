package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer, or the
// default one when none is given.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

type Service struct {
	Operations          *prometheus.CounterVec
	Rejections          *prometheus.CounterVec
	OperationDuration   *prometheus.HistogramVec
	StandingsRecomputed prometheus.Counter
	PublishFailures     *prometheus.CounterVec
	LiveViewers         prometheus.Gauge
}

// NewService creates and registers the Prometheus metrics on registerer, or
// on the default registerer when none is given.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brackets_operations_total",
			Help: "Tournament operations by name and outcome.",
		}, []string{"op", "outcome"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brackets_engine_rejections_total",
			Help: "Operations rejected by the bracket engine, by error kind.",
		}, []string{"kind"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brackets_operation_duration_seconds",
			Help:    "Duration of tournament operations including persistence.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"op"}),
		StandingsRecomputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brackets_standings_recomputed_total",
			Help: "Group tables rebuilt after a group result.",
		}),
		PublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brackets_publish_failures_total",
			Help: "Post-commit publications that failed, by target.",
		}, []string{"target"}),
		LiveViewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "brackets_live_viewers",
			Help: "Websocket clients currently watching a tournament.",
		}),
	}

	reg.MustRegister(
		s.Operations,
		s.Rejections,
		s.OperationDuration,
		s.StandingsRecomputed,
		s.PublishFailures,
		s.LiveViewers,
	)

	return s
}

func (s *Service) IncOperation(op string, outcome string) {
	s.Operations.WithLabelValues(op, outcome).Inc()
}

func (s *Service) IncRejection(kind string) {
	s.Rejections.WithLabelValues(kind).Inc()
}

func (s *Service) ObserveOperationDuration(op string, seconds float64) {
	s.OperationDuration.WithLabelValues(op).Observe(seconds)
}

func (s *Service) IncStandingsRecomputed() {
	s.StandingsRecomputed.Inc()
}

func (s *Service) IncPublishFailure(target string) {
	s.PublishFailures.WithLabelValues(target).Inc()
}

func (s *Service) SetLiveViewers(n int) {
	s.LiveViewers.Set(float64(n))
}
