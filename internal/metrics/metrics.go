package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	SkillRequestsTotal   = "skill_requests_total"
	SkillOutcomesTotal   = "skill_outcomes_total"
	SkillErrorsTotal     = "skill_errors_total"
	SkillHandlerDuration = "skill_handler_duration_seconds"
	WeatherRequestsTotal = "weather_requests_total"
	WeatherAPIDuration   = "weather_api_duration_seconds"
	ProbeRunsTotal       = "provider_probe_runs_total"
)

type Metrics struct {
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// New creates the skill metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}

	m.counters[SkillRequestsTotal] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: SkillRequestsTotal,
			Help: "Total number of skill events received",
		},
		[]string{"type", "intent"},
	)

	m.counters[SkillOutcomesTotal] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: SkillOutcomesTotal,
			Help: "Temperature resolutions by outcome",
		},
		[]string{"outcome"},
	)

	m.counters[SkillErrorsTotal] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: SkillErrorsTotal,
			Help: "Skill events rejected or failed",
		},
		[]string{"reason"},
	)

	m.counters[WeatherRequestsTotal] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: WeatherRequestsTotal,
			Help: "Total number of weather API requests",
		},
		[]string{"provider", "status"},
	)

	m.counters[ProbeRunsTotal] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ProbeRunsTotal,
			Help: "Scheduled provider probe runs",
		},
		[]string{"status"},
	)

	m.histograms[SkillHandlerDuration] = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    SkillHandlerDuration,
			Help:    "Duration of skill event handling",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	m.histograms[WeatherAPIDuration] = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    WeatherAPIDuration,
			Help:    "Duration of weather API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	for _, counter := range m.counters {
		mustRegister(reg, counter)
	}
	for _, histogram := range m.histograms {
		mustRegister(reg, histogram)
	}

	return m
}

func mustRegister(reg prometheus.Registerer, c prometheus.Collector) {
	if reg == nil {
		return
	}
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			panic(err)
		}
	}
}

// IncrementCounter is a no-op on a nil receiver or unknown name.
func (m *Metrics) IncrementCounter(name string, labelValues ...string) {
	if m == nil {
		return
	}
	if counter, exists := m.counters[name]; exists {
		counter.WithLabelValues(labelValues...).Inc()
	}
}

// ObserveHistogram is a no-op on a nil receiver or unknown name.
func (m *Metrics) ObserveHistogram(name string, value float64, labelValues ...string) {
	if m == nil {
		return
	}
	if histogram, exists := m.histograms[name]; exists {
		histogram.WithLabelValues(labelValues...).Observe(value)
	}
}

// Counter exposes a registered counter vector, mainly for tests.
func (m *Metrics) Counter(name string) *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.counters[name]
}
