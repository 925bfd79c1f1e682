package shortlist

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeOK       = "ok"
	outcomeFailed   = "failed"
	outcomeInFlight = "in_flight"
)

// Metrics 收藏相关的 Prometheus 指标
type Metrics struct {
	toggles *prometheus.CounterVec
	loads   *prometheus.CounterVec
	size    prometheus.Gauge
}

// NewMetrics 创建并注册指标，reg 为 nil 时只创建不注册
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shortlist",
			Name:      "toggles_total",
			Help:      "Shortlist toggle attempts by action and outcome.",
		}, []string{"action", "outcome"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shortlist",
			Name:      "loads_total",
			Help:      "Shortlist loads from the backend by outcome.",
		}, []string{"outcome"}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shortlist",
			Name:      "size",
			Help:      "Number of confirmed shortlisted studios.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.toggles, m.loads, m.size)
	}
	return m
}

func (m *Metrics) observeToggle(action, outcome string) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) observeLoad(outcome string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) setSize(n int) {
	if m == nil {
		return
	}
	m.size.Set(float64(n))
}
