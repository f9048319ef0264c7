package nail

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is optional; a nil *Metrics records nothing.
type Metrics struct {
	episodes   prometheus.Counter
	restores   prometheus.Counter
	reconciles prometheus.Counter
	absorbed   prometheus.Counter
	skipped    *prometheus.CounterVec
	backup     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		episodes: f.NewCounter(prometheus.CounterOpts{
			Name: "smartnail_boost_episodes_total",
			Help: "Boost episodes started on entering a boss scene",
		}),
		restores: f.NewCounter(prometheus.CounterOpts{
			Name: "smartnail_restores_total",
			Help: "Baseline restores performed when leaving boost scenes",
		}),
		reconciles: f.NewCounter(prometheus.CounterOpts{
			Name: "smartnail_stat_writes_total",
			Help: "Nail stat writes pushed to the player store",
		}),
		absorbed: f.NewCounter(prometheus.CounterOpts{
			Name: "smartnail_upgrades_absorbed_total",
			Help: "Upgrades picked up mid-boost and folded into the active boost",
		}),
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "smartnail_skipped_total",
			Help: "Handler runs skipped because a collaborator was unavailable",
		}, []string{"reason"}),
		backup: f.NewGauge(prometheus.GaugeOpts{
			Name: "smartnail_backup_upgrades",
			Help: "Upgrades currently withheld by the boost ledger, -1 when idle",
		}),
	}
}

func (m *Metrics) episodeStarted() {
	if m == nil {
		return
	}
	m.episodes.Inc()
}

func (m *Metrics) restored() {
	if m == nil {
		return
	}
	m.restores.Inc()
}

func (m *Metrics) reconciled() {
	if m == nil {
		return
	}
	m.reconciles.Inc()
}

func (m *Metrics) absorbedUpgrades(n int) {
	if m == nil {
		return
	}
	m.absorbed.Add(float64(n))
}

func (m *Metrics) skip(reason string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) setBackup(n int) {
	if m == nil {
		return
	}
	m.backup.Set(float64(n))
}
