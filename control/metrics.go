package control

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.c3pb.de/farhaven/solarsystem/orrery"
)

type Metrics struct {
	reg *prometheus.Registry

	frameDuration prometheus.Histogram
	ticks         *prometheus.CounterVec
	clients       prometheus.Gauge
	commands      *prometheus.CounterVec
}

// NewMetrics reads body speeds from o at scrape time, so changes made through
// any input show up.
func NewMetrics(o *orrery.Orrery) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		frameDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "solarsystem_frame_seconds",
				Help:    "Time spent on one frame, including event handling and buffer swap",
				Buckets: []float64{.001, .004, .008, .0167, .033, .05, .1, .25},
			},
		),
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarsystem_ticks_total",
				Help: "Animation ticks by state",
			},
			[]string{"state"},
		),
		clients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "solarsystem_ws_clients",
				Help: "Connected remote control clients",
			},
		),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solarsystem_commands_total",
				Help: "Remote control commands by operation and outcome",
			},
			[]string{"op", "result"},
		),
	}

	m.reg.MustRegister(m.frameDuration, m.ticks, m.clients, m.commands)

	for _, k := range orrery.Kinds() {
		if !k.Orbiting() {
			continue
		}
		k := k
		m.reg.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "solarsystem_body_speed",
				Help:        "Current revolution speed per body",
				ConstLabels: prometheus.Labels{"body": k.String()},
			},
			func() float64 { return o.Speed(k) },
		))
	}

	return m
}

// ObserveFrame implements ui.FrameObserver.
func (m *Metrics) ObserveFrame(d time.Duration, running bool) {
	m.frameDuration.Observe(d.Seconds())

	state := "running"
	if !running {
		state = "paused"
	}
	m.ticks.WithLabelValues(state).Inc()
}

func (m *Metrics) RecordCommand(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commands.WithLabelValues(op, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
