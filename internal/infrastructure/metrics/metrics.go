package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Registry      *prometheus.Registry
	OutboundCalls *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		OutboundCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hudson_remote_outbound_api_call_totals",
				Help: "Total of outgoing calls to the CI server.",
			},
			[]string{"method", "code"},
		),
	}
	m.Registry.MustRegister(m.OutboundCalls)
	return m
}

// WriteTextfile dumps the registry in the format read by the node exporter's
// textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
