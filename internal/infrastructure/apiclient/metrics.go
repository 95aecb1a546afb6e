package apiclient

import "github.com/prometheus/client_golang/prometheus"

// Resultados posibles de una llamada a la API remota.
const (
	OutcomeOK        = "ok"
	OutcomeHTTPError = "http_error"
	OutcomeTransport = "transport_error"
)

// Metrics contador de llamadas a la API remota por método y resultado.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics registra bakano_api_requests_total en reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bakano_api_requests_total",
				Help: "Llamadas a la API de Bakano por método y resultado.",
			},
			[]string{"method", "outcome"},
		),
	}
	if err := reg.Register(m.requests); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(method, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
}
