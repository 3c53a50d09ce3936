package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects the metrics.
type Metrics struct {
	BoxRequests,
	APIAuth,
	Errs *prometheus.CounterVec
}

// M structure to collect all metrics together.
var M = newMetrics()

func newMetrics() Metrics {
	return Metrics{
		BoxRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signgate",
			Subsystem: "box",
			Name:      "requests_total",
			Help:      "Calls to the sign request API by operation and response code",
		}, []string{"op", "code"}),
		APIAuth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signgate",
			Subsystem: "api",
			Name:      "auth_total",
			Help:      "API key checks by result",
		}, []string{"result"}),
		Errs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "signgate",
			Subsystem: "sys",
			Name:      "error_total",
			Help:      "Error counts by module",
		}, []string{"module"}),
	}
}

// Register metrics with the default registry.
func Register() {
	RegisterWith(prometheus.DefaultRegisterer)
}

// RegisterWith registers the metrics with r.
func RegisterWith(r prometheus.Registerer) {
	r.MustRegister(M.Errs)
	r.MustRegister(M.BoxRequests)
	r.MustRegister(M.APIAuth)
}
