// Package metrics exposes Prometheus counters for handler invocations and
// remote model mutations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "apigateway_provider"

var (
	Invocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "handler_invocations_total",
		Help:      "Lifecycle handler invocations by handler, request type and status.",
	}, []string{"handler", "request_type", "status"})

	ModelOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "model_operations_total",
		Help:      "Gateway model and route mutations by operation.",
	}, []string{"operation"})
)

// Model operations.
const (
	OpCreate       = "create"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpAssociate    = "associate"
	OpDisassociate = "disassociate"
)

// Register adds the collectors to r.
func Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{Invocations, ModelOperations} {
		if err := r.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}
