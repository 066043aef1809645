package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "backend_client_calls_total",
	Help: "counter of calls issued to the matching backend, by endpoint and outcome",
}, []string{"endpoint", "outcome"})

func observe(endpoint, outcome string) {
	callsTotal.WithLabelValues(endpoint, outcome).Inc()
}
