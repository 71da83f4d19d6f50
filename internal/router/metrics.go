package router

import "github.com/prometheus/client_golang/prometheus"

var dispatchTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "movieagent_dispatch_total",
		Help: "Routed user turns by action and outcome.",
	},
	[]string{"action", "outcome"},
)

func init() {
	prometheus.MustRegister(dispatchTotal)
}
