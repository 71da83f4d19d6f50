package trakt

import "github.com/prometheus/client_golang/prometheus"

var traktRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "movieagent_trakt_requests_total",
		Help: "Requests sent to the Trakt API by endpoint and response status.",
	},
	[]string{"endpoint", "status"},
)

func init() {
	prometheus.MustRegister(traktRequestsTotal)
}
