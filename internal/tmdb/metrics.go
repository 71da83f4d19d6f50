package tmdb

import "github.com/prometheus/client_golang/prometheus"

var tmdbRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "movieagent_tmdb_requests_total",
		Help: "Requests sent to the TMDB API by endpoint and response status.",
	},
	[]string{"endpoint", "status"},
)

func init() {
	prometheus.MustRegister(tmdbRequestsTotal)
}
