package gateway

import "github.com/prometheus/client_golang/prometheus"

var (
	callsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movieagent_llm_calls_total",
			Help: "Chat model calls by purpose and result.",
		},
		[]string{"purpose", "result"},
	)
	callDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movieagent_llm_call_duration_seconds",
			Help:    "Chat model call latency by purpose.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"purpose"},
	)
)

func init() {
	prometheus.MustRegister(callsTotal)
	prometheus.MustRegister(callDuration)
}
