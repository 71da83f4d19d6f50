package webhook

import "github.com/prometheus/client_golang/prometheus"

var deliveriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "movieagent_webhook_deliveries_total",
		Help: "Webhook deliveries by topic and result.",
	},
	[]string{"topic", "result"},
)

func init() {
	prometheus.MustRegister(deliveriesTotal)
}
