package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var deliveries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "promptdesk_webhook_deliveries_total",
		Help: "Outbound webhook delivery attempts by outcome.",
	},
	[]string{"outcome"},
)

func recordDelivery(ok bool) {
	if ok {
		deliveries.WithLabelValues("success").Inc()
		return
	}
	deliveries.WithLabelValues("failure").Inc()
}
