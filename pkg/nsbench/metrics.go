package nsbench

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dnsRequestsDurationMetrics = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nsbench",
		Name:      "dns_requests_duration_seconds",
		Help:      "DNS request duration in seconds",
	}, []string{"result"})

	dnsRequestsTotalMetrics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nsbench",
		Name:      "dns_requests_total",
		Help:      "The total number of DNS requests",
	}, []string{"result"})
)

func observeRequest(dur time.Duration, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	dnsRequestsDurationMetrics.WithLabelValues(result).Observe(dur.Seconds())
	dnsRequestsTotalMetrics.WithLabelValues(result).Inc()
}
