package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TopUpsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "topups_total",
			Help: "Total successful top-ups",
		},
	)
	TopUpsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topups_failed_total",
			Help: "Total rejected or failed top-ups",
		},
		[]string{"reason"},
	)
	GatewayRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_gateway_retries_total",
			Help: "Total retried balance gateway requests",
		},
	)
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(TopUpsTotal)
	prometheus.MustRegister(TopUpsFailed)
	prometheus.MustRegister(GatewayRetries)
	prometheus.MustRegister(WorkerQueueDepth)
}
