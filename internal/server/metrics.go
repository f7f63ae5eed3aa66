package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	matchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "revline",
		Subsystem: "matching",
		Name:      "requests_total",
		Help:      "Match requests by scoring strategy and outcome.",
	}, []string{"strategy", "outcome"})

	matchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "revline",
		Subsystem: "matching",
		Name:      "duration_seconds",
		Help:      "Match request latency by scoring strategy.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"strategy"})
)

func metricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
