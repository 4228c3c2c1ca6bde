package apiclient

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apiclient_requests_total",
		Help: "Backend requests by method and status class (network errors use 'error').",
	}, []string{"method", "status"})
	renewalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apiclient_token_renewals_total",
		Help: "401 responses that triggered a token renewal, by outcome.",
	}, []string{"outcome"})
)

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
