// Package metrics holds the Prometheus collectors for the service. All
// collectors are registered on the default registry via promauto and exposed
// through the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsProcessed counts accepted ledger transactions by type.
	TransactionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mizan",
		Name:      "transactions_processed_total",
		Help:      "Number of transactions accepted by the processor, by type.",
	}, []string{"type"})

	// TransactionsReversed counts voided transactions.
	TransactionsReversed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mizan",
		Name:      "transactions_reversed_total",
		Help:      "Number of transactions voided via reversal.",
	})

	// PayrollRuns counts generated payroll entries.
	PayrollRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mizan",
		Name:      "payroll_runs_total",
		Help:      "Number of payroll entries generated.",
	})

	// WagePayments counts settled payroll entries.
	WagePayments = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mizan",
		Name:      "wage_payments_total",
		Help:      "Number of payroll entries settled.",
	})

	// HTTPRequestDuration observes request latency by method, route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mizan",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method, route and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
