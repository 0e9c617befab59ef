// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SubmissionsCreated counts accepted submission create calls.
	SubmissionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewards_submissions_created_total",
		Help: "Number of submissions created.",
	})

	// WebhookDeliveries counts inbound reviewer callbacks by outcome:
	// applied, conflict, invalid, unauthorized. Redeliveries that apply as
	// a no-op count as applied.
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewards_webhook_deliveries_total",
		Help: "Number of inbound verdict deliveries by outcome.",
	}, []string{"outcome"})

	// LedgerEntries counts appended wallet transactions by direction.
	LedgerEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewards_ledger_entries_total",
		Help: "Number of ledger entries appended, by direction (credit/debit).",
	}, []string{"direction"})

	// RedemptionRequests counts successfully recorded redemption requests.
	RedemptionRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewards_redemption_requests_total",
		Help: "Number of redemption requests recorded.",
	})

	// DispatchFailures counts reviewer dispatch attempts that fell back to
	// a rejection.
	DispatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewards_review_dispatch_failures_total",
		Help: "Number of reviewer dispatches that failed.",
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
