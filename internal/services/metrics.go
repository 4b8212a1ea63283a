package services

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// authzChecks counts gate decisions by outcome (authorized|denied).
	authzChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accessbot_authorization_checks_total",
			Help: "Authorization gate decisions.",
		},
		[]string{"outcome"},
	)

	// ledgerMutations counts grant/revoke attempts by op and outcome.
	ledgerMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accessbot_allowlist_mutations_total",
			Help: "Allow-list grant and revoke attempts.",
		},
		[]string{"op", "outcome"},
	)

	// privilegeDenials counts non-admin attempts on admin entry points.
	privilegeDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accessbot_privilege_denied_total",
			Help: "Admin-scoped actions refused to non-admins.",
		},
		[]string{"entry"},
	)

	// storeFailures counts backing-store errors by operation.
	storeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accessbot_store_failures_total",
			Help: "Backing-store calls that failed or were not configured.",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(authzChecks, ledgerMutations, privilegeDenials, storeFailures)
}

// outcomeOf names an error for metric labels.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
