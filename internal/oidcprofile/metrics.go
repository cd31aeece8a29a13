package oidcprofile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCreated = "created"
	outcomeUpdated = "updated"
	outcomeNone    = "none"
)

var (
	// reconciliations counts reconciled ID tokens by what happened to the user and profile rows.
	reconciliations = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "kcprofile_reconciliations_total",
			Help: "Number of reconciled ID tokens, differentiated by user and profile outcome.",
		},
		[]string{"user", "profile"},
	)

	// refreshes counts access token refreshes by result.
	refreshes = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "kcprofile_token_refreshes_total",
			Help: "Number of access token refreshes, differentiated by result.",
		},
		[]string{"result"},
	)
)

func outcome(created bool) string {
	if created {
		return outcomeCreated
	}

	return outcomeUpdated
}
