package handlers

import (
	"kindtrail/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storySubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kindtrail_story_submissions_total",
			Help: "Total number of story submissions by outcome.",
		},
		[]string{"outcome"},
	)

	cheersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kindtrail_cheers_total",
		Help: "Total number of accepted cheers.",
	})

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kindtrail_logins_total",
			Help: "Total number of successful logins, split by whether the account was created.",
		},
		[]string{"created"},
	)

	winnerRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kindtrail_winner_runs_total",
		Help: "Total number of winner selection runs.",
	})

	checkoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kindtrail_checkouts_total",
			Help: "Total number of checkout attempts by stage and status.",
		},
		[]string{"stage", "status"},
	)
)

var kindLabels = map[services.Kind]string{
	services.KindOK:                   "ok",
	services.KindUserNotFound:         "user_not_found",
	services.KindStoryNotFound:        "story_not_found",
	services.KindSubscriptionRequired: "subscription_required",
	services.KindInvalidInput:         "invalid_input",
	services.KindRateLimitExceeded:    "rate_limited",
	services.KindPersistence:          "persistence_error",
}

// outcomeLabel maps an error to a low-cardinality metric label.
func outcomeLabel(err error) string {
	if label, ok := kindLabels[services.KindOf(err)]; ok {
		return label
	}
	return "error"
}
