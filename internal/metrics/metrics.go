package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyshelf_submissions_total",
		Help: "Resource submissions by outcome.",
	}, []string{"status"})

	TagsWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyshelf_tags_written_total",
		Help: "Tag rows written by successful submissions.",
	})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyshelf_notifications_total",
		Help: "Webhook notifications by outcome (sent, failed, skipped).",
	}, []string{"status"})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "studyshelf_notification_duration_seconds",
		Help:    "Time spent delivering one webhook notification.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	EngagementTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyshelf_engagement_total",
		Help: "Like and favourite toggles by action and outcome.",
	}, []string{"action", "status"})
)
