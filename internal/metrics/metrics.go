// AngelaMos | 2026
// metrics.go

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActionsLogged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "praxis_actions_logged_total",
		Help: "Total actions written to the activity ledger",
	})

	PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "praxis_points_awarded_total",
		Help: "Total points awarded for logged actions",
	})

	RankPromotions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "praxis_rank_promotions_total",
		Help: "Total rank promotions by the rank reached",
	}, []string{"rank"})

	GoalsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "praxis_goals_created_total",
		Help: "Total goals committed to",
	})

	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "praxis_posts_created_total",
		Help: "Total social posts created",
	})

	AssessmentsScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "praxis_assessments_scored_total",
		Help: "Total assessment submissions by tool",
	}, []string{"tool"})

	SchedulerJobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "praxis_scheduler_job_runs_total",
		Help: "Background job runs by job and outcome",
	}, []string{"job", "outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "praxis_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route", "status"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
