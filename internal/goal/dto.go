// AngelaMos | 2026
// dto.go

package goal

import (
	"time"
)

type CreateGoalRequest struct {
	CardID     string `json:"card_id"               validate:"required,uuid"`
	Frequency  string `json:"frequency,omitempty"   validate:"omitempty,oneof=daily weekly"`
	TargetDays int    `json:"target_days,omitempty" validate:"omitempty,min=1,max=365"`
}

func (r *CreateGoalRequest) Normalize() {
	if r.Frequency == "" {
		r.Frequency = FrequencyDaily
	}
	if r.TargetDays == 0 {
		r.TargetDays = DefaultTargetDays
	}
}

// View is an active goal with its streak state evaluated at request time.
// Every field is derived from RecentLogs, the goal's last RecentLogLimit
// logs, so RecentLongestStreak never exceeds RecentLogLimit.
type View struct {
	GoalWithCard
	RecentLogs          []time.Time
	Streak              int
	RecentLongestStreak int
	TodayDone           bool
	Week                [7]bool
}

// TargetPercent is the current streak as a share of target days.
func (v *View) TargetPercent() int {
	if v.TargetDays <= 0 {
		return 0
	}
	return min(100, v.Streak*100/v.TargetDays)
}

type GoalResponse struct {
	ID         string    `json:"id"`
	CardID     string    `json:"card_id"`
	Frequency  string    `json:"frequency"`
	TargetDays int       `json:"target_days"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

type CardSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Difficulty  int    `json:"difficulty"`
	DurationMin int    `json:"duration_min"`
	Impact      int    `json:"impact"`
}

type IssueSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

type ViewResponse struct {
	GoalResponse
	Card                CardSummary  `json:"card"`
	Issue               IssueSummary `json:"issue"`
	RecentLogs          []time.Time  `json:"recent_logs"`
	Streak              int          `json:"streak"`
	RecentLongestStreak int          `json:"recent_longest_streak"`
	TodayDone           bool         `json:"today_done"`
	Week                [7]bool      `json:"week"`
	TargetPercent       int          `json:"target_percent"`
}

func ToGoalResponse(g *Goal) GoalResponse {
	return GoalResponse{
		ID:         g.ID,
		CardID:     g.CardID,
		Frequency:  g.Frequency,
		TargetDays: g.TargetDays,
		IsActive:   g.IsActive,
		CreatedAt:  g.CreatedAt,
	}
}

func ToViewResponse(v *View) ViewResponse {
	logs := v.RecentLogs
	if logs == nil {
		logs = []time.Time{}
	}

	return ViewResponse{
		GoalResponse: ToGoalResponse(&v.Goal),
		Card: CardSummary{
			ID:          v.CardID,
			Title:       v.CardTitle,
			Difficulty:  v.CardDifficulty,
			DurationMin: v.CardDurationMin,
			Impact:      v.CardImpact,
		},
		Issue: IssueSummary{
			ID:    v.IssueID,
			Name:  v.IssueName,
			Emoji: v.IssueEmoji,
			Color: v.IssueColor,
		},
		RecentLogs:          logs,
		Streak:              v.Streak,
		RecentLongestStreak: v.RecentLongestStreak,
		TodayDone:           v.TodayDone,
		Week:                v.Week,
		TargetPercent:       v.TargetPercent(),
	}
}

func ToViewResponseList(views []View) []ViewResponse {
	responses := make([]ViewResponse, 0, len(views))
	for i := range views {
		responses = append(responses, ToViewResponse(&views[i]))
	}
	return responses
}
