// AngelaMos | 2026
// entity.go

package goal

import (
	"time"
)

const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"

	DefaultTargetDays = 7
	RecentLogLimit    = 30
)

type Goal struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	CardID     string    `db:"card_id"`
	Frequency  string    `db:"frequency"`
	TargetDays int       `db:"target_days"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
}

// GoalWithCard is an active goal joined with its card and issue.
type GoalWithCard struct {
	Goal
	CardTitle       string `db:"card_title"`
	CardDifficulty  int    `db:"card_difficulty"`
	CardDurationMin int    `db:"card_duration_min"`
	CardImpact      int    `db:"card_impact"`
	IssueID         string `db:"issue_id"`
	IssueName       string `db:"issue_name"`
	IssueEmoji      string `db:"issue_emoji"`
	IssueColor      string `db:"issue_color"`
}

type goalTimestamp struct {
	GoalID string    `db:"goal_id"`
	DoneAt time.Time `db:"done_at"`
}
