// AngelaMos | 2026
// dto.go

package actionlog

import (
	"time"

	"github.com/praxis-app/praxis-api/internal/activity"
	"github.com/praxis-app/praxis-api/internal/progression"
)

const (
	MaxNoteLength = 500

	DefaultListLimit = 20
	MaxListLimit     = 100

	MaxCalendarDays = 730

	// HistoryRowsPerDay bounds the average logs per day History returns
	// across the full MaxCalendarDays window.
	HistoryRowsPerDay = 20
	MaxHistoryRows    = MaxCalendarDays * HistoryRowsPerDay
)

type LogRequest struct {
	CardID string  `json:"card_id"           validate:"required,uuid"`
	GoalID *string `json:"goal_id,omitempty" validate:"omitempty,uuid"`
	Note   *string `json:"note,omitempty"    validate:"omitempty,max=500"`
}

// Result is the outcome of a successful log: the entry plus the caller's
// progression after it was applied.
type Result struct {
	Log      ActionLog
	Progress progression.Progress
	Promoted bool
}

type LogResponse struct {
	ID       string               `json:"id"`
	UserID   string               `json:"user_id"`
	CardID   string               `json:"card_id"`
	GoalID   *string              `json:"goal_id"`
	Note     *string              `json:"note"`
	Points   int                  `json:"points"`
	DoneAt   time.Time            `json:"done_at"`
	Progress progression.Progress `json:"progress"`
	Promoted bool                 `json:"promoted"`
}

type RecentLogResponse struct {
	ID         string    `json:"id"`
	CardID     string    `json:"card_id"`
	CardTitle  string    `json:"card_title"`
	IssueName  string    `json:"issue_name"`
	IssueEmoji string    `json:"issue_emoji"`
	GoalID     *string   `json:"goal_id"`
	Note       *string   `json:"note"`
	Points     int       `json:"points"`
	DoneAt     time.Time `json:"done_at"`
}

type CalendarResponse struct {
	Days       []activity.DayCount `json:"days"`
	Total      int                 `json:"total"`
	ActiveDays int                 `json:"active_days"`
}

func ToLogResponse(res *Result) LogResponse {
	return LogResponse{
		ID:       res.Log.ID,
		UserID:   res.Log.UserID,
		CardID:   res.Log.CardID,
		GoalID:   res.Log.GoalID,
		Note:     res.Log.Note,
		Points:   res.Log.Points,
		DoneAt:   res.Log.DoneAt,
		Progress: res.Progress,
		Promoted: res.Promoted,
	}
}

func ToRecentLogResponse(l *RecentLog) RecentLogResponse {
	return RecentLogResponse{
		ID:         l.ID,
		CardID:     l.CardID,
		CardTitle:  l.CardTitle,
		IssueName:  l.IssueName,
		IssueEmoji: l.IssueEmoji,
		GoalID:     l.GoalID,
		Note:       l.Note,
		Points:     l.Points,
		DoneAt:     l.DoneAt,
	}
}

func ToRecentLogResponseList(logs []RecentLog) []RecentLogResponse {
	responses := make([]RecentLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, ToRecentLogResponse(&logs[i]))
	}
	return responses
}

func NewCalendarResponse(days []activity.DayCount) CalendarResponse {
	return CalendarResponse{
		Days:       days,
		Total:      activity.Total(days),
		ActiveDays: activity.ActiveDays(days),
	}
}
