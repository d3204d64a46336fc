// AngelaMos | 2026
// entity.go

package actionlog

import (
	"time"
)

// ActionLog is one immutable ledger entry.
type ActionLog struct {
	ID     string    `db:"id"`
	UserID string    `db:"user_id"`
	CardID string    `db:"card_id"`
	GoalID *string   `db:"goal_id"`
	Note   *string   `db:"note"`
	Points int       `db:"points"`
	DoneAt time.Time `db:"done_at"`
}

// RecentLog is a ledger entry joined with its card and issue.
type RecentLog struct {
	ActionLog
	CardTitle  string `db:"card_title"`
	IssueName  string `db:"issue_name"`
	IssueEmoji string `db:"issue_emoji"`
}

type pointsRow struct {
	Points int    `db:"points"`
	Rank   string `db:"rank"`
}

// LedgerTotals summarises the whole ledger. Drifted counts users whose
// stored points differ from the sum of their entries and should be zero.
type LedgerTotals struct {
	Logs    int `db:"logs"    json:"logs"`
	Points  int `db:"points"  json:"points"`
	Drifted int `db:"drifted" json:"drifted_users"`
}
