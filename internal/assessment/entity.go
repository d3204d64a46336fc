// AngelaMos | 2026
// entity.go

package assessment

import "time"

const RecentResultsLimit = 5

// ToolResult is one scored submission. Result holds the scored payload as
// JSON so each tool can keep its own shape.
type ToolResult struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ToolName  string    `db:"tool_name"`
	Result    string    `db:"result"`
	CreatedAt time.Time `db:"created_at"`
}
