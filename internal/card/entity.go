// AngelaMos | 2026
// entity.go

package card

type Issue struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Emoji       string `db:"emoji"`
	Color       string `db:"color"`
}

type IssueWithCount struct {
	Issue
	CardCount int `db:"card_count"`
}

type Card struct {
	ID          string `db:"id"`
	IssueID     string `db:"issue_id"`
	Title       string `db:"title"`
	Detail      string `db:"detail"`
	Evidence    string `db:"evidence"`
	Difficulty  int    `db:"difficulty"`
	DurationMin int    `db:"duration_min"`
	Impact      int    `db:"impact"`
}

type CardWithIssue struct {
	Card
	IssueName  string `db:"issue_name"`
	IssueEmoji string `db:"issue_emoji"`
	IssueColor string `db:"issue_color"`
}

type issueCompletion struct {
	IssueID   string `db:"issue_id"`
	Completed int    `db:"completed"`
}
