// AngelaMos | 2026
// dto.go

package card

import "math"

const (
	RelatedLimit    = 4
	SuggestionLimit = 3
)

type IssueDetail struct {
	Issue Issue
	Cards []Card
}

type CardDetail struct {
	Card    CardWithIssue
	Related []Card
}

type IssueResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Emoji         string `json:"emoji"`
	Color         string `json:"color"`
	CardCount     int    `json:"card_count"`
	Completed     int    `json:"completed"`
	CompletionPct int    `json:"completion_pct"`
}

type CardResponse struct {
	ID          string `json:"id"`
	IssueID     string `json:"issue_id"`
	Title       string `json:"title"`
	Detail      string `json:"detail"`
	Evidence    string `json:"evidence"`
	Difficulty  int    `json:"difficulty"`
	DurationMin int    `json:"duration_min"`
	Impact      int    `json:"impact"`
	Completed   bool   `json:"completed"`
}

type CardIssueResponse struct {
	CardResponse
	IssueName  string `json:"issue_name"`
	IssueEmoji string `json:"issue_emoji"`
	IssueColor string `json:"issue_color"`
}

type IssueDetailResponse struct {
	IssueResponse
	Cards []CardResponse `json:"cards"`
}

type CardDetailResponse struct {
	CardIssueResponse
	Related []CardResponse `json:"related"`
}

// CompletionPercent is the rounded share of done over total, 0 when total
// is 0.
func CompletionPercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(done) / float64(total)))
	return min(max(pct, 0), 100)
}

func ToIssueResponse(i *Issue, cardCount, completed int) IssueResponse {
	return IssueResponse{
		ID:            i.ID,
		Name:          i.Name,
		Description:   i.Description,
		Emoji:         i.Emoji,
		Color:         i.Color,
		CardCount:     cardCount,
		Completed:     completed,
		CompletionPct: CompletionPercent(completed, cardCount),
	}
}

func ToCardResponse(c *Card, completed bool) CardResponse {
	return CardResponse{
		ID:          c.ID,
		IssueID:     c.IssueID,
		Title:       c.Title,
		Detail:      c.Detail,
		Evidence:    c.Evidence,
		Difficulty:  c.Difficulty,
		DurationMin: c.DurationMin,
		Impact:      c.Impact,
		Completed:   completed,
	}
}

func ToCardIssueResponse(c *CardWithIssue, completed bool) CardIssueResponse {
	return CardIssueResponse{
		CardResponse: ToCardResponse(&c.Card, completed),
		IssueName:    c.IssueName,
		IssueEmoji:   c.IssueEmoji,
		IssueColor:   c.IssueColor,
	}
}

func ToCardResponseList(cards []Card, completed map[string]bool) []CardResponse {
	responses := make([]CardResponse, 0, len(cards))
	for i := range cards {
		responses = append(responses, ToCardResponse(&cards[i], completed[cards[i].ID]))
	}
	return responses
}
