// AngelaMos | 2026
// repository.go

package card

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/praxis-app/praxis-api/internal/core"
)

type Repository interface {
	ListIssues(ctx context.Context) ([]IssueWithCount, error)
	GetIssue(ctx context.Context, id string) (*Issue, error)
	ListByIssue(ctx context.Context, issueID string) ([]Card, error)
	GetCard(ctx context.Context, id string) (*CardWithIssue, error)
	Related(ctx context.Context, issueID, excludeID string, limit int) ([]Card, error)
	Random(ctx context.Context, limit int) ([]CardWithIssue, error)
	CompletedByIssue(ctx context.Context, userID string) (map[string]int, error)
	CompletedCards(ctx context.Context, userID string, cardIDs []string) (map[string]bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const cardColumns = `c.id, c.issue_id, c.title, c.detail, c.evidence,
		       c.difficulty, c.duration_min, c.impact`

func (r *repository) ListIssues(ctx context.Context) ([]IssueWithCount, error) {
	query := `
		SELECT i.id, i.name, i.description, i.emoji, i.color,
		       COUNT(c.id) AS card_count
		FROM issues i
		LEFT JOIN action_cards c ON c.issue_id = i.id
		GROUP BY i.id
		ORDER BY i.name`

	var issues []IssueWithCount
	if err := r.db.SelectContext(ctx, &issues, query); err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	return issues, nil
}

func (r *repository) GetIssue(ctx context.Context, id string) (*Issue, error) {
	query := `
		SELECT id, name, description, emoji, color
		FROM issues
		WHERE id = $1`

	var issue Issue
	err := r.db.GetContext(ctx, &issue, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get issue: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}

	return &issue, nil
}

func (r *repository) ListByIssue(ctx context.Context, issueID string) ([]Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM action_cards c
		WHERE c.issue_id = $1
		ORDER BY c.difficulty, c.title`

	var cards []Card
	if err := r.db.SelectContext(ctx, &cards, query, issueID); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	return cards, nil
}

func (r *repository) GetCard(ctx context.Context, id string) (*CardWithIssue, error) {
	query := `
		SELECT ` + cardColumns + `,
		       i.name AS issue_name, i.emoji AS issue_emoji, i.color AS issue_color
		FROM action_cards c
		JOIN issues i ON i.id = c.issue_id
		WHERE c.id = $1`

	var card CardWithIssue
	err := r.db.GetContext(ctx, &card, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get card: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}

	return &card, nil
}

func (r *repository) Related(
	ctx context.Context,
	issueID, excludeID string,
	limit int,
) ([]Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM action_cards c
		WHERE c.issue_id = $1 AND c.id <> $2
		ORDER BY c.difficulty, c.title
		LIMIT $3`

	var cards []Card
	if err := r.db.SelectContext(ctx, &cards, query, issueID, excludeID, limit); err != nil {
		return nil, fmt.Errorf("list related cards: %w", err)
	}

	return cards, nil
}

func (r *repository) Random(ctx context.Context, limit int) ([]CardWithIssue, error) {
	query := `
		SELECT ` + cardColumns + `,
		       i.name AS issue_name, i.emoji AS issue_emoji, i.color AS issue_color
		FROM action_cards c
		JOIN issues i ON i.id = c.issue_id
		ORDER BY random()
		LIMIT $1`

	var cards []CardWithIssue
	if err := r.db.SelectContext(ctx, &cards, query, limit); err != nil {
		return nil, fmt.Errorf("list random cards: %w", err)
	}

	return cards, nil
}

// CompletedByIssue counts, per issue, the distinct cards the user has
// logged at least once.
func (r *repository) CompletedByIssue(
	ctx context.Context,
	userID string,
) (map[string]int, error) {
	query := `
		SELECT c.issue_id, COUNT(DISTINCT l.card_id) AS completed
		FROM action_logs l
		JOIN action_cards c ON c.id = l.card_id
		WHERE l.user_id = $1
		GROUP BY c.issue_id`

	var rows []issueCompletion
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("count completed cards: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.IssueID] = row.Completed
	}

	return out, nil
}

func (r *repository) CompletedCards(
	ctx context.Context,
	userID string,
	cardIDs []string,
) (map[string]bool, error) {
	out := make(map[string]bool, len(cardIDs))
	if len(cardIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT DISTINCT card_id
		FROM action_logs
		WHERE user_id = $1 AND card_id = ANY($2::uuid[])`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID, cardIDs); err != nil {
		return nil, fmt.Errorf("list completed cards: %w", err)
	}

	for _, id := range ids {
		out[id] = true
	}

	return out, nil
}
