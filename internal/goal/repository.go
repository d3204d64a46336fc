// AngelaMos | 2026
// repository.go

package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/praxis-app/praxis-api/internal/core"
)

type Repository interface {
	CardExists(ctx context.Context, cardID string) (bool, error)
	HasActive(ctx context.Context, userID, cardID string) (bool, error)
	Create(ctx context.Context, goal *Goal) error
	ListActive(ctx context.Context, userID string, limit int) ([]GoalWithCard, error)
	RecentTimestamps(ctx context.Context, goalIDs []string, perGoal int) (map[string][]time.Time, error)
	Deactivate(ctx context.Context, goalID, userID string) error
	Count(ctx context.Context, userID string) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CardExists(ctx context.Context, cardID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM action_cards WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, cardID); err != nil {
		return false, fmt.Errorf("check card: %w", err)
	}

	return exists, nil
}

func (r *repository) HasActive(ctx context.Context, userID, cardID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM goals
			WHERE user_id = $1 AND card_id = $2 AND is_active
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, cardID); err != nil {
		return false, fmt.Errorf("check active goal: %w", err)
	}

	return exists, nil
}

func (r *repository) Create(ctx context.Context, goal *Goal) error {
	query := `
		INSERT INTO goals (id, user_id, card_id, frequency, target_days, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING is_active, created_at`

	err := r.db.GetContext(ctx, goal, query,
		goal.ID,
		goal.UserID,
		goal.CardID,
		goal.Frequency,
		goal.TargetDays,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create goal: %w", core.ErrDuplicateKey)
		}
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create goal: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create goal: %w", err)
	}

	return nil
}

func (r *repository) ListActive(
	ctx context.Context,
	userID string,
	limit int,
) ([]GoalWithCard, error) {
	query := `
		SELECT g.id, g.user_id, g.card_id, g.frequency, g.target_days,
		       g.is_active, g.created_at,
		       c.title AS card_title, c.difficulty AS card_difficulty,
		       c.duration_min AS card_duration_min, c.impact AS card_impact,
		       i.id AS issue_id, i.name AS issue_name,
		       i.emoji AS issue_emoji, i.color AS issue_color
		FROM goals g
		JOIN action_cards c ON c.id = g.card_id
		JOIN issues i ON i.id = c.issue_id
		WHERE g.user_id = $1 AND g.is_active
		ORDER BY g.created_at DESC
		LIMIT $2`

	var goals []GoalWithCard
	if err := r.db.SelectContext(ctx, &goals, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list active goals: %w", err)
	}

	return goals, nil
}

// RecentTimestamps returns up to perGoal done_at values per goal, newest
// first.
func (r *repository) RecentTimestamps(
	ctx context.Context,
	goalIDs []string,
	perGoal int,
) (map[string][]time.Time, error) {
	out := make(map[string][]time.Time, len(goalIDs))
	if len(goalIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT goal_id, done_at
		FROM (
			SELECT goal_id, done_at,
			       ROW_NUMBER() OVER (PARTITION BY goal_id ORDER BY done_at DESC) AS rn
			FROM action_logs
			WHERE goal_id = ANY($1::uuid[])
		) ranked
		WHERE rn <= $2
		ORDER BY goal_id, done_at DESC`

	var rows []goalTimestamp
	if err := r.db.SelectContext(ctx, &rows, query, goalIDs, perGoal); err != nil {
		return nil, fmt.Errorf("list goal timestamps: %w", err)
	}

	for _, row := range rows {
		out[row.GoalID] = append(out[row.GoalID], row.DoneAt)
	}

	return out, nil
}

func (r *repository) Deactivate(ctx context.Context, goalID, userID string) error {
	query := `
		UPDATE goals
		SET is_active = FALSE
		WHERE id = $1 AND user_id = $2 AND is_active`

	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return fmt.Errorf("deactivate goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate goal: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("deactivate goal: %w", core.ErrNotFound)
	}

	return nil
}

// Count includes deactivated goals.
func (r *repository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM goals WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &n, query, userID); err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}
	return n, nil
}
