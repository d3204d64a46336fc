// AngelaMos | 2026
// repository.go

package actionlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/praxis-app/praxis-api/internal/core"
)

type Repository interface {
	// WithTx runs fn against a repository bound to one transaction. Every
	// write made through the inner repository commits or rolls back
	// together.
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	CardExists(ctx context.Context, cardID string) (bool, error)
	ActiveGoalForCard(ctx context.Context, goalID, userID, cardID string) (bool, error)
	Insert(ctx context.Context, log *ActionLog) error
	AddPoints(ctx context.Context, userID string, points int) (int, string, error)
	UpdateRank(ctx context.Context, userID, rank string) error

	ListRecent(ctx context.Context, userID string, limit int) ([]RecentLog, error)
	Timestamps(ctx context.Context, userID string, since time.Time, limit int) ([]time.Time, error)
	Count(ctx context.Context, userID string) (int, error)
	Totals(ctx context.Context) (*LedgerTotals, error)
}

type repository struct {
	db   core.DBTX
	pool *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db, pool: db}
}

func (r *repository) WithTx(
	ctx context.Context,
	fn func(tx Repository) error,
) error {
	if r.pool == nil {
		return fn(r)
	}

	return core.InTx(ctx, r.pool, func(tx *sqlx.Tx) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) CardExists(ctx context.Context, cardID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM action_cards WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, cardID); err != nil {
		return false, fmt.Errorf("check card: %w", err)
	}

	return exists, nil
}

func (r *repository) ActiveGoalForCard(
	ctx context.Context,
	goalID, userID, cardID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM goals
			WHERE id = $1 AND user_id = $2 AND card_id = $3 AND is_active
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, goalID, userID, cardID); err != nil {
		return false, fmt.Errorf("check goal: %w", err)
	}

	return exists, nil
}

func (r *repository) Insert(ctx context.Context, log *ActionLog) error {
	query := `
		INSERT INTO action_logs (id, user_id, card_id, goal_id, note, points, done_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.UserID,
		log.CardID,
		log.GoalID,
		log.Note,
		log.Points,
		log.DoneAt,
	)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("insert action log: %w", core.ErrNotFound)
		}
		return fmt.Errorf("insert action log: %w", err)
	}

	return nil
}

// AddPoints increments the user's total and returns the new total with the
// rank stored before this call.
func (r *repository) AddPoints(
	ctx context.Context,
	userID string,
	points int,
) (int, string, error) {
	query := `
		UPDATE users
		SET points = points + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING points, rank`

	var row pointsRow
	err := r.db.GetContext(ctx, &row, query, userID, points)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", fmt.Errorf("add points: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, "", fmt.Errorf("add points: %w", err)
	}

	return row.Points, row.Rank, nil
}

func (r *repository) UpdateRank(ctx context.Context, userID, rank string) error {
	query := `
		UPDATE users
		SET rank = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, rank)
	if err != nil {
		return fmt.Errorf("update rank: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rank: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update rank: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListRecent(
	ctx context.Context,
	userID string,
	limit int,
) ([]RecentLog, error) {
	query := `
		SELECT l.id, l.user_id, l.card_id, l.goal_id, l.note, l.points, l.done_at,
		       c.title AS card_title, i.name AS issue_name, i.emoji AS issue_emoji
		FROM action_logs l
		JOIN action_cards c ON c.id = l.card_id
		JOIN issues i ON i.id = c.issue_id
		WHERE l.user_id = $1
		ORDER BY l.done_at DESC
		LIMIT $2`

	var logs []RecentLog
	if err := r.db.SelectContext(ctx, &logs, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list recent logs: %w", err)
	}

	return logs, nil
}

// Timestamps returns done_at values newest first. Only the timestamp
// column is read.
func (r *repository) Timestamps(
	ctx context.Context,
	userID string,
	since time.Time,
	limit int,
) ([]time.Time, error) {
	query := `
		SELECT done_at
		FROM action_logs
		WHERE user_id = $1 AND done_at >= $2
		ORDER BY done_at DESC
		LIMIT $3`

	var times []time.Time
	if err := r.db.SelectContext(ctx, &times, query, userID, since, limit); err != nil {
		return nil, fmt.Errorf("list log timestamps: %w", err)
	}

	return times, nil
}

func (r *repository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM action_logs WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &n, query, userID); err != nil {
		return 0, fmt.Errorf("count logs: %w", err)
	}
	return n, nil
}

func (r *repository) Totals(ctx context.Context) (*LedgerTotals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM action_logs) AS logs,
			(SELECT COALESCE(SUM(points), 0) FROM action_logs) AS points,
			(SELECT COUNT(*)
			 FROM users u
			 WHERE u.points <> COALESCE(
			     (SELECT SUM(l.points) FROM action_logs l WHERE l.user_id = u.id), 0)
			) AS drifted`

	var totals LedgerTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("ledger totals: %w", err)
	}

	return &totals, nil
}
