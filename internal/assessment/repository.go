// AngelaMos | 2026
// repository.go

package assessment

import (
	"context"
	"fmt"

	"github.com/praxis-app/praxis-api/internal/core"
)

type Repository interface {
	Save(ctx context.Context, result *ToolResult) error
	Latest(ctx context.Context, userID, tool string, limit int) ([]ToolResult, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, result *ToolResult) error {
	query := `
		INSERT INTO tool_results (id, user_id, tool_name, result)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &result.CreatedAt, query,
		result.ID,
		result.UserID,
		result.ToolName,
		result.Result,
	)
	if err != nil {
		return fmt.Errorf("save tool result: %w", err)
	}

	return nil
}

func (r *repository) Latest(
	ctx context.Context,
	userID, tool string,
	limit int,
) ([]ToolResult, error) {
	query := `
		SELECT id, user_id, tool_name, result::text AS result, created_at
		FROM tool_results
		WHERE user_id = $1 AND tool_name = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	var results []ToolResult
	if err := r.db.SelectContext(ctx, &results, query, userID, tool, limit); err != nil {
		return nil, fmt.Errorf("list tool results: %w", err)
	}

	return results, nil
}
