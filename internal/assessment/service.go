// AngelaMos | 2026
// service.go

package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/metrics"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Catalog(tool string) (*Catalog, error) {
	c, ok := CatalogFor(tool)
	if !ok {
		return nil, fmt.Errorf("tool %q: %w", tool, core.ErrNotFound)
	}
	return c, nil
}

func (s *Service) ScoreValueLantern(
	ctx context.Context,
	userID string,
	req ValueLanternRequest,
) (*ResultResponse, error) {
	answers := make(map[string]string, len(req.Answers))
	for k, v := range req.Answers {
		answers[k] = core.SanitizeText(v)
	}

	return s.save(ctx, userID, ToolValueLantern, ValueLanternResult{
		Answers: answers,
		Values:  ExtractValues(answers),
	})
}

func (s *Service) ScoreConcordance(
	ctx context.Context,
	userID string,
	req ConcordanceRequest,
) (*ResultResponse, error) {
	score, err := ScoreConcordance(req.Answers)
	if err != nil {
		return nil, core.ValidationError(err.Error())
	}

	return s.save(ctx, userID, ToolConcordance, ConcordanceResult{
		Goal:             core.SanitizeText(req.Goal),
		Answers:          req.Answers,
		ConcordanceScore: *score,
	})
}

func (s *Service) save(
	ctx context.Context,
	userID, tool string,
	payload any,
) (*ResultResponse, error) {
	if userID == "" {
		return nil, core.ErrUnauthorized
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", tool, err)
	}

	result := &ToolResult{
		ID:       uuid.New().String(),
		UserID:   userID,
		ToolName: tool,
		Result:   string(body),
	}

	if err := s.repo.Save(ctx, result); err != nil {
		return nil, err
	}

	metrics.AssessmentsScored.WithLabelValues(tool).Inc()
	slog.DebugContext(ctx, "assessment scored", "tool", tool, "user_id", userID)

	resp := ToResultResponse(result)
	return &resp, nil
}

func (s *Service) Results(ctx context.Context, userID, tool string) ([]ResultResponse, error) {
	if _, ok := CatalogFor(tool); !ok {
		return nil, fmt.Errorf("tool %q: %w", tool, core.ErrNotFound)
	}

	results, err := s.repo.Latest(ctx, userID, tool, RecentResultsLimit)
	if err != nil {
		return nil, err
	}

	return ToResultResponseList(results), nil
}
