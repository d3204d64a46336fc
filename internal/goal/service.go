// AngelaMos | 2026
// service.go

package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/praxis-app/praxis-api/internal/activity"
	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/metrics"
)

var ErrAlreadyActive = core.ConflictError("already in goals")

type Service struct {
	repo  Repository
	clock *activity.Clock
}

func NewService(repo Repository, clock *activity.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateGoalRequest,
) (*Goal, error) {
	if userID == "" {
		return nil, fmt.Errorf("create goal: %w", core.ErrUnauthorized)
	}
	req.Normalize()

	exists, err := s.repo.CardExists(ctx, req.CardID)
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	if !exists {
		return nil, core.NotFoundError("card")
	}

	active, err := s.repo.HasActive(ctx, userID, req.CardID)
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	if active {
		return nil, ErrAlreadyActive
	}

	goal := &Goal{
		ID:         uuid.NewString(),
		UserID:     userID,
		CardID:     req.CardID,
		Frequency:  req.Frequency,
		TargetDays: req.TargetDays,
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrAlreadyActive
		}
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("card")
		}
		return nil, err
	}

	metrics.GoalsCreated.Inc()

	return goal, nil
}

// ListActive returns the caller's active goals, newest first, with streak
// state computed from each goal's most recent logs.
func (s *Service) ListActive(
	ctx context.Context,
	userID string,
	limit int,
) ([]View, error) {
	goals, err := s.repo.ListActive(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(goals))
	for _, g := range goals {
		ids = append(ids, g.ID)
	}

	stamps, err := s.repo.RecentTimestamps(ctx, ids, RecentLogLimit)
	if err != nil {
		return nil, err
	}

	now, loc := s.clock.Now(), s.clock.Location()
	views := make([]View, 0, len(goals))
	for _, g := range goals {
		times := stamps[g.ID]
		views = append(views, View{
			GoalWithCard:        g,
			RecentLogs:          times,
			Streak:              activity.Streak(times, now, loc),
			RecentLongestStreak: activity.LongestStreak(times, now, loc),
			TodayDone:           activity.TodayDone(times, now, loc),
			Week:                activity.WeekMap(times, now, loc),
		})
	}

	return views, nil
}

func (s *Service) Deactivate(ctx context.Context, userID, goalID string) error {
	if userID == "" {
		return fmt.Errorf("remove goal: %w", core.ErrUnauthorized)
	}
	return s.repo.Deactivate(ctx, goalID, userID)
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.Count(ctx, userID)
}
