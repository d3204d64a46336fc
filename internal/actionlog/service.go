// AngelaMos | 2026
// service.go

package actionlog

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/praxis-app/praxis-api/internal/activity"
	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/metrics"
	"github.com/praxis-app/praxis-api/internal/progression"
)

// HistoryCacheKey names the cached log timestamps of a user.
func HistoryCacheKey(userID string) string {
	return "logs:history:" + userID
}

type Service struct {
	repo  Repository
	clock *activity.Clock
	cache *core.Cache
}

func NewService(
	repo Repository,
	clock *activity.Clock,
	cache *core.Cache,
) *Service {
	return &Service{
		repo:  repo,
		clock: clock,
		cache: cache,
	}
}

// Log appends an entry to the ledger and credits the user. The ledger
// insert, the point increment and any rank change commit together.
func (s *Service) Log(
	ctx context.Context,
	userID string,
	req LogRequest,
) (*Result, error) {
	ctx, span := core.StartSpan(ctx, "actionlog.Log",
		attribute.String("user.id", userID),
		attribute.String("card.id", req.CardID),
	)
	defer span.End()

	if userID == "" {
		return nil, fmt.Errorf("log action: %w", core.ErrUnauthorized)
	}

	entry, err := s.newEntry(userID, req)
	if err != nil {
		return nil, err
	}

	var total int
	err = s.repo.WithTx(ctx, func(tx Repository) error {
		exists, err := tx.CardExists(ctx, entry.CardID)
		if err != nil {
			return err
		}
		if !exists {
			return core.NotFoundError("card")
		}

		if entry.GoalID != nil {
			active, err := tx.ActiveGoalForCard(ctx, *entry.GoalID, userID, entry.CardID)
			if err != nil {
				return err
			}
			if !active {
				return core.NotFoundError("goal")
			}
		}

		if err := tx.Insert(ctx, entry); err != nil {
			return err
		}

		total, err = s.applyPoints(ctx, tx, userID, entry.Points)
		return err
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("log action: %w", err)
	}

	res := &Result{
		Log:      *entry,
		Progress: progression.ProgressOf(total),
		Promoted: progression.Promoted(total-entry.Points, total),
	}

	s.afterCommit(ctx, res)

	return res, nil
}

// applyPoints is the single place where a user's points change. The rank is
// re-derived from the new total and written when it differs.
func (s *Service) applyPoints(
	ctx context.Context,
	tx Repository,
	userID string,
	points int,
) (int, error) {
	total, stored, err := tx.AddPoints(ctx, userID, points)
	if err != nil {
		return 0, err
	}

	derived := progression.RankOf(total)
	if derived.String() != stored {
		if err := tx.UpdateRank(ctx, userID, derived.String()); err != nil {
			return 0, err
		}
	}

	return total, nil
}

func (s *Service) newEntry(userID string, req LogRequest) (*ActionLog, error) {
	cardID := strings.TrimSpace(req.CardID)
	if cardID == "" {
		return nil, core.ValidationError("card_id is required")
	}

	entry := &ActionLog{
		ID:     uuid.NewString(),
		UserID: userID,
		CardID: cardID,
		Points: progression.PointsPerAction,
		DoneAt: s.clock.Now(),
	}

	if req.GoalID != nil {
		if goalID := strings.TrimSpace(*req.GoalID); goalID != "" {
			entry.GoalID = &goalID
		}
	}

	if req.Note != nil {
		note := core.SanitizeText(*req.Note)
		if utf8.RuneCountInString(note) > MaxNoteLength {
			return nil, core.ValidationError(
				fmt.Sprintf("note must be at most %d characters", MaxNoteLength),
			)
		}
		if note != "" {
			entry.Note = &note
		}
	}

	return entry, nil
}

func (s *Service) afterCommit(ctx context.Context, res *Result) {
	metrics.ActionsLogged.Inc()
	metrics.PointsAwarded.Add(float64(res.Log.Points))

	attrs := []attribute.KeyValue{
		attribute.Int("points.total", res.Progress.Points),
		attribute.String("rank", res.Progress.Rank.String()),
	}
	if res.Promoted {
		metrics.RankPromotions.WithLabelValues(res.Progress.Rank.String()).Inc()
		attrs = append(attrs, attribute.Bool("promoted", true))
	}
	core.AddSpanEvent(ctx, "action.logged", attrs...)

	s.cache.Delete(ctx, HistoryCacheKey(res.Log.UserID))
}

func (s *Service) ListRecent(
	ctx context.Context,
	userID string,
	limit int,
) ([]RecentLog, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	logs, err := s.repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent logs: %w", err)
	}

	return logs, nil
}

// History returns the user's log timestamps from the last MaxCalendarDays
// days, newest first, capped at MaxHistoryRows. A user averaging more than
// HistoryRowsPerDay logs a day loses the oldest days of the window. The
// result is cached until the user logs again.
func (s *Service) History(ctx context.Context, userID string) ([]time.Time, error) {
	key := HistoryCacheKey(userID)

	var cached []time.Time
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	since := s.clock.Today().AddDate(0, 0, -MaxCalendarDays)
	times, err := s.repo.Timestamps(ctx, userID, since, MaxHistoryRows)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	s.cache.SetJSON(ctx, key, times)

	return times, nil
}

// Calendar returns the user's dense daily activity for the last days days.
func (s *Service) Calendar(
	ctx context.Context,
	userID string,
	days int,
) ([]activity.DayCount, error) {
	if days <= 0 {
		days = activity.DefaultWindow
	}
	days = min(days, MaxCalendarDays)

	times, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	return activity.Calendar(times, s.clock.Now(), s.clock.Location(), days), nil
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.Count(ctx, userID)
}

func (s *Service) Totals(ctx context.Context) (*LedgerTotals, error) {
	return s.repo.Totals(ctx)
}

func (s *Service) Clock() *activity.Clock {
	return s.clock
}
