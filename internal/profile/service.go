// AngelaMos | 2026
// service.go

package profile

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/praxis-app/praxis-api/internal/actionlog"
	"github.com/praxis-app/praxis-api/internal/activity"
	"github.com/praxis-app/praxis-api/internal/card"
	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/goal"
	"github.com/praxis-app/praxis-api/internal/progression"
	"github.com/praxis-app/praxis-api/internal/social"
	"github.com/praxis-app/praxis-api/internal/user"
)

type Users interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

type Logs interface {
	Count(ctx context.Context, userID string) (int, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]actionlog.RecentLog, error)
	History(ctx context.Context, userID string) ([]time.Time, error)
	Clock() *activity.Clock
}

type Goals interface {
	Count(ctx context.Context, userID string) (int, error)
	ListActive(ctx context.Context, userID string, limit int) ([]goal.View, error)
}

type Social interface {
	PostCount(ctx context.Context, userID string) (int, error)
	FollowCounts(ctx context.Context, userID string) (*social.FollowCounts, error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	RecentPosts(ctx context.Context, viewerID, authorID string, limit int) ([]social.PostResponse, error)
}

type Suggester interface {
	Suggestions(ctx context.Context, limit int) ([]card.CardIssueResponse, error)
}

type Service struct {
	users   Users
	logs    Logs
	goals   Goals
	social  Social
	suggest Suggester
}

func NewService(users Users, logs Logs, goals Goals, soc Social, suggest Suggester) *Service {
	return &Service{
		users:   users,
		logs:    logs,
		goals:   goals,
		social:  soc,
		suggest: suggest,
	}
}

// Profile assembles the public page of username as seen by viewerID, which
// is empty for anonymous visitors.
func (s *Service) Profile(
	ctx context.Context,
	viewerID, username string,
) (*ProfileResponse, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{
		User:     toPublicUser(u),
		Progress: progression.ProgressOf(u.Points),
		IsOwn:    viewerID == u.ID,
	}

	var (
		history []time.Time
		recent  []actionlog.RecentLog
		follows *social.FollowCounts
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		resp.Counts.Logs, err = s.logs.Count(gctx, u.ID)
		return err
	})
	g.Go(func() (err error) {
		resp.Counts.Goals, err = s.goals.Count(gctx, u.ID)
		return err
	})
	g.Go(func() (err error) {
		resp.Counts.Posts, err = s.social.PostCount(gctx, u.ID)
		return err
	})
	g.Go(func() (err error) {
		follows, err = s.social.FollowCounts(gctx, u.ID)
		return err
	})
	g.Go(func() (err error) {
		history, err = s.logs.History(gctx, u.ID)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.logs.ListRecent(gctx, u.ID, ProfileLogLimit)
		return err
	})
	g.Go(func() (err error) {
		resp.RecentPosts, err = s.social.RecentPosts(gctx, viewerID, u.ID, ProfilePostLimit)
		return err
	})
	if viewerID != "" && !resp.IsOwn {
		g.Go(func() (err error) {
			resp.IsFollowing, err = s.social.IsFollowing(gctx, viewerID, u.ID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	resp.Counts.Followers = follows.Followers
	resp.Counts.Following = follows.Following
	resp.Badges = progression.Badges(progression.Counts{
		Logs:  resp.Counts.Logs,
		Goals: resp.Counts.Goals,
		Posts: resp.Counts.Posts,
		Rank:  progression.RankOf(u.Points),
	})
	resp.Calendar = s.calendar(history[:min(len(history), calendarSample)])
	resp.RecentLogs = actionlog.ToRecentLogResponseList(recent)

	return resp, nil
}

func (s *Service) Dashboard(ctx context.Context, userID string) (*DashboardResponse, error) {
	if userID == "" {
		return nil, core.ErrUnauthorized
	}

	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		goals       []goal.View
		recent      []actionlog.RecentLog
		history     []time.Time
		suggestions []card.CardIssueResponse
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		goals, err = s.goals.ListActive(gctx, userID, DashboardGoals)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.logs.ListRecent(gctx, userID, DashboardLogs)
		return err
	})
	g.Go(func() (err error) {
		history, err = s.logs.History(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		suggestions, err = s.suggest.Suggestions(gctx, DashboardSuggests)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	clock := s.logs.Clock()

	return &DashboardResponse{
		User:        user.ToUserResponse(u),
		Progress:    progression.ProgressOf(u.Points),
		Streak:      activity.Streak(history, clock.Now(), clock.Location()),
		Goals:       goal.ToViewResponseList(goals),
		RecentLogs:  actionlog.ToRecentLogResponseList(recent),
		Calendar:    s.calendar(history),
		Suggestions: suggestions,
	}, nil
}

func (s *Service) calendar(history []time.Time) actionlog.CalendarResponse {
	clock := s.logs.Clock()
	days := activity.Calendar(history, clock.Now(), clock.Location(), CalendarDays)
	return actionlog.NewCalendarResponse(days)
}
