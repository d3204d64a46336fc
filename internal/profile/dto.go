// AngelaMos | 2026
// dto.go

package profile

import (
	"time"

	"github.com/praxis-app/praxis-api/internal/actionlog"
	"github.com/praxis-app/praxis-api/internal/card"
	"github.com/praxis-app/praxis-api/internal/goal"
	"github.com/praxis-app/praxis-api/internal/progression"
	"github.com/praxis-app/praxis-api/internal/social"
	"github.com/praxis-app/praxis-api/internal/user"
)

const (
	CalendarDays      = 365
	calendarSample    = 500
	ProfileLogLimit   = 10
	ProfilePostLimit  = 5
	DashboardGoals    = 5
	DashboardLogs     = 5
	DashboardSuggests = 3
)

type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Points    int       `json:"points"`
	Rank      string    `json:"rank"`
	CreatedAt time.Time `json:"created_at"`
}

type Counts struct {
	Logs      int `json:"logs"`
	Goals     int `json:"goals"`
	Posts     int `json:"posts"`
	Followers int `json:"followers"`
	Following int `json:"following"`
}

type ProfileResponse struct {
	User        PublicUser                    `json:"user"`
	Progress    progression.Progress          `json:"progress"`
	Counts      Counts                        `json:"counts"`
	Badges      []progression.Badge           `json:"badges"`
	Calendar    actionlog.CalendarResponse    `json:"calendar"`
	RecentLogs  []actionlog.RecentLogResponse `json:"recent_logs"`
	RecentPosts []social.PostResponse         `json:"recent_posts"`
	IsFollowing bool                          `json:"is_following"`
	IsOwn       bool                          `json:"is_own"`
}

type DashboardResponse struct {
	User        user.UserResponse             `json:"user"`
	Progress    progression.Progress          `json:"progress"`
	Streak      int                           `json:"streak"`
	Goals       []goal.ViewResponse           `json:"goals"`
	RecentLogs  []actionlog.RecentLogResponse `json:"recent_logs"`
	Calendar    actionlog.CalendarResponse    `json:"calendar"`
	Suggestions []card.CardIssueResponse      `json:"suggestions"`
}

func toPublicUser(u *user.User) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Bio:       u.Bio,
		Points:    u.Points,
		Rank:      u.Rank,
		CreatedAt: u.CreatedAt,
	}
}
