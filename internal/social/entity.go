// AngelaMos | 2026
// entity.go

package social

import (
	"time"
)

const (
	MaxPostLength = 500
	FeedPageSize  = 20

	FilterAll       = "all"
	FilterFollowing = "following"
)

type Post struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Content   string    `db:"content"`
	CardID    *string   `db:"card_id"`
	CreatedAt time.Time `db:"created_at"`
}

// FeedPost is a post joined with its author, card and like state for one
// viewer.
type FeedPost struct {
	Post
	Username  string  `db:"username"`
	Name      string  `db:"name"`
	CardTitle *string `db:"card_title"`
	LikeCount int     `db:"like_count"`
	LikedByMe bool    `db:"liked_by_me"`
}

type FollowCounts struct {
	Followers int `db:"followers" json:"followers"`
	Following int `db:"following" json:"following"`
}
