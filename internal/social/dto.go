// AngelaMos | 2026
// dto.go

package social

import (
	"time"
)

type CreatePostRequest struct {
	Content string  `json:"content"           validate:"required,max=2000"`
	CardID  *string `json:"card_id,omitempty" validate:"omitempty,uuid"`
}

type FeedQuery struct {
	Filter string
	Cursor string
	// AuthorID restricts the feed to one user's posts.
	AuthorID string
	Limit    int
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type PostResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CardID    *string   `json:"card_id"`
	CardTitle *string   `json:"card_title,omitempty"`
	Author    Author    `json:"author"`
	LikeCount int       `json:"like_count"`
	LikedByMe bool      `json:"liked_by_me"`
	CreatedAt time.Time `json:"created_at"`
}

type FeedPage struct {
	Posts      []PostResponse `json:"posts"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

func ToPostResponse(p *FeedPost) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Content:   p.Content,
		CardID:    p.CardID,
		CardTitle: p.CardTitle,
		Author: Author{
			ID:       p.UserID,
			Username: p.Username,
			Name:     p.Name,
		},
		LikeCount: p.LikeCount,
		LikedByMe: p.LikedByMe,
		CreatedAt: p.CreatedAt,
	}
}

func ToPostResponseList(posts []FeedPost) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, ToPostResponse(&posts[i]))
	}
	return out
}
