// AngelaMos | 2026
// service.go

package social

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/metrics"
)

var ErrSelfFollow = core.ValidationError("cannot follow yourself")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Feed returns one page of posts. The following filter needs a viewer and
// falls back to all posts for anonymous callers.
func (s *Service) Feed(ctx context.Context, viewerID string, q FeedQuery) (*FeedPage, error) {
	switch q.Filter {
	case "", FilterAll:
		q.Filter = FilterAll
	case FilterFollowing:
	default:
		return nil, core.ValidationError("filter must be one of [all following]")
	}

	if q.Cursor != "" && uuid.Validate(q.Cursor) != nil {
		return nil, core.ValidationError("cursor is invalid")
	}

	if q.Limit <= 0 || q.Limit > FeedPageSize {
		q.Limit = FeedPageSize
	}
	pageSize := q.Limit
	q.Limit++

	posts, err := s.repo.Feed(ctx, viewerID, q)
	if err != nil {
		return nil, err
	}

	page := &FeedPage{}
	if len(posts) > pageSize {
		posts = posts[:pageSize]
		page.NextCursor = posts[pageSize-1].ID
	}
	page.Posts = ToPostResponseList(posts)

	return page, nil
}

func (s *Service) RecentPosts(
	ctx context.Context,
	viewerID, authorID string,
	limit int,
) ([]PostResponse, error) {
	posts, err := s.repo.Feed(ctx, viewerID, FeedQuery{
		Filter:   FilterAll,
		AuthorID: authorID,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	return ToPostResponseList(posts), nil
}

func (s *Service) CreatePost(
	ctx context.Context,
	userID string,
	req CreatePostRequest,
) (*PostResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("create post: %w", core.ErrUnauthorized)
	}

	content := core.SanitizeText(req.Content)
	if content == "" {
		return nil, core.ValidationError("content is required")
	}
	if utf8.RuneCountInString(content) > MaxPostLength {
		return nil, core.ValidationError(
			fmt.Sprintf("content must be at most %d characters", MaxPostLength),
		)
	}

	post := &Post{
		ID:      uuid.New().String(),
		UserID:  userID,
		Content: content,
		CardID:  req.CardID,
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	metrics.PostsCreated.Inc()

	created, err := s.repo.GetPost(ctx, post.ID, userID)
	if err != nil {
		return nil, err
	}

	resp := ToPostResponse(created)
	return &resp, nil
}

// DeletePost removes the caller's own post. Missing posts and posts of
// other users are ignored.
func (s *Service) DeletePost(ctx context.Context, userID, postID string) error {
	if userID == "" {
		return fmt.Errorf("delete post: %w", core.ErrUnauthorized)
	}

	return s.repo.DeletePost(ctx, postID, userID)
}

func (s *Service) Like(ctx context.Context, userID, postID string) error {
	if userID == "" {
		return fmt.Errorf("like: %w", core.ErrUnauthorized)
	}

	return s.repo.Like(ctx, userID, postID)
}

func (s *Service) Unlike(ctx context.Context, userID, postID string) error {
	if userID == "" {
		return fmt.Errorf("unlike: %w", core.ErrUnauthorized)
	}

	return s.repo.Unlike(ctx, userID, postID)
}

func (s *Service) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" {
		return fmt.Errorf("follow: %w", core.ErrUnauthorized)
	}
	if followerID == followingID {
		return ErrSelfFollow
	}

	return s.repo.Follow(ctx, followerID, followingID)
}

func (s *Service) Unfollow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" {
		return fmt.Errorf("unfollow: %w", core.ErrUnauthorized)
	}

	return s.repo.Unfollow(ctx, followerID, followingID)
}

func (s *Service) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followerID == followingID {
		return false, nil
	}

	return s.repo.IsFollowing(ctx, followerID, followingID)
}

func (s *Service) FollowCounts(ctx context.Context, userID string) (*FollowCounts, error) {
	return s.repo.FollowCounts(ctx, userID)
}

func (s *Service) PostCount(ctx context.Context, userID string) (int, error) {
	return s.repo.PostCount(ctx, userID)
}
