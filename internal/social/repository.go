// AngelaMos | 2026
// repository.go

package social

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/praxis-app/praxis-api/internal/core"
)

type Repository interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, postID, viewerID string) (*FeedPost, error)
	DeletePost(ctx context.Context, postID, userID string) error
	Feed(ctx context.Context, viewerID string, q FeedQuery) ([]FeedPost, error)

	Like(ctx context.Context, userID, postID string) error
	Unlike(ctx context.Context, userID, postID string) error

	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	FollowCounts(ctx context.Context, userID string) (*FollowCounts, error)
	PostCount(ctx context.Context, userID string) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// nullable maps an empty id to SQL NULL so anonymous viewers never match
// a uuid column.
func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func (r *repository) CreatePost(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (id, user_id, content, card_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &post.CreatedAt, query,
		post.ID,
		post.UserID,
		post.Content,
		post.CardID,
	)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create post: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

const feedSelect = `
		SELECT p.id, p.user_id, p.content, p.card_id, p.created_at,
		       u.username, u.name, c.title AS card_title,
		       (SELECT COUNT(*) FROM likes lk WHERE lk.post_id = p.id) AS like_count,
		       EXISTS(
		           SELECT 1 FROM likes lk WHERE lk.post_id = p.id AND lk.user_id = $1
		       ) AS liked_by_me
		FROM posts p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN action_cards c ON c.id = p.card_id`

func (r *repository) GetPost(
	ctx context.Context,
	postID, viewerID string,
) (*FeedPost, error) {
	query := feedSelect + ` WHERE p.id = $2`

	var post FeedPost
	err := r.db.GetContext(ctx, &post, query, nullable(viewerID), postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get post: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// Feed pages newest first. The cursor is the id of the last post of the
// previous page; ties on created_at are broken by id.
func (r *repository) Feed(
	ctx context.Context,
	viewerID string,
	q FeedQuery,
) ([]FeedPost, error) {
	conditions := []string{"TRUE"}
	args := []any{nullable(viewerID)}

	if q.Filter == FilterFollowing && viewerID != "" {
		conditions = append(conditions, `(p.user_id = $1 OR p.user_id IN (
			SELECT following_id FROM follows WHERE follower_id = $1))`)
	}

	if q.AuthorID != "" {
		args = append(args, q.AuthorID)
		conditions = append(conditions, fmt.Sprintf("p.user_id = $%d", len(args)))
	}

	if q.Cursor != "" {
		args = append(args, q.Cursor)
		conditions = append(conditions, fmt.Sprintf(
			"(p.created_at, p.id) < (SELECT created_at, id FROM posts WHERE id = $%d)",
			len(args)))
	}

	args = append(args, q.Limit)
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d`,
		feedSelect, strings.Join(conditions, " AND "), len(args))

	var posts []FeedPost
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}

	return posts, nil
}

func (r *repository) DeletePost(ctx context.Context, postID, userID string) error {
	query := `DELETE FROM posts WHERE id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	return nil
}

func (r *repository) Like(ctx context.Context, userID, postID string) error {
	query := `
		INSERT INTO likes (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("like post: %w", core.ErrNotFound)
		}
		return fmt.Errorf("like post: %w", err)
	}

	return nil
}

func (r *repository) Unlike(ctx context.Context, userID, postID string) error {
	query := `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("unlike post: %w", err)
	}

	return nil
}

func (r *repository) Follow(ctx context.Context, followerID, followingID string) error {
	query := `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, followerID, followingID); err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("follow: %w", core.ErrNotFound)
		}
		return fmt.Errorf("follow: %w", err)
	}

	return nil
}

func (r *repository) Unfollow(ctx context.Context, followerID, followingID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`

	if _, err := r.db.ExecContext(ctx, query, followerID, followingID); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}

	return nil
}

func (r *repository) IsFollowing(
	ctx context.Context,
	followerID, followingID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, followerID, followingID); err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}

	return exists, nil
}

func (r *repository) FollowCounts(ctx context.Context, userID string) (*FollowCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE following_id = $1) AS followers,
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1) AS following`

	var counts FollowCounts
	if err := r.db.GetContext(ctx, &counts, query, userID); err != nil {
		return nil, fmt.Errorf("count follows: %w", err)
	}

	return &counts, nil
}

func (r *repository) PostCount(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM posts WHERE user_id = $1`

	var n int
	if err := r.db.GetContext(ctx, &n, query, userID); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}

	return n, nil
}
