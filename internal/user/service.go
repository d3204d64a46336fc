// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/praxis-app/praxis-api/internal/auth"
	"github.com/praxis-app/praxis-api/internal/core"
	"github.com/praxis-app/praxis-api/internal/progression"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NormalizeUsername lowercases and trims a username and checks that it is a
// URL-safe slug of acceptable length.
func NormalizeUsername(raw string) (string, error) {
	username := strings.ToLower(strings.TrimSpace(raw))

	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return "", core.ValidationError(fmt.Sprintf(
			"username must be %d-%d characters",
			MinUsernameLength, MaxUsernameLength,
		))
	}

	if !slug.IsSlug(username) {
		msg := "username may contain only lowercase letters, digits and hyphens"
		if suggestion := slug.Make(raw); slug.IsSlug(suggestion) {
			msg += fmt.Sprintf(" (try %q)", suggestion)
		}
		return "", core.ValidationError(msg)
	}

	return username, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// GetByLogin resolves an email address or a username.
func (s *Service) GetByLogin(ctx context.Context, login string) (*auth.UserInfo, error) {
	login = strings.ToLower(strings.TrimSpace(login))

	var (
		user *User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.repo.GetByEmail(ctx, login)
	} else {
		user, err = s.repo.GetByUsername(ctx, login)
	}
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(ctx context.Context, in auth.NewUser) (*auth.UserInfo, error) {
	username, err := NormalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	name := core.SanitizeText(in.Name)
	if name == "" {
		name = username
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: in.PasswordHash,
		Name:         name,
		Role:         RoleUser,
		Rank:         progression.Bronze.String(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(ctx context.Context, userID string) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateUserRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := core.SanitizeText(*req.Name)
		if name == "" {
			return nil, core.ValidationError("name must not be empty")
		}
		user.Name = name
	}

	if req.Bio != nil {
		bio := core.SanitizeText(*req.Bio)
		if utf8.RuneCountInString(bio) > MaxBioLength {
			return nil, core.ValidationError(
				fmt.Sprintf("bio must be at most %d characters", MaxBioLength),
			)
		}
		user.Bio = bio
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateUserRole(ctx context.Context, id, role string) (*User, error) {
	if role != RoleUser && role != RoleAdmin {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	if params.Rank != "" {
		if _, err := progression.ParseRank(params.Rank); err != nil {
			return nil, 0, fmt.Errorf("list users: %w: %w", err, core.ErrInvalidInput)
		}
	}

	return s.repo.List(ctx, params)
}

// RankDistribution counts users per rank, with every rank present.
func (s *Service) RankDistribution(ctx context.Context) (map[string]int, error) {
	counts, err := s.repo.RankDistribution(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int, len(progression.Ranks()))
	for _, r := range progression.Ranks() {
		out[r.String()] = counts[r.String()]
	}

	return out, nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Points:       u.Points,
		Rank:         u.Rank,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
