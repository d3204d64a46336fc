// AngelaMos | 2026
// service.go

package card

import (
	"context"
	"fmt"

	"github.com/praxis-app/praxis-api/internal/core"
)

const issuesCacheKey = "catalog:issues"

func issueCacheKey(id string) string { return "catalog:issue:" + id }
func cardCacheKey(id string) string  { return "catalog:card:" + id }

// Service serves the read-only catalog. Issue and card reads go through the
// cache; per-user completion is always read live.
type Service struct {
	repo  Repository
	cache *core.Cache
}

func NewService(repo Repository, cache *core.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) ListIssues(ctx context.Context, userID string) ([]IssueResponse, error) {
	var issues []IssueWithCount
	if !s.cache.GetJSON(ctx, issuesCacheKey, &issues) {
		var err error
		issues, err = s.repo.ListIssues(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.SetJSON(ctx, issuesCacheKey, issues)
	}

	completed := map[string]int{}
	if userID != "" {
		var err error
		completed, err = s.repo.CompletedByIssue(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	out := make([]IssueResponse, 0, len(issues))
	for i := range issues {
		out = append(out, ToIssueResponse(
			&issues[i].Issue,
			issues[i].CardCount,
			completed[issues[i].ID],
		))
	}

	return out, nil
}

func (s *Service) GetIssue(
	ctx context.Context,
	id, userID string,
) (*IssueDetailResponse, error) {
	var detail IssueDetail
	key := issueCacheKey(id)

	if !s.cache.GetJSON(ctx, key, &detail) {
		issue, err := s.repo.GetIssue(ctx, id)
		if err != nil {
			return nil, err
		}
		cards, err := s.repo.ListByIssue(ctx, id)
		if err != nil {
			return nil, err
		}
		detail = IssueDetail{Issue: *issue, Cards: cards}
		s.cache.SetJSON(ctx, key, detail)
	}

	completed, err := s.completed(ctx, userID, detail.Cards)
	if err != nil {
		return nil, err
	}

	done := 0
	for _, c := range detail.Cards {
		if completed[c.ID] {
			done++
		}
	}

	return &IssueDetailResponse{
		IssueResponse: ToIssueResponse(&detail.Issue, len(detail.Cards), done),
		Cards:         ToCardResponseList(detail.Cards, completed),
	}, nil
}

func (s *Service) GetCard(
	ctx context.Context,
	id, userID string,
) (*CardDetailResponse, error) {
	var detail CardDetail
	key := cardCacheKey(id)

	if !s.cache.GetJSON(ctx, key, &detail) {
		c, err := s.repo.GetCard(ctx, id)
		if err != nil {
			return nil, err
		}
		related, err := s.repo.Related(ctx, c.IssueID, c.ID, RelatedLimit)
		if err != nil {
			return nil, err
		}
		detail = CardDetail{Card: *c, Related: related}
		s.cache.SetJSON(ctx, key, detail)
	}

	all := append([]Card{detail.Card.Card}, detail.Related...)
	completed, err := s.completed(ctx, userID, all)
	if err != nil {
		return nil, err
	}

	return &CardDetailResponse{
		CardIssueResponse: ToCardIssueResponse(&detail.Card, completed[detail.Card.ID]),
		Related:           ToCardResponseList(detail.Related, completed),
	}, nil
}

func (s *Service) Suggestions(ctx context.Context, limit int) ([]CardIssueResponse, error) {
	if limit <= 0 {
		limit = SuggestionLimit
	}

	cards, err := s.repo.Random(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest cards: %w", err)
	}

	out := make([]CardIssueResponse, 0, len(cards))
	for i := range cards {
		out = append(out, ToCardIssueResponse(&cards[i], false))
	}

	return out, nil
}

func (s *Service) completed(
	ctx context.Context,
	userID string,
	cards []Card,
) (map[string]bool, error) {
	if userID == "" {
		return map[string]bool{}, nil
	}

	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}

	return s.repo.CompletedCards(ctx, userID, ids)
}
