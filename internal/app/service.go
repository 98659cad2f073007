package app

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/mbeckner/voteboard/internal/domain"
	"github.com/mbeckner/voteboard/internal/errors"
	"github.com/mbeckner/voteboard/internal/metrics"
)

// Service is the application layer. It validates caller input, delegates to
// the board repository, and owns operation-level logging and metrics.
type Service struct {
	board domain.BoardRepository
}

// NewService creates the application layer service.
func NewService(board domain.BoardRepository) *Service {
	return &Service{board: board}
}

// PostArticle posts a new article and returns its ID. The poster counts as
// the article's first voter.
func (s *Service) PostArticle(ctx context.Context, poster, title, link string) (int64, error) {
	if poster == "" {
		return 0, errors.ValidationError("poster must not be empty")
	}
	if title == "" {
		return 0, errors.ValidationError("title must not be empty")
	}
	if link == "" {
		return 0, errors.ValidationError("link must not be empty")
	}

	id, err := s.board.PostArticle(ctx, poster, title, link)
	if err != nil {
		return 0, errors.ExternalError("failed to post article", err)
	}

	slog.InfoContext(ctx, "Article posted", "article_id", id, "poster", poster)
	return id, nil
}

// GetArticle retrieves a single article by ID.
func (s *Service) GetArticle(ctx context.Context, articleID int64) (*domain.Article, error) {
	article, err := s.board.GetArticle(ctx, articleID)
	if stderrors.Is(err, domain.ErrArticleNotFound) {
		return nil, errors.NotFoundError("article not found").WithField("article_id", articleID)
	}
	if err != nil {
		return nil, errors.ExternalError("failed to load article", err).
			WithField("article_id", articleID)
	}
	return article, nil
}

// Vote attempts to record a vote. Duplicate, out-of-window, and
// unknown-article votes come back as outcomes, never as errors.
func (s *Service) Vote(ctx context.Context, user string, articleID int64) (domain.VoteOutcome, error) {
	if user == "" {
		return "", errors.ValidationError("user must not be empty")
	}

	start := time.Now()
	outcome, err := s.board.Vote(ctx, user, articleID)
	if err != nil {
		return "", errors.ExternalError("failed to process vote", err).
			WithField("article_id", articleID)
	}

	metrics.VotesProcessed.WithLabelValues(string(outcome)).Inc()
	metrics.VoteProcessingDuration.Observe(time.Since(start).Seconds())

	slog.DebugContext(ctx, "Vote processed", "article_id", articleID, "user", user, "outcome", outcome)
	return outcome, nil
}

// ListArticles returns one page of the global ranking under the chosen basis.
func (s *Service) ListArticles(ctx context.Context, basis domain.OrderBasis, page int) ([]domain.Article, error) {
	if page < 1 {
		return nil, errors.ValidationError("page must be >= 1").WithField("page", page)
	}

	articles, err := s.board.ListArticles(ctx, basis, page)
	if err != nil {
		return nil, errors.ExternalError("failed to list articles", err)
	}
	return articles, nil
}

// AddToGroups adds an article to the named groups.
func (s *Service) AddToGroups(ctx context.Context, articleID int64, groups []string) error {
	if err := validateGroups(groups); err != nil {
		return err
	}

	if err := s.board.AddToGroups(ctx, articleID, groups...); err != nil {
		return errors.ExternalError("failed to add article to groups", err).
			WithField("article_id", articleID)
	}

	slog.InfoContext(ctx, "Article added to groups", "article_id", articleID, "groups", groups)
	return nil
}

// RemoveFromGroups removes an article from the named groups.
func (s *Service) RemoveFromGroups(ctx context.Context, articleID int64, groups []string) error {
	if err := validateGroups(groups); err != nil {
		return err
	}

	if err := s.board.RemoveFromGroups(ctx, articleID, groups...); err != nil {
		return errors.ExternalError("failed to remove article from groups", err).
			WithField("article_id", articleID)
	}

	slog.InfoContext(ctx, "Article removed from groups", "article_id", articleID, "groups", groups)
	return nil
}

// ListGroupArticles returns one page of a group's cached ranking.
func (s *Service) ListGroupArticles(ctx context.Context, group string, basis domain.OrderBasis, page int) ([]domain.Article, error) {
	if group == "" {
		return nil, errors.ValidationError("group must not be empty")
	}
	if page < 1 {
		return nil, errors.ValidationError("page must be >= 1").WithField("page", page)
	}

	articles, err := s.board.ListGroupArticles(ctx, group, basis, page)
	if err != nil {
		return nil, errors.ExternalError("failed to list group articles", err).
			WithField("group", group)
	}
	return articles, nil
}

func validateGroups(groups []string) error {
	if len(groups) == 0 {
		return errors.ValidationError("at least one group is required")
	}
	for _, g := range groups {
		if g == "" {
			return errors.ValidationError("group names must not be empty")
		}
	}
	return nil
}
