package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/mbeckner/voteboard/internal/domain"
	apperrors "github.com/mbeckner/voteboard/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockBoardRepo struct {
	postArticleFn       func(ctx context.Context, poster, title, link string) (int64, error)
	getArticleFn        func(ctx context.Context, articleID int64) (*domain.Article, error)
	voteFn              func(ctx context.Context, user string, articleID int64) (domain.VoteOutcome, error)
	listArticlesFn      func(ctx context.Context, basis domain.OrderBasis, page int) ([]domain.Article, error)
	addToGroupsFn       func(ctx context.Context, articleID int64, groups ...string) error
	removeFromGroupsFn  func(ctx context.Context, articleID int64, groups ...string) error
	listGroupArticlesFn func(ctx context.Context, group string, basis domain.OrderBasis, page int) ([]domain.Article, error)
}

func (m *mockBoardRepo) PostArticle(ctx context.Context, poster, title, link string) (int64, error) {
	if m.postArticleFn != nil {
		return m.postArticleFn(ctx, poster, title, link)
	}
	return 0, fmt.Errorf("not implemented")
}

func (m *mockBoardRepo) GetArticle(ctx context.Context, articleID int64) (*domain.Article, error) {
	if m.getArticleFn != nil {
		return m.getArticleFn(ctx, articleID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockBoardRepo) Vote(ctx context.Context, user string, articleID int64) (domain.VoteOutcome, error) {
	if m.voteFn != nil {
		return m.voteFn(ctx, user, articleID)
	}
	return "", fmt.Errorf("not implemented")
}

func (m *mockBoardRepo) ListArticles(ctx context.Context, basis domain.OrderBasis, page int) ([]domain.Article, error) {
	if m.listArticlesFn != nil {
		return m.listArticlesFn(ctx, basis, page)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockBoardRepo) AddToGroups(ctx context.Context, articleID int64, groups ...string) error {
	if m.addToGroupsFn != nil {
		return m.addToGroupsFn(ctx, articleID, groups...)
	}
	return fmt.Errorf("not implemented")
}

func (m *mockBoardRepo) RemoveFromGroups(ctx context.Context, articleID int64, groups ...string) error {
	if m.removeFromGroupsFn != nil {
		return m.removeFromGroupsFn(ctx, articleID, groups...)
	}
	return fmt.Errorf("not implemented")
}

func (m *mockBoardRepo) ListGroupArticles(ctx context.Context, group string, basis domain.OrderBasis, page int) ([]domain.Article, error) {
	if m.listGroupArticlesFn != nil {
		return m.listGroupArticlesFn(ctx, group, basis, page)
	}
	return nil, fmt.Errorf("not implemented")
}

// --- Tests ---

func TestPostArticle_Success(t *testing.T) {
	repo := &mockBoardRepo{
		postArticleFn: func(ctx context.Context, poster, title, link string) (int64, error) {
			assert.Equal(t, "alice", poster)
			assert.Equal(t, "A title", title)
			assert.Equal(t, "http://example.com", link)
			return 7, nil
		},
	}
	svc := NewService(repo)

	id, err := svc.PostArticle(context.Background(), "alice", "A title", "http://example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestPostArticle_Validation(t *testing.T) {
	svc := NewService(&mockBoardRepo{})

	tests := []struct {
		name                string
		poster, title, link string
	}{
		{"empty poster", "", "A title", "http://example.com"},
		{"empty title", "alice", "", "http://example.com"},
		{"empty link", "alice", "A title", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PostArticle(context.Background(), tt.poster, tt.title, tt.link)
			require.Error(t, err)

			structured := apperrors.AsStructuredError(err)
			assert.Equal(t, apperrors.TypeValidation, structured.Type)
		})
	}
}

func TestPostArticle_StoreFailure(t *testing.T) {
	repo := &mockBoardRepo{
		postArticleFn: func(ctx context.Context, poster, title, link string) (int64, error) {
			return 0, fmt.Errorf("connection refused")
		},
	}
	svc := NewService(repo)

	_, err := svc.PostArticle(context.Background(), "alice", "A title", "http://example.com")
	require.Error(t, err)

	structured := apperrors.AsStructuredError(err)
	assert.Equal(t, apperrors.TypeExternal, structured.Type)
}

func TestGetArticle_NotFound(t *testing.T) {
	repo := &mockBoardRepo{
		getArticleFn: func(ctx context.Context, articleID int64) (*domain.Article, error) {
			return nil, domain.ErrArticleNotFound
		},
	}
	svc := NewService(repo)

	_, err := svc.GetArticle(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeNotFound, apperrors.AsStructuredError(err).Type)
}

func TestGetArticle_Success(t *testing.T) {
	want := &domain.Article{ID: 1, Title: "A title", Votes: 3}
	repo := &mockBoardRepo{
		getArticleFn: func(ctx context.Context, articleID int64) (*domain.Article, error) {
			return want, nil
		},
	}
	svc := NewService(repo)

	got, err := svc.GetArticle(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVote_OutcomesAreNotErrors(t *testing.T) {
	outcomes := []domain.VoteOutcome{
		domain.VoteApplied,
		domain.VoteDuplicate,
		domain.VoteWindowClosed,
		domain.VoteUnknownArticle,
	}

	for _, want := range outcomes {
		t.Run(string(want), func(t *testing.T) {
			repo := &mockBoardRepo{
				voteFn: func(ctx context.Context, user string, articleID int64) (domain.VoteOutcome, error) {
					return want, nil
				},
			}
			svc := NewService(repo)

			outcome, err := svc.Vote(context.Background(), "bob", 1)
			require.NoError(t, err)
			assert.Equal(t, want, outcome)
		})
	}
}

func TestVote_EmptyUser(t *testing.T) {
	svc := NewService(&mockBoardRepo{})

	_, err := svc.Vote(context.Background(), "", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)
}

func TestVote_StoreFailure(t *testing.T) {
	repo := &mockBoardRepo{
		voteFn: func(ctx context.Context, user string, articleID int64) (domain.VoteOutcome, error) {
			return "", fmt.Errorf("timeout")
		},
	}
	svc := NewService(repo)

	_, err := svc.Vote(context.Background(), "bob", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeExternal, apperrors.AsStructuredError(err).Type)
}

func TestListArticles_PageValidation(t *testing.T) {
	svc := NewService(&mockBoardRepo{})

	for _, page := range []int{0, -1} {
		_, err := svc.ListArticles(context.Background(), domain.OrderByScore, page)
		require.Error(t, err)
		assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)
	}
}

func TestListArticles_PassesThrough(t *testing.T) {
	want := []domain.Article{{ID: 1, Title: "A title", Votes: 3}}
	repo := &mockBoardRepo{
		listArticlesFn: func(ctx context.Context, basis domain.OrderBasis, page int) ([]domain.Article, error) {
			assert.Equal(t, domain.OrderByTime, basis)
			assert.Equal(t, 2, page)
			return want, nil
		},
	}
	svc := NewService(repo)

	got, err := svc.ListArticles(context.Background(), domain.OrderByTime, 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAddToGroups_Validation(t *testing.T) {
	svc := NewService(&mockBoardRepo{})

	err := svc.AddToGroups(context.Background(), 1, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)

	err = svc.AddToGroups(context.Background(), 1, []string{"go", ""})
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)
}

func TestAddRemoveGroups_PassThrough(t *testing.T) {
	var added, removed []string
	repo := &mockBoardRepo{
		addToGroupsFn: func(ctx context.Context, articleID int64, groups ...string) error {
			added = groups
			return nil
		},
		removeFromGroupsFn: func(ctx context.Context, articleID int64, groups ...string) error {
			removed = groups
			return nil
		},
	}
	svc := NewService(repo)

	require.NoError(t, svc.AddToGroups(context.Background(), 1, []string{"go", "databases"}))
	require.NoError(t, svc.RemoveFromGroups(context.Background(), 1, []string{"databases"}))

	assert.Equal(t, []string{"go", "databases"}, added)
	assert.Equal(t, []string{"databases"}, removed)
}

func TestListGroupArticles_Validation(t *testing.T) {
	svc := NewService(&mockBoardRepo{})

	_, err := svc.ListGroupArticles(context.Background(), "", domain.OrderByScore, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)

	_, err = svc.ListGroupArticles(context.Background(), "go", domain.OrderByScore, 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)
}

func TestListGroupArticles_PassesThrough(t *testing.T) {
	want := []domain.Article{{ID: 3, Title: "Grouped"}}
	repo := &mockBoardRepo{
		listGroupArticlesFn: func(ctx context.Context, group string, basis domain.OrderBasis, page int) ([]domain.Article, error) {
			assert.Equal(t, "go", group)
			return want, nil
		},
	}
	svc := NewService(repo)

	got, err := svc.ListGroupArticles(context.Background(), "go", domain.OrderByScore, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
