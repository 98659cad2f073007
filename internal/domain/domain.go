package domain

import (
	"context"
	"time"
)

// --- Model types ---

// Article is a single votable, postable item with metadata and a vote count.
type Article struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Link     string    `json:"link"`
	Poster   string    `json:"poster"`
	PostedAt time.Time `json:"posted_at"`
	Votes    int64     `json:"votes"`
}

// OrderBasis selects which global ranking index a listing reads from.
type OrderBasis string

const (
	// OrderByScore ranks by recency-biased vote score ("hot" ordering).
	OrderByScore OrderBasis = "score"
	// OrderByTime ranks by creation timestamp, newest first.
	OrderByTime OrderBasis = "time"
)

// ParseOrderBasis maps a query string to an OrderBasis.
// An empty string defaults to score ordering.
func ParseOrderBasis(s string) (OrderBasis, bool) {
	switch s {
	case "", string(OrderByScore):
		return OrderByScore, true
	case string(OrderByTime):
		return OrderByTime, true
	default:
		return "", false
	}
}

// VoteOutcome reports what a vote attempt did. Ineligible and duplicate
// votes are expected conditions, not errors.
type VoteOutcome string

const (
	// VoteApplied means the voter was counted for the first time.
	VoteApplied VoteOutcome = "applied"
	// VoteDuplicate means the voter had already been counted; nothing changed.
	VoteDuplicate VoteOutcome = "duplicate"
	// VoteWindowClosed means the article's voting window has elapsed.
	VoteWindowClosed VoteOutcome = "window_closed"
	// VoteUnknownArticle means the article was never posted (or was removed).
	VoteUnknownArticle VoteOutcome = "unknown_article"
)

// --- Interfaces ---

// BoardRepository abstracts the article board state backed by the item store.
//
// Posting seeds the voter set and both global indexes in one logical unit.
// Vote deduplication is atomic at the store: concurrent votes by the same
// user on the same article credit at most one. Group ranking reads go through
// a disposable cached index with TTL-bounded staleness.
type BoardRepository interface {
	PostArticle(ctx context.Context, poster, title, link string) (int64, error)
	GetArticle(ctx context.Context, articleID int64) (*Article, error)
	Vote(ctx context.Context, user string, articleID int64) (VoteOutcome, error)
	ListArticles(ctx context.Context, basis OrderBasis, page int) ([]Article, error)
	AddToGroups(ctx context.Context, articleID int64, groups ...string) error
	RemoveFromGroups(ctx context.Context, articleID int64, groups ...string) error
	ListGroupArticles(ctx context.Context, group string, basis OrderBasis, page int) ([]Article, error)
}
