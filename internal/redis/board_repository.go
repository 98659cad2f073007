package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mbeckner/voteboard/internal/domain"
	"github.com/mbeckner/voteboard/internal/metrics"
	goredis "github.com/redis/go-redis/v9"
)

const (
	// idCounterKey allocates monotonically increasing article IDs via INCR.
	// IDs are never reused, even after out-of-band deletion.
	idCounterKey = "article:ids"

	// Global ranking indexes. Members are article keys; zset scores are
	// unix seconds (time index) or unix seconds + accumulated vote weight
	// (score index).
	scoreIndexKey = "score:"
	timeIndexKey  = "time:"

	// Redis hash field names for article metadata.
	fieldTitle  = "title"
	fieldLink   = "link"
	fieldPoster = "poster"
	fieldTime   = "time"
	fieldVotes  = "votes"
)

// Options configures the board repository. Zero fields fall back to the
// defaults below.
type Options struct {
	// VoteWindow is how long after posting an article still accepts votes.
	VoteWindow time.Duration
	// VoteScore is the score increment per distinct voter.
	VoteScore int64
	// PageSize is the number of articles per listing page.
	PageSize int
	// GroupCacheTTL bounds the staleness of cached group rankings.
	GroupCacheTTL time.Duration
}

const (
	defaultVoteWindow    = 7 * 24 * time.Hour
	defaultVoteScore     = 432
	defaultPageSize      = 25
	defaultGroupCacheTTL = time.Minute
)

func (o Options) withDefaults() Options {
	if o.VoteWindow <= 0 {
		o.VoteWindow = defaultVoteWindow
	}
	if o.VoteScore <= 0 {
		o.VoteScore = defaultVoteScore
	}
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	if o.GroupCacheTTL <= 0 {
		o.GroupCacheTTL = defaultGroupCacheTTL
	}
	return o
}

// BoardRepo implements domain.BoardRepository on Redis primitives.
type BoardRepo struct {
	rdb   *goredis.Client
	clock clockwork.Clock
	opts  Options
}

var _ domain.BoardRepository = (*BoardRepo)(nil)

func NewBoardRepo(rdb *goredis.Client, clock clockwork.Clock, opts Options) *BoardRepo {
	return &BoardRepo{rdb: rdb, clock: clock, opts: opts.withDefaults()}
}

// PostArticle allocates a new article ID, seeds the vote ledger with the
// poster, writes the metadata hash, and inserts the article into both global
// ranking indexes.
//
// The poster's implicit vote is baked into posting: the voter set starts with
// the poster, votes starts at 1, and the score seed already includes one vote
// increment. It deliberately does not go through Vote.
//
// Writes are ordered so the gating structures (voter set + expiry) exist
// before anything that depends on them; a reader racing a partial post sees
// the article only once the index writes land.
func (r *BoardRepo) PostArticle(ctx context.Context, poster, title, link string) (int64, error) {
	id, err := r.rdb.Incr(ctx, idCounterKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate article id: %w", err)
	}

	now := r.clock.Now()
	vk := votedKey(id)

	pipe := r.rdb.Pipeline()
	pipe.SAdd(ctx, vk, poster)
	pipe.Expire(ctx, vk, r.opts.VoteWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to seed voter set: %w", err)
	}

	ak := articleKey(id)
	nowSec := unixSeconds(now)

	pipe = r.rdb.Pipeline()
	pipe.HSet(ctx, ak, map[string]any{
		fieldTitle:  title,
		fieldLink:   link,
		fieldPoster: poster,
		fieldTime:   formatScore(nowSec),
		fieldVotes:  "1",
	})
	pipe.ZAdd(ctx, scoreIndexKey, goredis.Z{Score: nowSec + float64(r.opts.VoteScore), Member: ak})
	pipe.ZAdd(ctx, timeIndexKey, goredis.Z{Score: nowSec, Member: ak})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to write article %d: %w", id, err)
	}

	metrics.ArticlesPosted.Inc()
	return id, nil
}

// GetArticle returns a single article's metadata joined with its ID.
// Returns domain.ErrArticleNotFound for identifiers that were never posted.
func (r *BoardRepo) GetArticle(ctx context.Context, articleID int64) (*domain.Article, error) {
	fields, err := r.rdb.HGetAll(ctx, articleKey(articleID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read article %d: %w", articleID, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrArticleNotFound
	}

	article := articleFromHash(articleID, fields)
	return &article, nil
}

// Vote records a vote by user on the given article. Duplicate and
// out-of-window votes are reported as outcomes, not errors; only item-store
// failures return an error.
//
// SADD on the voter set is the deduplication gate: it is atomic at the store,
// so concurrent votes by the same user credit at most one. The score and vote
// counter bumps are atomic increments, never read-modify-write.
func (r *BoardRepo) Vote(ctx context.Context, user string, articleID int64) (domain.VoteOutcome, error) {
	ak := articleKey(articleID)

	postedAt, err := r.rdb.ZScore(ctx, timeIndexKey, ak).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.VoteUnknownArticle, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read time index for article %d: %w", articleID, err)
	}

	cutoff := unixSeconds(r.clock.Now().Add(-r.opts.VoteWindow))
	if postedAt < cutoff {
		return domain.VoteWindowClosed, nil
	}

	added, err := r.rdb.SAdd(ctx, votedKey(articleID), user).Result()
	if err != nil {
		return "", fmt.Errorf("failed to record voter for article %d: %w", articleID, err)
	}
	if added == 0 {
		return domain.VoteDuplicate, nil
	}

	pipe := r.rdb.Pipeline()
	pipe.ZIncrBy(ctx, scoreIndexKey, float64(r.opts.VoteScore), ak)
	pipe.HIncrBy(ctx, ak, fieldVotes, 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to credit vote for article %d: %w", articleID, err)
	}

	return domain.VoteApplied, nil
}

// ListArticles returns one page of the chosen global ranking index, highest
// first, joined with the registry metadata. Pages beyond the end of the index
// yield an empty slice.
func (r *BoardRepo) ListArticles(ctx context.Context, basis domain.OrderBasis, page int) ([]domain.Article, error) {
	return r.pageArticles(ctx, indexKey(basis), page)
}

// AddToGroups adds the article to each named group. Idempotent; the article
// is not validated to exist — a dangling member simply never surfaces in
// group rankings, since ranking intersects membership with the global index.
func (r *BoardRepo) AddToGroups(ctx context.Context, articleID int64, groups ...string) error {
	if len(groups) == 0 {
		return nil
	}

	ak := articleKey(articleID)
	pipe := r.rdb.Pipeline()
	for _, group := range groups {
		pipe.SAdd(ctx, groupKey(group), ak)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add article %d to groups: %w", articleID, err)
	}
	return nil
}

// RemoveFromGroups removes the article from each named group. Idempotent.
func (r *BoardRepo) RemoveFromGroups(ctx context.Context, articleID int64, groups ...string) error {
	if len(groups) == 0 {
		return nil
	}

	ak := articleKey(articleID)
	pipe := r.rdb.Pipeline()
	for _, group := range groups {
		pipe.SRem(ctx, groupKey(group), ak)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove article %d from groups: %w", articleID, err)
	}
	return nil
}

// ListGroupArticles returns one page of the group's ranking under the chosen
// basis, reading through a cached intersection index with a short TTL.
//
// On a miss the index is rebuilt with ZINTERSTORE over the membership set and
// the global index, aggregating by MAX (set members weigh 1, so any real
// score dominates). Concurrent misses may each rebuild and overwrite the key;
// that is an idempotent race and is deliberately not serialized.
func (r *BoardRepo) ListGroupArticles(ctx context.Context, group string, basis domain.OrderBasis, page int) ([]domain.Article, error) {
	key := rankKey(basis, group)

	exists, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check group ranking cache for %q: %w", group, err)
	}

	if exists == 0 {
		metrics.GroupCacheLookups.WithLabelValues("miss").Inc()
		start := time.Now()

		pipe := r.rdb.Pipeline()
		pipe.ZInterStore(ctx, key, &goredis.ZStore{
			Keys:      []string{groupKey(group), indexKey(basis)},
			Aggregate: "MAX",
		})
		pipe.Expire(ctx, key, r.opts.GroupCacheTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to rebuild group ranking for %q: %w", group, err)
		}

		metrics.GroupCacheRebuildDuration.Observe(time.Since(start).Seconds())
	} else {
		metrics.GroupCacheLookups.WithLabelValues("hit").Inc()
	}

	return r.pageArticles(ctx, key, page)
}

// pageArticles slices one page off an ordered index (descending) and joins in
// the metadata hash per member. Members whose hash is missing are skipped.
func (r *BoardRepo) pageArticles(ctx context.Context, key string, page int) ([]domain.Article, error) {
	if page < 1 {
		page = 1
	}
	start := int64(page-1) * int64(r.opts.PageSize)
	stop := start + int64(r.opts.PageSize) - 1

	members, err := r.rdb.ZRevRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index %q: %w", key, err)
	}

	articles := make([]domain.Article, 0, len(members))
	for _, member := range members {
		id, err := parseArticleID(member)
		if err != nil {
			continue
		}

		fields, err := r.rdb.HGetAll(ctx, member).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read article %d: %w", id, err)
		}
		if len(fields) == 0 {
			// Dangling index member (article removed out of band).
			continue
		}

		articles = append(articles, articleFromHash(id, fields))
	}

	return articles, nil
}

// --- key helpers ---

// Article members are zero-padded so lexicographic member order (how Redis
// breaks zset score ties) equals numeric ID order, keeping pagination stable.
func articleKey(id int64) string {
	return fmt.Sprintf("article:%012d", id)
}

func votedKey(id int64) string {
	return fmt.Sprintf("voted:%012d", id)
}

func groupKey(name string) string {
	return "group:" + name
}

func rankKey(basis domain.OrderBasis, group string) string {
	return fmt.Sprintf("rank:%s:%s", basis, group)
}

func indexKey(basis domain.OrderBasis) string {
	if basis == domain.OrderByTime {
		return timeIndexKey
	}
	return scoreIndexKey
}

func parseArticleID(member string) (int64, error) {
	raw, ok := strings.CutPrefix(member, "article:")
	if !ok {
		return 0, fmt.Errorf("malformed article member %q", member)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed article member %q: %w", member, err)
	}
	return id, nil
}

// --- value helpers ---

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func articleFromHash(id int64, fields map[string]string) domain.Article {
	article := domain.Article{
		ID:     id,
		Title:  fields[fieldTitle],
		Link:   fields[fieldLink],
		Poster: fields[fieldPoster],
	}

	if raw, ok := fields[fieldTime]; ok {
		if sec, err := strconv.ParseFloat(raw, 64); err == nil {
			article.PostedAt = time.UnixMilli(int64(sec * 1000)).UTC()
		}
	}
	if raw, ok := fields[fieldVotes]; ok {
		if votes, err := strconv.ParseInt(raw, 10, 64); err == nil {
			article.Votes = votes
		}
	}

	return article
}
