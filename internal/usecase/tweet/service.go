package tweet

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/go-clean-tweets/domain"
	"github.com/Guyuepp/go-clean-tweets/internal/hashtag"
	"github.com/Guyuepp/go-clean-tweets/internal/metrics"
)

// bloomPageSize is the number of ids loaded per page when filling the filter.
const bloomPageSize = 1000

type Service struct {
	tweetRepo  domain.TweetRepository
	bloomRepo  domain.BloomRepository
	rankWorker domain.HashtagRankWorker
	userRepo   domain.UserRepository

	// bloomReady is set once the filter holds every stored id. Lookups skip
	// the filter while it is unset, a miss would otherwise be a false 404.
	bloomReady atomic.Bool
}

var _ domain.TweetUsecase = (*Service)(nil)

type Option func(*Service)

// WithUserVerification makes Store and ToggleLike reject user ids unknown to u.
func WithUserVerification(u domain.UserRepository) Option {
	return func(s *Service) {
		s.userRepo = u
	}
}

// NewService will create a new tweet service object
func NewService(t domain.TweetRepository, b domain.BloomRepository, w domain.HashtagRankWorker, opts ...Option) *Service {
	s := &Service{
		tweetRepo:  t,
		bloomRepo:  b,
		rankWorker: w,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns every tweet, most recent first.
func (s *Service) Fetch(ctx context.Context) ([]domain.Tweet, error) {
	res, err := s.tweetRepo.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	sortByDateDesc(res)
	return res, nil
}

func (s *Service) Store(ctx context.Context, t *domain.Tweet) error {
	if !validUserID(t.UserID) || isBlank(t.Content) {
		return domain.ErrBadParamInput
	}
	if err := s.verifyUser(ctx, t.UserID); err != nil {
		return err
	}

	t.ID = 0
	t.Likers = nil
	if err := s.tweetRepo.Store(ctx, t); err != nil {
		return err
	}

	if err := s.bloomRepo.Add(ctx, t.ID); err != nil {
		logrus.Errorf("failed to add tweet %d to bloom filter, filter disabled: %v", t.ID, err)
		s.bloomReady.Store(false)
	}
	s.rankWorker.Notify(t.ID)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return domain.ErrBadParamInput
	}
	if err := s.mustExist(ctx, id); err != nil {
		return err
	}
	if err := s.tweetRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.rankWorker.Notify(id)
	return nil
}

// ToggleLike flips the like of userID on the tweet and returns the resulting
// likers. The flip itself is a single atomic store operation.
func (s *Service) ToggleLike(ctx context.Context, id int64, userID string) ([]string, error) {
	if id == 0 || !validUserID(userID) {
		return nil, domain.ErrBadParamInput
	}
	if err := s.mustExist(ctx, id); err != nil {
		return nil, err
	}
	if err := s.verifyUser(ctx, userID); err != nil {
		return nil, err
	}

	likers, liked, err := s.tweetRepo.ToggleLiker(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if liked {
		metrics.LikeTogglesTotal.WithLabelValues("liked").Inc()
	} else {
		metrics.LikeTogglesTotal.WithLabelValues("unliked").Inc()
	}
	return likers, nil
}

func (s *Service) FetchHashtags(ctx context.Context) ([]domain.HashtagCount, error) {
	return s.tweetRepo.FetchHashtagRank(ctx)
}

// FetchByHashtag returns the tweets whose content contains "#"+tag as a
// substring, most recent first. tag is given without its leading '#'.
func (s *Service) FetchByHashtag(ctx context.Context, tag string) ([]domain.Tweet, error) {
	if tag == "" {
		return nil, domain.ErrBadParamInput
	}
	candidates, err := s.tweetRepo.FetchContaining(ctx, hashtag.Prefix+tag)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Tweet, 0, len(candidates))
	for _, t := range candidates {
		if hashtag.Contains(t.Content, tag) {
			res = append(res, t)
		}
	}
	sortByDateDesc(res)
	return res, nil
}

// InitBloomFilter loads every tweet id into the bloom filter. Pages are read
// from the store while the previous page is written to the filter.
func (s *Service) InitBloomFilter(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	pages := make(chan []int64, 1)

	g.Go(func() error {
		defer close(pages)
		var cursor int64
		for {
			ids, err := s.tweetRepo.FetchIDs(ctx, cursor, bloomPageSize)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return nil
			}
			select {
			case pages <- ids:
			case <-ctx.Done():
				return ctx.Err()
			}
			if len(ids) < bloomPageSize {
				return nil
			}
			cursor = ids[len(ids)-1]
		}
	})

	var total int
	g.Go(func() error {
		for ids := range pages {
			if err := s.bloomRepo.BulkAdd(ctx, ids); err != nil {
				return err
			}
			total += len(ids)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.bloomReady.Store(true)
	logrus.Infof("bloom filter initialised with %d tweet ids", total)
	return nil
}

// mustExist answers NotFound early when the bloom filter rules the id out.
// Any doubt is left to the store.
func (s *Service) mustExist(ctx context.Context, id int64) error {
	if !s.bloomReady.Load() {
		return nil
	}
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err != nil {
		logrus.Warnf("bloom filter lookup for tweet %d failed: %v", id, err)
		return nil
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) verifyUser(ctx context.Context, userID string) error {
	if s.userRepo == nil {
		return nil
	}
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	return nil
}

// sortByDateDesc keeps the store's order for equal timestamps.
func sortByDateDesc(tweets []domain.Tweet) {
	slices.SortStableFunc(tweets, func(a, b domain.Tweet) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// validUserID accepts any non-blank id the store can hold, ids are otherwise
// opaque and compared exactly.
func validUserID(id string) bool {
	return !isBlank(id) && utf8.RuneCountInString(id) <= domain.MaxUserIDLength
}
