package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-clean-tweets/domain"
	"github.com/Guyuepp/go-clean-tweets/internal/repository/cache"
)

const (
	KeyHashtagRank = "tweet:hashtag:rank"
)

type tweetCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

var _ domain.TweetCache = (*tweetCache)(nil)

// NewTweetCache caches the hashtag ranking for ttl.
func NewTweetCache(client *redis.Client, ttl time.Duration) *tweetCache {
	return &tweetCache{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *tweetCache) GetHashtagRank(ctx context.Context) ([]domain.HashtagCount, error) {
	data, err := c.client.Get(ctx, KeyHashtagRank).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var entry cache.DataWithLogicalExpire[[]domain.HashtagCount]
	if err := json.Unmarshal(data, &entry); err != nil {
		logrus.Warnf("drop undecodable hashtag rank cache: %v", err)
		return nil, domain.ErrCacheMiss
	}
	if entry.IsLogicalExpired(c.now()) {
		return nil, domain.ErrCacheMiss
	}
	if entry.Data == nil {
		entry.Data = []domain.HashtagCount{}
	}
	return entry.Data, nil
}

// SetHashtagRank keeps the key in Redis twice as long as the logical expiry,
// an expired entry is then reported as a miss instead of vanishing silently.
func (c *tweetCache) SetHashtagRank(ctx context.Context, rank []domain.HashtagCount) error {
	entry := cache.NewDataWithLogicalExpire(rank, c.now(), c.ttl)
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, KeyHashtagRank, data, 2*c.ttl).Err()
}

func (c *tweetCache) DeleteHashtagRank(ctx context.Context) error {
	return c.client.Del(ctx, KeyHashtagRank).Err()
}
