package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/go-clean-tweets/domain"
)

func tweets(v any) []domain.Tweet {
	if v == nil {
		return nil
	}
	return v.([]domain.Tweet)
}

func strs(v any) []string {
	if v == nil {
		return nil
	}
	return v.([]string)
}

func ids(v any) []int64 {
	if v == nil {
		return nil
	}
	return v.([]int64)
}

func ranks(v any) []domain.HashtagCount {
	if v == nil {
		return nil
	}
	return v.([]domain.HashtagCount)
}

// TweetDBRepository is a mock type for domain.TweetDBRepository
type TweetDBRepository struct {
	mock.Mock
}

var _ domain.TweetDBRepository = (*TweetDBRepository)(nil)

func (m *TweetDBRepository) Fetch(ctx context.Context) ([]domain.Tweet, error) {
	ret := m.Called(ctx)
	return tweets(ret.Get(0)), ret.Error(1)
}

func (m *TweetDBRepository) FetchContaining(ctx context.Context, substr string) ([]domain.Tweet, error) {
	ret := m.Called(ctx, substr)
	return tweets(ret.Get(0)), ret.Error(1)
}

func (m *TweetDBRepository) Store(ctx context.Context, t *domain.Tweet) error {
	return m.Called(ctx, t).Error(0)
}

func (m *TweetDBRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *TweetDBRepository) ToggleLiker(ctx context.Context, id int64, userID string) ([]string, bool, error) {
	ret := m.Called(ctx, id, userID)
	return strs(ret.Get(0)), ret.Bool(1), ret.Error(2)
}

func (m *TweetDBRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	ret := m.Called(ctx, cursor, limit)
	return ids(ret.Get(0)), ret.Error(1)
}

// TweetCache is a mock type for domain.TweetCache
type TweetCache struct {
	mock.Mock
}

var _ domain.TweetCache = (*TweetCache)(nil)

func (m *TweetCache) GetHashtagRank(ctx context.Context) ([]domain.HashtagCount, error) {
	ret := m.Called(ctx)
	return ranks(ret.Get(0)), ret.Error(1)
}

func (m *TweetCache) SetHashtagRank(ctx context.Context, rank []domain.HashtagCount) error {
	return m.Called(ctx, rank).Error(0)
}

func (m *TweetCache) DeleteHashtagRank(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// TweetRepository is a mock type for domain.TweetRepository
type TweetRepository struct {
	mock.Mock
}

var _ domain.TweetRepository = (*TweetRepository)(nil)

func (m *TweetRepository) Fetch(ctx context.Context) ([]domain.Tweet, error) {
	ret := m.Called(ctx)
	return tweets(ret.Get(0)), ret.Error(1)
}

func (m *TweetRepository) FetchContaining(ctx context.Context, substr string) ([]domain.Tweet, error) {
	ret := m.Called(ctx, substr)
	return tweets(ret.Get(0)), ret.Error(1)
}

func (m *TweetRepository) Store(ctx context.Context, t *domain.Tweet) error {
	return m.Called(ctx, t).Error(0)
}

func (m *TweetRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *TweetRepository) ToggleLiker(ctx context.Context, id int64, userID string) ([]string, bool, error) {
	ret := m.Called(ctx, id, userID)
	return strs(ret.Get(0)), ret.Bool(1), ret.Error(2)
}

func (m *TweetRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	ret := m.Called(ctx, cursor, limit)
	return ids(ret.Get(0)), ret.Error(1)
}

func (m *TweetRepository) FetchHashtagRank(ctx context.Context) ([]domain.HashtagCount, error) {
	ret := m.Called(ctx)
	return ranks(ret.Get(0)), ret.Error(1)
}

func (m *TweetRepository) RebuildHashtagRank(ctx context.Context) ([]domain.HashtagCount, error) {
	ret := m.Called(ctx)
	return ranks(ret.Get(0)), ret.Error(1)
}

// TweetUsecase is a mock type for domain.TweetUsecase
type TweetUsecase struct {
	mock.Mock
}

var _ domain.TweetUsecase = (*TweetUsecase)(nil)

func (m *TweetUsecase) Fetch(ctx context.Context) ([]domain.Tweet, error) {
	ret := m.Called(ctx)
	return tweets(ret.Get(0)), ret.Error(1)
}

func (m *TweetUsecase) Store(ctx context.Context, t *domain.Tweet) error {
	return m.Called(ctx, t).Error(0)
}

func (m *TweetUsecase) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *TweetUsecase) ToggleLike(ctx context.Context, id int64, userID string) ([]string, error) {
	ret := m.Called(ctx, id, userID)
	return strs(ret.Get(0)), ret.Error(1)
}

func (m *TweetUsecase) FetchHashtags(ctx context.Context) ([]domain.HashtagCount, error) {
	ret := m.Called(ctx)
	return ranks(ret.Get(0)), ret.Error(1)
}

func (m *TweetUsecase) FetchByHashtag(ctx context.Context, tag string) ([]domain.Tweet, error) {
	ret := m.Called(ctx, tag)
	return tweets(ret.Get(0)), ret.Error(1)
}

func (m *TweetUsecase) InitBloomFilter(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
