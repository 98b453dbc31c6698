package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/go-clean-tweets/domain"
)

// BloomRepository is a mock type for domain.BloomRepository
type BloomRepository struct {
	mock.Mock
}

var _ domain.BloomRepository = (*BloomRepository)(nil)

func (m *BloomRepository) Add(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *BloomRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ret := m.Called(ctx, id)
	return ret.Bool(0), ret.Error(1)
}

func (m *BloomRepository) BulkAdd(ctx context.Context, ids []int64) error {
	return m.Called(ctx, ids).Error(0)
}

// UserRepository is a mock type for domain.UserRepository
type UserRepository struct {
	mock.Mock
}

var _ domain.UserRepository = (*UserRepository)(nil)

func (m *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	ret := m.Called(ctx, id)
	return ret.Bool(0), ret.Error(1)
}

// HashtagRankWorker is a mock type for domain.HashtagRankWorker
type HashtagRankWorker struct {
	mock.Mock
}

var _ domain.HashtagRankWorker = (*HashtagRankWorker)(nil)

func (m *HashtagRankWorker) Start(ctx context.Context) {
	m.Called(ctx)
}

func (m *HashtagRankWorker) Notify(tweetID int64) {
	m.Called(tweetID)
}
