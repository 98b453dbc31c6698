package tweet_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/go-clean-tweets/domain"
	"github.com/Guyuepp/go-clean-tweets/domain/mocks"
	ucase "github.com/Guyuepp/go-clean-tweets/internal/usecase/tweet"
)

// memStore is an in-memory domain.TweetRepository. ToggleLiker flips
// membership under the store lock, like the row lock of the MySQL store.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	now    time.Time
	tweets map[int64]*domain.Tweet
}

func newMemStore() *memStore {
	return &memStore{
		now:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		tweets: make(map[int64]*domain.Tweet),
	}
}

func (m *memStore) list(match func(domain.Tweet) bool) []domain.Tweet {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]domain.Tweet, 0, len(m.tweets))
	for _, t := range m.tweets {
		if match(*t) {
			cp := *t
			cp.Likers = slices.Clone(t.Likers)
			res = append(res, cp)
		}
	}
	// map order is random, like an unordered store
	return res
}

func (m *memStore) Fetch(context.Context) ([]domain.Tweet, error) {
	return m.list(func(domain.Tweet) bool { return true }), nil
}

func (m *memStore) FetchContaining(_ context.Context, substr string) ([]domain.Tweet, error) {
	return m.list(func(t domain.Tweet) bool { return containsFold(t.Content, substr) }), nil
}

func (m *memStore) Store(_ context.Context, t *domain.Tweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.now = m.now.Add(time.Second)
	t.ID = m.nextID
	t.CreatedAt = m.now
	t.Likers = []string{}
	cp := *t
	m.tweets[t.ID] = &cp
	return nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tweets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.tweets, id)
	return nil
}

func (m *memStore) ToggleLiker(_ context.Context, id int64, userID string) ([]string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tweets[id]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	liked := false
	if i := slices.Index(t.Likers, userID); i >= 0 {
		t.Likers = slices.Delete(t.Likers, i, i+1)
	} else {
		t.Likers = append(t.Likers, userID)
		liked = true
	}
	return slices.Clone(t.Likers), liked, nil
}

func (m *memStore) FetchIDs(_ context.Context, cursor, limit int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for id := range m.tweets {
		if id > cursor {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	if int64(len(ids)) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *memStore) FetchHashtagRank(context.Context) ([]domain.HashtagCount, error) {
	return nil, errors.New("not used")
}

func (m *memStore) RebuildHashtagRank(context.Context) ([]domain.HashtagCount, error) {
	return nil, errors.New("not used")
}

// containsFold mimics a case-insensitive MySQL collation.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func newMemService(t *testing.T) (*ucase.Service, *memStore) {
	t.Helper()
	store := newMemStore()
	bloom := new(mocks.BloomRepository)
	bloom.On("Add", mock.Anything, mock.Anything).Return(nil)
	worker := new(mocks.HashtagRankWorker)
	worker.On("Notify", mock.Anything).Return()
	return ucase.NewService(store, bloom, worker), store
}

func storeTweet(t *testing.T, svc *ucase.Service, content string) domain.Tweet {
	t.Helper()
	tw := domain.Tweet{UserID: faker.UUIDHyphenated(), Content: content}
	require.NoError(t, svc.Store(context.TODO(), &tw))
	return tw
}

func TestToggleLike(t *testing.T) {
	svc, _ := newMemService(t)
	tw := storeTweet(t, svc, faker.Sentence())

	likers, err := svc.ToggleLike(context.TODO(), tw.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, likers)

	likers, err = svc.ToggleLike(context.TODO(), tw.ID, "u2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, likers)

	likers, err = svc.ToggleLike(context.TODO(), tw.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, likers)

	likers, err = svc.ToggleLike(context.TODO(), tw.ID, "u2")
	require.NoError(t, err)
	assert.Empty(t, likers)
}

func TestToggleLikeTwiceRestoresMembership(t *testing.T) {
	svc, store := newMemService(t)
	tw := storeTweet(t, svc, faker.Sentence())
	_, err := svc.ToggleLike(context.TODO(), tw.ID, "other")
	require.NoError(t, err)

	for _, user := range []string{"other", "fresh"} {
		before := store.tweets[tw.ID].Likers
		before = slices.Clone(before)

		_, err := svc.ToggleLike(context.TODO(), tw.ID, user)
		require.NoError(t, err)
		after, err := svc.ToggleLike(context.TODO(), tw.ID, user)
		require.NoError(t, err)

		assert.ElementsMatch(t, before, after, "user %s", user)
	}
}

// memStore stands in for the atomic toggle of the store here. The row lock
// that provides it in MySQL is covered by the mysql repository tests.
func TestToggleLikeConcurrentUsers(t *testing.T) {
	svc, _ := newMemService(t)
	tw := storeTweet(t, svc, faker.Sentence())

	const n = 64
	users := make([]string, n)
	for i := range users {
		users[i] = fmt.Sprintf("user-%02d", i)
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, n)
	for _, u := range users {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			<-start
			_, err := svc.ToggleLike(context.TODO(), tw.ID, u)
			errs <- err
		}(u)
	}
	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	feed, err := svc.Fetch(context.TODO())
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.ElementsMatch(t, users, feed[0].Likers)
}

func TestToggleLikeValidation(t *testing.T) {
	repo := new(mocks.TweetRepository)
	svc := ucase.NewService(repo, new(mocks.BloomRepository), new(mocks.HashtagRankWorker))

	_, err := svc.ToggleLike(context.TODO(), 0, "u1")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
	_, err = svc.ToggleLike(context.TODO(), 1, "  ")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
	_, err = svc.ToggleLike(context.TODO(), 1, strings.Repeat("é", domain.MaxUserIDLength+1))
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
	repo.AssertNotCalled(t, "ToggleLiker", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleLikeComparesUserIDsExactly(t *testing.T) {
	svc, _ := newMemService(t)
	tw := storeTweet(t, svc, faker.Sentence())

	for _, u := range []string{"u1", "U1", "u1 "} {
		_, err := svc.ToggleLike(context.TODO(), tw.ID, u)
		require.NoError(t, err)
	}
	likers, err := svc.ToggleLike(context.TODO(), tw.ID, "U1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u1 "}, likers)

	longest := strings.Repeat("é", domain.MaxUserIDLength)
	likers, err = svc.ToggleLike(context.TODO(), tw.ID, longest)
	require.NoError(t, err)
	assert.Contains(t, likers, longest)
}

func TestToggleLikeNotFound(t *testing.T) {
	svc, _ := newMemService(t)
	_, err := svc.ToggleLike(context.TODO(), 99, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleLikeStoreError(t *testing.T) {
	repo := new(mocks.TweetRepository)
	storeErr := errors.New("connection reset")
	repo.On("ToggleLiker", mock.Anything, int64(3), "u1").Return(nil, false, storeErr).Once()
	svc := ucase.NewService(repo, new(mocks.BloomRepository), new(mocks.HashtagRankWorker))

	_, err := svc.ToggleLike(context.TODO(), 3, "u1")
	assert.ErrorIs(t, err, storeErr)
}

func TestFetchOrdersByDateDesc(t *testing.T) {
	svc, _ := newMemService(t)
	t1 := storeTweet(t, svc, "first")
	t2 := storeTweet(t, svc, "second")
	t3 := storeTweet(t, svc, "third")

	feed, err := svc.Fetch(context.TODO())
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, []int64{t3.ID, t2.ID, t1.ID}, []int64{feed[0].ID, feed[1].ID, feed[2].ID})
}

func TestFetchKeepsStoreOrderOnEqualDates(t *testing.T) {
	repo := new(mocks.TweetRepository)
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.On("Fetch", mock.Anything).Return([]domain.Tweet{
		{ID: 1, CreatedAt: same.Add(-time.Hour)},
		{ID: 3, CreatedAt: same},
		{ID: 2, CreatedAt: same},
		{ID: 4, CreatedAt: same.Add(time.Hour)},
	}, nil).Once()
	svc := ucase.NewService(repo, new(mocks.BloomRepository), new(mocks.HashtagRankWorker))

	feed, err := svc.Fetch(context.TODO())
	require.NoError(t, err)
	got := make([]int64, len(feed))
	for i := range feed {
		got[i] = feed[i].ID
	}
	assert.Equal(t, []int64{4, 3, 2, 1}, got)
}

func TestStore(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		repo := new(mocks.TweetRepository)
		svc := ucase.NewService(repo, new(mocks.BloomRepository), new(mocks.HashtagRankWorker))

		for _, tw := range []domain.Tweet{
			{UserID: "", Content: "hello"},
			{UserID: "u1", Content: ""},
			{UserID: "u1", Content: " \n\t"},
			{UserID: strings.Repeat("a", domain.MaxUserIDLength+1), Content: "hello"},
		} {
			err := svc.Store(context.TODO(), &tw)
			assert.ErrorIs(t, err, domain.ErrBadParamInput)
		}
		repo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	})

	t.Run("adds to bloom and notifies worker", func(t *testing.T) {
		repo := new(mocks.TweetRepository)
		bloom := new(mocks.BloomRepository)
		worker := new(mocks.HashtagRankWorker)
		repo.On("Store", mock.Anything, mock.AnythingOfType("*domain.Tweet")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Tweet).ID = 10 }).
			Return(nil).Once()
		bloom.On("Add", mock.Anything, int64(10)).Return(nil).Once()
		worker.On("Notify", int64(10)).Return().Once()

		tw := domain.Tweet{UserID: "u1", Content: "#hello"}
		err := ucase.NewService(repo, bloom, worker).Store(context.TODO(), &tw)
		require.NoError(t, err)
		assert.Equal(t, int64(10), tw.ID)
		repo.AssertExpectations(t)
		bloom.AssertExpectations(t)
		worker.AssertExpectations(t)
	})

	t.Run("unknown author", func(t *testing.T) {
		repo := new(mocks.TweetRepository)
		users := new(mocks.UserRepository)
		users.On("Exists", mock.Anything, "ghost").Return(false, nil).Once()
		svc := ucase.NewService(repo, new(mocks.BloomRepository), new(mocks.HashtagRankWorker),
			ucase.WithUserVerification(users))

		err := svc.Store(context.TODO(), &domain.Tweet{UserID: "ghost", Content: "boo"})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		repo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	})
}

func TestDelete(t *testing.T) {
	svc, store := newMemService(t)
	tw := storeTweet(t, svc, "bye")

	require.NoError(t, svc.Delete(context.TODO(), tw.ID))
	assert.Empty(t, store.tweets)
	assert.ErrorIs(t, svc.Delete(context.TODO(), tw.ID), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.TODO(), 0), domain.ErrBadParamInput)
}

func TestFetchByHashtag(t *testing.T) {
	svc, _ := newMemService(t)
	cat := storeTweet(t, svc, "my #cat")
	category := storeTweet(t, svc, "new #category today")
	storeTweet(t, svc, "my #Cat")
	storeTweet(t, svc, "cat without hash")

	got, err := svc.FetchByHashtag(context.TODO(), "cat")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, category.ID, got[0].ID)
	assert.Equal(t, cat.ID, got[1].ID)

	_, err = svc.FetchByHashtag(context.TODO(), "")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestFetchHashtags(t *testing.T) {
	repo := new(mocks.TweetRepository)
	want := []domain.HashtagCount{{Tag: "#a", Count: 3}}
	repo.On("FetchHashtagRank", mock.Anything).Return(want, nil).Once()

	got, err := ucase.NewService(repo, new(mocks.BloomRepository), new(mocks.HashtagRankWorker)).FetchHashtags(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInitBloomFilter(t *testing.T) {
	repo := new(mocks.TweetRepository)
	bloom := new(mocks.BloomRepository)

	firstPage := make([]int64, 1000)
	for i := range firstPage {
		firstPage[i] = int64(i + 1)
	}
	repo.On("FetchIDs", mock.Anything, int64(0), int64(1000)).Return(firstPage, nil).Once()
	repo.On("FetchIDs", mock.Anything, int64(1000), int64(1000)).Return([]int64{1001, 1002}, nil).Once()
	bloom.On("BulkAdd", mock.Anything, firstPage).Return(nil).Once()
	bloom.On("BulkAdd", mock.Anything, []int64{1001, 1002}).Return(nil).Once()

	svc := ucase.NewService(repo, bloom, new(mocks.HashtagRankWorker))
	require.NoError(t, svc.InitBloomFilter(context.TODO()))
	repo.AssertExpectations(t)
	bloom.AssertExpectations(t)

	// the filter now answers for unknown ids
	bloom.On("Exists", mock.Anything, int64(5000)).Return(false, nil).Once()
	_, err := svc.ToggleLike(context.TODO(), 5000, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "ToggleLiker", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitBloomFilterFailureKeepsFilterOff(t *testing.T) {
	repo := new(mocks.TweetRepository)
	bloom := new(mocks.BloomRepository)
	repo.On("FetchIDs", mock.Anything, int64(0), int64(1000)).Return(nil, errors.New("db down")).Once()

	svc := ucase.NewService(repo, bloom, new(mocks.HashtagRankWorker))
	assert.Error(t, svc.InitBloomFilter(context.TODO()))

	repo.On("ToggleLiker", mock.Anything, int64(7), "u1").Return([]string{"u1"}, true, nil).Once()
	likers, err := svc.ToggleLike(context.TODO(), 7, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, likers)
	bloom.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}
