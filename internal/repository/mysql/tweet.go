package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/go-clean-tweets/domain"
	"github.com/Guyuepp/go-clean-tweets/internal/repository/mysql/model"
)

type tweetRepository struct {
	DB *gorm.DB
}

// mysql层只负责数据库操作
var _ domain.TweetDBRepository = (*tweetRepository)(nil)

// NewTweetDBRepository creates the database layer of the tweet store
func NewTweetDBRepository(db *gorm.DB) *tweetRepository {
	return &tweetRepository{db}
}

func preloadLikers(db *gorm.DB) *gorm.DB {
	return db.Order("created_at, user_id")
}

func (m *tweetRepository) Fetch(ctx context.Context) ([]domain.Tweet, error) {
	return m.find(m.DB.WithContext(ctx))
}

// FetchContaining matches substr literally. LIKE wildcards in substr are
// escaped, callers still re-check case since the column collation may not be
// case sensitive.
func (m *tweetRepository) FetchContaining(ctx context.Context, substr string) ([]domain.Tweet, error) {
	pattern := "%" + escapeLike(substr) + "%"
	return m.find(m.DB.WithContext(ctx).Where("content LIKE ?", pattern))
}

func (m *tweetRepository) find(db *gorm.DB) ([]domain.Tweet, error) {
	var tweets []model.Tweet
	err := db.Preload("Likers", preloadLikers).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, fmt.Errorf("fetch tweets: %w", err)
	}

	res := make([]domain.Tweet, len(tweets))
	for i := range tweets {
		res[i] = tweets[i].ToDomain()
	}
	return res, nil
}

func (m *tweetRepository) Store(ctx context.Context, t *domain.Tweet) error {
	tweetModel := model.NewTweetFromDomain(t)
	if err := m.DB.WithContext(ctx).Omit("Likers").Create(tweetModel).Error; err != nil {
		return fmt.Errorf("store tweet: %w", err)
	}
	t.ID = tweetModel.ID
	t.CreatedAt = tweetModel.CreatedAt
	t.Likers = []string{}
	return nil
}

func (m *tweetRepository) Delete(ctx context.Context, id int64) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tweet_id = ?", id).Delete(&model.TweetLiker{}).Error; err != nil {
			return fmt.Errorf("delete likers of tweet %d: %w", id, err)
		}

		result := tx.Delete(&model.Tweet{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete tweet %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// ToggleLiker locks the tweet row, so toggles on the same tweet are serialized
// and cannot race with its deletion. Within the lock the membership flip is a
// conditional delete followed, only when nothing was deleted, by an insert.
func (m *tweetRepository) ToggleLiker(ctx context.Context, id int64, userID string) ([]string, bool, error) {
	var (
		likers []string
		liked  bool
	)

	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tweet model.Tweet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&tweet, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock tweet %d: %w", id, err)
		}

		removed := tx.Where("tweet_id = ? AND user_id = ?", id, userID).Delete(&model.TweetLiker{})
		if removed.Error != nil {
			return fmt.Errorf("remove liker: %w", removed.Error)
		}

		if removed.RowsAffected == 0 {
			liker := model.TweetLiker{TweetID: id, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&liker).Error; err != nil {
				return fmt.Errorf("add liker: %w", err)
			}
			liked = true
		}

		likers = make([]string, 0)
		if err := tx.Model(&model.TweetLiker{}).
			Where("tweet_id = ?", id).
			Order("created_at, user_id").
			Pluck("user_id", &likers).Error; err != nil {
			return fmt.Errorf("read likers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return likers, liked, nil
}

func (m *tweetRepository) FetchIDs(ctx context.Context, cursor, limit int64) (ids []int64, err error) {
	err = m.DB.WithContext(ctx).
		Model(&model.Tweet{}).
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Pluck("id", &ids).Error
	return
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
