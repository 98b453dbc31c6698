package model

import (
	"time"

	"github.com/Guyuepp/go-clean-tweets/domain"
)

type Tweet struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	UserID    string       `gorm:"column:user_id;type:varchar(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin;not null;index"`
	Content   string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"type:datetime(3);not null;index"`
	Likers    []TweetLiker `gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE"`
}

func (Tweet) TableName() string {
	return "tweets"
}

func (m *Tweet) ToDomain() domain.Tweet {
	likers := make([]string, len(m.Likers))
	for i := range m.Likers {
		likers[i] = m.Likers[i].UserID
	}
	return domain.Tweet{
		ID:        m.ID,
		UserID:    m.UserID,
		Content:   m.Content,
		Likers:    likers,
		CreatedAt: m.CreatedAt,
	}
}

// NewTweetFromDomain leaves likers out, they are only written by the toggle.
func NewTweetFromDomain(t *domain.Tweet) *Tweet {
	return &Tweet{
		ID:        t.ID,
		UserID:    t.UserID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
}
