package model

import "time"

// TweetLiker is one member of a tweet's likers set. The composite primary key
// keeps a user from appearing twice. user_id is compared byte for byte, the
// server default collation would fold case, accents and trailing spaces and
// merge distinct users.
type TweetLiker struct {
	TweetID   int64     `gorm:"column:tweet_id;primaryKey;autoIncrement:false"`
	UserID    string    `gorm:"column:user_id;type:varchar(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin;primaryKey"`
	CreatedAt time.Time `gorm:"type:datetime(3)"`
}

func (TweetLiker) TableName() string {
	return "tweet_likers"
}
