package model

import "time"

// User mirrors the users table owned by the account service.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin"`
	Firstname string    `gorm:"type:varchar(100);not null"`
	Username  string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"type:datetime(3)"`
}

func (User) TableName() string {
	return "users"
}
