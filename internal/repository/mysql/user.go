package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Guyuepp/go-clean-tweets/domain"
	"github.com/Guyuepp/go-clean-tweets/internal/repository/mysql/model"
)

type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserRepository = (*userRepository)(nil)

// NewUserRepository will create an implementation of domain.UserRepository
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{
		DB: db,
	}
}

func (m *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Limit(1).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check user %s: %w", id, err)
	}
	return count > 0, nil
}
