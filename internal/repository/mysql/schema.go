package mysql

import (
	"sync"

	"gorm.io/gorm"

	"github.com/Guyuepp/go-clean-tweets/internal/repository/mysql/model"
)

var (
	schemaOnce sync.Once
	schemaErr  error
)

// InitSchema registers and migrates the tables once per process. Later calls
// are no-ops that return the result of the first one, whatever db they get.
func InitSchema(db *gorm.DB) error {
	schemaOnce.Do(func() {
		schemaErr = db.AutoMigrate(&model.User{}, &model.Tweet{}, &model.TweetLiker{})
	})
	return schemaErr
}
