package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/domain/contacts"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&contacts.Contact{},
		&contacts.Phone{},
		&contacts.Address{},
	)
}
