package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/data/repos/contacts"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type ContactRepo = contacts.ContactRepo
type PhoneRepo = contacts.PhoneRepo
type AddressRepo = contacts.AddressRepo

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return contacts.NewContactRepo(db, baseLog)
}
func NewPhoneRepo(db *gorm.DB, baseLog *logger.Logger) PhoneRepo {
	return contacts.NewPhoneRepo(db, baseLog)
}
func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	return contacts.NewAddressRepo(db, baseLog)
}
