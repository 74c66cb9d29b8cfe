package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/data/repos"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type Repos struct {
	Contact repos.ContactRepo
	Phone   repos.PhoneRepo
	Address repos.AddressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Contact: repos.NewContactRepo(db, log),
		Phone:   repos.NewPhoneRepo(db, log),
		Address: repos.NewAddressRepo(db, log),
	}
}
