package contacts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is owned by exactly one Contact. An empty Description means the
// address has no description.
type Address struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContactID    uuid.UUID `gorm:"type:uuid;not null;index;column:contact_id" json:"contactId"`
	Locality     string    `gorm:"not null;column:locality;index" json:"locality"`
	Street       string    `gorm:"not null;column:street" json:"street"`
	NumberStreet int       `gorm:"not null;column:number_street" json:"numberStreet"`
	Description  string    `gorm:"not null;default:'';column:description" json:"description"`
	Position     int       `gorm:"not null;default:0;column:position" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

func (Address) TableName() string { return "addresses" }

func (a *Address) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
