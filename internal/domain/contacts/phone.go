package contacts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Phone is owned by exactly one Contact. NumberPhone is free text and is
// matched verbatim.
type Phone struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContactID   uuid.UUID `gorm:"type:uuid;not null;index;column:contact_id" json:"contactId"`
	Type        string    `gorm:"not null;column:type;index:idx_phone_type_number,priority:1" json:"type"`
	NumberPhone string    `gorm:"not null;column:number_phone;index:idx_phone_type_number,priority:2" json:"numberPhone"`
	Position    int       `gorm:"not null;default:0;column:position" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

func (Phone) TableName() string { return "phones" }

func (p *Phone) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
