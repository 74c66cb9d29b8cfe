package contacts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is the root of the contact aggregate. The pair
// (DocumentType, DocumentNumber) is unique across all contacts.
type Contact struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName      string    `gorm:"not null;column:first_name" json:"firstName"`
	LastName       string    `gorm:"not null;column:last_name" json:"lastName"`
	DocumentType   string    `gorm:"not null;column:document_type;uniqueIndex:idx_contact_document,priority:1" json:"documentType"`
	DocumentNumber int       `gorm:"not null;column:document_number;uniqueIndex:idx_contact_document,priority:2" json:"documentNumber"`
	Age            int       `gorm:"not null;column:age" json:"age"`
	Email          string    `gorm:"not null;column:email;index" json:"email"`

	Phones    []Phone   `gorm:"foreignKey:ContactID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"phone"`
	Addresses []Address `gorm:"foreignKey:ContactID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"address"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Contact) TableName() string { return "contacts" }

func (c *Contact) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Key returns the composite natural key.
func (c *Contact) Key() DocumentKey {
	return DocumentKey{DocumentType: c.DocumentType, DocumentNumber: c.DocumentNumber}
}

// DocumentKey identifies a contact by document type and number.
type DocumentKey struct {
	DocumentType   string `json:"documentType"`
	DocumentNumber int    `json:"documentNumber"`
}
