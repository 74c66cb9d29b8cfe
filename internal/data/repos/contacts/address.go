package contacts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/contactbook-backend/internal/domain/contacts"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type AddressRepo interface {
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Address, error)
	UpdateRow(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (*types.Address, error)
	DeleteByContactID(dbc dbctx.Context, contactID uuid.UUID) error
}

type addressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	return &addressRepo{db: db, log: baseLog.With("repo", "AddressRepo")}
}

func (r *addressRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Address, error) {
	results := []*types.Address{}
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *addressRepo) UpdateRow(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (*types.Address, error) {
	t := dbc.DB(r.db)
	if len(fields) > 0 {
		res := t.Model(&types.Address{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	var out types.Address
	if err := t.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *addressRepo) DeleteByContactID(dbc dbctx.Context, contactID uuid.UUID) error {
	return dbc.DB(r.db).Where("contact_id = ?", contactID).Delete(&types.Address{}).Error
}
