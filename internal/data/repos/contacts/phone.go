package contacts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/contactbook-backend/internal/domain/contacts"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type PhoneRepo interface {
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Phone, error)
	UpdateRow(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (*types.Phone, error)
	DeleteByContactID(dbc dbctx.Context, contactID uuid.UUID) error
}

type phoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhoneRepo(db *gorm.DB, baseLog *logger.Logger) PhoneRepo {
	return &phoneRepo{db: db, log: baseLog.With("repo", "PhoneRepo")}
}

func (r *phoneRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Phone, error) {
	results := []*types.Phone{}
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

func (r *phoneRepo) UpdateRow(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (*types.Phone, error) {
	t := dbc.DB(r.db)
	if len(fields) > 0 {
		res := t.Model(&types.Phone{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	var out types.Phone
	if err := t.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *phoneRepo) DeleteByContactID(dbc dbctx.Context, contactID uuid.UUID) error {
	return dbc.DB(r.db).Where("contact_id = ?", contactID).Delete(&types.Phone{}).Error
}
