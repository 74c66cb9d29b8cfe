package contacts

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/contactbook-backend/internal/domain/contacts"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type ContactRepo interface {
	Create(dbc dbctx.Context, contact *types.Contact) (*types.Contact, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Contact, error)
	GetFirstByEmail(dbc dbctx.Context, email string) (*types.Contact, error)
	GetByCompositeKey(dbc dbctx.Context, documentType string, documentNumber int) (*types.Contact, error)
	ListByPhone(dbc dbctx.Context, phoneType, numberPhone string) ([]*types.Contact, error)
	ListByAddressLocality(dbc dbctx.Context, locality string) ([]*types.Contact, error)
	ListByOrCriteria(dbc dbctx.Context, criteria types.SearchCriteria) ([]*types.Contact, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type contactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return &contactRepo{db: db, log: baseLog.With("repo", "ContactRepo")}
}

// withCollections attaches phones and addresses in input order.
func withCollections(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Phones", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		})
}

func stableOrder(q *gorm.DB) *gorm.DB {
	return q.Order("contacts.created_at ASC, contacts.id ASC")
}

func (r *contactRepo) Create(dbc dbctx.Context, contact *types.Contact) (*types.Contact, error) {
	if contact == nil {
		return nil, nil
	}
	if err := dbc.DB(r.db).Create(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *contactRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Contact, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(withCollections(dbc.DB(r.db)).Where("contacts.id = ?", id))
}

func (r *contactRepo) GetFirstByEmail(dbc dbctx.Context, email string) (*types.Contact, error) {
	if email == "" {
		return nil, nil
	}
	return r.first(withCollections(dbc.DB(r.db)).Where("contacts.email = ?", email))
}

func (r *contactRepo) GetByCompositeKey(dbc dbctx.Context, documentType string, documentNumber int) (*types.Contact, error) {
	if documentType == "" {
		return nil, nil
	}
	return r.first(withCollections(dbc.DB(r.db)).
		Where("contacts.document_type = ? AND contacts.document_number = ?", documentType, documentNumber))
}

func (r *contactRepo) first(q *gorm.DB) (*types.Contact, error) {
	var results []*types.Contact
	if err := stableOrder(q).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *contactRepo) ListByPhone(dbc dbctx.Context, phoneType, numberPhone string) ([]*types.Contact, error) {
	return r.list(dbc,
		"EXISTS (SELECT 1 FROM phones p WHERE p.contact_id = contacts.id AND p.type = ? AND p.number_phone = ?)",
		phoneType, numberPhone)
}

func (r *contactRepo) ListByAddressLocality(dbc dbctx.Context, locality string) ([]*types.Contact, error) {
	return r.list(dbc,
		"EXISTS (SELECT 1 FROM addresses a WHERE a.contact_id = contacts.id AND a.locality = ?)",
		locality)
}

func (r *contactRepo) ListByOrCriteria(dbc dbctx.Context, criteria types.SearchCriteria) ([]*types.Contact, error) {
	clause, args := OrCriteriaClause(criteria)
	if clause == "" {
		return []*types.Contact{}, nil
	}
	return r.list(dbc, clause, args...)
}

func (r *contactRepo) list(dbc dbctx.Context, where string, args ...any) ([]*types.Contact, error) {
	results := []*types.Contact{}
	if err := stableOrder(withCollections(dbc.DB(r.db)).Where(where, args...)).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contactRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := dbc.DB(r.db).
		Model(&types.Contact{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contactRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// OrCriteriaClause builds a disjunction with one term per supplied
// criterion. Phone and address terms each match when the contact owns a row
// whose columns fall in every non-empty value set.
func OrCriteriaClause(c types.SearchCriteria) (string, []any) {
	var (
		terms []string
		args  []any
	)
	add := func(term string, a ...any) {
		terms = append(terms, term)
		args = append(args, a...)
	}

	if c.FirstName != nil {
		add("contacts.first_name = ?", *c.FirstName)
	}
	if c.LastName != nil {
		add("contacts.last_name = ?", *c.LastName)
	}
	if c.DocumentType != nil {
		add("contacts.document_type = ?", *c.DocumentType)
	}
	if c.DocumentNumber != nil {
		add("contacts.document_number = ?", *c.DocumentNumber)
	}
	if c.Age != nil {
		add("contacts.age = ?", *c.Age)
	}
	if c.Email != nil {
		add("contacts.email = ?", *c.Email)
	}

	numbers, phoneTypes := c.PhoneSets()
	if len(numbers) > 0 || len(phoneTypes) > 0 {
		conds := []string{"p.contact_id = contacts.id"}
		var sub []any
		if len(numbers) > 0 {
			conds = append(conds, "p.number_phone IN ?")
			sub = append(sub, numbers)
		}
		if len(phoneTypes) > 0 {
			conds = append(conds, "p.type IN ?")
			sub = append(sub, phoneTypes)
		}
		add("EXISTS (SELECT 1 FROM phones p WHERE "+strings.Join(conds, " AND ")+")", sub...)
	}

	localities, streets, streetNumbers := c.AddressSets()
	if len(localities) > 0 || len(streets) > 0 || len(streetNumbers) > 0 {
		conds := []string{"a.contact_id = contacts.id"}
		var sub []any
		if len(localities) > 0 {
			conds = append(conds, "a.locality IN ?")
			sub = append(sub, localities)
		}
		if len(streets) > 0 {
			conds = append(conds, "a.street IN ?")
			sub = append(sub, streets)
		}
		if len(streetNumbers) > 0 {
			conds = append(conds, "a.number_street IN ?")
			sub = append(sub, streetNumbers)
		}
		add("EXISTS (SELECT 1 FROM addresses a WHERE "+strings.Join(conds, " AND ")+")", sub...)
	}

	if len(terms) == 0 {
		return "", nil
	}
	return "(" + strings.Join(terms, " OR ") + ")", args
}
