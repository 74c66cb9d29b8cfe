package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/contactbook-backend/internal/data/repos"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/domain/contacts"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
)

type ContactStoreDeps struct {
	Base BaseDeps

	Contacts  repos.ContactRepo
	Phones    repos.PhoneRepo
	Addresses repos.AddressRepo
}

type contactStore struct {
	deps ContactStoreDeps
}

func NewContactStore(deps ContactStoreDeps) domainagg.ContactStore {
	deps.Base = deps.Base.withDefaults()
	return &contactStore{deps: deps}
}

func (s *contactStore) Contract() domainagg.Contract {
	return domainagg.ContactStoreContract
}

func (s *contactStore) configured(op string) error {
	if s.deps.Contacts == nil || s.deps.Phones == nil || s.deps.Addresses == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "contact store repos not configured", nil)
	}
	return nil
}

func (s *contactStore) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return executeWrite(ctx, s.deps.Base, "contacts.store.tx", fn)
}

func (s *contactStore) CreateContactWithNested(dbc dbctx.Context, contact *contacts.Contact) (*contacts.Contact, error) {
	const op = "contacts.store.create"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing contact", nil)
	}
	if contact.ID != uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "contact id is assigned by the store", nil)
	}
	for i := range contact.Phones {
		contact.Phones[i].ContactID = uuid.Nil
	}
	for i := range contact.Addresses {
		contact.Addresses[i].ContactID = uuid.Nil
	}

	var out *contacts.Contact
	err := executeStep(dbc, s.deps.Base, s.Contract(), op, true, func(dbc dbctx.Context) error {
		created, err := s.deps.Contacts.Create(dbc, contact)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	return out, err
}

func (s *contactStore) FindContactByEmail(dbc dbctx.Context, email string) (*contacts.Contact, error) {
	const op = "contacts.store.find_by_email"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	var out *contacts.Contact
	err := executeStep(dbc, s.deps.Base, s.Contract(), op, false, func(dbc dbctx.Context) error {
		found, err := s.deps.Contacts.GetFirstByEmail(dbc, email)
		out = found
		return err
	})
	return out, err
}

func (s *contactStore) FindContactsByPhone(dbc dbctx.Context, phoneType, numberPhone string) ([]*contacts.Contact, error) {
	const op = "contacts.store.find_by_phone"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	var out []*contacts.Contact
	err := executeStep(dbc, s.deps.Base, s.Contract(), op, false, func(dbc dbctx.Context) error {
		found, err := s.deps.Contacts.ListByPhone(dbc, phoneType, numberPhone)
		out = found
		return err
	})
	return out, err
}

func (s *contactStore) FindContactsByAddressLocality(dbc dbctx.Context, locality string) ([]*contacts.Contact, error) {
	const op = "contacts.store.find_by_address"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	var out []*contacts.Contact
	err := executeStep(dbc, s.deps.Base, s.Contract(), op, false, func(dbc dbctx.Context) error {
		found, err := s.deps.Contacts.ListByAddressLocality(dbc, locality)
		out = found
		return err
	})
	return out, err
}

func (s *contactStore) FindContactsByOrCriteria(dbc dbctx.Context, criteria contacts.SearchCriteria) ([]*contacts.Contact, error) {
	const op = "contacts.store.search"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	var out []*contacts.Contact
	err := executeStep(dbc, s.deps.Base, s.Contract(), op, false, func(dbc dbctx.Context) error {
		found, err := s.deps.Contacts.ListByOrCriteria(dbc, criteria)
		out = found
		return err
	})
	return out, err
}

func (s *contactStore) FindContactByCompositeKey(dbc dbctx.Context, documentType string, documentNumber int) (*contacts.Contact, error) {
	const op = "contacts.store.find_by_key"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	var out *contacts.Contact
	err := executeStep(dbc, s.deps.Base, s.Contract(), op, false, func(dbc dbctx.Context) error {
		found, err := s.deps.Contacts.GetByCompositeKey(dbc, documentType, documentNumber)
		out = found
		return err
	})
	return out, err
}

// CheckNestedOwnership loads the referenced phone and address rows and
// rejects ids that are unknown or attached to another contact.
func (s *contactStore) CheckNestedOwnership(dbc dbctx.Context, contactID uuid.UUID, phoneIDs, addressIDs []uuid.UUID) error {
	const op = "contacts.store.check_ownership"
	if err := s.configured(op); err != nil {
		return err
	}
	if len(phoneIDs) == 0 && len(addressIDs) == 0 {
		return nil
	}
	return executeStep(dbc, s.deps.Base, s.Contract(), op, false, func(dbc dbctx.Context) error {
		phones, err := s.deps.Phones.GetByIDs(dbc, phoneIDs)
		if err != nil {
			return err
		}
		owned := make(map[uuid.UUID]bool, len(phones))
		for _, p := range phones {
			owned[p.ID] = p.ContactID == contactID
		}
		for _, id := range phoneIDs {
			if !owned[id] {
				return ValidationError(fmt.Sprintf("phone %s does not belong to contact", id))
			}
		}

		addresses, err := s.deps.Addresses.GetByIDs(dbc, addressIDs)
		if err != nil {
			return err
		}
		owned = make(map[uuid.UUID]bool, len(addresses))
		for _, a := range addresses {
			owned[a.ID] = a.ContactID == contactID
		}
		for _, id := range addressIDs {
			if !owned[id] {
				return ValidationError(fmt.Sprintf("address %s does not belong to contact", id))
			}
		}
		return nil
	})
}

func (s *contactStore) UpdatePhoneRow(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (*contacts.Phone, error) {
	const op = "contacts.store.update_phone"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing phone id", nil)
	}
	var out *contacts.Phone
	err := executeStep(dbc, s.deps.Base, s.Contract(), op, false, func(dbc dbctx.Context) error {
		row, err := s.deps.Phones.UpdateRow(dbc, id, fields)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	return out, err
}

func (s *contactStore) UpdateAddressRow(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (*contacts.Address, error) {
	const op = "contacts.store.update_address"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing address id", nil)
	}
	var out *contacts.Address
	err := executeStep(dbc, s.deps.Base, s.Contract(), op, false, func(dbc dbctx.Context) error {
		row, err := s.deps.Addresses.UpdateRow(dbc, id, fields)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	return out, err
}

// UpdateContactFields writes the personal fields and returns the reloaded
// contact with its collections.
func (s *contactStore) UpdateContactFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (*contacts.Contact, error) {
	const op = "contacts.store.update_contact"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing contact id", nil)
	}
	var out *contacts.Contact
	err := executeStep(dbc, s.deps.Base, s.Contract(), op, true, func(dbc dbctx.Context) error {
		current, err := s.deps.Contacts.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if current == nil {
			return NotFoundError(fmt.Sprintf("contact not found: %s", id))
		}
		if err := s.ensureKeyAvailable(dbc, current, fields); err != nil {
			return err
		}
		if err := s.deps.Contacts.UpdateFields(dbc, id, fields); err != nil {
			return err
		}
		reloaded, err := s.deps.Contacts.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if reloaded == nil {
			return NotFoundError(fmt.Sprintf("contact not found: %s", id))
		}
		out = reloaded
		return nil
	})
	return out, err
}

// ensureKeyAvailable rejects a document key change that would collide with
// another contact. The unique index still backs this up under concurrency.
func (s *contactStore) ensureKeyAvailable(dbc dbctx.Context, current *contacts.Contact, fields map[string]any) error {
	key := current.Key()
	if v, ok := fields["document_type"].(string); ok {
		key.DocumentType = v
	}
	if v, ok := fields["document_number"].(int); ok {
		key.DocumentNumber = v
	}
	if key == current.Key() {
		return nil
	}
	other, err := s.deps.Contacts.GetByCompositeKey(dbc, key.DocumentType, key.DocumentNumber)
	if err != nil {
		return err
	}
	if other != nil && other.ID != current.ID {
		return ConflictError(fmt.Sprintf("document %s/%d already registered", key.DocumentType, key.DocumentNumber))
	}
	return nil
}

func (s *contactStore) DeleteContactCascade(dbc dbctx.Context, id uuid.UUID) error {
	const op = "contacts.store.delete"
	if err := s.configured(op); err != nil {
		return err
	}
	if id == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing contact id", nil)
	}
	return executeStep(dbc, s.deps.Base, s.Contract(), op, true, func(dbc dbctx.Context) error {
		if err := s.deps.Phones.DeleteByContactID(dbc, id); err != nil {
			return err
		}
		if err := s.deps.Addresses.DeleteByContactID(dbc, id); err != nil {
			return err
		}
		return s.deps.Contacts.Delete(dbc, id)
	})
}
