package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/contactbook-backend/internal/clients/redis"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/domain/contacts"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

const (
	OpCreateContact  = "contacts.create"
	OpFindByEmail    = "contacts.find_by_email"
	OpFindByPhone    = "contacts.find_by_phone"
	OpFindByAddress  = "contacts.find_by_address"
	OpSearchContacts = "contacts.search"
	OpDeleteContact  = "contacts.delete"
	OpUpdateContact  = "contacts.update"
)

const eventPublishTimeout = 2 * time.Second

type ContactService interface {
	CreateContact(ctx context.Context, in contacts.ContactInput) (*contacts.Contact, error)
	FindByEmail(ctx context.Context, email string) (*contacts.Contact, error)
	FindByPhone(ctx context.Context, phoneType, numberPhone string) ([]*contacts.Contact, error)
	FindByAddress(ctx context.Context, locality string) ([]*contacts.Contact, error)
	SearchByPersonalData(ctx context.Context, criteria contacts.SearchCriteria) ([]*contacts.Contact, error)
	DeleteContact(ctx context.Context, documentType string, documentNumber int) error
	UpdateContact(ctx context.Context, documentType string, documentNumber int, patch contacts.ContactPatch) (*contacts.Contact, error)
}

type contactService struct {
	log      *logger.Logger
	store    domainagg.ContactStore
	events   redis.ContactEventBus
	metrics  *observability.Metrics
	validate *validator.Validate
}

func NewContactService(log *logger.Logger, store domainagg.ContactStore, events redis.ContactEventBus, metrics *observability.Metrics) ContactService {
	serviceLog := log.With("service", "ContactService")
	if events == nil {
		events = redis.NewNoopEventBus()
	}
	return &contactService{
		log:      serviceLog,
		store:    store,
		events:   events,
		metrics:  metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *contactService) CreateContact(ctx context.Context, in contacts.ContactInput) (_ *contacts.Contact, err error) {
	ctx, end := s.span(ctx, OpCreateContact)
	defer func() { end(err) }()

	if err := s.validate.Struct(in); err != nil {
		return nil, s.invalid(OpCreateContact, err)
	}
	row := toContactRow(in)

	var created *contacts.Contact
	err = s.store.InTx(ctx, func(dbc dbctx.Context) error {
		c, err := s.store.CreateContactWithNested(dbc, row)
		created = c
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, OpCreateContact, err, "document_type", in.DocumentType, "document_number", in.DocumentNumber)
	}
	s.log.Info("contact created", append(ctxutil.LogFields(ctx), "contact_id", created.ID)...)
	s.publish(ctx, redis.EventContactCreated, created)
	return created, nil
}

func toContactRow(in contacts.ContactInput) *contacts.Contact {
	row := &contacts.Contact{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		DocumentType:   in.DocumentType,
		DocumentNumber: in.DocumentNumber,
		Age:            in.Age,
		Email:          in.Email,
		Phones:         make([]contacts.Phone, 0, len(in.Phones)),
		Addresses:      make([]contacts.Address, 0, len(in.Addresses)),
	}
	for i, p := range in.Phones {
		row.Phones = append(row.Phones, contacts.Phone{
			Type:        p.Type,
			NumberPhone: p.NumberPhone,
			Position:    i,
		})
	}
	for i, a := range in.Addresses {
		row.Addresses = append(row.Addresses, contacts.Address{
			Locality:     a.Locality,
			Street:       a.Street,
			NumberStreet: a.NumberStreet,
			Description:  a.Description,
			Position:     i,
		})
	}
	return row
}

func (s *contactService) FindByEmail(ctx context.Context, email string) (_ *contacts.Contact, err error) {
	ctx, end := s.span(ctx, OpFindByEmail)
	defer func() { end(err) }()

	if email == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, OpFindByEmail, "email is required", nil)
	}
	found, err := s.store.FindContactByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, s.fail(ctx, OpFindByEmail, err, "email", email)
	}
	if found == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, OpFindByEmail, "contact not found", nil)
	}
	return found, nil
}

func (s *contactService) FindByPhone(ctx context.Context, phoneType, numberPhone string) (_ []*contacts.Contact, err error) {
	ctx, end := s.span(ctx, OpFindByPhone)
	defer func() { end(err) }()

	if phoneType == "" || numberPhone == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, OpFindByPhone, "type and numberPhone are required", nil)
	}
	found, err := s.store.FindContactsByPhone(dbctx.Context{Ctx: ctx}, phoneType, numberPhone)
	if err != nil {
		return nil, s.fail(ctx, OpFindByPhone, err, "number_phone", numberPhone)
	}
	return nonNil(found), nil
}

func (s *contactService) FindByAddress(ctx context.Context, locality string) (_ []*contacts.Contact, err error) {
	ctx, end := s.span(ctx, OpFindByAddress)
	defer func() { end(err) }()

	if locality == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, OpFindByAddress, "locality is required", nil)
	}
	found, err := s.store.FindContactsByAddressLocality(dbctx.Context{Ctx: ctx}, locality)
	if err != nil {
		return nil, s.fail(ctx, OpFindByAddress, err, "locality", locality)
	}
	return nonNil(found), nil
}

func (s *contactService) SearchByPersonalData(ctx context.Context, criteria contacts.SearchCriteria) (_ []*contacts.Contact, err error) {
	ctx, end := s.span(ctx, OpSearchContacts)
	defer func() { end(err) }()

	if criteria.Empty() {
		return nil, domainagg.NewError(domainagg.CodeValidation, OpSearchContacts, "at least one search criterion is required", nil)
	}
	found, err := s.store.FindContactsByOrCriteria(dbctx.Context{Ctx: ctx}, criteria)
	if err != nil {
		return nil, s.fail(ctx, OpSearchContacts, err)
	}
	return nonNil(found), nil
}

func (s *contactService) DeleteContact(ctx context.Context, documentType string, documentNumber int) (err error) {
	ctx, end := s.span(ctx, OpDeleteContact)
	defer func() { end(err) }()

	var deleted *contacts.Contact
	err = s.store.InTx(ctx, func(dbc dbctx.Context) error {
		existing, err := s.store.FindContactByCompositeKey(dbc, documentType, documentNumber)
		if err != nil {
			return err
		}
		if existing == nil {
			return domainagg.NewError(domainagg.CodeNotFound, OpDeleteContact, "contact not found", nil)
		}
		if err := s.store.DeleteContactCascade(dbc, existing.ID); err != nil {
			return err
		}
		deleted = existing
		return nil
	})
	if err != nil {
		return s.fail(ctx, OpDeleteContact, err, "document_type", documentType, "document_number", documentNumber)
	}
	s.log.Info("contact deleted", append(ctxutil.LogFields(ctx), "contact_id", deleted.ID)...)
	s.publish(ctx, redis.EventContactDeleted, deleted)
	return nil
}

// UpdateContact applies patch to the contact with the given key. Reading the
// contact, every nested row update, the personal field update and the reload
// share one transaction.
func (s *contactService) UpdateContact(ctx context.Context, documentType string, documentNumber int, patch contacts.ContactPatch) (_ *contacts.Contact, err error) {
	ctx, end := s.span(ctx, OpUpdateContact)
	defer func() { end(err) }()

	if err := s.validate.Struct(patch); err != nil {
		return nil, s.invalid(OpUpdateContact, err)
	}

	var updated *contacts.Contact
	err = s.store.InTx(ctx, func(dbc dbctx.Context) error {
		existing, err := s.store.FindContactByCompositeKey(dbc, documentType, documentNumber)
		if err != nil {
			return err
		}
		if existing == nil {
			return domainagg.NewError(domainagg.CodeNotFound, OpUpdateContact, "contact not found", nil)
		}

		phoneIDs := make([]uuid.UUID, 0, len(patch.Phones))
		for _, p := range patch.Phones {
			phoneIDs = append(phoneIDs, p.ID)
		}
		addressIDs := make([]uuid.UUID, 0, len(patch.Addresses))
		for _, a := range patch.Addresses {
			addressIDs = append(addressIDs, a.ID)
		}
		if err := s.store.CheckNestedOwnership(dbc, existing.ID, phoneIDs, addressIDs); err != nil {
			return err
		}

		for _, p := range patch.Phones {
			if fields := p.Fields(); len(fields) > 0 {
				if _, err := s.store.UpdatePhoneRow(dbc, p.ID, fields); err != nil {
					return err
				}
			}
		}
		for _, a := range patch.Addresses {
			if fields := a.Fields(); len(fields) > 0 {
				if _, err := s.store.UpdateAddressRow(dbc, a.ID, fields); err != nil {
					return err
				}
			}
		}

		c, err := s.store.UpdateContactFields(dbc, existing.ID, patch.Fields())
		if err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, OpUpdateContact, err, "document_type", documentType, "document_number", documentNumber)
	}
	s.log.Info("contact updated", append(ctxutil.LogFields(ctx), "contact_id", updated.ID)...)
	s.publish(ctx, redis.EventContactUpdated, updated)
	return updated, nil
}

func (s *contactService) invalid(op string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()), err)
	}
	return domainagg.NewError(domainagg.CodeValidation, op, "invalid input", err)
}

// fail logs err with the request's trace fields and returns it re-labelled
// with op. Codes the store did not classify become internal.
func (s *contactService) fail(ctx context.Context, op string, err error, kv ...interface{}) error {
	code := domainagg.CodeOf(err)
	if code == "" || code == domainagg.CodeInvariantViolation {
		code = domainagg.CodeInternal
	}
	fields := append(ctxutil.LogFields(ctx), "op", op, "code", string(code), "error", err)
	fields = append(fields, kv...)
	switch code {
	case domainagg.CodeValidation, domainagg.CodeNotFound, domainagg.CodeConflict:
		s.log.Info("contact operation rejected", fields...)
	case domainagg.CodeRetryable:
		s.log.Warn("contact operation unavailable", fields...)
	default:
		s.log.Error("contact operation failed", fields...)
	}
	if domainagg.OpOf(err) == op && domainagg.CodeOf(err) == code {
		return err
	}
	return domainagg.NewError(code, op, "failed", err)
}

// publish announces a committed write. Failures are logged only.
func (s *contactService) publish(ctx context.Context, eventType string, c *contacts.Contact) {
	if c == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	err := s.events.Publish(pubCtx, redis.ContactEvent{
		Type:        eventType,
		ContactID:   c.ID,
		DocumentKey: c.Key(),
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		s.metrics.IncContactEvent(eventType, "failed")
		s.log.Warn("contact event publish failed", append(ctxutil.LogFields(ctx), "event", eventType, "error", err)...)
		return
	}
	s.metrics.IncContactEvent(eventType, "published")
}

func (s *contactService) span(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := observability.Tracer().Start(ctx, op)
	span.SetAttributes(attribute.String("contacts.op", op))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
		}
		span.End()
	}
}

func nonNil(in []*contacts.Contact) []*contacts.Contact {
	if in == nil {
		return []*contacts.Contact{}
	}
	return in
}
