package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/contactbook-backend/internal/domain/contacts"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
)

// WriteTxOwnership defines who owns write transaction boundaries.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate means a multi-statement write opens its own
	// transaction when the caller did not attach one.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
	// WriteTxOwnedByCaller means the caller opens the transaction with InTx and passes it down.
	WriteTxOwnedByCaller WriteTxOwnership = "caller_owned"
)

// Contract describes aggregate-level policy expectations.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
}

// Aggregate is the common marker for all aggregate contracts.
type Aggregate interface {
	Contract() Contract
}

// RequiresAggregateOwnedTx returns true when write transaction ownership is aggregate-owned.
func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

// ContactStoreContract lets each write stand alone; InTx is only needed to
// compose several of them.
var ContactStoreContract = Contract{
	Name:             "Contacts.ContactStore",
	WriteTxOwnership: WriteTxOwnedByAggregate,
}

// ContactStore is the store adapter for the contact aggregate. Methods run
// on dbc.Tx when set, so a caller can compose several of them inside InTx.
//
// Failures are *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
type ContactStore interface {
	Aggregate

	// InTx runs fn inside one store transaction; any error rolls it back.
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error

	// CreateContactWithNested inserts the contact and its phone/address rows as one unit.
	CreateContactWithNested(dbc dbctx.Context, contact *contacts.Contact) (*contacts.Contact, error)

	// FindContactByEmail returns the earliest created contact with that email, or nil.
	FindContactByEmail(dbc dbctx.Context, email string) (*contacts.Contact, error)
	FindContactsByPhone(dbc dbctx.Context, phoneType, numberPhone string) ([]*contacts.Contact, error)
	FindContactsByAddressLocality(dbc dbctx.Context, locality string) ([]*contacts.Contact, error)
	FindContactsByOrCriteria(dbc dbctx.Context, criteria contacts.SearchCriteria) ([]*contacts.Contact, error)
	// FindContactByCompositeKey returns the contact for the key, or nil.
	FindContactByCompositeKey(dbc dbctx.Context, documentType string, documentNumber int) (*contacts.Contact, error)

	// CheckNestedOwnership fails with CodeValidation unless every phone and
	// address id exists and belongs to contactID.
	CheckNestedOwnership(dbc dbctx.Context, contactID uuid.UUID, phoneIDs, addressIDs []uuid.UUID) error

	UpdatePhoneRow(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (*contacts.Phone, error)
	UpdateAddressRow(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (*contacts.Address, error)
	// UpdateContactFields fails with CodeConflict when the new document key
	// belongs to another contact.
	UpdateContactFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) (*contacts.Contact, error)

	// DeleteContactCascade removes the contact with its phones and addresses.
	DeleteContactCascade(dbc dbctx.Context, id uuid.UUID) error
}
