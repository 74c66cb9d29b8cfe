package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/data/aggregates"
	aggtestutil "github.com/yungbote/contactbook-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/contactbook-backend/internal/data/repos"
	"github.com/yungbote/contactbook-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/domain/contacts"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
)

func newStore(t *testing.T, db *gorm.DB, hooks aggregates.Hooks) domainagg.ContactStore {
	t.Helper()
	log := testutil.Logger(t)
	return aggregates.NewContactStore(aggregates.ContactStoreDeps{
		Base:      aggregates.BaseDeps{DB: db, Log: log, Hooks: hooks},
		Contacts:  repos.NewContactRepo(db, log),
		Phones:    repos.NewPhoneRepo(db, log),
		Addresses: repos.NewAddressRepo(db, log),
	})
}

func TestContactStoreCreateAndFind(t *testing.T) {
	db := testutil.DB(t)
	hooks := &aggtestutil.HooksRecorder{}
	store := newStore(t, db, hooks)
	ctx := context.Background()

	if got := store.Contract(); got.Name != domainagg.ContactStoreContract.Name {
		t.Fatalf("unexpected contract %+v", got)
	}

	var created *contacts.Contact
	err := store.InTx(ctx, func(dbc dbctx.Context) error {
		c, err := store.CreateContactWithNested(dbc, testutil.AnaDiaz())
		created = c
		return err
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil || created.Phones[0].ContactID != created.ID {
		t.Fatalf("create: ids not linked %+v", created)
	}

	dbc := dbctx.Context{Ctx: ctx}
	byEmail, err := store.FindContactByEmail(dbc, "ana@x.com")
	if err != nil || byEmail == nil || byEmail.ID != created.ID {
		t.Fatalf("FindContactByEmail: %v %+v", err, byEmail)
	}
	byPhone, err := store.FindContactsByPhone(dbc, "celular", "11-2222-3333")
	if err != nil || len(byPhone) != 1 {
		t.Fatalf("FindContactsByPhone: %v %d", err, len(byPhone))
	}
	byAddress, err := store.FindContactsByAddressLocality(dbc, "Moron")
	if err != nil || len(byAddress) != 1 || len(byAddress[0].Addresses) != 1 {
		t.Fatalf("FindContactsByAddressLocality: %v %+v", err, byAddress)
	}
	byKey, err := store.FindContactByCompositeKey(dbc, "DNI", 40000001)
	if err != nil || byKey == nil || byKey.ID != created.ID {
		t.Fatalf("FindContactByCompositeKey: %v %+v", err, byKey)
	}

	if len(hooks.Operations) == 0 {
		t.Fatalf("expected hook events")
	}
	for _, ev := range hooks.Operations {
		if ev.Status != "success" {
			t.Fatalf("unexpected failed op %+v", ev)
		}
	}
}

func TestContactStoreCreateDuplicateIsConflict(t *testing.T) {
	db := testutil.DB(t)
	hooks := &aggtestutil.HooksRecorder{}
	store := newStore(t, db, hooks)
	dbc := dbctx.Context{Ctx: context.Background()}

	if _, err := store.CreateContactWithNested(dbc, testutil.AnaDiaz()); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := store.CreateContactWithNested(dbc, testutil.AnaDiaz())
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("duplicate create: want conflict, got %v", err)
	}
	if len(hooks.Conflicts) != 1 || hooks.Conflicts[0] != "contacts.store.create" {
		t.Fatalf("conflict hooks: %+v", hooks.Conflicts)
	}

	var phones int64
	db.Model(&contacts.Phone{}).Count(&phones)
	if phones != 1 {
		t.Fatalf("failed create must not leave rows, phones=%d", phones)
	}
}

func TestContactStoreInTxRollsBack(t *testing.T) {
	db := testutil.DB(t)
	store := newStore(t, db, nil)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := store.CreateContactWithNested(dbc, testutil.AnaDiaz()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx: want boom, got %v", err)
	}
	found, err := store.FindContactByEmail(dbctx.Context{Ctx: ctx}, "ana@x.com")
	if err != nil || found != nil {
		t.Fatalf("rolled back contact still visible: %v %+v", err, found)
	}
}

func TestContactStoreSearchEmptyCriteriaMatchesNothing(t *testing.T) {
	db := testutil.DB(t)
	testutil.SeedContact(t, context.Background(), db, testutil.AnaDiaz())
	store := newStore(t, db, nil)
	found, err := store.FindContactsByOrCriteria(dbctx.Context{Ctx: context.Background()}, contacts.SearchCriteria{})
	if err != nil || found == nil || len(found) != 0 {
		t.Fatalf("want empty list, got %v %+v", err, found)
	}
}

func TestContactStoreUpdates(t *testing.T) {
	db := testutil.DB(t)
	store := newStore(t, db, nil)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	created, err := store.CreateContactWithNested(dbc, testutil.AnaDiaz())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	phone, err := store.UpdatePhoneRow(dbc, created.Phones[0].ID, map[string]any{"number_phone": "11-9999-0000"})
	if err != nil || phone.NumberPhone != "11-9999-0000" {
		t.Fatalf("UpdatePhoneRow: %v %+v", err, phone)
	}
	addr, err := store.UpdateAddressRow(dbc, created.Addresses[0].ID, map[string]any{"street": "Belgrano"})
	if err != nil || addr.Street != "Belgrano" || addr.NumberStreet != 100 {
		t.Fatalf("UpdateAddressRow: %v %+v", err, addr)
	}
	updated, err := store.UpdateContactFields(dbc, created.ID, map[string]any{"email": "ana.diaz@x.com"})
	if err != nil {
		t.Fatalf("UpdateContactFields: %v", err)
	}
	if updated.Email != "ana.diaz@x.com" || updated.LastName != "Diaz" || updated.Phones[0].NumberPhone != "11-9999-0000" {
		t.Fatalf("UpdateContactFields: unexpected %+v", updated)
	}

	if _, err := store.UpdatePhoneRow(dbc, uuid.New(), map[string]any{"type": "fijo"}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("UpdatePhoneRow (missing): want not_found, got %v", err)
	}
	if _, err := store.UpdateContactFields(dbc, uuid.New(), map[string]any{"age": 50}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("UpdateContactFields (missing): want not_found, got %v", err)
	}

	other := testutil.AnaDiaz()
	other.DocumentNumber = 40000002
	other.Email = "other@x.com"
	if _, err := store.CreateContactWithNested(dbc, other); err != nil {
		t.Fatalf("create other: %v", err)
	}
	_, err = store.UpdateContactFields(dbc, other.ID, map[string]any{"document_number": 40000001})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("key collision: want conflict, got %v", err)
	}
	var aggErr *domainagg.Error
	if !errors.As(err, &aggErr) || aggErr.Message != "document DNI/40000001 already registered" {
		t.Fatalf("key collision must be caught before the write, got %v", err)
	}
	// rewriting the contact's own key is not a collision
	if _, err := store.UpdateContactFields(dbc, other.ID, map[string]any{"document_type": "DNI", "document_number": 40000002}); err != nil {
		t.Fatalf("same key: %v", err)
	}
	moved, err := store.UpdateContactFields(dbc, other.ID, map[string]any{"document_number": 0})
	if err != nil || moved.Key() != (contacts.DocumentKey{DocumentType: "DNI", DocumentNumber: 0}) {
		t.Fatalf("free key: %v %+v", err, moved)
	}
}

func TestContactStoreCheckNestedOwnership(t *testing.T) {
	db := testutil.DB(t)
	hooks := &aggtestutil.HooksRecorder{}
	store := newStore(t, db, hooks)
	dbc := dbctx.Context{Ctx: context.Background()}

	ana, err := store.CreateContactWithNested(dbc, testutil.AnaDiaz())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other := testutil.AnaDiaz()
	other.DocumentNumber = 40000002
	if _, err := store.CreateContactWithNested(dbc, other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	owned := []uuid.UUID{ana.Phones[0].ID}
	if err := store.CheckNestedOwnership(dbc, ana.ID, owned, []uuid.UUID{ana.Addresses[0].ID}); err != nil {
		t.Fatalf("owned ids: %v", err)
	}
	if err := store.CheckNestedOwnership(dbc, ana.ID, nil, nil); err != nil {
		t.Fatalf("no ids: %v", err)
	}

	cases := []struct {
		name      string
		phones    []uuid.UUID
		addresses []uuid.UUID
	}{
		{"foreign phone", []uuid.UUID{other.Phones[0].ID}, nil},
		{"unknown phone", append(owned, uuid.New()), nil},
		{"foreign address", nil, []uuid.UUID{other.Addresses[0].ID}},
		{"unknown address", nil, []uuid.UUID{uuid.New()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.CheckNestedOwnership(dbc, ana.ID, tc.phones, tc.addresses)
			if !domainagg.IsCode(err, domainagg.CodeValidation) {
				t.Fatalf("want validation, got %v", err)
			}
			if op := domainagg.OpOf(err); op != "contacts.store.check_ownership" {
				t.Fatalf("unexpected op %s", op)
			}
		})
	}
}

func TestContactStoreDeleteCascade(t *testing.T) {
	db := testutil.DB(t)
	store := newStore(t, db, nil)
	dbc := dbctx.Context{Ctx: context.Background()}

	created, err := store.CreateContactWithNested(dbc, testutil.AnaDiaz())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.DeleteContactCascade(dbc, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var phones, addresses int64
	db.Model(&contacts.Phone{}).Where("contact_id = ?", created.ID).Count(&phones)
	db.Model(&contacts.Address{}).Where("contact_id = ?", created.ID).Count(&addresses)
	if phones != 0 || addresses != 0 {
		t.Fatalf("children left behind: phones=%d addresses=%d", phones, addresses)
	}

	if err := store.DeleteContactCascade(dbc, created.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("repeat delete: want not_found, got %v", err)
	}
}

func TestContactStoreWithInjectedRunner(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	runner := &aggtestutil.InjectedTxRunner{FailCommit: errors.New("commit lost")}
	store := aggregates.NewContactStore(aggregates.ContactStoreDeps{
		Base:      aggregates.BaseDeps{DB: db, Log: log, Runner: runner},
		Contacts:  repos.NewContactRepo(db, log),
		Phones:    repos.NewPhoneRepo(db, log),
		Addresses: repos.NewAddressRepo(db, log),
	})

	err := store.InTx(context.Background(), func(dbctx.Context) error { return nil })
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("commit failure: want internal, got %v", err)
	}
	if runner.BeginCalls != 1 || runner.RollbackCalls != 1 {
		t.Fatalf("unexpected counters begin=%d rollback=%d", runner.BeginCalls, runner.RollbackCalls)
	}
}

func TestContactStoreCommitFailureDiscardsWrites(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	hooks := &aggtestutil.HooksRecorder{}
	runner := &aggtestutil.InjectedTxRunner{DB: db, FailCommit: errors.New("commit lost")}
	store := aggregates.NewContactStore(aggregates.ContactStoreDeps{
		Base:      aggregates.BaseDeps{DB: db, Log: log, Runner: runner, Hooks: hooks},
		Contacts:  repos.NewContactRepo(db, log),
		Phones:    repos.NewPhoneRepo(db, log),
		Addresses: repos.NewAddressRepo(db, log),
	})

	err := store.InTx(context.Background(), func(dbc dbctx.Context) error {
		_, err := store.CreateContactWithNested(dbc, testutil.AnaDiaz())
		return err
	})
	if err == nil {
		t.Fatalf("expected commit failure")
	}
	if got := hooks.Statuses("contacts.store.create"); len(got) != 1 || got[0] != "success" {
		t.Fatalf("create step statuses: %+v", got)
	}

	var n int64
	db.Model(&contacts.Contact{}).Count(&n)
	if n != 0 {
		t.Fatalf("rolled back create left %d contacts", n)
	}
	if runner.RollbackCalls != 1 || runner.CommitCalls != 0 {
		t.Fatalf("unexpected counters commit=%d rollback=%d", runner.CommitCalls, runner.RollbackCalls)
	}
}

func TestContactStoreCanceledContextIsRetryable(t *testing.T) {
	db := testutil.DB(t)
	store := newStore(t, db, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := store.InTx(ctx, func(dbctx.Context) error {
		ran = true
		return nil
	})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("want retryable, got %v", err)
	}
	if ran {
		t.Fatalf("body must not run on a canceled context")
	}
}

func TestContactStoreRequiresRepos(t *testing.T) {
	store := aggregates.NewContactStore(aggregates.ContactStoreDeps{})
	_, err := store.FindContactByEmail(dbctx.Context{Ctx: context.Background()}, "ana@x.com")
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("want internal, got %v", err)
	}
}
