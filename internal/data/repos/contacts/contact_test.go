package contacts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/data/repos/testutil"
	types "github.com/yungbote/contactbook-backend/internal/domain/contacts"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
)

func TestContactRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewContactRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, testutil.AnaDiaz())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil || created.Phones[0].ID == uuid.Nil || created.Addresses[0].ID == uuid.Nil {
		t.Fatalf("Create: ids not generated: %+v", created)
	}

	byEmail, err := repo.GetFirstByEmail(dbc, "ana@x.com")
	if err != nil {
		t.Fatalf("GetFirstByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != created.ID {
		t.Fatalf("GetFirstByEmail: unexpected %+v", byEmail)
	}
	if len(byEmail.Phones) != 1 || len(byEmail.Addresses) != 1 {
		t.Fatalf("GetFirstByEmail: collections not attached: %+v", byEmail)
	}

	missing, err := repo.GetFirstByEmail(dbc, "nobody@x.com")
	if err != nil || missing != nil {
		t.Fatalf("GetFirstByEmail (missing): %v %+v", err, missing)
	}

	byKey, err := repo.GetByCompositeKey(dbc, "DNI", 40000001)
	if err != nil || byKey == nil || byKey.ID != created.ID {
		t.Fatalf("GetByCompositeKey: %v %+v", err, byKey)
	}
	if other, _ := repo.GetByCompositeKey(dbc, "LC", 40000001); other != nil {
		t.Fatalf("GetByCompositeKey: document type must be part of the key")
	}

	byPhone, err := repo.ListByPhone(dbc, "celular", "11-2222-3333")
	if err != nil || len(byPhone) != 1 {
		t.Fatalf("ListByPhone: %v %d", err, len(byPhone))
	}
	if none, _ := repo.ListByPhone(dbc, "fijo", "11-2222-3333"); len(none) != 0 {
		t.Fatalf("ListByPhone: type must match too")
	}

	byLocality, err := repo.ListByAddressLocality(dbc, "Moron")
	if err != nil || len(byLocality) != 1 {
		t.Fatalf("ListByAddressLocality: %v %d", err, len(byLocality))
	}
	if none, _ := repo.ListByAddressLocality(dbc, "moron"); len(none) != 0 {
		t.Fatalf("ListByAddressLocality: match is case-sensitive")
	}

	if err := repo.UpdateFields(dbc, created.ID, map[string]any{"age": 31}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	reloaded, _ := repo.GetByID(dbc, created.ID)
	if reloaded.Age != 31 || reloaded.FirstName != "Ana" {
		t.Fatalf("UpdateFields: unexpected %+v", reloaded)
	}
	if err := repo.UpdateFields(dbc, uuid.New(), map[string]any{"age": 40}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("UpdateFields (missing): want ErrRecordNotFound, got %v", err)
	}

	if err := repo.Delete(dbc, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(dbc, created.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Delete (again): want ErrRecordNotFound, got %v", err)
	}
}

func TestContactRepoCreateRejectsDuplicateCompositeKey(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewContactRepo(db, testutil.Logger(t))

	if _, err := repo.Create(dbc, testutil.AnaDiaz()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dup := testutil.AnaDiaz()
	dup.Email = "other@x.com"
	_, err := repo.Create(dbc, dup)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Create (duplicate): want ErrDuplicatedKey, got %v", err)
	}
}

func TestContactRepoListByOrCriteria(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContactRepo(db, testutil.Logger(t))

	ana := testutil.SeedContact(t, ctx, tx, testutil.AnaDiaz())
	juan := testutil.SeedContact(t, ctx, tx, &types.Contact{
		FirstName: "Juan", LastName: "Gomez", DocumentType: "DNI", DocumentNumber: 30000002, Age: 45, Email: "juan@x.com",
		Phones:    []types.Phone{{Type: "fijo", NumberPhone: "4-665-5995"}},
		Addresses: []types.Address{{Locality: "San Miguel", Street: "Peron", NumberStreet: 10}},
	})

	cases := []struct {
		name     string
		criteria types.SearchCriteria
		want     []uuid.UUID
	}{
		{"last name", types.SearchCriteria{LastName: testutil.PtrString("Gomez")}, []uuid.UUID{juan.ID}},
		{"or across fields", types.SearchCriteria{LastName: testutil.PtrString("Gomez"), Email: testutil.PtrString("ana@x.com")}, []uuid.UUID{ana.ID, juan.ID}},
		{"age", types.SearchCriteria{Age: testutil.PtrInt(30)}, []uuid.UUID{ana.ID}},
		{"phone number and type", types.SearchCriteria{Phones: []types.PhoneCriteria{{Type: "fijo", NumberPhone: "4-665-5995"}}}, []uuid.UUID{juan.ID}},
		{"phone type mismatch", types.SearchCriteria{Phones: []types.PhoneCriteria{{Type: "celular", NumberPhone: "4-665-5995"}}}, nil},
		{"address locality", types.SearchCriteria{Addresses: []types.AddressCriteria{{Locality: "Moron"}}}, []uuid.UUID{ana.ID}},
		{"address sets are conjunctive", types.SearchCriteria{Addresses: []types.AddressCriteria{{Locality: "Moron", Street: "Peron"}}}, nil},
		{"nothing matches", types.SearchCriteria{FirstName: testutil.PtrString("Nadie")}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.ListByOrCriteria(dbc, tc.criteria)
			if err != nil {
				t.Fatalf("ListByOrCriteria: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("want %d contacts, got %d", len(tc.want), len(got))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("result %d: want %s got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestOrCriteriaClause(t *testing.T) {
	if clause, args := OrCriteriaClause(types.SearchCriteria{}); clause != "" || args != nil {
		t.Fatalf("empty criteria: got %q %v", clause, args)
	}
	clause, args := OrCriteriaClause(types.SearchCriteria{
		FirstName: testutil.PtrString("Ana"),
		Phones:    []types.PhoneCriteria{{NumberPhone: "1"}},
	})
	if !strings.HasPrefix(clause, "(contacts.first_name = ? OR EXISTS") {
		t.Fatalf("unexpected clause %q", clause)
	}
	if strings.Contains(clause, "p.type IN") {
		t.Fatalf("blank phone type must not constrain: %q", clause)
	}
	if len(args) != 2 {
		t.Fatalf("want 2 args, got %d", len(args))
	}
}
