package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/contactbook-backend/internal/domain/contacts"
)

// AnaDiaz is the reference contact used across contact tests.
func AnaDiaz() *types.Contact {
	return &types.Contact{
		FirstName:      "Ana",
		LastName:       "Diaz",
		DocumentType:   "DNI",
		DocumentNumber: 40000001,
		Age:            30,
		Email:          "ana@x.com",
		Phones: []types.Phone{
			{Type: "celular", NumberPhone: "11-2222-3333", Position: 0},
		},
		Addresses: []types.Address{
			{Locality: "Moron", Street: "Rivadavia", NumberStreet: 100, Position: 0},
		},
	}
}

func SeedContact(tb testing.TB, ctx context.Context, tx *gorm.DB, c *types.Contact) *types.Contact {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contact: %v", err)
	}
	return c
}

func PtrString(v string) *string { return &v }

func PtrInt(v int) *int { return &v }
