package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"validation tag", ValidationError("bad input"), domainagg.CodeValidation},
		{"invariant helper", InvariantError("broken"), domainagg.CodeInvariantViolation},
		{"conflict tag", ConflictError("taken"), domainagg.CodeConflict},
		{"not found tag", NotFoundError("gone"), domainagg.CodeNotFound},
		{"retryable tag", tagged(domainagg.CodeRetryable, "later"), domainagg.CodeRetryable},
		{"wrapped tag", fmt.Errorf("outer: %w", ConflictError("taken")), domainagg.CodeConflict},
		{"record not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, domainagg.CodeConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, domainagg.CodeValidation},
		{"canceled", context.Canceled, domainagg.CodeRetryable},
		{"deadline", context.DeadlineExceeded, domainagg.CodeRetryable},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, domainagg.CodeRetryable},
		{"sqlite unique text", errors.New("UNIQUE constraint failed: contacts.document_type"), domainagg.CodeConflict},
		{"sqlite busy text", errors.New("database is locked"), domainagg.CodeRetryable},
		{"unknown", errors.New("boom"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("contacts.test", tc.err)
			if code := domainagg.CodeOf(got); code != tc.want {
				t.Fatalf("code: want=%s got=%s (%v)", tc.want, code, got)
			}
			if op := domainagg.OpOf(got); op != "contacts.test" {
				t.Fatalf("op: want=contacts.test got=%s", op)
			}
			if !errors.Is(got, tc.err) {
				t.Fatalf("mapped error must keep the cause chain")
			}
		})
	}
}

func TestMapErrorPassesThroughAggregateErrors(t *testing.T) {
	if MapError("x", nil) != nil {
		t.Fatalf("nil must map to nil")
	}
	in := domainagg.NewError(domainagg.CodeNotFound, "contacts.inner", "missing", nil)
	if got := MapError("contacts.outer", in); got != in {
		t.Fatalf("aggregate error must pass through unchanged, got %v", got)
	}
}

func TestTaggedMessagesHaveNoPrefix(t *testing.T) {
	got := MapError("contacts.update", ValidationError("  phone does not belong to contact "))
	var aggErr *domainagg.Error
	if !errors.As(got, &aggErr) {
		t.Fatalf("expected aggregate error, got %T", got)
	}
	if aggErr.Message != "phone does not belong to contact" {
		t.Fatalf("unexpected message %q", aggErr.Message)
	}
}
