package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
)

// taggedError carries an aggregate code from code that does not know the
// operation name yet. MapError turns it into a *domainagg.Error.
type taggedError struct {
	code domainagg.ErrorCode
	msg  string
}

func (e *taggedError) Error() string { return e.msg }

func tagged(code domainagg.ErrorCode, msg string) error {
	return &taggedError{code: code, msg: strings.TrimSpace(msg)}
}

// ValidationError tags an error as validation failure.
func ValidationError(msg string) error { return tagged(domainagg.CodeValidation, msg) }

// InvariantError tags an error as invariant violation.
func InvariantError(msg string) error { return tagged(domainagg.CodeInvariantViolation, msg) }

// ConflictError tags an error as conflict failure.
func ConflictError(msg string) error { return tagged(domainagg.CodeConflict, msg) }

// NotFoundError tags an error as a missing aggregate.
func NotFoundError(msg string) error { return tagged(domainagg.CodeNotFound, msg) }

// MapError maps infrastructure/domain failures into aggregate error codes.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return err
	}
	var tag *taggedError
	if errors.As(err, &tag) {
		return domainagg.NewError(tag.code, op, tag.msg, err)
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.NewError(domainagg.CodeNotFound, op, "record not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainagg.NewError(domainagg.CodeConflict, op, "duplicate key", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domainagg.NewError(domainagg.CodeValidation, op, "referenced row does not exist", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.Wrap(domainagg.CodeConflict, op, err) // unique_violation
		case "23503":
			return domainagg.Wrap(domainagg.CodeValidation, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03", "57014":
			return domainagg.Wrap(domainagg.CodeRetryable, op, err) // serialization/deadlock/lock_not_available/query_canceled
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "already exists"),
		strings.Contains(msg, "unique constraint"):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "temporar"):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	default:
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
}
