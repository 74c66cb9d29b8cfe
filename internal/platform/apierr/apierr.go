package apierr

import (
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromAggregate converts an aggregate error into an API error. The public
// message names the failed operation only; store detail stays in the logs.
func FromAggregate(err error) *Error {
	if err == nil {
		return nil
	}
	code := domainagg.CodeOf(err)
	op := domainagg.OpOf(err)
	msg := "request failed"
	if op != "" {
		msg = op + " failed"
	}
	switch code {
	case domainagg.CodeValidation:
		return New(http.StatusBadRequest, string(code), domainagg.PublicError(err))
	case domainagg.CodeNotFound:
		return New(http.StatusNotFound, string(code), fmt.Errorf("%s: contact not found", op))
	case domainagg.CodeConflict:
		return New(http.StatusConflict, string(code), fmt.Errorf("%s: contact already exists", op))
	case domainagg.CodeRetryable:
		return New(http.StatusServiceUnavailable, string(code), fmt.Errorf("%s", msg))
	case "":
		return New(http.StatusInternalServerError, string(domainagg.CodeInternal), fmt.Errorf("request failed"))
	default:
		return New(http.StatusInternalServerError, string(code), fmt.Errorf("%s", msg))
	}
}
