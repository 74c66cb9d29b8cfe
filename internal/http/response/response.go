package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contactbook-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes e, falling back to a bare 500 when e is nil.
func RespondAPIError(c *gin.Context, e *apierr.Error) {
	if e == nil {
		RespondError(c, http.StatusInternalServerError, "internal", nil)
		return
	}
	RespondError(c, e.Status, e.Code, e.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
