package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"collabcanvas-app/logutils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Error is an API-visible error with an HTTP status. Details, when set, is
// included verbatim in the response body.
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func Validation(message string) *Error {
	return newError(http.StatusBadRequest, "validation_error", message)
}

func Unauthenticated(message string) *Error {
	return newError(http.StatusUnauthorized, "unauthenticated", message)
}

func Forbidden(message string) *Error {
	return newError(http.StatusForbidden, "forbidden", message)
}

func NotFound(message string) *Error {
	return newError(http.StatusNotFound, "not_found", message)
}

func Conflict(message string) *Error {
	return newError(http.StatusConflict, "conflict", message)
}

// QuotaExceeded reports the per-user contribution cap. remaining is the
// number of slots still open before the rejected request.
func QuotaExceeded(message string, remaining int) *Error {
	e := newError(http.StatusForbidden, "quota_exceeded", message)
	e.Details = gin.H{"slotsRemaining": remaining}
	return e
}

// Respond writes err to the client. Unknown errors become an opaque 500;
// their detail goes to the log only.
func Respond(c *gin.Context, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		body := gin.H{"error": apiErr.Message, "code": apiErr.Code}
		if apiErr.Details != nil {
			body["details"] = apiErr.Details
		}
		c.JSON(apiErr.Status, body)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "not_found"})
		return
	}
	logutils.Log.WithError(err).Error("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
