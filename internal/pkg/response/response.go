package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The public API serializes payloads as-is; errors travel as an "error"
// field. /summary reports logical failures with a 200 status, so callers
// must check the field, not the status code.

// ErrorPayload is the wire shape of a logical error.
type ErrorPayload struct {
	Error string `json:"error"`
}

// OK writes the payload with a 200 status.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// OKError writes a logical error payload with a 200 status.
func OKError(c *gin.Context, message string) {
	c.JSON(http.StatusOK, ErrorPayload{Error: message})
}

// BadRequest writes a 400 error payload.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorPayload{Error: message})
}

// InternalError writes a 500 error payload.
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorPayload{Error: message})
}
