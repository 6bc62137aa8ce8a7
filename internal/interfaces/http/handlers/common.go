// Package handlers contains the gin HTTP handlers for the analytics API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uwazilabs/haki-analytics/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error onto its HTTP status and writes the
// standard error body.  Server-side errors are masked; the original message
// only leaves the process for client errors.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = errors.DefaultMessageForCode(code)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    code.String(),
		Message: message,
	})
}

// respondValidationError writes a 400 for malformed request bodies.
func respondValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    errors.ErrCodeBadRequest.String(),
		Message: "invalid request body: " + err.Error(),
	})
}
