package utils

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/query"
)

// Error codes sent when an AppError carries no database code.
const (
	CodeJWTInvalid       = "PGRST301"
	CodeInvalidQuery     = "PGRST100"
	CodeNotAcceptable    = "PGRST116"
	CodePermissionDenied = "42501"
)

// ErrorBody is the PostgREST error shape.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// AuthErrorBody is the auth API error shape.
type AuthErrorBody struct {
	Code      int    `json:"code"`
	ErrorCode string `json:"error_code,omitempty"`
	Msg       string `json:"msg"`
}

// ErrorResponse sends an error with a custom status code and message.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Message: message})
}

// ErrorResponseWithError maps err onto a status and PostgREST error body.
// Errors that are not AppErrors are reported without their details.
func ErrorResponseWithError(c *gin.Context, err error) {
	if stderrors.Is(err, query.ErrInvalidQuery) {
		c.JSON(http.StatusBadRequest, ErrorBody{Code: CodeInvalidQuery, Message: err.Error()})
		return
	}

	appErr := errors.GetAppError(err)
	if appErr == nil {
		c.JSON(http.StatusInternalServerError, ErrorBody{Message: "Internal server error occurred"})
		return
	}

	body := ErrorBody{Code: appErr.PGCode, Message: appErr.Message, Details: appErr.Details}
	if body.Code == "" {
		switch appErr.Type {
		case errors.ErrorTypeUnauthorized:
			body.Code = CodeJWTInvalid
		case errors.ErrorTypeForbidden:
			body.Code = CodePermissionDenied
		}
	}
	c.JSON(appErr.Code, body)
}

// AuthErrorResponse sends err in the auth API shape.
func AuthErrorResponse(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		c.JSON(http.StatusInternalServerError, AuthErrorBody{Code: http.StatusInternalServerError, Msg: "Internal server error occurred"})
		return
	}
	c.JSON(appErr.Code, AuthErrorBody{Code: appErr.Code, ErrorCode: string(appErr.Type), Msg: appErr.Message})
}
