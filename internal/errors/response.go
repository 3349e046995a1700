package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine code from codes.go
	Message string `json:"message"` // human readable, safe to display
}

// RespondWithError writes an error body and aborts the handler chain.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError is the 400 body listing the offending fields.
type ValidationError struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields"`
}

func RespondWithValidationError(c *gin.Context, code string, message string, fields []string) {
	if message == "" {
		message = "Invalid input"
	}
	if fields == nil {
		fields = []string{}
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationError{
		Error:   code,
		Message: message,
		Fields:  fields,
	})
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case AuthUnauthorized, AuthInvalidCredentials, AuthTokenExpired, AuthTokenInvalid, AuthTokenRevoked:
		return http.StatusUnauthorized
	case AuthzForbidden, AuthzRoleNotFound:
		return http.StatusForbidden
	case ResourceNotFound, ProducerNotFound, ProductNotFound, CustomerNotFound:
		return http.StatusNotFound
	case AuthEmailAlreadyExists, ValidationInvalidInput, ValidationInvalidID, ValidationRequired,
		ValidationInvalidRange, UploadInvalidFileType, UploadFileTooLarge:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
