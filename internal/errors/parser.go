package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo is a classified error safe to return to clients.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError classifies storage errors (gorm, PostgreSQL and SQLite driver
// messages) without leaking driver detail. context names the operation,
// e.g. "create product".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: notFoundCode(context), Message: notFoundMessage(context)}
	}

	lower := strings.ToLower(err.Error())

	// 23505
	if strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint") {
		if strings.Contains(lower, "email") {
			return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email already registered"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Record already exists"}
	}

	// 23503
	if strings.Contains(lower, "foreign key constraint") {
		return ErrorInfo{Code: notFoundCode(context), Message: "Referenced record not found"}
	}

	// 23502
	if strings.Contains(lower, "not-null constraint") || strings.Contains(lower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	// 23514
	if strings.Contains(lower, "check constraint") {
		return ErrorInfo{Code: ValidationInvalidRange, Message: "A field is out of range"}
	}

	return ErrorInfo{Code: InternalDatabase, Message: defaultMessage(context)}
}

func notFoundCode(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "product"):
		return ProductNotFound
	case strings.Contains(lower, "producer"):
		return ProducerNotFound
	case strings.Contains(lower, "customer"):
		return CustomerNotFound
	default:
		return ResourceNotFound
	}
}

func notFoundMessage(context string) string {
	switch notFoundCode(context) {
	case ProductNotFound:
		return "Product not found"
	case ProducerNotFound:
		return "Producer not found"
	case CustomerNotFound:
		return "Customer profile not found"
	default:
		return "Resource not found"
	}
}

func defaultMessage(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "create"):
		return "Failed to create the record, please retry later"
	case strings.Contains(lower, "update"):
		return "Failed to update the record, please retry later"
	case strings.Contains(lower, "delete"):
		return "Failed to delete the record, please retry later"
	default:
		return "Internal server error"
	}
}

// ParseAndRespond classifies err and writes the matching status and body.
func ParseAndRespond(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	RespondWithError(c, StatusFor(info.Code), info.Code, info.Message)
}
