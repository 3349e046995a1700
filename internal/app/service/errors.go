package service

import (
	"errors"
	"strings"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrProducerNotFound   = errors.New("producer not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCustomerNotFound   = errors.New("customer profile not found")
)

type ValidationKind int

const (
	ValidationInvalid ValidationKind = iota
	ValidationMissing
	ValidationRange
)

// ValidationError lists the request fields that were missing or unusable.
type ValidationError struct {
	Kind    ValidationKind
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

func missingFields(fields ...string) error {
	return &ValidationError{Kind: ValidationMissing, Message: "Missing required fields", Fields: fields}
}

func outOfRange(fields ...string) error {
	return &ValidationError{Kind: ValidationRange, Message: "Invalid numeric values", Fields: fields}
}

func invalidFields(message string, fields ...string) error {
	return &ValidationError{Kind: ValidationInvalid, Message: message, Fields: fields}
}

// blank reports whether an optional string is absent or only whitespace.
func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
