package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/veissa/tiredOfLife/internal/app/service"
	apperrors "github.com/veissa/tiredOfLife/internal/errors"
	"github.com/veissa/tiredOfLife/internal/middleware"
	"github.com/veissa/tiredOfLife/internal/storage"
)

// parseIDParam reads a uuid path parameter, answering 400 when malformed.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			name: raw,
		})
		apperrors.RespondWithValidationError(c, apperrors.ValidationInvalidID, "Invalid ID", []string{name})
		return uuid.Nil, false
	}
	return id, true
}

// requireUserID returns the authenticated user, answering 401 when absent.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return uuid.Nil, false
	}
	return userID, true
}

// respondServiceError maps service sentinels to responses. Anything
// unrecognized is logged and classified as a storage error.
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		code := apperrors.ValidationInvalidInput
		switch verr.Kind {
		case service.ValidationMissing:
			code = apperrors.ValidationRequired
		case service.ValidationRange:
			code = apperrors.ValidationInvalidRange
		}
		log.Warn("Validation failed", map[string]interface{}{
			"context": context,
			"fields":  verr.Fields,
		})
		apperrors.RespondWithValidationError(c, code, verr.Message, verr.Fields)
	case errors.Is(err, service.ErrProducerNotFound):
		apperrors.NotFound(c, apperrors.ProducerNotFound, "Producer not found")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrCustomerNotFound):
		apperrors.NotFound(c, apperrors.CustomerNotFound, "Customer profile not found")
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		apperrors.BadRequest(c, apperrors.AuthEmailAlreadyExists, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
	default:
		log.Error("Request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, err, context)
	}
}

// saveUpload stores the optional image sent under field. It returns an
// empty name when no file was sent and false when a response was written.
func saveUpload(c *gin.Context, uploader *storage.ImageUploader, field string) (string, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", true
		}
		middleware.GetLoggerFromContext(c).Warn("Malformed multipart body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Malformed multipart body")
		return "", false
	}

	name, err := uploader.SaveImage(c.Request.Context(), field, fh)
	if err != nil {
		log := middleware.GetLoggerFromContext(c)
		switch {
		case errors.Is(err, storage.ErrInvalidFileType):
			log.Warn("Rejected upload", map[string]interface{}{
				"field":        field,
				"content_type": fh.Header.Get("Content-Type"),
			})
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Not an image! Please upload only images.")
		case errors.Is(err, storage.ErrFileTooLarge):
			log.Warn("Rejected upload", map[string]interface{}{
				"field": field,
				"size":  fh.Size,
			})
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "File too large")
		default:
			log.Error("Failed to store upload", err, map[string]interface{}{
				"field": field,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to store the uploaded file")
		}
		return "", false
	}
	return name, true
}
