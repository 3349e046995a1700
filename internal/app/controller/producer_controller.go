package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/app/service"
	apperrors "github.com/veissa/tiredOfLife/internal/errors"
	"github.com/veissa/tiredOfLife/internal/middleware"
	"github.com/veissa/tiredOfLife/internal/storage"
)

const shopImageField = "shopImage"

type ProducerController struct {
	producerService service.ProducerService
	uploader        *storage.ImageUploader
}

func NewProducerController(producerService service.ProducerService, uploader *storage.ImageUploader) *ProducerController {
	return &ProducerController{
		producerService: producerService,
		uploader:        uploader,
	}
}

// ListProducers returns every producer
// GET /api/producers
func (ctrl *ProducerController) ListProducers(c *gin.Context) {
	producers, err := ctrl.producerService.List()
	if err != nil {
		respondServiceError(c, err, "list producers")
		return
	}
	c.JSON(http.StatusOK, producers)
}

// GetOwnProfile returns the caller's producer profiles, or only the one
// named by :id.
// GET /api/producers/profile
// GET /api/producers/profile/:id
func (ctrl *ProducerController) GetOwnProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if c.Param("id") == "" {
		producers, err := ctrl.producerService.ListOwn(userID)
		if err != nil {
			respondServiceError(c, err, "get producer profile")
			return
		}
		c.JSON(http.StatusOK, producers)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	producer, err := ctrl.producerService.GetOwn(id, userID)
	if err != nil {
		respondServiceError(c, err, "get producer profile")
		return
	}
	c.JSON(http.StatusOK, []model.Producer{*producer})
}

// CreateProducer creates a shop for the caller
// POST /api/producers/profile
func (ctrl *ProducerController) CreateProducer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	input, ok := ctrl.bindProducerInput(c)
	if !ok {
		return
	}

	producer, err := ctrl.producerService.Create(userID, input)
	if err != nil {
		ctrl.uploader.Discard(c.Request.Context(), input.Image)
		respondServiceError(c, err, "create producer")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Producer created", map[string]interface{}{
		"producer_id": producer.ID,
		"user_id":     userID,
	})
	c.JSON(http.StatusCreated, producer)
}

// UpdateProducer merges the sent fields into a shop owned by the caller
// PUT /api/producers/profile/:id
func (ctrl *ProducerController) UpdateProducer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	input, ok := ctrl.bindProducerInput(c)
	if !ok {
		return
	}

	producer, err := ctrl.producerService.Update(id, userID, input)
	if err != nil {
		ctrl.uploader.Discard(c.Request.Context(), input.Image)
		respondServiceError(c, err, "update producer")
		return
	}
	c.JSON(http.StatusOK, producer)
}

// DeleteProducer removes a shop owned by the caller
// DELETE /api/producers/profile/:id
func (ctrl *ProducerController) DeleteProducer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.producerService.Delete(id, userID); err != nil {
		respondServiceError(c, err, "delete producer")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Producer deleted", map[string]interface{}{
		"producer_id": id,
		"user_id":     userID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Producer profile deleted successfully",
	})
}

func (ctrl *ProducerController) bindProducerInput(c *gin.Context) (service.ProducerInput, bool) {
	fields, err := readRequestFields(c)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid producer request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, apperrors.ValidationInvalidInput, "Malformed request body", nil)
		return service.ProducerInput{}, false
	}

	isActive, err := fields.boolean("isActive")
	if err != nil {
		apperrors.RespondWithValidationError(c, apperrors.ValidationInvalidInput, err.Error(), []string{"isActive"})
		return service.ProducerInput{}, false
	}

	image, ok := saveUpload(c, ctrl.uploader, shopImageField)
	if !ok {
		return service.ProducerInput{}, false
	}

	return service.ProducerInput{
		ShopName:       fields.str("shopName"),
		Description:    fields.str("description"),
		Address:        fields.str("address"),
		Certifications: fields.list("certifications"),
		PickupInfo:     fields.str("pickupInfo"),
		IsActive:       isActive,
		Image:          image,
	}, true
}
