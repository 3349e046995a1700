package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/app/service"
	apperrors "github.com/veissa/tiredOfLife/internal/errors"
	"github.com/veissa/tiredOfLife/internal/middleware"
)

type CustomerController struct {
	customerService service.CustomerService
}

func NewCustomerController(customerService service.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService}
}

// GetProfile returns the caller's customer profile
// GET /api/customers/profile
func (ctrl *CustomerController) GetProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	customer, err := ctrl.customerService.Get(userID)
	if err != nil {
		respondServiceError(c, err, "get customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateProfile merges the sent fields into the caller's profile
// PUT /api/customers/profile
func (ctrl *CustomerController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fields, err := readRequestFields(c)
	if err != nil {
		log.Warn("Invalid customer request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, apperrors.ValidationInvalidInput, "Malformed request body", nil)
		return
	}

	input := service.CustomerInput{
		FirstName: fields.str("firstName"),
		LastName:  fields.str("lastName"),
		Phone:     fields.str("phone"),
		Address:   fields.str("address"),
	}
	if raw := fields.str("preferences"); raw != nil {
		var prefs model.CustomerPreferences
		if err := json.Unmarshal([]byte(*raw), &prefs); err != nil {
			apperrors.RespondWithValidationError(c, apperrors.ValidationInvalidInput, "Invalid preferences", []string{"preferences"})
			return
		}
		input.Preferences = &prefs
	}

	customer, err := ctrl.customerService.Update(userID, input)
	if err != nil {
		respondServiceError(c, err, "update customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}
