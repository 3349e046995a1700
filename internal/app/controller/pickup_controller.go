package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veissa/tiredOfLife/internal/app/service"
)

type PickupController struct {
	pickupService service.PickupService
}

func NewPickupController(pickupService service.PickupService) *PickupController {
	return &PickupController{pickupService: pickupService}
}

// ListPickupPoints returns the pickup locations of active producers
// GET /api/pickup-points
func (ctrl *PickupController) ListPickupPoints(c *gin.Context) {
	points, err := ctrl.pickupService.List()
	if err != nil {
		respondServiceError(c, err, "list pickup points")
		return
	}
	c.JSON(http.StatusOK, points)
}
