package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/veissa/tiredOfLife/internal/errors"
	"github.com/veissa/tiredOfLife/internal/middleware"
	"github.com/veissa/tiredOfLife/internal/storage"
)

type UploadController struct {
	store storage.FileStorage
}

func NewUploadController(store storage.FileStorage) *UploadController {
	return &UploadController{
		store: store,
	}
}

// ServeUpload streams a stored image
// GET /uploads/:filename
func (ctrl *UploadController) ServeUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	name := c.Param("filename")
	if !storage.ValidName(name) {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "File not found")
		return
	}

	rc, err := ctrl.store.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "File not found")
			return
		}
		log.Error("Failed to open upload", err, map[string]interface{}{
			"filename": name,
		})
		apperrors.InternalError(c, "")
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, storage.ContentTypeFor(name), rc, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}
