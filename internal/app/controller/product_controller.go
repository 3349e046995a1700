package controller

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veissa/tiredOfLife/internal/app/service"
	apperrors "github.com/veissa/tiredOfLife/internal/errors"
	"github.com/veissa/tiredOfLife/internal/middleware"
	"github.com/veissa/tiredOfLife/internal/spreadsheet"
	"github.com/veissa/tiredOfLife/internal/storage"
)

const productImageField = "image"

type ProductController struct {
	productService service.ProductService
	uploader       *storage.ImageUploader
}

func NewProductController(productService service.ProductService, uploader *storage.ImageUploader) *ProductController {
	return &ProductController{
		productService: productService,
		uploader:       uploader,
	}
}

// ListProducts returns available products with their producer
// GET /api/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.ListAvailable()
	if err != nil {
		respondServiceError(c, err, "list products")
		return
	}

	log.Debug("Products fetched", map[string]interface{}{
		"count": len(products),
	})
	c.JSON(http.StatusOK, products)
}

// GetProduct returns a product by ID
// GET /api/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.Get(id)
	if err != nil {
		respondServiceError(c, err, "get product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListOwnProducts returns products of every shop the caller owns
// GET /api/products/producer
func (ctrl *ProductController) ListOwnProducts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	products, err := ctrl.productService.ListOwn(userID)
	if err != nil {
		respondServiceError(c, err, "list producer products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// ExportOwnProducts sends the caller's catalog as an XLSX workbook
// GET /api/products/producer/export
func (ctrl *ProductController) ExportOwnProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	products, err := ctrl.productService.ListOwn(userID)
	if err != nil {
		respondServiceError(c, err, "export products")
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteProducts(&buf, products); err != nil {
		log.Error("Failed to build product export", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to build the export")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
	c.Data(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
}

// CreateProduct adds a product to one of the caller's shops
// POST /api/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	input, ok := ctrl.bindProductInput(c)
	if !ok {
		return
	}

	product, err := ctrl.productService.Create(userID, input)
	if err != nil {
		ctrl.uploader.Discard(c.Request.Context(), input.Image)
		respondServiceError(c, err, "create product")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"user_id":    userID,
	})
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct merges the sent fields into a product the caller owns
// PUT /api/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	input, ok := ctrl.bindProductInput(c)
	if !ok {
		return
	}
	input.ProducerID = nil

	product, err := ctrl.productService.Update(id, userID, input)
	if err != nil {
		ctrl.uploader.Discard(c.Request.Context(), input.Image)
		respondServiceError(c, err, "update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product the caller owns
// DELETE /api/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.Delete(id, userID); err != nil {
		respondServiceError(c, err, "delete product")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Product deleted", map[string]interface{}{
		"product_id": id,
		"user_id":    userID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

func (ctrl *ProductController) bindProductInput(c *gin.Context) (service.ProductInput, bool) {
	fields, err := readRequestFields(c)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, apperrors.ValidationInvalidInput, "Malformed request body", nil)
		return service.ProductInput{}, false
	}

	isAvailable, err := fields.boolean("isAvailable")
	if err != nil {
		apperrors.RespondWithValidationError(c, apperrors.ValidationInvalidInput, err.Error(), []string{"isAvailable"})
		return service.ProductInput{}, false
	}

	image, ok := saveUpload(c, ctrl.uploader, productImageField)
	if !ok {
		return service.ProductInput{}, false
	}

	return service.ProductInput{
		Name:        fields.str("name"),
		Price:       fields.str("price"),
		Stock:       fields.str("stock"),
		Category:    fields.str("category"),
		Unit:        fields.str("unit"),
		Description: fields.str("description"),
		IsAvailable: isAvailable,
		ProducerID:  fields.str("producerId"),
		Image:       image,
	}, true
}
