package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/app/repository"
	"github.com/veissa/tiredOfLife/internal/app/service"
	"github.com/veissa/tiredOfLife/internal/db"
	"github.com/veissa/tiredOfLife/internal/middleware"
	"github.com/veissa/tiredOfLife/internal/storage"
	"gorm.io/gorm"
)

func setupProductControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(testDB)
	producerRepo := repository.NewProducerRepository(testDB)
	productController := NewProductController(
		service.NewProductService(productRepo, producerRepo),
		storage.NewImageUploader(store, 1<<20),
	)

	owner := &model.User{Email: "owner@example.com", PasswordHash: "hashed-password", Role: model.RoleProducer}
	require.NoError(t, testDB.Create(owner).Error)
	producer := &model.Producer{UserID: owner.ID, ShopName: "Ferme X", Description: "d", Address: "a", IsActive: true}
	require.NoError(t, testDB.Create(producer).Error)
	product := &model.Product{
		ProducerID:  producer.ID,
		Name:        "Tomates",
		Price:       decimal.RequireFromString("4.50"),
		Stock:       10,
		Category:    "Légumes",
		Unit:        "kg",
		Description: "Round",
		IsAvailable: true,
	}
	require.NoError(t, productRepo.Create(product))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, owner.ID)
		c.Set(middleware.UserRoleKey, owner.Role)
		c.Next()
	})
	router.GET("/products/:id", productController.GetProduct)
	router.PUT("/products/:id", productController.UpdateProduct)

	return router, testDB, product
}

func putForm(router *gin.Engine, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProductController_UpdateMergesSentFields(t *testing.T) {
	router, testDB, product := setupProductControllerTest(t)

	w := putForm(router, "/products/"+product.ID.String(), url.Values{
		"price":       {"5"},
		"isAvailable": {"false"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored model.Product
	require.NoError(t, testDB.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, "Tomates", stored.Name)
	assert.Equal(t, "Round", stored.Description)
	assert.Equal(t, 10, stored.Stock)
	assert.True(t, decimal.RequireFromString("5").Equal(stored.Price))
	assert.False(t, stored.IsAvailable)
}

func TestProductController_UpdateErrors(t *testing.T) {
	router, _, product := setupProductControllerTest(t)

	tests := []struct {
		name       string
		path       string
		values     url.Values
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Malformed id",
			path:       "/products/123",
			values:     url.Values{"name": {"x"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_INVALID_ID",
		},
		{
			name:       "Unknown product",
			path:       "/products/" + uuid.NewString(),
			values:     url.Values{"name": {"x"}},
			wantStatus: http.StatusNotFound,
			wantCode:   "PRODUCT_NOT_FOUND",
		},
		{
			name:       "Bad boolean",
			path:       "/products/" + product.ID.String(),
			values:     url.Values{"isAvailable": {"maybe"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_INVALID_INPUT",
		},
		{
			name:       "Blank name",
			path:       "/products/" + product.ID.String(),
			values:     url.Values{"name": {"  "}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_REQUIRED",
		},
		{
			name:       "Negative stock",
			path:       "/products/" + product.ID.String(),
			values:     url.Values{"stock": {"-2"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_INVALID_RANGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := putForm(router, tt.path, tt.values)
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp["error"])
		})
	}
}

func TestProductController_GetProduct(t *testing.T) {
	router, _, product := setupProductControllerTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/"+product.ID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4.5, resp["price"])
	assert.Equal(t, "Ferme X", resp["producer"].(map[string]interface{})["shopName"])
}
