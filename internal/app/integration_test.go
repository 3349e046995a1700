package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veissa/tiredOfLife/config"
	"github.com/veissa/tiredOfLife/internal/app/controller"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/app/repository"
	"github.com/veissa/tiredOfLife/internal/app/service"
	"github.com/veissa/tiredOfLife/internal/db"
	"github.com/veissa/tiredOfLife/internal/middleware"
	"github.com/veissa/tiredOfLife/internal/router"
	"github.com/veissa/tiredOfLife/internal/spreadsheet"
	"github.com/veissa/tiredOfLife/internal/storage"
	"github.com/veissa/tiredOfLife/pkg/util"
	"gorm.io/gorm"
)

const testSecret = "integration-test-secret"

// memoryBlacklist stands in for the Redis blacklist.
type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (b *memoryBlacklist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ttl > 0 {
		b.revoked[token] = time.Now().Add(ttl)
	}
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.revoked[token]
	return ok && time.Now().Before(exp), nil
}

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
	Store  storage.FileStorage
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: testSecret, Expiry: 24 * time.Hour},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:8080"}},
		Upload: config.UploadConfig{Driver: config.UploadDriverLocal, MaxBytes: 5 << 20},
	}

	userRepo := repository.NewUserRepository(testDB)
	producerRepo := repository.NewProducerRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)

	blacklist := &memoryBlacklist{revoked: map[string]time.Time{}}
	uploader := storage.NewImageUploader(store, cfg.Upload.MaxBytes)

	authService := service.NewAuthService(testDB, userRepo, producerRepo, customerRepo, cfg.JWT.Secret, cfg.JWT.Expiry, blacklist)

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewProducerController(service.NewProducerService(producerRepo), uploader),
		controller.NewProductController(service.NewProductService(productRepo, producerRepo), uploader),
		controller.NewCustomerController(service.NewCustomerService(customerRepo)),
		controller.NewPickupController(service.NewPickupService(producerRepo)),
		controller.NewUploadController(store),
		middleware.NewAuthMiddleware(cfg.JWT.Secret, blacklist),
		cfg,
	)

	return &TestServer{Router: r.Setup(), DB: testDB, Store: store}
}

func (ts *TestServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

type upload struct {
	field, filename, contentType string
	content                      []byte
}

func (ts *TestServer) doMultipart(t *testing.T, method, path, token string, fields map[string][]string, file *upload) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.field, file.filename))
		h.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (ts *TestServer) registerProducer(t *testing.T, email, shop string) (string, uuid.UUID) {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
		"role":     "producer",
		"profileData": map[string]interface{}{
			"shopName":    shop,
			"description": "Local produce",
			"address":     "1 Farm Road",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)

	w = ts.do(t, http.MethodGet, "/api/producers/profile", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var producers []model.Producer
	decode(t, w, &producers)
	require.Len(t, producers, 1)
	return resp.Token, producers[0].ID
}

func (ts *TestServer) registerCustomer(t *testing.T, email string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
		"profileData": map[string]interface{}{
			"firstName": "Bea",
			"lastName":  "Client",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	return resp.Token
}

func (ts *TestServer) createProduct(t *testing.T, token string, fields map[string]interface{}) map[string]interface{} {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/products", token, fields)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product map[string]interface{}
	decode(t, w, &product)
	return product
}

func TestRegisterThenLogin_TokenCarriesIdentity(t *testing.T) {
	ts := setupIntegrationTest(t)

	tests := []struct {
		name string
		body map[string]interface{}
		role string
	}{
		{
			name: "Customer by default",
			body: map[string]interface{}{"email": "Bea@Example.com", "password": "password123"},
			role: "customer",
		},
		{
			name: "Producer",
			body: map[string]interface{}{
				"email": "farm@example.com", "password": "password123", "role": "producer",
				"profileData": map[string]interface{}{"shopName": "Ferme X", "description": "d", "address": "a"},
			},
			role: "producer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			var reg struct {
				Message string `json:"message"`
				Token   string `json:"token"`
				User    struct {
					ID    string `json:"id"`
					Email string `json:"email"`
					Role  string `json:"role"`
				} `json:"user"`
			}
			decode(t, w, &reg)
			assert.Equal(t, "User registered successfully", reg.Message)
			assert.Equal(t, tt.role, reg.User.Role)

			w = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
				"email":    tt.body["email"],
				"password": "password123",
			})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var login struct {
				Token string                 `json:"token"`
				User  map[string]interface{} `json:"user"`
			}
			decode(t, w, &login)
			assert.NotNil(t, login.User["profile"])

			claims, err := util.ValidateToken(login.Token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, reg.User.ID, claims.UserID.String())
			assert.Equal(t, tt.role, claims.Role)
		})
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := setupIntegrationTest(t)
	ts.registerCustomer(t, "bea@example.com")

	for _, body := range []map[string]interface{}{
		{"email": "bea@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "password123"},
	} {
		w := ts.do(t, http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupIntegrationTest(t)
	ts.registerCustomer(t, "dup@example.com")

	w := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "DUP@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")

	var count int64
	require.NoError(t, ts.DB.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_Validation(t *testing.T) {
	ts := setupIntegrationTest(t)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantFields []string
	}{
		{
			name:       "Bad email and short password",
			body:       map[string]interface{}{"email": "not-an-email", "password": "123"},
			wantFields: []string{"email", "password"},
		},
		{
			name: "Producer without shop fields",
			body: map[string]interface{}{
				"email": "p@example.com", "password": "password123", "role": "producer",
			},
			wantFields: []string{"profileData.shopName", "profileData.description", "profileData.address"},
		},
		{
			name:       "Unknown role",
			body:       map[string]interface{}{"email": "r@example.com", "password": "password123", "role": "admin"},
			wantFields: []string{"role"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			var resp struct {
				Fields []string `json:"fields"`
			}
			decode(t, w, &resp)
			assert.ElementsMatch(t, tt.wantFields, resp.Fields)
		})
	}
}

func TestScenario_ShopProductListing(t *testing.T) {
	ts := setupIntegrationTest(t)
	token, _ := ts.registerProducer(t, "a@x.com", "Ferme X")

	ts.createProduct(t, token, map[string]interface{}{
		"name": "Tomates", "price": 4.5, "stock": 10, "category": "Légumes", "unit": "kg",
	})
	ts.createProduct(t, token, map[string]interface{}{
		"name": "Hidden", "price": "1", "stock": "0", "category": "Légumes", "unit": "kg", "isAvailable": false,
	})

	w := ts.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []map[string]interface{}
	decode(t, w, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Tomates", products[0]["name"])
	assert.Equal(t, 4.5, products[0]["price"])
	for _, p := range products {
		assert.Equal(t, true, p["isAvailable"])
	}
	producer := products[0]["producer"].(map[string]interface{})
	assert.Equal(t, "Ferme X", producer["shopName"])
}

func TestScenario_CustomerCannotUseProducerRoutes(t *testing.T) {
	ts := setupIntegrationTest(t)
	token := ts.registerCustomer(t, "b@x.com")

	w := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "b@x.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/producers/profile", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHZ_FORBIDDEN")

	w = ts.do(t, http.MethodGet, "/api/producers/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestScenario_DeletedProductIsGone(t *testing.T) {
	ts := setupIntegrationTest(t)
	token, _ := ts.registerProducer(t, "a@x.com", "Ferme X")
	product := ts.createProduct(t, token, map[string]interface{}{
		"name": "Tomates", "price": 4.5, "stock": 10, "category": "Légumes", "unit": "kg",
	})
	path := "/api/products/" + product["id"].(string)

	w := ts.do(t, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")
}

func TestOwnership_OtherProducerGets404(t *testing.T) {
	ts := setupIntegrationTest(t)
	tokenA, shopA := ts.registerProducer(t, "a@x.com", "Ferme A")
	tokenB, _ := ts.registerProducer(t, "b@x.com", "Ferme B")

	product := ts.createProduct(t, tokenA, map[string]interface{}{
		"name": "Tomates", "price": 4.5, "stock": 10, "category": "Légumes", "unit": "kg",
	})
	productPath := "/api/products/" + product["id"].(string)
	shopPath := "/api/producers/profile/" + shopA.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{name: "Read shop", method: http.MethodGet, path: shopPath},
		{name: "Update shop", method: http.MethodPut, path: shopPath, body: map[string]interface{}{"shopName": "Stolen"}},
		{name: "Delete shop", method: http.MethodDelete, path: shopPath},
		{name: "Update product", method: http.MethodPut, path: productPath, body: map[string]interface{}{"name": "Stolen"}},
		{name: "Delete product", method: http.MethodDelete, path: productPath},
		{name: "Create product in foreign shop", method: http.MethodPost, path: "/api/products", body: map[string]interface{}{
			"name": "x", "price": 1, "stock": 1, "category": "c", "unit": "kg", "producerId": shopA.String(),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.method, tt.path, tokenB, tt.body)
			assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
		})
	}

	w := ts.do(t, http.MethodGet, productPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Tomates"`)

	w = ts.do(t, http.MethodGet, "/api/products/producer", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestProducer_CertificationsRoundTripAndIdempotentUpdate(t *testing.T) {
	ts := setupIntegrationTest(t)
	token, _ := ts.registerProducer(t, "a@x.com", "Ferme X")

	w := ts.doMultipart(t, http.MethodPost, "/api/producers/profile", token, map[string][]string{
		"shopName":       {"Second shop"},
		"description":    {"Cheese"},
		"address":        {"2 Farm Road"},
		"certifications": {"Bio", "Local"},
		"pickupInfo":     {"not json"},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.Producer
	decode(t, w, &created)
	assert.Equal(t, model.StringList{"Bio", "Local"}, created.Certifications)
	assert.True(t, created.PickupInfo.IsZero())

	w = ts.do(t, http.MethodGet, "/api/producers/profile/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched []model.Producer
	decode(t, w, &fetched)
	require.Len(t, fetched, 1)
	assert.Equal(t, model.StringList{"Bio", "Local"}, fetched[0].Certifications)

	update := map[string]interface{}{
		"shopName":       "Second shop renamed",
		"certifications": []string{"Local", "AOP"},
		"pickupInfo":     map[string]string{"location": "Market square", "hours": "Sat 8-12"},
	}
	var states []string
	for i := 0; i < 2; i++ {
		w = ts.do(t, http.MethodPut, "/api/producers/profile/"+created.ID.String(), token, update)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var p model.Producer
		require.NoError(t, ts.DB.First(&p, "id = ?", created.ID).Error)
		states = append(states, fmt.Sprintf("%s|%v|%s|%s", p.ShopName, []string(p.Certifications), p.PickupInfo.Location, p.Description))
	}
	assert.Equal(t, states[0], states[1])
	assert.Equal(t, "Second shop renamed|[Local AOP]|Market square|Cheese", states[0])

	w = ts.do(t, http.MethodPut, "/api/producers/profile/"+created.ID.String(), token, map[string]interface{}{
		"pickupInfo": "{broken",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var kept model.Producer
	decode(t, w, &kept)
	assert.Equal(t, "Market square", kept.PickupInfo.Location)

	w = ts.do(t, http.MethodGet, "/api/pickup-points", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var points []service.PickupPoint
	decode(t, w, &points)
	require.Len(t, points, 1)
	assert.Equal(t, "Second shop renamed", points[0].ShopName)
}

func TestProducer_MissingFieldsAndEmptyList(t *testing.T) {
	ts := setupIntegrationTest(t)
	token, shopID := ts.registerProducer(t, "a@x.com", "Ferme X")

	w := ts.do(t, http.MethodPost, "/api/producers/profile", token, map[string]interface{}{"shopName": "Only a name"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "VALIDATION_REQUIRED", resp.Error)
	assert.Equal(t, []string{"description", "address"}, resp.Fields)

	w = ts.do(t, http.MethodGet, "/api/producers/profile/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_ID")

	w = ts.do(t, http.MethodDelete, "/api/producers/profile/"+shopID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Producer profile deleted successfully")

	w = ts.do(t, http.MethodGet, "/api/producers/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "x", "price": 1, "stock": 1, "category": "c", "unit": "kg",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCER_NOT_FOUND")
}

func TestProduct_Validation(t *testing.T) {
	ts := setupIntegrationTest(t)
	token, _ := ts.registerProducer(t, "a@x.com", "Ferme X")

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantCode   string
		wantFields []string
	}{
		{
			name:       "Missing fields",
			body:       map[string]interface{}{"name": "Tomates"},
			wantCode:   "VALIDATION_REQUIRED",
			wantFields: []string{"price", "stock", "category", "unit"},
		},
		{
			name:       "Negative price",
			body:       map[string]interface{}{"name": "x", "price": -1, "stock": 1, "category": "c", "unit": "kg"},
			wantCode:   "VALIDATION_INVALID_RANGE",
			wantFields: []string{"price"},
		},
		{
			name:       "Fractional stock",
			body:       map[string]interface{}{"name": "x", "price": 1, "stock": 1.5, "category": "c", "unit": "kg"},
			wantCode:   "VALIDATION_INVALID_RANGE",
			wantFields: []string{"stock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/products", token, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			var resp struct {
				Error  string   `json:"error"`
				Fields []string `json:"fields"`
			}
			decode(t, w, &resp)
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Equal(t, tt.wantFields, resp.Fields)
		})
	}
}

func TestUploads_ImageStoredAndServed(t *testing.T) {
	ts := setupIntegrationTest(t)
	token, _ := ts.registerProducer(t, "a@x.com", "Ferme X")

	png := []byte("\x89PNG\r\n\x1a\nfake")
	w := ts.doMultipart(t, http.MethodPost, "/api/products", token, map[string][]string{
		"name": {"Tomates"}, "price": {"4,5"}, "stock": {"10"}, "category": {"Légumes"}, "unit": {"kg"},
	}, &upload{field: "image", filename: "tomates.png", contentType: "image/png", content: png})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product model.Product
	decode(t, w, &product)
	require.Len(t, product.Images, 1)
	assert.Equal(t, "4.5", product.Price.String())

	w = ts.do(t, http.MethodGet, "/uploads/"+product.Images[0], "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, png, w.Body.Bytes())

	w = ts.do(t, http.MethodGet, "/uploads/missing.png", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = ts.do(t, http.MethodGet, "/uploads/..%2Fsecret", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.doMultipart(t, http.MethodPost, "/api/products", token, map[string][]string{
		"name": {"Doc"}, "price": {"1"}, "stock": {"1"}, "category": {"c"}, "unit": {"kg"},
	}, &upload{field: "image", filename: "doc.pdf", contentType: "application/pdf", content: []byte("%PDF")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UPLOAD_INVALID_FILE_TYPE")

	// rejected create leaves no stored file behind
	w = ts.doMultipart(t, http.MethodPost, "/api/products", token, map[string][]string{
		"name": {"No price"},
	}, &upload{field: "image", filename: "a.png", contentType: "image/png", content: png})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	files, err := ts.Store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestAuth_MeAndLogout(t *testing.T) {
	ts := setupIntegrationTest(t)
	token := ts.registerCustomer(t, "bea@example.com")

	w := ts.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User struct {
			Email   string                 `json:"email"`
			Profile map[string]interface{} `json:"profile"`
		} `json:"user"`
	}
	decode(t, w, &me)
	assert.Equal(t, "bea@example.com", me.User.Email)
	assert.Equal(t, "Bea", me.User.Profile["firstName"])

	w = ts.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_REVOKED")
}

func TestCustomerProfile(t *testing.T) {
	ts := setupIntegrationTest(t)
	token := ts.registerCustomer(t, "bea@example.com")

	w := ts.do(t, http.MethodPut, "/api/customers/profile", token, map[string]interface{}{
		"phone":       "0600000000",
		"preferences": map[string]interface{}{"favoriteCategories": []string{"Fruits"}, "newsletter": true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/customers/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var customer model.Customer
	decode(t, w, &customer)
	assert.Equal(t, "Bea", customer.FirstName)
	assert.Equal(t, "0600000000", customer.Phone)
	assert.Equal(t, []string{"Fruits"}, customer.Preferences.FavoriteCategories)
	assert.True(t, customer.Preferences.Newsletter)

	producerToken, _ := ts.registerProducer(t, "a@x.com", "Ferme X")
	w = ts.do(t, http.MethodGet, "/api/customers/profile", producerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExportOwnProducts(t *testing.T) {
	ts := setupIntegrationTest(t)
	token, _ := ts.registerProducer(t, "a@x.com", "Ferme X")
	ts.createProduct(t, token, map[string]interface{}{
		"name": "Tomates", "price": 4.5, "stock": 10, "category": "Légumes", "unit": "kg",
	})

	w := ts.do(t, http.MethodGet, "/api/products/producer/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, spreadsheet.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestHealthAndCORS(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
