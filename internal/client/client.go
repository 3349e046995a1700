// Package client is a Go client for the marketplace REST API. Authenticated
// calls take an explicit *Session; the client itself holds no user state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/veissa/tiredOfLife/internal/app/model"
)

const defaultTimeout = 15 * time.Second

var ErrNoSession = errors.New("not logged in")

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// User is the authenticated account as returned by login and me. Profile
// holds a producer or customer object, or null.
type User struct {
	ID      uuid.UUID       `json:"id"`
	Email   string          `json:"email"`
	Role    model.UserRole  `json:"role"`
	Profile json.RawMessage `json:"profile,omitempty"`
}

// Session is the token and identity of a logged in user.
type Session struct {
	Token string
	User  User
}

type PickupPoint struct {
	ProducerID   uuid.UUID `json:"producerId"`
	ShopName     string    `json:"shopName"`
	Address      string    `json:"address"`
	Location     string    `json:"location"`
	Hours        string    `json:"hours"`
	Instructions string    `json:"instructions"`
	Contact      string    `json:"contact"`
}

// Image is a file sent with a create request.
type Image struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

type RegisterRequest struct {
	Email       string                 `json:"email"`
	Password    string                 `json:"password"`
	Role        model.UserRole         `json:"role,omitempty"`
	ProfileData map[string]interface{} `json:"profileData,omitempty"`
}

type ProducerForm struct {
	ShopName       string
	Description    string
	Address        string
	Certifications []string
	PickupInfo     *model.PickupInfo
}

type ProductForm struct {
	ProducerID  *uuid.UUID
	Name        string
	Price       string
	Stock       int
	Category    string
	Unit        string
	Description string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API at baseURL. httpClient may be nil.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ImageURL is where a stored upload can be downloaded.
func (c *Client) ImageURL(filename string) string {
	return c.baseURL + "/uploads/" + url.PathEscape(filename)
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &Session{Token: resp.Token, User: resp.User}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return &Session{Token: resp.Token, User: resp.User}, nil
}

func (c *Client) Me(ctx context.Context, s *Session) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", s, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Logout(ctx context.Context, s *Session) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", s, nil, nil)
}

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := c.doJSON(ctx, http.MethodGet, "/api/products", nil, nil, &products)
	return products, err
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products/"+id.String(), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) ListProducers(ctx context.Context) ([]model.Producer, error) {
	var producers []model.Producer
	err := c.doJSON(ctx, http.MethodGet, "/api/producers", nil, nil, &producers)
	return producers, err
}

func (c *Client) MyProducers(ctx context.Context, s *Session) ([]model.Producer, error) {
	var producers []model.Producer
	err := c.doJSON(ctx, http.MethodGet, "/api/producers/profile", s, nil, &producers)
	return producers, err
}

func (c *Client) MyProducts(ctx context.Context, s *Session) ([]model.Product, error) {
	var products []model.Product
	err := c.doJSON(ctx, http.MethodGet, "/api/products/producer", s, nil, &products)
	return products, err
}

func (c *Client) PickupPoints(ctx context.Context) ([]PickupPoint, error) {
	var points []PickupPoint
	err := c.doJSON(ctx, http.MethodGet, "/api/pickup-points", nil, nil, &points)
	return points, err
}

func (c *Client) CreateProducer(ctx context.Context, s *Session, form ProducerForm, image *Image) (*model.Producer, error) {
	fields := [][2]string{
		{"shopName", form.ShopName},
		{"description", form.Description},
		{"address", form.Address},
	}
	for _, cert := range form.Certifications {
		fields = append(fields, [2]string{"certifications", cert})
	}
	if form.PickupInfo != nil {
		b, err := json.Marshal(form.PickupInfo)
		if err != nil {
			return nil, err
		}
		fields = append(fields, [2]string{"pickupInfo", string(b)})
	}

	var producer model.Producer
	if err := c.doMultipart(ctx, http.MethodPost, "/api/producers/profile", s, fields, "shopImage", image, &producer); err != nil {
		return nil, err
	}
	return &producer, nil
}

func (c *Client) CreateProduct(ctx context.Context, s *Session, form ProductForm, image *Image) (*model.Product, error) {
	fields := [][2]string{
		{"name", form.Name},
		{"price", form.Price},
		{"stock", fmt.Sprint(form.Stock)},
		{"category", form.Category},
		{"unit", form.Unit},
		{"description", form.Description},
	}
	if form.ProducerID != nil {
		fields = append(fields, [2]string{"producerId", form.ProducerID.String()})
	}

	var product model.Product
	if err := c.doMultipart(ctx, http.MethodPost, "/api/products", s, fields, "image", image, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct sends only the given fields, e.g. {"stock": 3}.
func (c *Client) UpdateProduct(ctx context.Context, s *Session, id uuid.UUID, changes map[string]interface{}) (*model.Product, error) {
	var product model.Product
	if err := c.doJSON(ctx, http.MethodPut, "/api/products/"+id.String(), s, changes, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, s *Session, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/products/"+id.String(), s, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, s *Session, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, s, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, s *Session, fields [][2]string, fileField string, image *Image, out interface{}) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, image.Filename))
		h.Set("Content-Type", image.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, image.Data); err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, method, path, s, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, s *Session, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s != nil {
		if s.Token == "" {
			return nil, ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Error   string   `json:"error"`
			Message string   `json:"message"`
			Fields  []string `json:"fields"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Code = body.Error
			apiErr.Message = body.Message
			apiErr.Fields = body.Fields
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
