package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/app/repository"
	"github.com/veissa/tiredOfLife/pkg/logger"
	"gorm.io/gorm"
)

// decimal(10,2) upper bound
var maxPrice = decimal.New(1, 8)

// ProductInput carries the fields of a create or update request as sent.
// Price and Stock stay textual so form and JSON bodies validate the same way.
type ProductInput struct {
	Name        *string
	Price       *string
	Stock       *string
	Category    *string
	Unit        *string
	Description *string
	IsAvailable *bool
	ProducerID  *string
	Image       string
}

type ProductService interface {
	ListAvailable() ([]model.Product, error)
	Get(id uuid.UUID) (*model.Product, error)
	ListOwn(userID uuid.UUID) ([]model.Product, error)
	Create(userID uuid.UUID, input ProductInput) (*model.Product, error)
	Update(id, userID uuid.UUID, input ProductInput) (*model.Product, error)
	Delete(id, userID uuid.UUID) error
}

type productService struct {
	productRepo  repository.ProductRepository
	producerRepo repository.ProducerRepository
}

func NewProductService(productRepo repository.ProductRepository, producerRepo repository.ProducerRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		producerRepo: producerRepo,
	}
}

func (s *productService) ListAvailable() ([]model.Product, error) {
	return s.productRepo.FindAvailable()
}

func (s *productService) Get(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListOwn(userID uuid.UUID) ([]model.Product, error) {
	return s.productRepo.FindByUser(userID)
}

func (s *productService) Create(userID uuid.UUID, input ProductInput) (*model.Product, error) {
	var missing []string
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"name", input.Name},
		{"price", input.Price},
		{"stock", input.Stock},
		{"category", input.Category},
		{"unit", input.Unit},
	} {
		if blank(f.value) {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	price, stock, err := parsePriceAndStock(input.Price, input.Stock)
	if err != nil {
		return nil, err
	}

	producer, err := s.resolveProducer(userID, input.ProducerID)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		ProducerID:  producer.ID,
		Name:        trimmed(input.Name),
		Price:       *price,
		Stock:       *stock,
		Category:    trimmed(input.Category),
		Unit:        trimmed(input.Unit),
		Description: trimmed(input.Description),
		Images:      model.StringList{},
		IsAvailable: true,
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if input.Image != "" {
		product.Images = model.StringList{input.Image}
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	product.Producer = producer

	logger.Info("Product created", logger.Fields{
		"product_id":  product.ID,
		"producer_id": producer.ID,
	})
	return product, nil
}

// resolveProducer picks the shop a new product belongs to: the requested
// one when owned by the user, otherwise the user's oldest shop.
func (s *productService) resolveProducer(userID uuid.UUID, requested *string) (*model.Producer, error) {
	var (
		producer *model.Producer
		err      error
	)
	if !blank(requested) {
		id, parseErr := uuid.Parse(trimmed(requested))
		if parseErr != nil {
			return nil, invalidFields("Invalid producer id", "producerId")
		}
		producer, err = s.producerRepo.FindByIDAndUser(id, userID)
	} else {
		producer, err = s.producerRepo.FindFirstByUser(userID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Producer profile not found for product", logger.Fields{"user_id": userID})
			return nil, ErrProducerNotFound
		}
		return nil, err
	}
	return producer, nil
}

func (s *productService) Update(id, userID uuid.UUID, input ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found or not owned", logger.Fields{
				"product_id": id,
				"user_id":    userID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var emptied []string
	setText := func(name string, value *string, dst *string) {
		if value == nil {
			return
		}
		if blank(value) {
			emptied = append(emptied, name)
			return
		}
		*dst = trimmed(value)
	}
	setText("name", input.Name, &product.Name)
	setText("category", input.Category, &product.Category)
	setText("unit", input.Unit, &product.Unit)
	if input.Price != nil && blank(input.Price) {
		emptied = append(emptied, "price")
	}
	if input.Stock != nil && blank(input.Stock) {
		emptied = append(emptied, "stock")
	}
	if len(emptied) > 0 {
		return nil, missingFields(emptied...)
	}

	price, stock, err := parsePriceAndStock(input.Price, input.Stock)
	if err != nil {
		return nil, err
	}
	if price != nil {
		product.Price = *price
	}
	if stock != nil {
		product.Stock = *stock
	}
	if input.Description != nil {
		product.Description = trimmed(input.Description)
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if input.Image != "" {
		product.Images = model.StringList{input.Image}
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", logger.Fields{"product_id": id})
	return product, nil
}

func (s *productService) Delete(id, userID uuid.UUID) error {
	if err := s.productRepo.DeleteByIDAndUser(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	logger.Info("Product deleted", logger.Fields{
		"product_id": id,
		"user_id":    userID,
	})
	return nil
}

// parsePriceAndStock validates whichever of price and stock were sent.
// Price is rounded to cents.
func parsePriceAndStock(rawPrice, rawStock *string) (*decimal.Decimal, *int, error) {
	var (
		bad   []string
		price *decimal.Decimal
		stock *int
	)
	if !blank(rawPrice) {
		p, err := decimal.NewFromString(strings.ReplaceAll(trimmed(rawPrice), ",", "."))
		if err != nil || p.IsNegative() || p.GreaterThanOrEqual(maxPrice) {
			bad = append(bad, "price")
		} else {
			p = p.Round(2)
			price = &p
		}
	}
	if !blank(rawStock) {
		n, err := strconv.Atoi(trimmed(rawStock))
		if err != nil || n < 0 {
			bad = append(bad, "stock")
		} else {
			stock = &n
		}
	}
	if len(bad) > 0 {
		return nil, nil, outOfRange(bad...)
	}
	return price, stock, nil
}
