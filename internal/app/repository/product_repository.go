package repository

import (
	"github.com/google/uuid"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/pkg/logger"
	"gorm.io/gorm"
)

// ProductRepository reads and writes catalog entries. The *AndUser and
// ByUser methods filter through the owning producer's user_id inside the
// query itself.
type ProductRepository interface {
	Create(product *model.Product) error
	FindAvailable() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByUser(userID uuid.UUID) ([]model.Product, error)
	FindByIDAndUser(id, userID uuid.UUID) (*model.Product, error)
	Update(product *model.Product) error
	DeleteByIDAndUser(id, userID uuid.UUID) error
	ListImageReferences() ([]string, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) ownedProducerIDs(userID uuid.UUID) *gorm.DB {
	return r.db.Model(&model.Producer{}).Select("id").Where("user_id = ?", userID)
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", logger.Fields{
		"producer_id": product.ProducerID,
		"name":        product.Name,
	})

	if err := r.db.Omit("Producer").Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, logger.Fields{
			"producer_id": product.ProducerID,
			"name":        product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", logger.Fields{
		"product_id": product.ID,
	})
	return nil
}

// FindAvailable lists products open for sale, newest first, with their shop.
func (r *productRepository) FindAvailable() ([]model.Product, error) {
	logger.Debug("Finding available products in database")

	var products []model.Product
	err := r.db.Preload("Producer").
		Where("is_available = ?", true).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find available products in database", err)
		return nil, err
	}

	logger.Debug("Available products found in database", logger.Fields{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uuid.UUID) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", logger.Fields{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.Preload("Producer").Where("id = ?", id).First(&product).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, logger.Fields{
			"product_id": id,
		})
		return nil, err
	}

	logger.Debug("Product found by ID in database", logger.Fields{
		"product_id": product.ID,
	})
	return &product, nil
}

func (r *productRepository) FindByUser(userID uuid.UUID) ([]model.Product, error) {
	logger.Debug("Finding products by owner in database", logger.Fields{
		"user_id": userID,
	})

	var products []model.Product
	err := r.db.Preload("Producer").
		Where("producer_id IN (?)", r.ownedProducerIDs(userID)).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find products by owner in database", err, logger.Fields{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Products found by owner in database", logger.Fields{
		"user_id": userID,
		"count":   len(products),
	})
	return products, nil
}

func (r *productRepository) FindByIDAndUser(id, userID uuid.UUID) (*model.Product, error) {
	logger.Debug("Finding owned product in database", logger.Fields{
		"product_id": id,
		"user_id":    userID,
	})

	var product model.Product
	err := r.db.Preload("Producer").
		Where("id = ? AND producer_id IN (?)", id, r.ownedProducerIDs(userID)).
		First(&product).Error
	if err != nil {
		logger.Error("Failed to find owned product in database", err, logger.Fields{
			"product_id": id,
			"user_id":    userID,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", logger.Fields{
		"product_id": product.ID,
	})

	if err := r.db.Omit("Producer").Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, logger.Fields{
			"product_id": product.ID,
		})
		return err
	}

	logger.Debug("Product updated in database", logger.Fields{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) DeleteByIDAndUser(id, userID uuid.UUID) error {
	logger.Debug("Deleting owned product from database", logger.Fields{
		"product_id": id,
		"user_id":    userID,
	})

	result := r.db.Where("id = ? AND producer_id IN (?)", id, r.ownedProducerIDs(userID)).
		Delete(&model.Product{})
	if result.Error != nil {
		logger.Error("Failed to delete product from database", result.Error, logger.Fields{
			"product_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Product deleted from database", logger.Fields{
		"product_id": id,
	})
	return nil
}

// ListImageReferences returns every upload name referenced by a product.
func (r *productRepository) ListImageReferences() ([]string, error) {
	var products []model.Product
	if err := r.db.Select("images").Find(&products).Error; err != nil {
		logger.Error("Failed to list product images", err)
		return nil, err
	}

	var names []string
	for _, p := range products {
		names = append(names, p.Images...)
	}
	return names, nil
}
