package repository

import (
	"github.com/google/uuid"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/pkg/logger"
	"gorm.io/gorm"
)

// ProducerRepository reads and writes shops. Methods taking a userID only
// ever see rows owned by that user, so foreign ids surface as
// gorm.ErrRecordNotFound rather than a permission error.
type ProducerRepository interface {
	Create(producer *model.Producer) error
	FindAll() ([]model.Producer, error)
	FindActive() ([]model.Producer, error)
	FindByUser(userID uuid.UUID) ([]model.Producer, error)
	FindFirstByUser(userID uuid.UUID) (*model.Producer, error)
	FindByIDAndUser(id, userID uuid.UUID) (*model.Producer, error)
	Update(producer *model.Producer) error
	DeleteByIDAndUser(id, userID uuid.UUID) error
	ListImageReferences() ([]string, error)
	WithTx(tx *gorm.DB) ProducerRepository
}

type producerRepository struct {
	db *gorm.DB
}

func NewProducerRepository(db *gorm.DB) ProducerRepository {
	return &producerRepository{db: db}
}

func (r *producerRepository) WithTx(tx *gorm.DB) ProducerRepository {
	return &producerRepository{db: tx}
}

func (r *producerRepository) Create(producer *model.Producer) error {
	logger.Debug("Creating producer in database", logger.Fields{
		"user_id":   producer.UserID,
		"shop_name": producer.ShopName,
	})

	if err := r.db.Omit("User").Create(producer).Error; err != nil {
		logger.Error("Failed to create producer in database", err, logger.Fields{
			"user_id": producer.UserID,
		})
		return err
	}

	logger.Debug("Producer created in database", logger.Fields{
		"producer_id": producer.ID,
	})
	return nil
}

func (r *producerRepository) FindAll() ([]model.Producer, error) {
	logger.Debug("Finding all producers in database")

	var producers []model.Producer
	if err := r.db.Order("created_at DESC").Find(&producers).Error; err != nil {
		logger.Error("Failed to find producers in database", err)
		return nil, err
	}

	logger.Debug("Producers found in database", logger.Fields{
		"count": len(producers),
	})
	return producers, nil
}

func (r *producerRepository) FindActive() ([]model.Producer, error) {
	logger.Debug("Finding active producers in database")

	var producers []model.Producer
	if err := r.db.Where("is_active = ?", true).Order("shop_name ASC").Find(&producers).Error; err != nil {
		logger.Error("Failed to find active producers in database", err)
		return nil, err
	}

	logger.Debug("Active producers found in database", logger.Fields{
		"count": len(producers),
	})
	return producers, nil
}

func (r *producerRepository) FindByUser(userID uuid.UUID) ([]model.Producer, error) {
	logger.Debug("Finding producers by user in database", logger.Fields{
		"user_id": userID,
	})

	var producers []model.Producer
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&producers).Error; err != nil {
		logger.Error("Failed to find producers by user in database", err, logger.Fields{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Producers found by user in database", logger.Fields{
		"user_id": userID,
		"count":   len(producers),
	})
	return producers, nil
}

// FindFirstByUser returns the user's oldest shop.
func (r *producerRepository) FindFirstByUser(userID uuid.UUID) (*model.Producer, error) {
	logger.Debug("Finding first producer by user in database", logger.Fields{
		"user_id": userID,
	})

	var producer model.Producer
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").First(&producer).Error; err != nil {
		logger.Error("Failed to find first producer by user in database", err, logger.Fields{
			"user_id": userID,
		})
		return nil, err
	}
	return &producer, nil
}

func (r *producerRepository) FindByIDAndUser(id, userID uuid.UUID) (*model.Producer, error) {
	logger.Debug("Finding owned producer in database", logger.Fields{
		"producer_id": id,
		"user_id":     userID,
	})

	var producer model.Producer
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&producer).Error; err != nil {
		logger.Error("Failed to find owned producer in database", err, logger.Fields{
			"producer_id": id,
			"user_id":     userID,
		})
		return nil, err
	}

	logger.Debug("Owned producer found in database", logger.Fields{
		"producer_id": producer.ID,
	})
	return &producer, nil
}

func (r *producerRepository) Update(producer *model.Producer) error {
	logger.Debug("Updating producer in database", logger.Fields{
		"producer_id": producer.ID,
	})

	if err := r.db.Omit("User").Save(producer).Error; err != nil {
		logger.Error("Failed to update producer in database", err, logger.Fields{
			"producer_id": producer.ID,
		})
		return err
	}

	logger.Debug("Producer updated in database", logger.Fields{
		"producer_id": producer.ID,
	})
	return nil
}

func (r *producerRepository) DeleteByIDAndUser(id, userID uuid.UUID) error {
	logger.Debug("Deleting owned producer from database", logger.Fields{
		"producer_id": id,
		"user_id":     userID,
	})

	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Producer{})
	if result.Error != nil {
		logger.Error("Failed to delete producer from database", result.Error, logger.Fields{
			"producer_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Producer deleted from database", logger.Fields{
		"producer_id": id,
	})
	return nil
}

// ListImageReferences returns every upload name referenced by a shop.
func (r *producerRepository) ListImageReferences() ([]string, error) {
	var producers []model.Producer
	if err := r.db.Select("images").Find(&producers).Error; err != nil {
		logger.Error("Failed to list producer images", err)
		return nil, err
	}

	var names []string
	for _, p := range producers {
		names = append(names, p.Images...)
	}
	return names, nil
}
