package repository

import (
	"github.com/google/uuid"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/pkg/logger"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindByUserID(userID uuid.UUID) (*model.Customer, error)
	Update(customer *model.Customer) error
	WithTx(tx *gorm.DB) CustomerRepository
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) WithTx(tx *gorm.DB) CustomerRepository {
	return &customerRepository{db: tx}
}

func (r *customerRepository) Create(customer *model.Customer) error {
	logger.Debug("Creating customer in database", logger.Fields{
		"user_id": customer.UserID,
	})

	if err := r.db.Omit("User").Create(customer).Error; err != nil {
		logger.Error("Failed to create customer in database", err, logger.Fields{
			"user_id": customer.UserID,
		})
		return err
	}

	logger.Debug("Customer created in database", logger.Fields{
		"customer_id": customer.ID,
	})
	return nil
}

func (r *customerRepository) FindByUserID(userID uuid.UUID) (*model.Customer, error) {
	logger.Debug("Finding customer by user ID in database", logger.Fields{
		"user_id": userID,
	})

	var customer model.Customer
	if err := r.db.Where("user_id = ?", userID).First(&customer).Error; err != nil {
		logger.Error("Failed to find customer by user ID in database", err, logger.Fields{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Customer found in database", logger.Fields{
		"customer_id": customer.ID,
	})
	return &customer, nil
}

func (r *customerRepository) Update(customer *model.Customer) error {
	logger.Debug("Updating customer in database", logger.Fields{
		"customer_id": customer.ID,
	})

	if err := r.db.Omit("User").Save(customer).Error; err != nil {
		logger.Error("Failed to update customer in database", err, logger.Fields{
			"customer_id": customer.ID,
		})
		return err
	}

	logger.Debug("Customer updated in database", logger.Fields{
		"customer_id": customer.ID,
	})
	return nil
}
