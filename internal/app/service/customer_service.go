package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/app/repository"
	"github.com/veissa/tiredOfLife/pkg/logger"
	"gorm.io/gorm"
)

type CustomerInput struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	Address     *string
	Preferences *model.CustomerPreferences
}

type CustomerService interface {
	Get(userID uuid.UUID) (*model.Customer, error)
	Update(userID uuid.UUID, input CustomerInput) (*model.Customer, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) Get(userID uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Update(userID uuid.UUID, input CustomerInput) (*model.Customer, error) {
	customer, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		customer.FirstName = trimmed(input.FirstName)
	}
	if input.LastName != nil {
		customer.LastName = trimmed(input.LastName)
	}
	if input.Phone != nil {
		customer.Phone = trimmed(input.Phone)
	}
	if input.Address != nil {
		customer.Address = trimmed(input.Address)
	}
	if input.Preferences != nil {
		customer.Preferences = *input.Preferences
		if customer.Preferences.FavoriteCategories == nil {
			customer.Preferences.FavoriteCategories = []string{}
		}
	}

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}

	logger.Info("Customer profile updated", logger.Fields{
		"customer_id": customer.ID,
	})
	return customer, nil
}
