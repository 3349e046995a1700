package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/app/repository"
	"github.com/veissa/tiredOfLife/pkg/logger"
	"gorm.io/gorm"
)

// ProducerInput carries the fields of a create or update request. Nil
// pointers mean the field was not sent.
type ProducerInput struct {
	ShopName       *string
	Description    *string
	Address        *string
	Certifications []string // nil when not sent
	PickupInfo     *string  // JSON text
	IsActive       *bool
	Image          string // stored upload name, empty when no file was sent
}

type ProducerService interface {
	List() ([]model.Producer, error)
	ListOwn(userID uuid.UUID) ([]model.Producer, error)
	GetOwn(id, userID uuid.UUID) (*model.Producer, error)
	Create(userID uuid.UUID, input ProducerInput) (*model.Producer, error)
	Update(id, userID uuid.UUID, input ProducerInput) (*model.Producer, error)
	Delete(id, userID uuid.UUID) error
}

type producerService struct {
	producerRepo repository.ProducerRepository
}

func NewProducerService(producerRepo repository.ProducerRepository) ProducerService {
	return &producerService{producerRepo: producerRepo}
}

func (s *producerService) List() ([]model.Producer, error) {
	return s.producerRepo.FindAll()
}

// ListOwn returns ErrProducerNotFound when the user has no shop yet.
func (s *producerService) ListOwn(userID uuid.UUID) ([]model.Producer, error) {
	producers, err := s.producerRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(producers) == 0 {
		logger.Warn("No producer profiles found", logger.Fields{"user_id": userID})
		return nil, ErrProducerNotFound
	}
	return producers, nil
}

func (s *producerService) GetOwn(id, userID uuid.UUID) (*model.Producer, error) {
	producer, err := s.producerRepo.FindByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Producer not found or not owned", logger.Fields{
				"producer_id": id,
				"user_id":     userID,
			})
			return nil, ErrProducerNotFound
		}
		return nil, err
	}
	return producer, nil
}

func (s *producerService) Create(userID uuid.UUID, input ProducerInput) (*model.Producer, error) {
	var missing []string
	if blank(input.ShopName) {
		missing = append(missing, "shopName")
	}
	if blank(input.Description) {
		missing = append(missing, "description")
	}
	if blank(input.Address) {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	producer := &model.Producer{
		UserID:         userID,
		ShopName:       trimmed(input.ShopName),
		Description:    trimmed(input.Description),
		Address:        trimmed(input.Address),
		Certifications: normalizeCertifications(input.Certifications),
		Images:         model.StringList{},
		IsActive:       true,
	}
	if input.PickupInfo != nil {
		// unparseable pickup info is stored as an empty object
		info, err := model.ParsePickupInfo(*input.PickupInfo)
		if err != nil {
			logger.Warn("Ignoring invalid pickupInfo", logger.Fields{"user_id": userID})
		}
		producer.PickupInfo = info
	}
	if input.IsActive != nil {
		producer.IsActive = *input.IsActive
	}
	if input.Image != "" {
		producer.Images = model.StringList{input.Image}
	}

	if err := s.producerRepo.Create(producer); err != nil {
		return nil, err
	}

	logger.Info("Producer profile created", logger.Fields{
		"producer_id": producer.ID,
		"user_id":     userID,
	})
	return producer, nil
}

// Update merges the sent fields over the stored shop. Invalid pickup info
// leaves the stored value untouched.
func (s *producerService) Update(id, userID uuid.UUID, input ProducerInput) (*model.Producer, error) {
	producer, err := s.GetOwn(id, userID)
	if err != nil {
		return nil, err
	}

	var emptied []string
	if input.ShopName != nil {
		if blank(input.ShopName) {
			emptied = append(emptied, "shopName")
		}
		producer.ShopName = trimmed(input.ShopName)
	}
	if input.Description != nil {
		if blank(input.Description) {
			emptied = append(emptied, "description")
		}
		producer.Description = trimmed(input.Description)
	}
	if input.Address != nil {
		if blank(input.Address) {
			emptied = append(emptied, "address")
		}
		producer.Address = trimmed(input.Address)
	}
	if len(emptied) > 0 {
		return nil, missingFields(emptied...)
	}

	if input.Certifications != nil {
		producer.Certifications = normalizeCertifications(input.Certifications)
	}
	if input.PickupInfo != nil {
		if info, err := model.ParsePickupInfo(*input.PickupInfo); err == nil {
			producer.PickupInfo = info
		} else {
			logger.Warn("Keeping stored pickupInfo, update value is invalid", logger.Fields{
				"producer_id": id,
			})
		}
	}
	if input.IsActive != nil {
		producer.IsActive = *input.IsActive
	}
	if input.Image != "" {
		producer.Images = model.StringList{input.Image}
	}

	if err := s.producerRepo.Update(producer); err != nil {
		return nil, err
	}

	logger.Info("Producer profile updated", logger.Fields{"producer_id": id})
	return producer, nil
}

func (s *producerService) Delete(id, userID uuid.UUID) error {
	if err := s.producerRepo.DeleteByIDAndUser(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProducerNotFound
		}
		return err
	}

	logger.Info("Producer profile deleted", logger.Fields{
		"producer_id": id,
		"user_id":     userID,
	})
	return nil
}

// normalizeCertifications trims entries and drops empty ones, keeping order.
func normalizeCertifications(in []string) model.StringList {
	out := model.StringList{}
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
