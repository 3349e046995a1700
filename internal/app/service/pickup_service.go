package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/veissa/tiredOfLife/internal/app/repository"
)

// PickupPoint is where a customer can collect an order from one shop.
type PickupPoint struct {
	ProducerID   uuid.UUID `json:"producerId"`
	ShopName     string    `json:"shopName"`
	Address      string    `json:"address"`
	Location     string    `json:"location"`
	Hours        string    `json:"hours"`
	Instructions string    `json:"instructions"`
	Contact      string    `json:"contact"`
}

type PickupService interface {
	List() ([]PickupPoint, error)
}

type pickupService struct {
	producerRepo repository.ProducerRepository
}

func NewPickupService(producerRepo repository.ProducerRepository) PickupService {
	return &pickupService{producerRepo: producerRepo}
}

// List returns one point per active shop that published a pickup location,
// ordered by shop name.
func (s *pickupService) List() ([]PickupPoint, error) {
	producers, err := s.producerRepo.FindActive()
	if err != nil {
		return nil, err
	}

	points := []PickupPoint{}
	for _, p := range producers {
		if strings.TrimSpace(p.PickupInfo.Location) == "" {
			continue
		}
		points = append(points, PickupPoint{
			ProducerID:   p.ID,
			ShopName:     p.ShopName,
			Address:      p.Address,
			Location:     p.PickupInfo.Location,
			Hours:        p.PickupInfo.Hours,
			Instructions: p.PickupInfo.Instructions,
			Contact:      p.PickupInfo.Contact,
		})
	}
	return points, nil
}
