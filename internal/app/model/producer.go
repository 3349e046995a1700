package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Producer is one shop run by a producer account.
type Producer struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"userId"`                   // owner
	User           *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`                    // a user may run several shops
	ShopName       string     `gorm:"not null" json:"shopName"`                                 // shop display name
	Description    string     `gorm:"type:text;not null" json:"description"`                    // shop presentation
	Address        string     `gorm:"not null" json:"address"`                                  // postal address
	Certifications StringList `json:"certifications"`                                           // e.g. Bio, Local
	PickupInfo     PickupInfo `json:"pickupInfo"`                                               // where/when to collect
	Images         StringList `json:"images"`                                                   // stored upload names
	IsActive       bool       `gorm:"not null;index" json:"isActive"`                           // listed on storefront
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Producer) TableName() string {
	return "producers"
}

func (p *Producer) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Certifications == nil {
		p.Certifications = StringList{}
	}
	if p.Images == nil {
		p.Images = StringList{}
	}
	return nil
}
