package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// price is a JSON number, not a quoted string
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProducerID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"producerId"`
	Producer    *Producer       `gorm:"constraint:OnDelete:CASCADE" json:"producer,omitempty"`
	Name        string          `gorm:"not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Category    string          `gorm:"not null;index" json:"category"`
	Unit        string          `gorm:"not null" json:"unit"` // kg, piece, bunch...
	Description string          `gorm:"type:text" json:"description"`
	Images      StringList      `json:"images"`
	IsAvailable bool            `gorm:"not null;index" json:"isAvailable"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Images == nil {
		p.Images = StringList{}
	}
	return nil
}
