package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID           `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	User        *User               `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName"`
	Phone       string              `json:"phone"`
	Address     string              `json:"address"`
	Preferences CustomerPreferences `json:"preferences"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Preferences.FavoriteCategories == nil {
		c.Preferences.FavoriteCategories = []string{}
	}
	return nil
}
