package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is stored as a PostgreSQL TEXT[] (array literal text on other dialects).
// Nil and empty lists both encode as [] in JSON.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	return pq.StringArray(s.orEmpty()).Value()
}

func (s *StringList) Scan(value interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(value); err != nil {
		return err
	}
	*s = StringList(arr).orEmpty()
	return nil
}

func (StringList) GormDataType() string {
	return "text[]"
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (s StringList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(s.orEmpty()))
}

func (s StringList) orEmpty() StringList {
	if s == nil {
		return StringList{}
	}
	return s
}

// Contains reports whether v is in the list.
func (s StringList) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// PickupInfo describes where and when customers collect orders from a producer.
type PickupInfo struct {
	Location     string `json:"location,omitempty"`
	Hours        string `json:"hours,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Contact      string `json:"contact,omitempty"`
}

// ParsePickupInfo decodes pickup info sent as JSON text.
func ParsePickupInfo(raw string) (PickupInfo, error) {
	var info PickupInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return PickupInfo{}, err
	}
	return info, nil
}

func (p PickupInfo) IsZero() bool {
	return p == PickupInfo{}
}

func (p PickupInfo) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *PickupInfo) Scan(value interface{}) error {
	return scanJSON(value, p)
}

func (PickupInfo) GormDataType() string {
	return "jsonb"
}

func (PickupInfo) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

// CustomerPreferences holds a customer's storefront settings.
type CustomerPreferences struct {
	FavoriteCategories []string `json:"favoriteCategories"`
	Notifications      bool     `json:"notifications"`
	Newsletter         bool     `json:"newsletter"`
}

func (p CustomerPreferences) Value() (driver.Value, error) {
	if p.FavoriteCategories == nil {
		p.FavoriteCategories = []string{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *CustomerPreferences) Scan(value interface{}) error {
	if err := scanJSON(value, p); err != nil {
		return err
	}
	if p.FavoriteCategories == nil {
		p.FavoriteCategories = []string{}
	}
	return nil
}

func (CustomerPreferences) GormDataType() string {
	return "jsonb"
}

func (CustomerPreferences) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

func jsonColumnType(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

func scanJSON(value interface{}, dest interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported JSON column value")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
