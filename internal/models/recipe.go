package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Comment is an embedded recipe comment. Comments live inside the recipe
// row as JSONB, mirroring the document shape of the catalog.
type Comment struct {
	ID          uuid.UUID `json:"id"`
	CommenterID uuid.UUID `json:"commenterId"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CommentList is a custom type for handling comment arrays in JSONB
type CommentList []Comment

// Value implements the driver.Valuer interface
func (l CommentList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *CommentList) Scan(value interface{}) error {
	if value == nil {
		*l = CommentList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

type Recipe struct {
	ID          uuid.UUID        `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Description string           `gorm:"type:text;not null" json:"description"`
	Ingredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	PrepTime    *int             `json:"prepTime,omitempty"`
	CookTime    *int             `json:"cookTime,omitempty"`
	Servings    *int             `json:"servings,omitempty"`
	Category    string           `gorm:"size:50" json:"category,omitempty"`
	Tags        JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	Image       string           `gorm:"size:255;not null" json:"image"`
	ImageKey    string           `gorm:"size:255;not null" json:"imageKey"`
	AuthorID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"authorId"`
	Author      *Chef            `gorm:"foreignKey:AuthorID" json:"-"`
	IsPublic    bool             `gorm:"not null;default:true" json:"isPublic"`
	Likes       int              `gorm:"not null;default:0" json:"likes"`
	Comments    CommentList      `gorm:"type:jsonb;not null;default:'[]'" json:"comments"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
