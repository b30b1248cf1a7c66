package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name string `gorm:"not null;index"`
	// WhatsApp number kept as its own column instead of packed into the
	// name field. Uniqueness per salon is checked in the controller since
	// the column may be empty.
	WhatsApp    string `gorm:"index"`
	Notes       string
	TotalVisits int     `gorm:"default:0"`
	TotalSpent  float64 `gorm:"type:decimal(10,2);default:0.0"`
	LastVisit   *time.Time
	IsActive    bool `gorm:"default:true"`

	Transactions []Transaction `gorm:"foreignKey:ClientID"`

	gorm.Model
}
