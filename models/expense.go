package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseCategory struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name   string    `gorm:"not null"`
	Color  string    `gorm:"default:'#9E9E9E'"`
	Icon   string

	Expenses []Expense `gorm:"foreignKey:CategoryID"`
}

type Expense struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null"`

	Description string
	Amount      float64   `gorm:"type:decimal(10,2);not null"`
	ExpenseDate time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	gorm.Model
}
