package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Transaction struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	ReferenceNumber string     `gorm:"uniqueIndex;not null"`
	ClientID        *uuid.UUID `gorm:"type:uuid;index"`
	TransactionDate time.Time  `gorm:"default:CURRENT_TIMESTAMP"`

	Subtotal float64 `gorm:"type:decimal(10,2);not null"`
	Discount float64 `gorm:"type:decimal(10,2);default:0.0"`
	Total    float64 `gorm:"type:decimal(10,2);not null"`

	// Joined human-readable summary of the allocation methods,
	// e.g. "dinheiro + pix"
	PaymentMethod string
	Description   string
	Notes         string

	// Structured credit-sale reference, decoded once at the store
	// boundary. Legacy rows carry only the free-text Description and are
	// resolved through the fiado package.
	FiadoClientName        string `gorm:"index"`
	FiadoInstallmentNumber int    `gorm:"default:0"`
	FiadoTotalInstallments int    `gorm:"default:0"`

	Items       []TransactionItem   `gorm:"foreignKey:TransactionID"`
	Allocations []PaymentAllocation `gorm:"foreignKey:TransactionID"`

	gorm.Model
}

type TransactionItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	TransactionID uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceID     uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceName   string    `gorm:"not null"`
	Quantity      int       `gorm:"default:1"`
	UnitPrice     float64   `gorm:"type:decimal(10,2);not null"`
	TotalPrice    float64   `gorm:"type:decimal(10,2);not null"`
}

// PaymentAllocation is one method/amount slice of a settled transaction.
// The settlement package enforces the at-most-two rule before rows reach
// the database.
type PaymentAllocation struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	TransactionID uuid.UUID `gorm:"type:uuid;index;not null"`
	Method        string    `gorm:"not null"`
	Amount        float64   `gorm:"type:decimal(10,2);not null"`
}
