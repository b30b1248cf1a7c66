package models

import (
	"time"

	"salonflow-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CreditSaleOpen = "open"
	CreditSalePaid = "paid"
)

const (
	InstallmentPending = "pending"
	InstallmentPaid    = "paid"
	InstallmentOverdue = "overdue"
)

type CreditSale struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	ClientName string `gorm:"not null;index"`
	// Comma-joined product list with optional "(Nx)" quantity suffixes,
	// decoded by fiado.ParseProductList
	Products string

	TotalAmount          float64 `gorm:"type:decimal(10,2);not null"`
	TotalPaid            float64 `gorm:"type:decimal(10,2);default:0.0"`
	RemainingAmount      float64 `gorm:"type:decimal(10,2);not null"`
	NumberOfInstallments int     `gorm:"not null"`
	Status               string  `gorm:"default:'open'"`

	Installments []Installment `gorm:"foreignKey:CreditSaleID"`

	gorm.Model
}

type Installment struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CreditSaleID uuid.UUID `gorm:"type:uuid;index;not null"`

	InstallmentNumber int       `gorm:"not null"`
	Amount            float64   `gorm:"type:decimal(10,2);not null"`
	DueDate           time.Time `gorm:"not null"`
	PaidDate          *time.Time
	Status            string `gorm:"default:'pending'"`
}

// BuildInstallmentSchedule splits a sale total into n monthly installments.
// Amounts are an even 2-decimal split with the last installment absorbing
// the rounding remainder, so the schedule always sums back to the total.
func BuildInstallmentSchedule(saleID uuid.UUID, total float64, n int, firstDue time.Time) []Installment {
	if n < 1 {
		n = 1
	}

	totalDec := decimal.NewFromFloat(total)
	base := totalDec.Div(decimal.NewFromInt(int64(n))).RoundDown(2)
	last := totalDec.Sub(base.Mul(decimal.NewFromInt(int64(n - 1)))).Round(2)

	installments := make([]Installment, 0, n)
	for i := 1; i <= n; i++ {
		amount := base
		if i == n {
			amount = last
		}
		installments = append(installments, Installment{
			ID:                uuid.New(),
			CreditSaleID:      saleID,
			InstallmentNumber: i,
			Amount:            amount.InexactFloat64(),
			DueDate:           utils.AddMonthsClamped(firstDue, i-1),
			Status:            InstallmentPending,
		})
	}
	return installments
}
