package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInstallmentSchedule(t *testing.T) {
	saleID := uuid.New()
	firstDue := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)

	installments := BuildInstallmentSchedule(saleID, 100.00, 3, firstDue)

	require.Len(t, installments, 3)
	assert.Equal(t, 33.33, installments[0].Amount)
	assert.Equal(t, 33.33, installments[1].Amount)
	assert.Equal(t, 33.34, installments[2].Amount, "last installment absorbs the rounding remainder")

	sum := decimal.Zero
	for i, inst := range installments {
		sum = sum.Add(decimal.NewFromFloat(inst.Amount))
		assert.Equal(t, i+1, inst.InstallmentNumber)
		assert.Equal(t, saleID, inst.CreditSaleID)
		assert.Equal(t, InstallmentPending, inst.Status)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(100)), "schedule sums back to the total, got %s", sum)

	assert.Equal(t, firstDue, installments[0].DueDate)
	assert.Equal(t, firstDue.AddDate(0, 1, 0), installments[1].DueDate)
	assert.Equal(t, firstDue.AddDate(0, 2, 0), installments[2].DueDate)
}

func TestBuildInstallmentScheduleSingle(t *testing.T) {
	firstDue := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	installments := BuildInstallmentSchedule(uuid.New(), 59.90, 1, firstDue)

	require.Len(t, installments, 1)
	assert.Equal(t, 59.90, installments[0].Amount)
	assert.Equal(t, firstDue, installments[0].DueDate)
}

func TestBuildInstallmentScheduleClampsMonthEnd(t *testing.T) {
	// Starting on Jan 31, February's due date lands on the 28th, not Mar 3
	firstDue := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	installments := BuildInstallmentSchedule(uuid.New(), 90.00, 3, firstDue)

	require.Len(t, installments, 3)
	assert.Equal(t, time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), installments[1].DueDate)
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), installments[2].DueDate)
}

func TestBuildInstallmentScheduleZeroCount(t *testing.T) {
	firstDue := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	installments := BuildInstallmentSchedule(uuid.New(), 50.00, 0, firstDue)

	require.Len(t, installments, 1, "installment count is floored at one")
	assert.Equal(t, 50.00, installments[0].Amount)
}
