package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sampleOverdueRow() overdueRow {
	return overdueRow{
		CreditSaleID:      uuid.New(),
		InstallmentID:     uuid.New(),
		ClientName:        "Maria Silva",
		WhatsApp:          "+5511987654321",
		InstallmentNumber: 2,
		TotalInstallments: 6,
		Amount:            33.34,
		DueDate:           time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestReminderMessage(t *testing.T) {
	message := reminderMessage(sampleOverdueRow(), "Studio Glamour")

	assert.Equal(t,
		"Olá Maria Silva! A parcela 2/6 de R$ 33,34 venceu em 10/08/2026. Quando puder, passe no Studio Glamour para acertar. Obrigado!",
		message)
}

func TestNewReminderLogSent(t *testing.T) {
	userID := uuid.New()
	row := sampleOverdueRow()

	entry := newReminderLog(userID, row, "mensagem", nil)

	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, row.CreditSaleID, entry.CreditSaleID)
	assert.Equal(t, row.InstallmentID, entry.InstallmentID)
	assert.Equal(t, "Maria Silva", entry.ClientName)
	assert.Equal(t, "mensagem", entry.Message)
	assert.Equal(t, "sent", entry.Status)
	assert.Empty(t, entry.ErrorMessage)
	assert.Equal(t, "whatsapp", entry.Channel)
	assert.False(t, entry.SentAt.IsZero())
}

func TestNewReminderLogFailed(t *testing.T) {
	row := sampleOverdueRow()

	entry := newReminderLog(uuid.New(), row, "mensagem", errors.New("twilio: unreachable"))

	assert.Equal(t, "failed", entry.Status)
	assert.Equal(t, "twilio: unreachable", entry.ErrorMessage)
}
