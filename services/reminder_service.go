// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"salonflow-backend/models"
	"salonflow-backend/settlement"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.ProcessOverdueInstallments)

	c.Start()
	log.Println("Installment reminder scheduler started")
}

// ProcessOverdueInstallments marks pending installments past their due
// date as overdue and sends a WhatsApp reminder per affected client.
func (s *ReminderService) ProcessOverdueInstallments() {
	log.Println("Starting overdue installment processing...")

	today := time.Now()

	// Flip pending installments whose due date has passed
	if err := s.db.Model(&models.Installment{}).
		Where("status = ? AND due_date < ?", models.InstallmentPending, today).
		Update("status", models.InstallmentOverdue).Error; err != nil {
		log.Printf("Failed to mark overdue installments: %v", err)
		return
	}

	var owners []models.User
	if err := s.db.Find(&owners, "is_active = ? AND whats_app_reminders = ?", true, true).Error; err != nil {
		log.Printf("Failed to fetch salon owners: %v", err)
		return
	}

	for _, owner := range owners {
		s.remindSalonClients(owner.ID, owner.SalonName)
	}

	log.Println("Overdue installment processing completed")
}

type overdueRow struct {
	CreditSaleID      uuid.UUID
	InstallmentID     uuid.UUID
	ClientName        string
	WhatsApp          string
	InstallmentNumber int
	TotalInstallments int
	Amount            float64
	DueDate           time.Time
}

// reminderMessage renders the WhatsApp text for one overdue installment.
func reminderMessage(row overdueRow, salonName string) string {
	return fmt.Sprintf(
		"Olá %s! A parcela %d/%d de R$ %s venceu em %s. Quando puder, passe no %s para acertar. Obrigado!",
		row.ClientName,
		row.InstallmentNumber, row.TotalInstallments,
		settlement.FormatAmount(decimal.NewFromFloat(row.Amount)),
		row.DueDate.Format("02/01/2006"),
		salonName,
	)
}

// newReminderLog builds the outcome row persisted after each send attempt.
func newReminderLog(userID uuid.UUID, row overdueRow, message string, sendErr error) models.ReminderLog {
	status := "sent"
	errorMsg := ""
	if sendErr != nil {
		status = "failed"
		errorMsg = sendErr.Error()
	}
	return models.ReminderLog{
		UserID:        userID,
		CreditSaleID:  row.CreditSaleID,
		InstallmentID: row.InstallmentID,
		ClientName:    row.ClientName,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		Channel:       "whatsapp",
		SentAt:        time.Now(),
	}
}

func (s *ReminderService) remindSalonClients(userID uuid.UUID, salonName string) {
	var rows []overdueRow
	err := s.db.Raw(`
        SELECT cs.id as credit_sale_id, i.id as installment_id,
               cs.client_name, COALESCE(c.whats_app, '') as whats_app,
               i.installment_number, cs.number_of_installments as total_installments,
               i.amount, i.due_date
        FROM installments i
        JOIN credit_sales cs ON cs.id = i.credit_sale_id
        LEFT JOIN clients c ON c.user_id = cs.user_id
            AND LOWER(c.name) = LOWER(cs.client_name) AND c.deleted_at IS NULL
        WHERE cs.user_id = ? AND cs.deleted_at IS NULL
        AND i.status = ?
        ORDER BY cs.client_name, i.installment_number
    `, userID, models.InstallmentOverdue).Scan(&rows).Error
	if err != nil {
		log.Printf("Salon %s: failed to fetch overdue installments: %v", userID, err)
		return
	}

	for _, row := range rows {
		if row.WhatsApp == "" {
			// No contact on file; nothing to send
			continue
		}

		message := reminderMessage(row, salonName)

		params := &twilioApi.CreateMessageParams{}
		params.SetTo("whatsapp:" + row.WhatsApp)
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
		params.SetBody(message)

		resp, sendErr := s.client.Api.CreateMessage(params)
		if sendErr != nil {
			log.Printf("Failed to send reminder to %s: %v", row.WhatsApp, sendErr)
		} else if resp.Sid != nil {
			log.Printf("Reminder sent to %s, SID: %s", row.WhatsApp, *resp.Sid)
		} else {
			log.Printf("Reminder sent to %s, but no SID returned", row.WhatsApp)
		}

		// Persist the outcome either way
		reminderLog := newReminderLog(userID, row, message, sendErr)
		if err := s.db.Create(&reminderLog).Error; err != nil {
			log.Printf("Failed to log reminder for %s: %v", row.ClientName, err)
		}
	}
}
