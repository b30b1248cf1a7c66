// controllers/credit_sale.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"salonflow-backend/config"
	"salonflow-backend/fiado"
	"salonflow-backend/models"
	"salonflow-backend/settlement"
	"salonflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput is one item sold on credit
type ProductInput struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=1"`
}

// CreateCreditSaleInput defines the expected JSON structure for opening a fiado sale
type CreateCreditSaleInput struct {
	ClientName           string         `json:"clientName" binding:"required"`
	Products             []ProductInput `json:"products" binding:"required,min=1"`
	TotalAmount          float64        `json:"totalAmount" binding:"required,gt=0"`
	NumberOfInstallments int            `json:"numberOfInstallments" binding:"required,min=1"`
	FirstDueDate         *time.Time     `json:"firstDueDate"`
}

// PayInstallmentInput defines the expected JSON structure for settling an installment
type PayInstallmentInput struct {
	Method   string     `json:"method" binding:"required"`
	PaidDate *time.Time `json:"paidDate"`
}

func joinProducts(products []ProductInput) string {
	parts := make([]string, 0, len(products))
	for _, p := range products {
		name := strings.TrimSpace(p.Name)
		if p.Quantity > 1 {
			name += " (" + strconv.Itoa(p.Quantity) + "x)"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

// CreateCreditSale opens a fiado sale and generates its installment schedule
func CreateCreditSale(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateCreditSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	firstDue := utils.AddMonthsClamped(utils.BeginningOfDay(time.Now()), 1)
	if input.FirstDueDate != nil {
		firstDue = *input.FirstDueDate
	}

	sale := models.CreditSale{
		ID:                   uuid.New(),
		UserID:               userUUID,
		ClientName:           strings.TrimSpace(input.ClientName),
		Products:             joinProducts(input.Products),
		TotalAmount:          input.TotalAmount,
		TotalPaid:            0,
		RemainingAmount:      input.TotalAmount,
		NumberOfInstallments: input.NumberOfInstallments,
		Status:               models.CreditSaleOpen,
	}
	sale.Installments = models.BuildInstallmentSchedule(sale.ID, sale.TotalAmount, sale.NumberOfInstallments, firstDue)

	if err := config.DB.Create(&sale).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create credit sale")
		return
	}

	c.JSON(http.StatusCreated, sale)
}

// GetCreditSales retrieves all credit sales, optionally filtered by ?status=
func GetCreditSales(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Installments").Where("user_id = ?", userUUID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var sales []models.CreditSale
	if err := query.Order("created_at DESC").Find(&sales).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve credit sales")
		return
	}

	c.JSON(http.StatusOK, sales)
}

// GetCreditSale retrieves a credit sale with its schedule and decoded products
func GetCreditSale(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	saleUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var sale models.CreditSale
	if err := config.DB.Preload("Installments").
		Where("user_id = ? AND id = ?", userUUID, saleUUID).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Credit sale not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"creditSale": sale,
		"products":   fiado.ParseProductList(sale.Products),
	})
}

// PayInstallment settles one installment of a credit sale and records the
// payment as a transaction carrying the structured fiado reference
func PayInstallment(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	saleUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid installment number")
		return
	}

	var input PayInstallmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	paidDate := time.Now()
	if input.PaidDate != nil {
		paidDate = *input.PaidDate
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var sale models.CreditSale
	if err := tx.Where("user_id = ? AND id = ?", userUUID, saleUUID).
		First(&sale).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Credit sale not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var installment models.Installment
	if err := tx.Where("credit_sale_id = ? AND installment_number = ?", sale.ID, number).
		First(&installment).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Installment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if installment.Status == models.InstallmentPaid {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Installment already paid")
		return
	}

	installment.Status = models.InstallmentPaid
	installment.PaidDate = &paidDate
	if err := tx.Save(&installment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update installment")
		return
	}

	amount := decimal.NewFromFloat(installment.Amount)
	totalPaid := decimal.NewFromFloat(sale.TotalPaid).Add(amount)
	remaining := decimal.NewFromFloat(sale.TotalAmount).Sub(totalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	sale.TotalPaid = totalPaid.InexactFloat64()
	sale.RemainingAmount = remaining.InexactFloat64()
	if remaining.LessThanOrEqual(settlement.Tolerance) {
		sale.RemainingAmount = 0
		sale.Status = models.CreditSalePaid
	}
	if err := tx.Save(&sale).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update credit sale")
		return
	}

	ref := fiado.Reference{
		ClientName:        sale.ClientName,
		InstallmentNumber: installment.InstallmentNumber,
		TotalInstallments: sale.NumberOfInstallments,
	}

	payment := models.Transaction{
		ID:                     uuid.New(),
		UserID:                 userUUID,
		TransactionDate:        paidDate,
		Subtotal:               installment.Amount,
		Discount:               0,
		Total:                  installment.Amount,
		PaymentMethod:          input.Method,
		Description:            fiado.FormatReference(ref),
		FiadoClientName:        ref.ClientName,
		FiadoInstallmentNumber: ref.InstallmentNumber,
		FiadoTotalInstallments: ref.TotalInstallments,
		Allocations: []models.PaymentAllocation{{
			ID:     uuid.New(),
			Method: input.Method,
			Amount: installment.Amount,
		}},
	}
	payment.ReferenceNumber = "TRX-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)

	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment transaction")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{
		"creditSale":  sale,
		"installment": installment,
		"transaction": payment,
	})
}
