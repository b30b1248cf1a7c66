// controllers/transaction.go
package controllers

import (
	"errors"
	"net/http"
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

// TransactionItemInput defines the structure for a transaction item
type TransactionItemInput struct {
	ServiceID uuid.UUID `json:"serviceId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=1"`
}

// AllocationInput is one payment slice as the register form sends it.
// Amount arrives as locale text ("40,00"), exactly as typed.
type AllocationInput struct {
	Method string `json:"method" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// CreateTransactionInput defines the expected JSON structure for creating a transaction
type CreateTransactionInput struct {
	ClientID        *uuid.UUID             `json:"clientId"`
	TransactionDate *time.Time             `json:"transactionDate"`
	Items           []TransactionItemInput `json:"items" binding:"required,min=1"`
	Discount        string                 `json:"discount"`
	Allocations     []AllocationInput      `json:"allocations"`
	Description     string                 `json:"description"`
	Notes           string                 `json:"notes"`
}

// UpdateTransactionInput defines the expected JSON structure for updating a transaction
type UpdateTransactionInput struct {
	ClientID        *uuid.UUID              `json:"clientId"`
	TransactionDate *time.Time              `json:"transactionDate"`
	Items           *[]TransactionItemInput `json:"items"`
	Discount        *string                 `json:"discount"`
	Allocations     *[]AllocationInput      `json:"allocations"`
	Description     *string                 `json:"description"`
	Notes           *string                 `json:"notes"`
}

func toSettlementAllocations(inputs []AllocationInput) []settlement.Allocation {
	allocations := make([]settlement.Allocation, 0, len(inputs))
	for _, in := range inputs {
		allocations = append(allocations, settlement.Allocation{
			ID:     uuid.NewString(),
			Method: in.Method,
			Amount: in.Amount,
		})
	}
	return allocations
}

// settleOrFail runs the settlement validation and translates its errors to
// the HTTP surface. Returns false after writing the response on failure.
func settleOrFail(c *gin.Context, allocations []settlement.Allocation, total decimal.Decimal) bool {
	err := settlement.ValidateForSubmit(allocations, total)
	if err == nil {
		return true
	}

	var mismatch *settlement.AmountMismatchError
	if errors.As(err, &mismatch) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "Payment allocations do not settle the total",
			"paid":     settlement.FormatAmount(mismatch.Paid),
			"expected": settlement.FormatAmount(mismatch.Expected),
		})
		return false
	}
	utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	return false
}

// buildItems validates each service and snapshots name/price into
// transaction items, returning the decimal subtotal. A false return means
// the response was already written.
func buildItems(c *gin.Context, tx *gorm.DB, userUUID uuid.UUID, inputs []TransactionItemInput) ([]models.TransactionItem, decimal.Decimal, bool) {
	subtotal := decimal.Zero
	items := make([]models.TransactionItem, 0, len(inputs))

	for _, item := range inputs {
		var service models.Service
		if err := tx.Where("user_id = ? AND id = ?", userUUID, item.ServiceID).
			First(&service).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Service not found: "+item.ServiceID.String())
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return nil, decimal.Zero, false
		}

		price := decimal.NewFromFloat(service.Price)
		itemTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(itemTotal)

		items = append(items, models.TransactionItem{
			ID:          uuid.New(),
			ServiceID:   service.ID,
			ServiceName: service.Name,
			Quantity:    item.Quantity,
			UnitPrice:   service.Price,
			TotalPrice:  itemTotal.InexactFloat64(),
		})
	}
	return items, subtotal, true
}

// CreateTransaction registers a settled sale
func CreateTransaction(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.ClientID != nil {
		var client models.Client
		if err := config.DB.Where("user_id = ? AND id = ?", userUUID, *input.ClientID).
			First(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	items, subtotal, ok := buildItems(c, config.DB, userUUID, input.Items)
	if !ok {
		return
	}

	discount := settlement.ParseAmount(input.Discount)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	total := settlement.ComputeTotal(subtotal, discount)

	// A missing allocation list means full settlement with the default
	// method, same as the register form's initial state
	allocations := toSettlementAllocations(input.Allocations)
	if len(allocations) == 0 {
		allocations = []settlement.Allocation{settlement.NewAllocation(total)}
	}
	if len(allocations) > settlement.MaxAllocations {
		utils.RespondWithError(c, http.StatusBadRequest, settlement.ErrTooManyAllocations.Error())
		return
	}
	if !settleOrFail(c, allocations, total) {
		return
	}

	transactionDate := time.Now()
	if input.TransactionDate != nil {
		transactionDate = *input.TransactionDate
	}

	transaction := models.Transaction{
		ID:              uuid.New(),
		UserID:          userUUID,
		ClientID:        input.ClientID,
		TransactionDate: transactionDate,
		Subtotal:        subtotal.InexactFloat64(),
		Discount:        discount.InexactFloat64(),
		Total:           total.InexactFloat64(),
		PaymentMethod:   settlement.JoinMethods(allocations),
		Description:     input.Description,
		Notes:           input.Notes,
		Items:           items,
	}
	transaction.ReferenceNumber = "TRX-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)

	for _, a := range allocations {
		transaction.Allocations = append(transaction.Allocations, models.PaymentAllocation{
			ID:     uuid.New(),
			Method: a.Method,
			Amount: settlement.ParseAmount(a.Amount).InexactFloat64(),
		})
	}

	// Structured fiado reference decoded once, at the store boundary
	if ref := fiado.ParseReference(input.Description); ref != nil {
		transaction.FiadoClientName = ref.ClientName
		transaction.FiadoInstallmentNumber = ref.InstallmentNumber
		transaction.FiadoTotalInstallments = ref.TotalInstallments
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	// Update client stats
	if input.ClientID != nil {
		if err := tx.Model(&models.Client{}).Where("id = ?", *input.ClientID).
			Updates(map[string]interface{}{
				"total_visits": gorm.Expr("total_visits + ?", 1),
				"total_spent":  gorm.Expr("total_spent + ?", transaction.Total),
				"last_visit":   transactionDate,
			}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client stats")
			return
		}
	}

	tx.Commit()

	c.JSON(http.StatusCreated, transaction)
}

// GetTransactions retrieves all transactions for the salon
func GetTransactions(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var transactions []models.Transaction
	if err := config.DB.Preload("Items").Preload("Allocations").
		Where("user_id = ?", userUUID).
		Order("transaction_date DESC").
		Find(&transactions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetTransaction retrieves a transaction and, when it is a credit-sale
// payment, resolves the originating sale and installment schedule for the
// detail screen. An unresolved reference is not an error: the raw
// transaction is returned alone.
func GetTransaction(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	transactionUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var transaction models.Transaction
	if err := config.DB.Preload("Items").Preload("Allocations").
		Where("user_id = ? AND id = ?", userUUID, transactionUUID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	response := gin.H{"transaction": transaction}

	// Prefer the structured reference; fall back to parsing legacy rows
	ref := &fiado.Reference{
		ClientName:        transaction.FiadoClientName,
		InstallmentNumber: transaction.FiadoInstallmentNumber,
		TotalInstallments: transaction.FiadoTotalInstallments,
	}
	if ref.ClientName == "" || ref.TotalInstallments == 0 {
		ref = fiado.ParseReference(transaction.Description)
	}

	if ref != nil {
		var sales []models.CreditSale
		// Oldest-first so the first-match resolution policy is deterministic
		if err := config.DB.Where("user_id = ?", userUUID).
			Order("created_at ASC").Find(&sales).Error; err == nil {
			if sale := fiado.ResolveSale(ref, sales); sale != nil {
				var installments []models.Installment
				config.DB.Where("credit_sale_id = ?", sale.ID).Find(&installments)

				resolved := fiado.ResolveInstallments(ref, sale, installments)
				response["fiadoReference"] = ref
				response["creditSale"] = sale
				response["products"] = fiado.ParseProductList(sale.Products)
				response["currentInstallment"] = resolved.Current
				response["otherInstallments"] = resolved.Others
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// UpdateTransaction updates an existing transaction
func UpdateTransaction(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	transactionUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var transaction models.Transaction
	if err := tx.Preload("Items").Preload("Allocations").
		Where("user_id = ? AND id = ?", userUUID, transactionUUID).
		First(&transaction).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.ClientID != nil {
		var client models.Client
		if err := tx.Where("user_id = ? AND id = ?", userUUID, *input.ClientID).
			First(&client).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		transaction.ClientID = input.ClientID
	}

	if input.TransactionDate != nil {
		transaction.TransactionDate = *input.TransactionDate
	}

	// Replacing the item set recalculates the subtotal
	if input.Items != nil {
		if err := tx.Where("transaction_id = ?", transaction.ID).
			Delete(&models.TransactionItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing items")
			return
		}

		items, subtotal, ok := buildItems(c, tx, userUUID, *input.Items)
		if !ok {
			tx.Rollback()
			return
		}
		for i := range items {
			items[i].TransactionID = transaction.ID
		}
		transaction.Items = items
		transaction.Subtotal = subtotal.InexactFloat64()
	}

	if input.Discount != nil {
		discount := settlement.ParseAmount(*input.Discount)
		if discount.IsNegative() {
			discount = decimal.Zero
		}
		transaction.Discount = discount.InexactFloat64()
	}

	total := settlement.ComputeTotal(
		decimal.NewFromFloat(transaction.Subtotal),
		decimal.NewFromFloat(transaction.Discount))
	transaction.Total = total.InexactFloat64()

	// The allocation set must settle the (possibly new) total. When the
	// caller did not send allocations, the stored ones are rebalanced the
	// same way the form does when the total changes under it.
	var allocations []settlement.Allocation
	if input.Allocations != nil {
		allocations = toSettlementAllocations(*input.Allocations)
		if len(allocations) > settlement.MaxAllocations {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, settlement.ErrTooManyAllocations.Error())
			return
		}
	} else {
		for _, a := range transaction.Allocations {
			allocations = append(allocations, settlement.Allocation{
				ID:     a.ID.String(),
				Method: a.Method,
				Amount: settlement.FormatAmount(decimal.NewFromFloat(a.Amount)),
			})
		}
		allocations = settlement.Rebalance(allocations, total)
	}
	if len(allocations) == 0 {
		allocations = []settlement.Allocation{settlement.NewAllocation(total)}
	}
	if !settleOrFail(c, allocations, total) {
		tx.Rollback()
		return
	}

	if err := tx.Where("transaction_id = ?", transaction.ID).
		Delete(&models.PaymentAllocation{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing allocations")
		return
	}
	transaction.Allocations = nil
	for _, a := range allocations {
		transaction.Allocations = append(transaction.Allocations, models.PaymentAllocation{
			ID:            uuid.New(),
			TransactionID: transaction.ID,
			Method:        a.Method,
			Amount:        settlement.ParseAmount(a.Amount).InexactFloat64(),
		})
	}
	transaction.PaymentMethod = settlement.JoinMethods(allocations)

	if input.Description != nil {
		transaction.Description = *input.Description
		transaction.FiadoClientName = ""
		transaction.FiadoInstallmentNumber = 0
		transaction.FiadoTotalInstallments = 0
		if ref := fiado.ParseReference(*input.Description); ref != nil {
			transaction.FiadoClientName = ref.ClientName
			transaction.FiadoInstallmentNumber = ref.InstallmentNumber
			transaction.FiadoTotalInstallments = ref.TotalInstallments
		}
	}

	if input.Notes != nil {
		transaction.Notes = *input.Notes
	}

	if err := tx.Save(&transaction).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update transaction")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction soft deletes a transaction
func DeleteTransaction(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	transactionUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var transaction models.Transaction
	if err := tx.Where("user_id = ? AND id = ?", userUUID, transactionUUID).
		First(&transaction).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Where("transaction_id = ?", transaction.ID).
		Delete(&models.TransactionItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete transaction items")
		return
	}

	if err := tx.Where("transaction_id = ?", transaction.ID).
		Delete(&models.PaymentAllocation{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete payment allocations")
		return
	}

	if err := tx.Delete(&transaction).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	// Update client stats (decrement)
	if transaction.ClientID != nil {
		if err := tx.Model(&models.Client{}).Where("id = ?", *transaction.ClientID).
			Updates(map[string]interface{}{
				"total_visits": gorm.Expr("total_visits - ?", 1),
				"total_spent":  gorm.Expr("total_spent - ?", transaction.Total),
			}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client stats")
			return
		}
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
