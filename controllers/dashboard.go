package controllers

import (
	"net/http"
	"time"

	"salonflow-backend/config"
	"salonflow-backend/models"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalClients       int64               `json:"totalClients"`
	MonthlyRevenue     float64             `json:"monthlyRevenue"`
	MonthlyExpenses    float64             `json:"monthlyExpenses"`
	OpenFiadoBalance   float64             `json:"openFiadoBalance"`
	OverdueCount       int64               `json:"overdueCount"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
}

type RecentTransaction struct {
	ID            string    `json:"id"`
	ClientName    string    `json:"clientName"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"paymentMethod"`
	Date          time.Time `json:"date"`
}

func GetDashboardOverview(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var overview DashboardOverview

	config.DB.Model(&models.Client{}).
		Where("user_id = ? AND deleted_at IS NULL", userUUID).
		Count(&overview.TotalClients)

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	config.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND transaction_date >= ? AND deleted_at IS NULL", userUUID, firstOfMonth).
		Select("COALESCE(SUM(total), 0)").Scan(&overview.MonthlyRevenue)

	config.DB.Model(&models.Expense{}).
		Where("user_id = ? AND expense_date >= ? AND deleted_at IS NULL", userUUID, firstOfMonth).
		Select("COALESCE(SUM(amount), 0)").Scan(&overview.MonthlyExpenses)

	config.DB.Model(&models.CreditSale{}).
		Where("user_id = ? AND status = ? AND deleted_at IS NULL", userUUID, models.CreditSaleOpen).
		Select("COALESCE(SUM(remaining_amount), 0)").Scan(&overview.OpenFiadoBalance)

	config.DB.Raw(`
        SELECT COUNT(*) FROM installments i
        JOIN credit_sales cs ON cs.id = i.credit_sale_id
        WHERE cs.user_id = ? AND cs.deleted_at IS NULL
        AND i.status <> 'paid' AND i.due_date < ?
    `, userUUID, now).Scan(&overview.OverdueCount)

	overview.RecentTransactions = []RecentTransaction{}
	config.DB.Raw(`
        SELECT t.id, COALESCE(c.name, t.fiado_client_name, '') as client_name,
               t.total, t.payment_method, t.transaction_date as date
        FROM transactions t
        LEFT JOIN clients c ON c.id = t.client_id
        WHERE t.user_id = ? AND t.deleted_at IS NULL
        ORDER BY t.transaction_date DESC
        LIMIT 5
    `, userUUID).Scan(&overview.RecentTransactions)

	c.JSON(http.StatusOK, overview)
}
