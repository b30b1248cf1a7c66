// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"salonflow-backend/config"
	"salonflow-backend/models"
	"salonflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportController handles all reporting functions
type ReportController struct{}

// AnalyticsSummary represents the report screen's data
type AnalyticsSummary struct {
	CurrentMonthRevenue  float64              `json:"currentMonthRevenue"`
	MonthGrowth          float64              `json:"monthGrowth"`
	CurrentMonthExpenses float64              `json:"currentMonthExpenses"`
	NetResult            float64              `json:"netResult"`
	TopServices          []ServiceSummary     `json:"topServices"`
	ExpensesByCategory   []CategorySummary    `json:"expensesByCategory"`
	OverdueInstallments  []OverdueInstallment `json:"overdueInstallments"`
}

type ServiceSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type CategorySummary struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Total float64 `json:"total"`
}

type OverdueInstallment struct {
	ClientName        string    `json:"clientName"`
	InstallmentNumber int       `json:"installmentNumber"`
	Amount            float64   `json:"amount"`
	DueDate           time.Time `json:"dueDate"`
	DaysLate          int       `json:"daysLate"`
}

// GetReportAnalytics returns the complete analytics summary
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	loc := now.Location()

	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, loc)
	firstOfLastMonth := firstOfMonth.AddDate(0, -1, 0)

	var summary AnalyticsSummary

	currentMonthRevenue, err := rc.getRevenue(userUUID, firstOfMonth, now)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}
	summary.CurrentMonthRevenue = currentMonthRevenue

	lastMonthRevenue, err := rc.getRevenue(userUUID, firstOfLastMonth, firstOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month revenue")
		return
	}
	if lastMonthRevenue > 0 {
		summary.MonthGrowth = (currentMonthRevenue - lastMonthRevenue) / lastMonthRevenue * 100
	}

	config.DB.Model(&models.Expense{}).
		Where("user_id = ? AND expense_date >= ? AND deleted_at IS NULL", userUUID, firstOfMonth).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.CurrentMonthExpenses)
	summary.NetResult = summary.CurrentMonthRevenue - summary.CurrentMonthExpenses

	summary.TopServices = []ServiceSummary{}
	config.DB.Raw(`
        SELECT ti.service_name as name, SUM(ti.quantity) as count, SUM(ti.total_price) as revenue
        FROM transaction_items ti
        JOIN transactions t ON t.id = ti.transaction_id
        WHERE t.user_id = ? AND t.transaction_date >= ? AND t.deleted_at IS NULL
        GROUP BY ti.service_name
        ORDER BY revenue DESC
        LIMIT 5
    `, userUUID, firstOfMonth).Scan(&summary.TopServices)

	summary.ExpensesByCategory = []CategorySummary{}
	config.DB.Raw(`
        SELECT ec.name, ec.color, COALESCE(SUM(e.amount), 0) as total
        FROM expense_categories ec
        LEFT JOIN expenses e ON e.category_id = ec.id
            AND e.expense_date >= ? AND e.deleted_at IS NULL
        WHERE ec.user_id = ?
        GROUP BY ec.name, ec.color
        ORDER BY total DESC
    `, firstOfMonth, userUUID).Scan(&summary.ExpensesByCategory)

	summary.OverdueInstallments = []OverdueInstallment{}
	config.DB.Raw(`
        SELECT cs.client_name, i.installment_number, i.amount, i.due_date,
               EXTRACT(DAY FROM ? - i.due_date)::int as days_late
        FROM installments i
        JOIN credit_sales cs ON cs.id = i.credit_sale_id
        WHERE cs.user_id = ? AND cs.deleted_at IS NULL
        AND i.status <> 'paid' AND i.due_date < ?
        ORDER BY i.due_date
    `, now, userUUID, now).Scan(&summary.OverdueInstallments)

	c.JSON(http.StatusOK, summary)
}

func (rc *ReportController) getRevenue(userID uuid.UUID, from, to time.Time) (float64, error) {
	var revenue float64
	err := config.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND transaction_date >= ? AND transaction_date < ? AND deleted_at IS NULL",
			userID, from, to).
		Select("COALESCE(SUM(total), 0)").Scan(&revenue).Error
	return revenue, err
}
