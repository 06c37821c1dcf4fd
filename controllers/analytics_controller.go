package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/models"
)

// statusCount is one row of the orders-by-status aggregation
type statusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

// GetAnalyticsSummary handles GET /api/v1/analytics/summary - high-level
// business numbers for the staff dashboard (staff only)
func GetAnalyticsSummary(c *gin.Context) {
	_, ok := requireAdmin(c)
	if !ok {
		return
	}

	db := config.GetDB()

	var ordersByStatus []statusCount
	if err := db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&ordersByStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to aggregate orders"))
		return
	}

	// Confirmed revenue: completed payments, net of any refunds
	var grossRevenue, refunded float64
	if err := db.Model(&models.Payment{}).
		Where("status IN ?", []models.PaymentStatus{
			models.PaymentCompleted, models.PaymentPartiallyRefunded, models.PaymentRefunded,
		}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&grossRevenue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to aggregate revenue"))
		return
	}
	if err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(refund_amount), 0)").
		Scan(&refunded).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to aggregate refunds"))
		return
	}

	var totalRevisions, chargeableRevisions int64
	if err := db.Model(&models.Revision{}).Count(&totalRevisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to aggregate revisions"))
		return
	}
	if err := db.Model(&models.Revision{}).
		Where("is_chargeable = ?", true).
		Count(&chargeableRevisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to aggregate revisions"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orders_by_status":     ordersByStatus,
			"gross_revenue":        grossRevenue,
			"refunded":             refunded,
			"net_revenue":          grossRevenue - refunded,
			"total_revisions":      totalRevisions,
			"chargeable_revisions": chargeableRevisions,
		},
	})
}
