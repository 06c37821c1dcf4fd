package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/models"
	"github.com/resume-studio/resume-studio-api/services"
)

// ListAuditTrail handles GET /api/v1/audit/:entityType/:entityId -
// pages through an entity's audit trail in arrival order (staff only)
func ListAuditTrail(c *gin.Context) {
	_, ok := requireAdmin(c)
	if !ok {
		return
	}

	entityType := c.Param("entityType")
	switch entityType {
	case models.AuditEntityOrder, models.AuditEntityPayment, models.AuditEntityRevision:
	default:
		c.JSON(http.StatusBadRequest, errorBody("VALIDATION_ERROR", "Unknown entity type: "+entityType))
		return
	}

	entityID, err := strconv.ParseUint(c.Param("entityId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("VALIDATION_ERROR", "Entity ID must be numeric"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	db := config.GetDB()
	entries, total, listErr := services.ListAudit(db, entityType, uint(entityID), page, pageSize)
	if listErr != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to fetch audit trail"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"meta": gin.H{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		},
	})
}
