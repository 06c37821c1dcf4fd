package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/models"
	"github.com/resume-studio/resume-studio-api/services"
)

// RequestRevisionRequest represents the request body for requesting a revision
type RequestRevisionRequest struct {
	RequestDetails  string   `json:"request_details" binding:"required"`
	Type            string   `json:"type" binding:"omitempty,oneof=content formatting design comprehensive"`
	Priority        string   `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Urgency         string   `json:"urgency" binding:"omitempty,oneof=standard urgent express"`
	Complexity      string   `json:"complexity" binding:"omitempty,oneof=simple moderate complex very_complex"`
	SpecificChanges []string `json:"specific_changes"`
	EstimatedHours  float64  `json:"estimated_hours" binding:"omitempty,gt=0"`
}

// UpdateRevisionStatusRequest represents the request body for a revision transition
type UpdateRevisionStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// CompleteRevisionRequest represents the request body for completing a revision
type CompleteRevisionRequest struct {
	Summary string   `json:"summary" binding:"required"`
	Files   []string `json:"files"`
}

// RespondToRevisionRequest represents the client's verdict on a delivered revision
type RespondToRevisionRequest struct {
	Verdict  string `json:"verdict" binding:"required,oneof=approve reject"`
	Feedback string `json:"feedback"`
}

// findRevision loads a revision by its external REV- id. On failure it
// writes the error response and returns false.
func findRevision(c *gin.Context, param string) (*models.Revision, bool) {
	revisionID := c.Param(param)
	if revisionID == "" {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_REQUEST", "Revision ID is required"))
		return nil, false
	}

	db := config.GetDB()
	var revision models.Revision
	if err := db.Where("revision_id = ?", revisionID).First(&revision).Error; err != nil {
		c.JSON(http.StatusNotFound, errorBody("REVISION_NOT_FOUND", "Revision not found"))
		return nil, false
	}
	return &revision, true
}

// RequestRevision handles POST /api/v1/orders/:id/revisions - a client
// asks for changes to a delivered draft
func RequestRevision(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, "id")
	if !ok {
		return
	}

	// Clients request revisions on their own orders only
	if !user.IsAdmin() && order.ClientID != user.ID {
		c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "You do not have permission to request revisions on this order"))
		return
	}

	var req RequestRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	revision := models.Revision{
		RequestDetails:  req.RequestDetails,
		Type:            req.Type,
		Priority:        req.Priority,
		Urgency:         req.Urgency,
		Complexity:      req.Complexity,
		SpecificChanges: req.SpecificChanges,
		EstimatedHours:  req.EstimatedHours,
	}
	if revision.Type == "" {
		revision.Type = "content"
	}
	if revision.Priority == "" {
		revision.Priority = "medium"
	}
	if revision.Urgency == "" {
		revision.Urgency = "standard"
	}
	if revision.Complexity == "" {
		revision.Complexity = "moderate"
	}

	db := config.GetDB()
	if err := services.CreateRevision(db, order, &revision, user.ID); err != nil {
		handleWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    revision,
	})
}

// ListRevisions handles GET /api/v1/orders/:id/revisions
func ListRevisions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, "id")
	if !ok {
		return
	}

	if !canAccessOrder(user, order) {
		c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "You do not have permission to view revisions on this order"))
		return
	}

	db := config.GetDB()
	var revisions []models.Revision
	if err := db.Where("order_id = ?", order.ID).
		Order("revision_number ASC").
		Find(&revisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to fetch revisions"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    revisions,
	})
}

// UpdateRevisionStatus handles PATCH /api/v1/revisions/:revisionId/status
// (staff only)
func UpdateRevisionStatus(c *gin.Context) {
	user, ok := requireAdmin(c)
	if !ok {
		return
	}

	revision, ok := findRevision(c, "revisionId")
	if !ok {
		return
	}

	var req UpdateRevisionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	target, valid := models.ParseRevisionStatus(req.Status)
	if !valid {
		c.JSON(http.StatusBadRequest, errorBody("VALIDATION_ERROR", "Unknown revision status: "+req.Status))
		return
	}

	db := config.GetDB()
	if err := services.TransitionRevision(db, revision, target, user.ID, req.Note); err != nil {
		handleWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    revision,
	})
}

// CompleteRevision handles POST /api/v1/revisions/:revisionId/complete -
// the writer finishes the rework; the order moves on to client review
// (staff only)
func CompleteRevision(c *gin.Context) {
	user, ok := requireAdmin(c)
	if !ok {
		return
	}

	revision, ok := findRevision(c, "revisionId")
	if !ok {
		return
	}

	var req CompleteRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	if err := services.CompleteRevisionWorkflow(db, revision, user.ID, req.Summary, req.Files); err != nil {
		handleWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    revision,
	})
}

// RespondToRevision handles POST /api/v1/revisions/:revisionId/respond -
// the client approves or rejects a delivered revision
func RespondToRevision(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	revision, ok := findRevision(c, "revisionId")
	if !ok {
		return
	}

	if !user.IsAdmin() && revision.ClientID != user.ID {
		c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "You do not have permission to respond to this revision"))
		return
	}

	var req RespondToRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	approved := req.Verdict == "approve"
	if err := services.RespondToRevisionWorkflow(db, revision, user.ID, approved, req.Feedback); err != nil {
		handleWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    revision,
	})
}
