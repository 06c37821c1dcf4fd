package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/models"
	"github.com/resume-studio/resume-studio-api/services"
	"github.com/resume-studio/resume-studio-api/utils"
)

// UploadOrderFile handles POST /api/v1/orders/:id/files - uploads a
// document (pdf/doc/docx) against an order and stores it in S3
func UploadOrderFile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, "id")
	if !ok {
		return
	}

	if !canAccessOrder(user, order) {
		c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "You do not have permission to upload files to this order"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("VALIDATION_ERROR", "A 'file' form field is required"))
		return
	}

	docService := services.GetDocumentService()
	if docService == nil {
		c.JSON(http.StatusInternalServerError, errorBody("STORAGE_ERROR", "Document storage is not configured"))
		return
	}

	s3Key, err := docService.UploadDocument(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, errorBody(uploadErr.Code, uploadErr.Message))
			return
		}
		c.JSON(http.StatusInternalServerError, errorBody("STORAGE_ERROR", "Failed to upload document"))
		return
	}

	orderFile := models.OrderFile{
		OrderID:      order.ID,
		UploadedByID: user.ID,
		S3Key:        s3Key,
		OriginalName: fileHeader.Filename,
		SizeBytes:    fileHeader.Size,
	}

	db := config.GetDB()
	if err := db.Create(&orderFile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to record uploaded file"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    orderFile,
	})
}

// ListOrderFiles handles GET /api/v1/orders/:id/files - lists an
// order's documents with presigned download URLs
func ListOrderFiles(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, "id")
	if !ok {
		return
	}

	if !canAccessOrder(user, order) {
		c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "You do not have permission to view files on this order"))
		return
	}

	db := config.GetDB()
	var files []models.OrderFile
	if err := db.Where("order_id = ?", order.ID).
		Preload("UploadedBy").
		Order("created_at ASC").
		Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to fetch files"))
		return
	}

	// Presigned URLs are computed per read and expire after an hour
	docService := services.GetDocumentService()
	if docService != nil {
		for i := range files {
			url, urlErr := docService.GetDocumentURL(files[i].S3Key)
			if urlErr == nil {
				files[i].DownloadURL = url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    files,
	})
}

// DeleteOrderFile handles DELETE /api/v1/files/:fileId - removes a
// document from storage and the database. Allowed for staff and for
// the user who uploaded it.
func DeleteOrderFile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	fileID := c.Param("fileId")
	db := config.GetDB()
	var orderFile models.OrderFile
	if err := db.First(&orderFile, fileID).Error; err != nil {
		c.JSON(http.StatusNotFound, errorBody("FILE_NOT_FOUND", "File not found"))
		return
	}

	if !user.IsAdmin() && orderFile.UploadedByID != user.ID {
		c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "You do not have permission to delete this file"))
		return
	}

	docService := services.GetDocumentService()
	if docService != nil {
		if err := docService.DeleteDocument(orderFile.S3Key); err != nil {
			c.JSON(http.StatusInternalServerError, errorBody("STORAGE_ERROR", "Failed to delete document from storage"))
			return
		}
	}

	if err := db.Delete(&orderFile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to delete file record"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
