package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/controllers"
	"github.com/resume-studio/resume-studio-api/models"
	"github.com/resume-studio/resume-studio-api/services"
	"github.com/resume-studio/resume-studio-api/tests/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// FileUploadIntegrationTestSuite covers document upload, listing, and
// deletion against the mock S3 backend.
type FileUploadIntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	mockS3 *services.MockS3Service
	client models.User
}

// SetupTest runs before each test
func (suite *FileUploadIntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderFile{},
		&models.AuditEntry{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.WorkflowStep{},
	)
	suite.NoError(err)

	config.SetDB(db)

	// Mock document storage
	suite.mockS3 = services.NewMockS3Service()
	services.NewMockDocumentService(suite.mockS3).SetAsMockForTesting()

	suite.client = models.User{
		Auth0ID: "auth0|client",
		Name:    "Test Client",
		Email:   "client@test.com",
		Role:    "client",
	}
	suite.NoError(db.Create(&suite.client).Error)

	order := models.Order{
		OrderNumber: "ORD-UPLOAD",
		ClientID:    suite.client.ID,
		ServiceType: "resume",
		Status:      models.OrderInProgress,
		BasePrice:   100,
		TotalAmount: 100,
	}
	suite.NoError(db.Create(&order).Error)

	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1", testutil.MockAuthMiddleware(suite.client.Auth0ID, "client"))
	{
		v1.POST("/orders/:id/files", controllers.UploadOrderFile)
		v1.GET("/orders/:id/files", controllers.ListOrderFiles)
		v1.DELETE("/files/:fileId", controllers.DeleteOrderFile)
	}
	suite.router = router
}

// TearDownTest runs after each test
func (suite *FileUploadIntegrationTestSuite) TearDownTest() {
	services.SetDocumentService(nil)
	sqlDB, err := suite.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// upload performs a multipart upload of one document
func (suite *FileUploadIntegrationTestSuite) upload(filename string, content []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	suite.NoError(err)
	_, err = part.Write(content)
	suite.NoError(err)
	suite.NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/files", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

// TestUploadListDownloadDelete walks a document through its whole life
func (suite *FileUploadIntegrationTestSuite) TestUploadListDownloadDelete() {
	// Upload
	w, response := suite.upload("resume_draft.pdf", []byte("%PDF-1.4 fake content"))
	suite.Equal(http.StatusCreated, w.Code, "Response: %v", response)
	suite.True(response["success"].(bool))

	data := response["data"].(map[string]interface{})
	suite.Equal("resume_draft.pdf", data["original_name"])
	s3Key := data["s3_key"].(string)
	suite.True(suite.mockS3.HasFile(s3Key), "Upload should land in S3")

	// List with presigned download URLs
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/1/files", nil)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)

	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	files := response["data"].([]interface{})
	suite.Len(files, 1)
	suite.Contains(files[0].(map[string]interface{})["download_url"], "presigned=true")

	// Delete removes the record and the stored object
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/files/1", nil)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
	suite.False(suite.mockS3.HasFile(s3Key), "Delete should remove the S3 object")

	var count int64
	suite.db.Model(&models.OrderFile{}).Count(&count)
	suite.Equal(int64(0), count)
}

// TestUploadValidation covers the file validation boundary
func (suite *FileUploadIntegrationTestSuite) TestUploadValidation() {
	testCases := []struct {
		name     string
		filename string
		content  []byte
		code     string
	}{
		{"Executable", "payload.exe", []byte("MZ"), "INVALID_FILE_FORMAT"},
		{"Image", "photo.png", []byte("PNG"), "INVALID_FILE_FORMAT"},
		{"No extension", "resume", []byte("text"), "INVALID_FILE_FORMAT"},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			w, response := suite.upload(tc.filename, tc.content)
			suite.Equal(http.StatusBadRequest, w.Code)

			errorData := response["error"].(map[string]interface{})
			suite.Equal(tc.code, errorData["code"])
		})
	}

	// Nothing reached storage
	var count int64
	suite.db.Model(&models.OrderFile{}).Count(&count)
	suite.Equal(int64(0), count)
}

// TestUploadSurvivesStorageOutage verifies no orphan records are left
// when S3 rejects the upload.
func (suite *FileUploadIntegrationTestSuite) TestUploadSurvivesStorageOutage() {
	suite.mockS3.FailUploads = true

	w, response := suite.upload("resume.pdf", []byte("fake pdf"))
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("STORAGE_ERROR", response["error"].(map[string]interface{})["code"])

	var count int64
	suite.db.Model(&models.OrderFile{}).Count(&count)
	suite.Equal(int64(0), count, "Failed uploads must not leave file records")
}

func TestFileUploadIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(FileUploadIntegrationTestSuite))
}
