package services

import (
	"mime/multipart"

	"github.com/resume-studio/resume-studio-api/utils"
)

// MockDocumentService is a mock implementation of DocumentService that
// validates like the real one but stores in the mock S3
type MockDocumentService struct {
	s3 *MockS3Service
}

// NewMockDocumentService creates a new mock document service backed by
// a mock S3
func NewMockDocumentService(s3 *MockS3Service) *MockDocumentService {
	return &MockDocumentService{s3: s3}
}

// SetAsMockForTesting sets this mock as the global document service instance for testing
func (m *MockDocumentService) SetAsMockForTesting() {
	SetDocumentService(m)
}

// UploadDocument validates and "uploads" a document to the mock S3
func (m *MockDocumentService) UploadDocument(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateDocumentFile(fileHeader); err != nil {
		return "", err
	}
	return m.s3.UploadFile(fileHeader)
}

// GetDocumentURL returns a mock presigned URL
func (m *MockDocumentService) GetDocumentURL(documentKey string) (string, error) {
	return m.s3.GetPresignedURL(documentKey)
}

// DeleteDocument removes a document from the mock S3
func (m *MockDocumentService) DeleteDocument(documentKey string) error {
	return m.s3.DeleteFile(documentKey)
}
