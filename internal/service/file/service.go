package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

type FileService interface {
	// UploadLeaveAttachment stores a leave attachment and returns its storage key
	UploadLeaveAttachment(ctx context.Context, userID string, file io.Reader, filename, contentType string) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadLeaveAttachment uploads a leave request attachment under leave/{userID}/.
func (s *fileServiceImpl) UploadLeaveAttachment(ctx context.Context, userID string, file io.Reader, filename, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	// Generate unique filename with timestamp
	uniqueID := uuid.New().String()
	timestamp := time.Now().Unix()
	newFilename := fmt.Sprintf("%s-%d%s", uniqueID, timestamp, ext)
	path := filepath.ToSlash(filepath.Join("leave", userID, newFilename))

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadedPath, err := s.storage.Upload(ctx, file, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload leave attachment: %w", err)
	}

	return uploadedPath, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL returns the public URL of a stored file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string) (string, error) {
	return s.storage.GetURL(ctx, path)
}
