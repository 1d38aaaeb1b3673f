package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/attendify/attendify-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

// SourceKind names which side of a reconciliation an uploaded file feeds.
type SourceKind string

const (
	SourceBiometric SourceKind = "biometric"
	SourceTimesheet SourceKind = "timesheet"
)

type FileService interface {
	// UploadSource archives a raw biometric or timesheet file for a run
	UploadSource(ctx context.Context, runID string, kind SourceKind, file io.Reader, filename string) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadSource stores the file under sources/<runID>/<kind>-<uuid><ext>
func (s *fileServiceImpl) UploadSource(ctx context.Context, runID string, kind SourceKind, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	contentType, ok := sourceContentTypes[ext]
	if !ok {
		return "", fmt.Errorf("invalid file type: only csv, xlsx allowed")
	}

	uniqueID := uuid.New().String()
	newFilename := fmt.Sprintf("%s-%s%s", kind, uniqueID, ext)
	path := filepath.Join("sources", runID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s file: %w", kind, err)
	}

	return uploadedPath, nil
}

var sourceContentTypes = map[string]string{
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// DeleteFile deletes a file from storage
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL gets public URL for a file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}
