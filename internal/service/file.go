package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"fileapi/internal/model"
	"fileapi/internal/storage"
)

var ErrNilReader = errors.New("reader is nil")

// UploadResult is the service-level DTO returned after a successful upload.
type UploadResult struct {
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	FileName     string    `json:"fileName"`
	SafeName     string    `json:"safeName"`
	FileSize     int64     `json:"fileSize"`
	FileType     string    `json:"fileType"`
	Folder       string    `json:"folder"`
	UploadTime   time.Time `json:"uploadTime"`
}

// FileInfo is one entry of a category listing.
type FileInfo struct {
	FileName     string    `json:"fileName"`
	FileSize     int64     `json:"fileSize"`
	UploadTime   time.Time `json:"uploadTime"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	IsImage      bool      `json:"isImage"`
}

// FileService defines the use cases around the categorized file store.
type FileService interface {
	// Upload validates the declared media type and size against policy, then
	// persists the content. Validation failures happen before any bytes are written.
	Upload(ctx context.Context, category, originalName, mediaType string, r io.Reader, sizeBytes int64) (*UploadResult, error)

	// List returns the category's files, most recently modified first.
	List(ctx context.Context, category string) ([]FileInfo, error)

	// Delete removes one stored file and its thumbnail.
	Delete(ctx context.Context, category, storedName string) error

	// BatchDelete removes each item independently and aggregates the outcome.
	BatchDelete(ctx context.Context, items []storage.BatchItem) *storage.BatchResult

	// Stats scans the store and reports per-category and total usage.
	Stats(ctx context.Context) (*model.StorageStats, error)

	// Export streams a backup archive (payload + all stored files) to w.
	Export(ctx context.Context, w io.Writer, payload any) error

	// FilePath resolves a stored file to its on-disk path for serving, or
	// storage.ErrNotFound if it does not exist.
	FilePath(category, storedName string) (string, error)
}

type fileService struct {
	store    *storage.LocalStore
	policy   storage.UploadPolicy
	exporter *storage.ArchiveExporter
}

// NewFileService constructs the orchestration layer over the local store.
func NewFileService(store *storage.LocalStore, policy storage.UploadPolicy) FileService {
	return &fileService{
		store:    store,
		policy:   policy,
		exporter: storage.NewArchiveExporter(store),
	}
}

func fileURL(category, storedName string) string {
	return fmt.Sprintf("/uploads/%s/%s", category, storedName)
}

func thumbnailURL(category, storedName string) string {
	return fmt.Sprintf("/uploads/%s/.thumbnails/%s", category, storedName)
}

func (s *fileService) Upload(ctx context.Context, category, originalName, mediaType string, r io.Reader, sizeBytes int64) (*UploadResult, error) {
	if r == nil {
		return nil, ErrNilReader
	}
	// The gate runs before any bytes are persisted.
	if err := s.policy.Validate(mediaType, sizeBytes); err != nil {
		return nil, err
	}
	if !s.store.Categories().IsValid(category) {
		return nil, fmt.Errorf("%w: %s", storage.ErrInvalidCategory, category)
	}

	stored, err := s.store.Put(ctx, category, originalName, mediaType, r, sizeBytes)
	if err != nil {
		return nil, err
	}

	res := &UploadResult{
		URL:        fileURL(category, stored.StoredName),
		FileName:   originalName,
		SafeName:   stored.StoredName,
		FileSize:   stored.SizeBytes,
		FileType:   mediaType,
		Folder:     category,
		UploadTime: stored.CreatedAt,
	}
	if stored.HasThumbnail {
		res.ThumbnailURL = thumbnailURL(category, stored.StoredName)
	}
	return res, nil
}

func (s *fileService) List(ctx context.Context, category string) ([]FileInfo, error) {
	files, err := s.store.List(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]FileInfo, 0, len(files))
	for _, f := range files {
		fi := FileInfo{
			FileName:   f.StoredName,
			FileSize:   f.SizeBytes,
			UploadTime: f.ModifiedAt,
			URL:        fileURL(category, f.StoredName),
			IsImage:    storage.IsImageName(f.StoredName),
		}
		if f.HasThumbnail {
			fi.ThumbnailURL = thumbnailURL(category, f.StoredName)
		}
		out = append(out, fi)
	}
	return out, nil
}

func (s *fileService) Delete(ctx context.Context, category, storedName string) error {
	return s.store.Delete(ctx, category, storedName)
}

func (s *fileService) BatchDelete(ctx context.Context, items []storage.BatchItem) *storage.BatchResult {
	return s.store.BatchDelete(ctx, items)
}

func (s *fileService) Stats(ctx context.Context) (*model.StorageStats, error) {
	return s.store.Stats(ctx)
}

func (s *fileService) Export(ctx context.Context, w io.Writer, payload any) error {
	return s.exporter.Export(ctx, w, payload)
}

func (s *fileService) FilePath(category, storedName string) (string, error) {
	path, err := s.store.FilePath(category, storedName)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s/%s", storage.ErrNotFound, category, storedName)
		}
		return "", fmt.Errorf("stat file: %w", err)
	}
	return path, nil
}
