package mocks

import (
	"context"
	"io"

	"fileapi/internal/model"
	"fileapi/internal/service"
	"fileapi/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, category, originalName, mediaType string, r io.Reader, sizeBytes int64) (*service.UploadResult, error) {
	args := m.Called(ctx, category, originalName, mediaType, r, sizeBytes)
	if res, ok := args.Get(0).(*service.UploadResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, category string) ([]service.FileInfo, error) {
	args := m.Called(ctx, category)
	if res, ok := args.Get(0).([]service.FileInfo); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, category, storedName string) error {
	args := m.Called(ctx, category, storedName)
	return args.Error(0)
}

func (m *MockFileService) BatchDelete(ctx context.Context, items []storage.BatchItem) *storage.BatchResult {
	args := m.Called(ctx, items)
	return args.Get(0).(*storage.BatchResult)
}

func (m *MockFileService) Stats(ctx context.Context) (*model.StorageStats, error) {
	args := m.Called(ctx)
	if res, ok := args.Get(0).(*model.StorageStats); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFileService) Export(ctx context.Context, w io.Writer, payload any) error {
	args := m.Called(ctx, w, payload)
	return args.Error(0)
}

func (m *MockFileService) FilePath(category, storedName string) (string, error) {
	args := m.Called(category, storedName)
	return args.String(0), args.Error(1)
}
