package mocks

import (
	"context"

	"fileapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Insert(ctx context.Context, rec *model.Record) (*model.Record, error) {
	args := m.Called(ctx, rec)
	if out, ok := args.Get(0).(*model.Record); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, collection, id string) (*model.Record, error) {
	args := m.Called(ctx, collection, id)
	if out, ok := args.Get(0).(*model.Record); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecordRepository) ListByCollection(ctx context.Context, collection string) ([]model.Record, error) {
	args := m.Called(ctx, collection)
	if out, ok := args.Get(0).([]model.Record); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecordRepository) Update(ctx context.Context, rec *model.Record) (*model.Record, error) {
	args := m.Called(ctx, rec)
	if out, ok := args.Get(0).(*model.Record); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecordRepository) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}
