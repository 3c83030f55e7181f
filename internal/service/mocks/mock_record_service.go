package mocks

import (
	"context"
	"encoding/json"

	"fileapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) Create(ctx context.Context, collection string, doc json.RawMessage) (*model.Record, error) {
	args := m.Called(ctx, collection, doc)
	if rec, ok := args.Get(0).(*model.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecordService) List(ctx context.Context, collection string) ([]model.Record, error) {
	args := m.Called(ctx, collection)
	if recs, ok := args.Get(0).([]model.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecordService) Get(ctx context.Context, collection, id string) (*model.Record, error) {
	args := m.Called(ctx, collection, id)
	if rec, ok := args.Get(0).(*model.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecordService) Update(ctx context.Context, collection, id string, doc json.RawMessage) (*model.Record, error) {
	args := m.Called(ctx, collection, id, doc)
	if rec, ok := args.Get(0).(*model.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecordService) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}
