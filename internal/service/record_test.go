package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fileapi/internal/model"
	"fileapi/internal/repository"
	repoMocks "fileapi/internal/repository/mocks"
)

func TestRecordService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("auto-assigns id when absent", func(t *testing.T) {
		repo := new(repoMocks.MockRecordRepository)
		repo.On("Insert", ctx, mock.MatchedBy(func(rec *model.Record) bool {
			if rec.Collection != "tqm_records" || rec.ID == "" {
				return false
			}
			var doc map[string]any
			if err := json.Unmarshal(rec.Data, &doc); err != nil {
				return false
			}
			return doc["id"] == rec.ID && doc["title"] == "audit"
		})).Return(&model.Record{ID: "assigned"}, nil)

		svc := NewRecordService(repo)
		rec, err := svc.Create(ctx, "tqm_records", json.RawMessage(`{"title":"audit"}`))

		require.NoError(t, err)
		assert.Equal(t, "assigned", rec.ID)
		repo.AssertExpectations(t)
	})

	t.Run("preserves caller id", func(t *testing.T) {
		repo := new(repoMocks.MockRecordRepository)
		repo.On("Insert", ctx, mock.MatchedBy(func(rec *model.Record) bool {
			return rec.ID == "rec-7"
		})).Return(&model.Record{ID: "rec-7"}, nil)

		svc := NewRecordService(repo)
		_, err := svc.Create(ctx, "tqm_records", json.RawMessage(`{"id":"rec-7","title":"x"}`))

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate id propagates", func(t *testing.T) {
		repo := new(repoMocks.MockRecordRepository)
		repo.On("Insert", ctx, mock.Anything).Return(nil, repository.ErrDuplicateID)

		svc := NewRecordService(repo)
		_, err := svc.Create(ctx, "tqm_records", json.RawMessage(`{"id":"dup"}`))

		assert.ErrorIs(t, err, repository.ErrDuplicateID)
	})

	t.Run("invalid collection rejected before repo", func(t *testing.T) {
		repo := new(repoMocks.MockRecordRepository)
		svc := NewRecordService(repo)

		for _, name := range []string{"", "Tqm", "1abc", "a-b", "users;drop"} {
			_, err := svc.Create(ctx, name, json.RawMessage(`{}`))
			assert.ErrorIs(t, err, ErrInvalidCollection, "collection %q", name)
		}
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("non-object document rejected", func(t *testing.T) {
		repo := new(repoMocks.MockRecordRepository)
		svc := NewRecordService(repo)

		for _, doc := range []string{`[]`, `"str"`, `42`, `null`, `{broken`} {
			_, err := svc.Create(ctx, "tqm_records", json.RawMessage(doc))
			assert.ErrorIs(t, err, ErrInvalidDocument, "doc %s", doc)
		}
	})
}

func TestRecordService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		repo := new(repoMocks.MockRecordRepository)
		repo.On("Update", ctx, mock.Anything).Return(nil, repository.ErrRecordNotFound)

		svc := NewRecordService(repo)
		_, err := svc.Update(ctx, "rd_tasks", "missing", json.RawMessage(`{"status":"done"}`))

		assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	})

	t.Run("id injected into document", func(t *testing.T) {
		repo := new(repoMocks.MockRecordRepository)
		repo.On("Update", ctx, mock.MatchedBy(func(rec *model.Record) bool {
			var doc map[string]any
			require.NoError(t, json.Unmarshal(rec.Data, &doc))
			return doc["id"] == "t1"
		})).Return(&model.Record{ID: "t1"}, nil)

		svc := NewRecordService(repo)
		_, err := svc.Update(ctx, "rd_tasks", "t1", json.RawMessage(`{"status":"done"}`))

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewRecordService(new(repoMocks.MockRecordRepository))
		_, err := svc.Update(ctx, "rd_tasks", "", json.RawMessage(`{}`))
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestRecordService_Delete(t *testing.T) {
	ctx := context.Background()

	repo := new(repoMocks.MockRecordRepository)
	repo.On("Delete", ctx, "rd_tasks", "t1").Return(nil)
	repo.On("Delete", ctx, "rd_tasks", "gone").Return(repository.ErrRecordNotFound)

	svc := NewRecordService(repo)

	assert.NoError(t, svc.Delete(ctx, "rd_tasks", "t1"))
	assert.ErrorIs(t, svc.Delete(ctx, "rd_tasks", "gone"), repository.ErrRecordNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "rd_tasks", ""), ErrIDRequired)
}
