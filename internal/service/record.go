package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"fileapi/internal/model"
	"fileapi/internal/repository"
)

var (
	ErrInvalidCollection = errors.New("invalid collection name")
	ErrIDRequired        = errors.New("id is required")
	ErrInvalidDocument   = errors.New("document must be a JSON object")
)

// collectionNamePattern constrains collection names to the identifiers the
// import tooling and frontend use (e.g. tqm_records, rd_projects).
var collectionNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// RecordService defines the use cases of the generic key-by-collection
// document store exposed under /api/{collection}[/{id}].
type RecordService interface {
	// Create stores a new document. A missing "id" field is auto-assigned;
	// a colliding id fails with repository.ErrDuplicateID.
	Create(ctx context.Context, collection string, doc json.RawMessage) (*model.Record, error)

	// List returns every document of a collection.
	List(ctx context.Context, collection string) ([]model.Record, error)

	// Get returns one document by id.
	Get(ctx context.Context, collection, id string) (*model.Record, error)

	// Update replaces an existing document; unknown ids fail with
	// repository.ErrRecordNotFound.
	Update(ctx context.Context, collection, id string, doc json.RawMessage) (*model.Record, error)

	// Delete removes a document by id.
	Delete(ctx context.Context, collection, id string) error
}

type recordService struct {
	repo repository.RecordRepository
}

// NewRecordService constructs a new RecordService.
func NewRecordService(repo repository.RecordRepository) RecordService {
	return &recordService{repo: repo}
}

func validCollection(name string) error {
	if !collectionNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}

// normalizeDoc parses doc as a JSON object and ensures it carries id under the
// "id" key, so exported documents round-trip through the import tooling.
func normalizeDoc(doc json.RawMessage, id string) (json.RawMessage, error) {
	var obj map[string]any
	if err := json.Unmarshal(doc, &obj); err != nil || obj == nil {
		return nil, ErrInvalidDocument
	}
	obj["id"] = id
	out, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return out, nil
}

// docID extracts a string "id" field from doc, if present.
func docID(doc json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(doc, &probe)
	return probe.ID
}

func (s *recordService) Create(ctx context.Context, collection string, doc json.RawMessage) (*model.Record, error) {
	if err := validCollection(collection); err != nil {
		return nil, err
	}

	id := docID(doc)
	if id == "" {
		id = uuid.NewString()
	}
	data, err := normalizeDoc(doc, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.Insert(ctx, &model.Record{
		Collection: collection,
		ID:         id,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (s *recordService) List(ctx context.Context, collection string) ([]model.Record, error) {
	if err := validCollection(collection); err != nil {
		return nil, err
	}
	return s.repo.ListByCollection(ctx, collection)
}

func (s *recordService) Get(ctx context.Context, collection, id string) (*model.Record, error) {
	if err := validCollection(collection); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.repo.FindByID(ctx, collection, id)
}

func (s *recordService) Update(ctx context.Context, collection, id string, doc json.RawMessage) (*model.Record, error) {
	if err := validCollection(collection); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	data, err := normalizeDoc(doc, id)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, &model.Record{
		Collection: collection,
		ID:         id,
		Data:       data,
		UpdatedAt:  time.Now().UTC(),
	})
}

func (s *recordService) Delete(ctx context.Context, collection, id string) error {
	if err := validCollection(collection); err != nil {
		return err
	}
	if id == "" {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, collection, id)
}
