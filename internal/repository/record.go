package repository

import (
	"context"
	"errors"

	"fileapi/internal/model"
)

var (
	// ErrDuplicateID is returned when an insert collides with an existing
	// (collection, id) pair.
	ErrDuplicateID = errors.New("record id already exists")

	// ErrRecordNotFound is returned when an update, delete or lookup targets
	// an id that does not exist in the collection.
	ErrRecordNotFound = errors.New("record not found")
)

// RecordRepository defines data access for the generic key-by-collection
// document store. No business logic here, strictly persistence operations.
type RecordRepository interface {
	// Insert stores a new record. Returns ErrDuplicateID if the id is taken.
	Insert(ctx context.Context, rec *model.Record) (*model.Record, error)

	// FindByID returns one record, or ErrRecordNotFound.
	FindByID(ctx context.Context, collection, id string) (*model.Record, error)

	// ListByCollection returns every record of a collection in insertion order.
	ListByCollection(ctx context.Context, collection string) ([]model.Record, error)

	// Update replaces a record's document. Returns ErrRecordNotFound for
	// unknown ids; it never creates.
	Update(ctx context.Context, rec *model.Record) (*model.Record, error)

	// Delete removes a record. Returns ErrRecordNotFound for unknown ids.
	Delete(ctx context.Context, collection, id string) error
}
