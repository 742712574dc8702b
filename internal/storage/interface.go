package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// Common errors
var (
	ErrNotFound = errors.New("not found")
)

// Store is the record store the analytics core reads from and writes to.
// Records are JSON documents keyed by logical collection name + id. The
// core does not care whether the backing is a flat-file data lake or a
// key-value database.
//
// A missing collection is empty, not an error; only Read on a missing id
// reports ErrNotFound.
type Store interface {
	// List returns every record in a collection.
	List(ctx context.Context, collection string) ([]json.RawMessage, error)

	// Read unmarshals one record into v. Returns ErrNotFound when the id
	// does not exist.
	Read(ctx context.Context, collection, id string, v any) error

	// Write marshals v and stores it under collection/id, replacing any
	// existing record.
	Write(ctx context.Context, collection, id string, v any) error

	// Close releases the backing resources.
	Close() error
}
