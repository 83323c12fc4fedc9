package storage

import (
	"context"

	"firedev/backend/models"
)

// Store is the persistence surface the handlers depend on.
type Store interface {
	// Ping verifies the database is reachable and writable.
	Ping(ctx context.Context) error
	// Create appends a report under a store-generated key and returns the key.
	Create(ctx context.Context, rec models.Record) (string, error)
	// Upsert writes or overwrites the report at the given key.
	Upsert(ctx context.Context, id string, rec models.Record) error
}
