package store

import (
	"context"
	"errors"
)

// ErrUnavailable reports that a store could not be created or was missing
// when an append was attempted. The record is not persisted.
var ErrUnavailable = errors.New("record store unavailable")

// RecordStore defines the interface for an append-only record store
type RecordStore interface {
	// Ensure creates the store (parent directories, file, header row) if it
	// does not exist yet. Idempotent; an existing file is left untouched.
	Ensure(ctx context.Context) error

	// Append writes one row to the store. The row must already be in header
	// column order. Fails with ErrUnavailable if the store is missing.
	Append(ctx context.Context, row []string) error

	// Exists reports whether the store file is present.
	Exists() bool

	// Path returns the store's file path.
	Path() string
}
