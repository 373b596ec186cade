package repository

import (
	"context"
	"errors"

	"camstation/internal/model"
)

var (
	// ErrNotFound is returned when no record references the requested image.
	ErrNotFound = errors.New("capture record not found")
	// ErrDuplicate is returned when a record reuses an image filename already in the log.
	ErrDuplicate = errors.New("image filename already logged")
)

// SessionLogStore is the durable, append-only log of capture records and the
// single source of truth for every read-side view.
type SessionLogStore interface {
	// Append adds one record after all existing ones. Missing, empty or
	// malformed prior content counts as an empty log.
	Append(ctx context.Context, rec model.CaptureRecord) error

	// ReadAll returns every record in capture order. Missing or unparsable
	// storage yields an empty slice and no error.
	ReadAll(ctx context.Context) ([]model.CaptureRecord, error)

	// Remove drops the record referencing filename, used when an image is
	// deleted from the gallery.
	Remove(ctx context.Context, filename string) error

	Close() error
}
