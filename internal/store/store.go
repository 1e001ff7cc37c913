// Package store is the record store adapter: wire-shaped rows in
// artworks, exhibitions and reservations, with a change signal published
// after every successful write.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

// Store is the record store as seen by the rest of the application. Reads
// of a missing row return nil, nil; writes against a missing row return
// ErrNotFound.
type Store interface {
	ListArtworks(ctx context.Context) ([]ArtworkRecord, error)
	GetArtwork(ctx context.Context, id string) (*ArtworkRecord, error)
	InsertArtwork(ctx context.Context, rec *ArtworkRecord) error
	UpdateArtwork(ctx context.Context, id string, cols map[string]any) error
	DeleteArtwork(ctx context.Context, id string) error

	ListExhibitions(ctx context.Context) ([]ExhibitionRecord, error)
	GetExhibition(ctx context.Context, id string) (*ExhibitionRecord, error)
	GetActiveExhibition(ctx context.Context) (*ExhibitionRecord, error)
	InsertExhibition(ctx context.Context, rec *ExhibitionRecord) error
	UpdateExhibition(ctx context.Context, id string, cols map[string]any) error
	DeleteExhibition(ctx context.Context, id string) error
	// ClearActiveExhibitions unsets is_active on every row except exceptID
	// (empty clears all) and reports how many rows changed.
	ClearActiveExhibitions(ctx context.Context, exceptID string) (int64, error)

	ListReservations(ctx context.Context) ([]ReservationRecord, error)
	GetReservation(ctx context.Context, id string) (*ReservationRecord, error)
	InsertReservation(ctx context.Context, rec *ReservationRecord) error
	UpdateReservation(ctx context.Context, id string, cols map[string]any) error
	DeleteReservation(ctx context.Context, id string) error

	// UpsertSnapshot inserts or replaces every record by id, all or nothing.
	UpsertSnapshot(ctx context.Context, artworks []ArtworkRecord, exhibitions []ExhibitionRecord) error

	// Transaction runs fn against a store bound to one transaction. Change
	// signals are published only after commit.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
