package mutation

import (
	"context"
	"errors"

	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/mapping"
	"gallery-kiosk/internal/store"
)

type ReservationInput struct {
	ArtworkID    string  `json:"artworkId"`
	VisitorName  string  `json:"visitorName"`
	VisitorEmail string  `json:"visitorEmail"`
	VisitorPhone *string `json:"visitorPhone"`
}

// CreateReservation records the inquiry and marks the artwork reserved.
func (m *Mutator) CreateReservation(ctx context.Context, in ReservationInput) (gallery.Reservation, error) {
	switch {
	case blank(in.ArtworkID):
		return gallery.Reservation{}, invalid("artworkId is required")
	case blank(in.VisitorName):
		return gallery.Reservation{}, invalid("visitorName is required")
	case blank(in.VisitorEmail):
		return gallery.Reservation{}, invalid("visitorEmail is required")
	}

	r := gallery.Reservation{
		ID:           m.newID(),
		ArtworkID:    in.ArtworkID,
		VisitorName:  in.VisitorName,
		VisitorEmail: in.VisitorEmail,
		VisitorPhone: in.VisitorPhone,
		Status:       gallery.ReservationPending,
		CreatedAt:    m.now(),
	}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		art, err := tx.GetArtwork(ctx, in.ArtworkID)
		if err != nil {
			return err
		}
		if art == nil {
			return store.ErrNotFound
		}
		rec := mapping.ReservationRecord(r)
		if err := tx.InsertReservation(ctx, &rec); err != nil {
			return err
		}
		return tx.UpdateArtwork(ctx, in.ArtworkID, map[string]any{"status": string(gallery.StatusReserved)})
	})
	if err != nil {
		return gallery.Reservation{}, err
	}
	return r, nil
}

// DeleteReservation removes the reservation and puts its artwork back on
// sale. An artwork that has since been deleted is skipped.
func (m *Mutator) DeleteReservation(ctx context.Context, id string) error {
	return m.store.Transaction(ctx, func(tx store.Store) error {
		rec, err := tx.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return store.ErrNotFound
		}

		if artworkID := mapping.Reservation(*rec).ArtworkID; artworkID != "" {
			err := tx.UpdateArtwork(ctx, artworkID, map[string]any{"status": string(gallery.StatusAvailable)})
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
		return tx.DeleteReservation(ctx, id)
	})
}

func (m *Mutator) UpdateReservationStatus(ctx context.Context, id string, status gallery.ReservationStatus) error {
	if !status.Valid() {
		return invalid("unknown reservation status %q", status)
	}
	return m.store.UpdateReservation(ctx, id, map[string]any{"status": string(status)})
}
