// Package mutation holds the write operations. Each one fails fast and
// returns the error to the caller; nothing here retries.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/mapping"
	"gallery-kiosk/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalid         = errors.New("invalid input")
	ErrInvalidSnapshot = errors.New("invalid backup file format")
)

type Mutator struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

func New(s store.Store, log zerolog.Logger) *Mutator {
	return &Mutator{
		store: s,
		log:   log.With().Str("component", "mutation").Logger(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// ------------------------------
// artworks
// ------------------------------

type ArtworkInput struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Year        string  `json:"year"`
	Medium      string  `json:"medium"`
	Dimensions  string  `json:"dimensions"`
	ImageURL    string  `json:"imageUrl"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
}

func (m *Mutator) CreateArtwork(ctx context.Context, in ArtworkInput) (gallery.Artwork, error) {
	switch {
	case blank(in.Title):
		return gallery.Artwork{}, invalid("title is required")
	case blank(in.Artist):
		return gallery.Artwork{}, invalid("artist is required")
	case blank(in.ImageURL):
		return gallery.Artwork{}, invalid("imageUrl is required")
	}

	a := gallery.Artwork{
		ID:          m.newID(),
		Title:       in.Title,
		Artist:      in.Artist,
		Year:        in.Year,
		Medium:      in.Medium,
		Dimensions:  in.Dimensions,
		ImageURL:    in.ImageURL,
		Description: in.Description,
		Price:       in.Price,
		Status:      gallery.StatusAvailable,
		CreatedAt:   m.now(),
	}
	rec := mapping.ArtworkRecord(a)
	if err := m.store.InsertArtwork(ctx, &rec); err != nil {
		return gallery.Artwork{}, err
	}
	return a, nil
}

func (m *Mutator) UpdateArtwork(ctx context.Context, id string, patch gallery.ArtworkPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return invalid("unknown status %q", *patch.Status)
	}
	return m.store.UpdateArtwork(ctx, id, mapping.ArtworkColumns(patch))
}

// DeleteArtwork removes the artwork and then purges its id from every
// exhibition that lists it, in one transaction.
func (m *Mutator) DeleteArtwork(ctx context.Context, id string) error {
	return m.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.DeleteArtwork(ctx, id); err != nil {
			return err
		}

		rows, err := tx.ListExhibitions(ctx)
		if err != nil {
			return err
		}
		for _, e := range mapping.Exhibitions(rows) {
			if !e.Contains(id) {
				continue
			}
			ids := gallery.RemoveArtwork(e.ArtworkIDs, id)
			if err := tx.UpdateExhibition(ctx, e.ID, mapping.ArtworkIDsColumn(ids)); err != nil {
				return fmt.Errorf("purge %s from exhibition %s: %w", id, e.ID, err)
			}
		}
		return nil
	})
}

// ------------------------------
// exhibitions
// ------------------------------

type ExhibitionInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	StartDate   string           `json:"startDate"`
	EndDate     string           `json:"endDate"`
	ArtworkIDs  []string         `json:"artworkIds"`
	Artists     []gallery.Artist `json:"artists"`
}

// CreateExhibition never creates an active exhibition.
func (m *Mutator) CreateExhibition(ctx context.Context, in ExhibitionInput) (gallery.Exhibition, error) {
	ids := make([]string, 0, len(in.ArtworkIDs))
	ids = append(ids, in.ArtworkIDs...)

	e := gallery.Exhibition{
		ID:          m.newID(),
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		IsActive:    false,
		ArtworkIDs:  ids,
		CreatedAt:   m.now(),
		Artists:     m.withArtistIDs(in.Artists),
	}
	rec := mapping.ExhibitionRecord(e)
	if err := m.store.InsertExhibition(ctx, &rec); err != nil {
		return gallery.Exhibition{}, err
	}
	return e, nil
}

func (m *Mutator) withArtistIDs(artists []gallery.Artist) []gallery.Artist {
	out := make([]gallery.Artist, 0, len(artists))
	for _, a := range artists {
		if a.ID == "" {
			a.ID = m.newID()
		}
		out = append(out, a)
	}
	return out
}

// SetExhibitionActive makes id the only active exhibition.
//
// The store offers no cross-row atomicity here, so this runs in steps:
// clear every other active row, set id, then clear once more to settle a
// concurrent activation that slipped in between. The settle is skipped when
// id was already cleared by a newer activation, so that one wins.
//
// A crash between the steps can leave zero active exhibitions until the
// next activation; it can never leave two. So can a newer activation that
// lands between the re-read and the settle. Running it again is harmless.
func (m *Mutator) SetExhibitionActive(ctx context.Context, id string) error {
	rec, err := m.store.GetExhibition(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return store.ErrNotFound
	}

	if _, err := m.store.ClearActiveExhibitions(ctx, id); err != nil {
		return err
	}
	if err := m.store.UpdateExhibition(ctx, id, map[string]any{"is_active": true}); err != nil {
		return err
	}

	rec, err = m.store.GetExhibition(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil || rec.IsActive == nil || !*rec.IsActive {
		m.log.Info().Str("exhibition", id).Msg("activation superseded")
		return nil
	}
	n, err := m.store.ClearActiveExhibitions(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		m.log.Warn().Str("exhibition", id).Int64("cleared", n).Msg("concurrent activation settled")
	}
	return nil
}

// UpdateExhibitionArtworks replaces the membership list wholesale.
func (m *Mutator) UpdateExhibitionArtworks(ctx context.Context, id string, orderedIDs []string) error {
	return m.store.UpdateExhibition(ctx, id, mapping.ArtworkIDsColumn(orderedIDs))
}

func (m *Mutator) UpdateExhibitionDetails(ctx context.Context, id string, patch gallery.ExhibitionPatch) error {
	if patch.Artists != nil {
		artists := m.withArtistIDs(*patch.Artists)
		patch.Artists = &artists
	}
	return m.store.UpdateExhibition(ctx, id, mapping.ExhibitionColumns(patch))
}

func (m *Mutator) DeleteExhibition(ctx context.Context, id string) error {
	return m.store.DeleteExhibition(ctx, id)
}
