package mutation

import (
	"context"

	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/mapping"
	"gallery-kiosk/internal/store"
)

// Curator edits are read-modify-write on one exhibition row, each in its own
// transaction. They end in the same column writes as
// UpdateExhibitionArtworks and UpdateExhibitionDetails.

func (m *Mutator) editExhibition(ctx context.Context, id string, edit func(e gallery.Exhibition) (map[string]any, error)) error {
	return m.store.Transaction(ctx, func(tx store.Store) error {
		rec, err := tx.GetExhibition(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return store.ErrNotFound
		}
		cols, err := edit(mapping.Exhibition(*rec))
		if err != nil {
			return err
		}
		return tx.UpdateExhibition(ctx, id, cols)
	})
}

// AddArtworkToExhibition appends artworkID to the exhibition unless it is
// already a member.
func (m *Mutator) AddArtworkToExhibition(ctx context.Context, id, artworkID string) error {
	if blank(artworkID) {
		return invalid("artworkId is required")
	}
	return m.editExhibition(ctx, id, func(e gallery.Exhibition) (map[string]any, error) {
		return mapping.ArtworkIDsColumn(gallery.AddArtwork(e.ArtworkIDs, artworkID)), nil
	})
}

func (m *Mutator) RemoveArtworkFromExhibition(ctx context.Context, id, artworkID string) error {
	return m.editExhibition(ctx, id, func(e gallery.Exhibition) (map[string]any, error) {
		return mapping.ArtworkIDsColumn(gallery.RemoveArtwork(e.ArtworkIDs, artworkID)), nil
	})
}

// MoveExhibitionArtwork moves the artwork at position from to position to.
func (m *Mutator) MoveExhibitionArtwork(ctx context.Context, id string, from, to int) error {
	return m.editExhibition(ctx, id, func(e gallery.Exhibition) (map[string]any, error) {
		n := len(e.ArtworkIDs)
		if from < 0 || from >= n || to < 0 || to >= n {
			return nil, invalid("position out of range (have %d artworks)", n)
		}
		return mapping.ArtworkIDsColumn(gallery.MoveArtwork(e.ArtworkIDs, from, to)), nil
	})
}

// SaveExhibitionArtist adds a to the roster, or replaces the entry with the
// same id. A legacy-only exhibition starts from its synthesized entry.
func (m *Mutator) SaveExhibitionArtist(ctx context.Context, id string, a gallery.Artist) (gallery.Artist, error) {
	if blank(a.Name) {
		return gallery.Artist{}, invalid("artist name is required")
	}
	if a.ID == "" {
		a.ID = m.newID()
	}
	err := m.editExhibition(ctx, id, func(e gallery.Exhibition) (map[string]any, error) {
		artists := gallery.UpsertArtist(e.EffectiveArtists(), a)
		return mapping.ExhibitionColumns(gallery.ExhibitionPatch{Artists: &artists}), nil
	})
	if err != nil {
		return gallery.Artist{}, err
	}
	return a, nil
}

func (m *Mutator) RemoveExhibitionArtist(ctx context.Context, id, artistID string) error {
	return m.editExhibition(ctx, id, func(e gallery.Exhibition) (map[string]any, error) {
		artists := gallery.RemoveArtist(e.EffectiveArtists(), artistID)
		return mapping.ExhibitionColumns(gallery.ExhibitionPatch{Artists: &artists}), nil
	})
}
