package mutation

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gallery-kiosk/config"
	"gallery-kiosk/database"
	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/mapping"
	"gallery-kiosk/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestMutator(t *testing.T) (*Mutator, *store.GormStore) {
	t.Helper()
	db, err := database.Open(config.DriverSQLite, filepath.Join(t.TempDir(), "gallery.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	s := store.NewGormStore(db, nil)
	m := New(s, zerolog.Nop())

	n := 0
	m.now = func() time.Time {
		n++
		return fixedNow.Add(time.Duration(n) * time.Minute)
	}
	ids := 0
	m.newID = func() string {
		ids++
		return fmt.Sprintf("id-%d", ids)
	}
	return m, s
}

func mustArtwork(t *testing.T, m *Mutator, title string) gallery.Artwork {
	t.Helper()
	a, err := m.CreateArtwork(context.Background(), ArtworkInput{
		Title:    title,
		Artist:   "Ana Lima",
		ImageURL: "/uploads/" + title + ".jpg",
	})
	require.NoError(t, err)
	return a
}

func mustExhibition(t *testing.T, m *Mutator, title string, ids ...string) gallery.Exhibition {
	t.Helper()
	e, err := m.CreateExhibition(context.Background(), ExhibitionInput{Title: title, ArtworkIDs: ids})
	require.NoError(t, err)
	return e
}

func loadExhibition(t *testing.T, s store.Store, id string) gallery.Exhibition {
	t.Helper()
	rec, err := s.GetExhibition(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, rec, id)
	return mapping.Exhibition(*rec)
}

func loadArtwork(t *testing.T, s store.Store, id string) gallery.Artwork {
	t.Helper()
	rec, err := s.GetArtwork(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, rec, id)
	return mapping.Artwork(*rec)
}

func activeIDs(t *testing.T, s store.Store) []string {
	t.Helper()
	rows, err := s.ListExhibitions(context.Background())
	require.NoError(t, err)
	var out []string
	for _, e := range mapping.Exhibitions(rows) {
		if e.IsActive {
			out = append(out, e.ID)
		}
	}
	return out
}

// ------------------------------
// artworks
// ------------------------------

func TestCreateArtworkDefaults(t *testing.T) {
	m, s := newTestMutator(t)

	a := mustArtwork(t, m, "Dusk")
	assert.Equal(t, "id-1", a.ID)
	assert.Equal(t, gallery.StatusAvailable, a.Status)
	assert.Equal(t, fixedNow.Add(time.Minute), a.CreatedAt)

	got := loadArtwork(t, s, a.ID)
	assert.Equal(t, "Dusk", got.Title)
	assert.Equal(t, gallery.StatusAvailable, got.Status)
	assert.Nil(t, got.Price)
}

func TestCreateArtworkValidation(t *testing.T) {
	m, s := newTestMutator(t)
	ctx := context.Background()

	for _, in := range []ArtworkInput{
		{Artist: "a", ImageURL: "/x.jpg"},
		{Title: "t", ImageURL: "/x.jpg"},
		{Title: "t", Artist: "  "},
	} {
		_, err := m.CreateArtwork(ctx, in)
		assert.ErrorIs(t, err, ErrInvalid)
	}

	rows, err := s.ListArtworks(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateArtwork(t *testing.T) {
	m, s := newTestMutator(t)
	ctx := context.Background()
	a := mustArtwork(t, m, "Dusk")

	sold := gallery.StatusSold
	price := "1200 EUR"
	require.NoError(t, m.UpdateArtwork(ctx, a.ID, gallery.ArtworkPatch{Status: &sold, Price: &price}))

	got := loadArtwork(t, s, a.ID)
	assert.Equal(t, gallery.StatusSold, got.Status)
	assert.Equal(t, "1200 EUR", *got.Price)
	assert.Equal(t, "Dusk", got.Title)

	bogus := gallery.ArtworkStatus("stolen")
	assert.ErrorIs(t, m.UpdateArtwork(ctx, a.ID, gallery.ArtworkPatch{Status: &bogus}), ErrInvalid)
	assert.ErrorIs(t, m.UpdateArtwork(ctx, "missing", gallery.ArtworkPatch{Price: &price}), store.ErrNotFound)
}

func TestDeleteArtworkPurgesExhibitions(t *testing.T) {
	m, s := newTestMutator(t)
	ctx := context.Background()

	x := mustArtwork(t, m, "X")
	y := mustArtwork(t, m, "Y")
	z := mustArtwork(t, m, "Z")
	e1 := mustExhibition(t, m, "E1", y.ID, x.ID, z.ID)
	e2 := mustExhibition(t, m, "E2", x.ID)
	e3 := mustExhibition(t, m, "E3", z.ID, y.ID)

	require.NoError(t, m.DeleteArtwork(ctx, x.ID))

	got, err := s.GetArtwork(ctx, x.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Equal(t, []string{y.ID, z.ID}, loadExhibition(t, s, e1.ID).ArtworkIDs)
	assert.Empty(t, loadExhibition(t, s, e2.ID).ArtworkIDs)
	assert.Equal(t, []string{z.ID, y.ID}, loadExhibition(t, s, e3.ID).ArtworkIDs)
}

func TestDeleteMissingArtworkChangesNothing(t *testing.T) {
	m, s := newTestMutator(t)
	a := mustArtwork(t, m, "A")
	e := mustExhibition(t, m, "E", a.ID, "ghost")

	assert.ErrorIs(t, m.DeleteArtwork(context.Background(), "ghost"), store.ErrNotFound)
	assert.Equal(t, []string{a.ID, "ghost"}, loadExhibition(t, s, e.ID).ArtworkIDs)
}

// ------------------------------
// exhibitions
// ------------------------------

func TestCreateExhibitionIsInactive(t *testing.T) {
	m, s := newTestMutator(t)

	e, err := m.CreateExhibition(context.Background(), ExhibitionInput{
		Title:   "Spring",
		Artists: []gallery.Artist{{Name: "Ana"}, {ID: "keep", Name: "Bo"}},
	})
	require.NoError(t, err)
	assert.False(t, e.IsActive)
	assert.NotNil(t, e.ArtworkIDs)

	got := loadExhibition(t, s, e.ID)
	assert.False(t, got.IsActive)
	require.Len(t, got.Artists, 2)
	assert.NotEmpty(t, got.Artists[0].ID)
	assert.Equal(t, "keep", got.Artists[1].ID)
	assert.Empty(t, activeIDs(t, s))
}

func TestSetExhibitionActiveLeavesOneActive(t *testing.T) {
	m, s := newTestMutator(t)
	ctx := context.Background()

	e1 := mustExhibition(t, m, "E1")
	e2 := mustExhibition(t, m, "E2")
	e3 := mustExhibition(t, m, "E3")

	require.NoError(t, m.SetExhibitionActive(ctx, e1.ID))
	assert.Equal(t, []string{e1.ID}, activeIDs(t, s))

	require.NoError(t, m.SetExhibitionActive(ctx, e2.ID))
	assert.Equal(t, []string{e2.ID}, activeIDs(t, s))

	// idempotent
	require.NoError(t, m.SetExhibitionActive(ctx, e2.ID))
	assert.Equal(t, []string{e2.ID}, activeIDs(t, s))

	require.NoError(t, m.SetExhibitionActive(ctx, e3.ID))
	assert.Equal(t, []string{e3.ID}, activeIDs(t, s))
}

func TestSetExhibitionActiveRepairsSeveralActive(t *testing.T) {
	m, s := newTestMutator(t)
	ctx := context.Background()

	e1 := mustExhibition(t, m, "E1")
	e2 := mustExhibition(t, m, "E2")
	e3 := mustExhibition(t, m, "E3")
	for _, id := range []string{e1.ID, e2.ID} {
		require.NoError(t, s.UpdateExhibition(ctx, id, map[string]any{"is_active": true}))
	}

	require.NoError(t, m.SetExhibitionActive(ctx, e3.ID))
	assert.Equal(t, []string{e3.ID}, activeIDs(t, s))
}

// activationRace runs a competing activation right after the first
// is_active write it sees.
type activationRace struct {
	store.Store
	race func()
}

func (r *activationRace) UpdateExhibition(ctx context.Context, id string, cols map[string]any) error {
	if err := r.Store.UpdateExhibition(ctx, id, cols); err != nil {
		return err
	}
	if cols["is_active"] == true && r.race != nil {
		race := r.race
		r.race = nil
		race()
	}
	return nil
}

func TestSetExhibitionActiveNewerActivationWins(t *testing.T) {
	base, s := newTestMutator(t)
	ctx := context.Background()
	x := mustExhibition(t, base, "X")
	y := mustExhibition(t, base, "Y")

	racing := &activationRace{Store: s, race: func() {
		require.NoError(t, base.SetExhibitionActive(ctx, y.ID))
	}}
	m := New(racing, zerolog.Nop())

	require.NoError(t, m.SetExhibitionActive(ctx, x.ID))
	assert.Equal(t, []string{y.ID}, activeIDs(t, s))
}

func TestSetExhibitionActiveMissing(t *testing.T) {
	m, s := newTestMutator(t)
	ctx := context.Background()

	e1 := mustExhibition(t, m, "E1")
	require.NoError(t, m.SetExhibitionActive(ctx, e1.ID))

	assert.ErrorIs(t, m.SetExhibitionActive(ctx, "nope"), store.ErrNotFound)
	assert.Equal(t, []string{e1.ID}, activeIDs(t, s))
}

func TestUpdateExhibitionArtworksReplacesOrder(t *testing.T) {
	m, s := newTestMutator(t)
	ctx := context.Background()
	e := mustExhibition(t, m, "E", "a", "b", "c")

	require.NoError(t, m.UpdateExhibitionArtworks(ctx, e.ID, []string{"c", "a"}))
	assert.Equal(t, []string{"c", "a"}, loadExhibition(t, s, e.ID).ArtworkIDs)

	require.NoError(t, m.UpdateExhibitionArtworks(ctx, e.ID, nil))
	assert.Empty(t, loadExhibition(t, s, e.ID).ArtworkIDs)

	assert.ErrorIs(t, m.UpdateExhibitionArtworks(ctx, "nope", []string{"a"}), store.ErrNotFound)
}

func TestUpdateExhibitionDetails(t *testing.T) {
	m, s := newTestMutator(t)
	ctx := context.Background()
	e := mustExhibition(t, m, "Before", "a")

	title := "After"
	artists := []gallery.Artist{{Name: "Chloe", Bio: "Paints"}}
	require.NoError(t, m.UpdateExhibitionDetails(ctx, e.ID, gallery.ExhibitionPatch{Title: &title, Artists: &artists}))

	got := loadExhibition(t, s, e.ID)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, []string{"a"}, got.ArtworkIDs)
	require.Len(t, got.Artists, 1)
	assert.Equal(t, "Chloe", got.Artists[0].Name)
	assert.NotEmpty(t, got.Artists[0].ID)

	// empty patch only checks the row exists
	require.NoError(t, m.UpdateExhibitionDetails(ctx, e.ID, gallery.ExhibitionPatch{}))
	assert.ErrorIs(t, m.UpdateExhibitionDetails(ctx, "nope", gallery.ExhibitionPatch{}), store.ErrNotFound)
}

func TestDeleteExhibition(t *testing.T) {
	m, s := newTestMutator(t)
	ctx := context.Background()
	a := mustArtwork(t, m, "A")
	e := mustExhibition(t, m, "E", a.ID)

	require.NoError(t, m.DeleteExhibition(ctx, e.ID))
	rec, err := s.GetExhibition(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// artworks are not owned by the exhibition
	loadArtwork(t, s, a.ID)
	assert.ErrorIs(t, m.DeleteExhibition(ctx, e.ID), store.ErrNotFound)
}
