// Package mapping translates between the record store's wire shape and the
// gallery entities. Every function here is total: missing or null columns
// become defaults, never errors.
package mapping

import (
	"time"

	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/store"
)

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptr[T any](v T) *T { return &v }

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	return ptr(*p)
}

func timeOf(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return p.UTC()
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return ptr(t.UTC())
}

func ArtworkStatusOf(s string) gallery.ArtworkStatus {
	st := gallery.ArtworkStatus(s)
	if !st.Valid() {
		return gallery.StatusAvailable
	}
	return st
}

func ReservationStatusOf(s string) gallery.ReservationStatus {
	st := gallery.ReservationStatus(s)
	if !st.Valid() {
		return gallery.ReservationPending
	}
	return st
}

// ------------------------------
// artworks
// ------------------------------

func Artwork(r store.ArtworkRecord) gallery.Artwork {
	return gallery.Artwork{
		ID:          r.ID,
		Title:       str(r.Title),
		Artist:      str(r.Artist),
		Year:        str(r.Year),
		Medium:      str(r.Medium),
		Dimensions:  str(r.Dimensions),
		ImageURL:    str(r.ImageURL),
		Description: clonePtr(r.Description),
		Price:       clonePtr(r.Price),
		Status:      ArtworkStatusOf(str(r.Status)),
		CreatedAt:   timeOf(r.CreatedAt),
	}
}

func Artworks(rows []store.ArtworkRecord) []gallery.Artwork {
	out := make([]gallery.Artwork, 0, len(rows))
	for _, r := range rows {
		out = append(out, Artwork(r))
	}
	return out
}

func ArtworkRecord(a gallery.Artwork) store.ArtworkRecord {
	status := a.Status
	if !status.Valid() {
		status = gallery.StatusAvailable
	}
	return store.ArtworkRecord{
		ID:          a.ID,
		Title:       ptr(a.Title),
		Artist:      ptr(a.Artist),
		Year:        ptr(a.Year),
		Medium:      ptr(a.Medium),
		Dimensions:  ptr(a.Dimensions),
		ImageURL:    ptr(a.ImageURL),
		Description: clonePtr(a.Description),
		Price:       clonePtr(a.Price),
		Status:      ptr(string(status)),
		CreatedAt:   timePtr(a.CreatedAt),
	}
}

// ArtworkColumns lists the columns a patch touches, keyed by wire name.
func ArtworkColumns(p gallery.ArtworkPatch) map[string]any {
	cols := map[string]any{}
	setStr(cols, "title", p.Title)
	setStr(cols, "artist", p.Artist)
	setStr(cols, "year", p.Year)
	setStr(cols, "medium", p.Medium)
	setStr(cols, "dimensions", p.Dimensions)
	setStr(cols, "image_url", p.ImageURL)
	setStr(cols, "description", p.Description)
	setStr(cols, "price", p.Price)
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	return cols
}

func setStr(cols map[string]any, name string, v *string) {
	if v != nil {
		cols[name] = *v
	}
}

// ------------------------------
// exhibitions
// ------------------------------

func Artists(rows store.ArtistList) []gallery.Artist {
	out := make([]gallery.Artist, 0, len(rows))
	for _, r := range rows {
		out = append(out, gallery.Artist{
			ID:       str(r.ID),
			Name:     str(r.Name),
			Bio:      str(r.Bio),
			PhotoURL: str(r.PhotoURL),
		})
	}
	return out
}

func ArtistRecords(artists []gallery.Artist) store.ArtistList {
	out := make(store.ArtistList, 0, len(artists))
	for _, a := range artists {
		out = append(out, store.ArtistRecord{
			ID:       ptr(a.ID),
			Name:     ptr(a.Name),
			Bio:      ptr(a.Bio),
			PhotoURL: ptr(a.PhotoURL),
		})
	}
	return out
}

func Exhibition(r store.ExhibitionRecord) gallery.Exhibition {
	ids := make([]string, 0, len(r.ArtworkIDs))
	ids = append(ids, r.ArtworkIDs...)

	return gallery.Exhibition{
		ID:             r.ID,
		Title:          str(r.Title),
		Description:    str(r.Description),
		StartDate:      str(r.StartDate),
		EndDate:        str(r.EndDate),
		IsActive:       r.IsActive != nil && *r.IsActive,
		ArtworkIDs:     ids,
		CreatedAt:      timeOf(r.CreatedAt),
		Artists:        Artists(r.Artists),
		ArtistBio:      clonePtr(r.ArtistBio),
		ArtistPhotoURL: clonePtr(r.ArtistPhotoURL),
	}
}

func Exhibitions(rows []store.ExhibitionRecord) []gallery.Exhibition {
	out := make([]gallery.Exhibition, 0, len(rows))
	for _, r := range rows {
		out = append(out, Exhibition(r))
	}
	return out
}

func ExhibitionRecord(e gallery.Exhibition) store.ExhibitionRecord {
	ids := make(store.IDList, 0, len(e.ArtworkIDs))
	ids = append(ids, e.ArtworkIDs...)

	return store.ExhibitionRecord{
		ID:             e.ID,
		Title:          ptr(e.Title),
		Description:    ptr(e.Description),
		StartDate:      ptr(e.StartDate),
		EndDate:        ptr(e.EndDate),
		IsActive:       ptr(e.IsActive),
		ArtworkIDs:     ids,
		CreatedAt:      timePtr(e.CreatedAt),
		Artists:        ArtistRecords(e.Artists),
		ArtistBio:      clonePtr(e.ArtistBio),
		ArtistPhotoURL: clonePtr(e.ArtistPhotoURL),
	}
}

func ExhibitionColumns(p gallery.ExhibitionPatch) map[string]any {
	cols := map[string]any{}
	setStr(cols, "title", p.Title)
	setStr(cols, "description", p.Description)
	setStr(cols, "start_date", p.StartDate)
	setStr(cols, "end_date", p.EndDate)
	setStr(cols, "artist_bio", p.ArtistBio)
	setStr(cols, "artist_photo_url", p.ArtistPhotoURL)
	if p.Artists != nil {
		cols["artists"] = ArtistRecords(*p.Artists)
	}
	return cols
}

// ArtworkIDsColumn is the column map replacing an exhibition's membership.
func ArtworkIDsColumn(ids []string) map[string]any {
	list := make(store.IDList, 0, len(ids))
	list = append(list, ids...)
	return map[string]any{"artwork_ids": list}
}

// ------------------------------
// reservations
// ------------------------------

func Reservation(r store.ReservationRecord) gallery.Reservation {
	return gallery.Reservation{
		ID:           r.ID,
		ArtworkID:    str(r.ArtworkID),
		VisitorName:  str(r.VisitorName),
		VisitorEmail: str(r.VisitorEmail),
		VisitorPhone: clonePtr(r.VisitorPhone),
		Status:       ReservationStatusOf(str(r.Status)),
		CreatedAt:    timeOf(r.CreatedAt),
	}
}

func Reservations(rows []store.ReservationRecord) []gallery.Reservation {
	out := make([]gallery.Reservation, 0, len(rows))
	for _, r := range rows {
		out = append(out, Reservation(r))
	}
	return out
}

func ReservationRecord(r gallery.Reservation) store.ReservationRecord {
	return store.ReservationRecord{
		ID:           r.ID,
		ArtworkID:    ptr(r.ArtworkID),
		VisitorName:  ptr(r.VisitorName),
		VisitorEmail: ptr(r.VisitorEmail),
		VisitorPhone: clonePtr(r.VisitorPhone),
		Status:       ptr(string(ReservationStatusOf(string(r.Status)))),
		CreatedAt:    timePtr(r.CreatedAt),
	}
}
