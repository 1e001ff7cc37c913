package live

import "gallery-kiosk/internal/domain/gallery"

// Hydrate resolves e.ArtworkIDs against artworks, keeping ArtworkIDs order
// and dropping ids that no longer resolve.
func Hydrate(e gallery.Exhibition, artworks []gallery.Artwork) gallery.HydratedExhibition {
	index := make(map[string]gallery.Artwork, len(artworks))
	for _, a := range artworks {
		index[a.ID] = a
	}

	out := make([]gallery.Artwork, 0, len(e.ArtworkIDs))
	for _, id := range e.ArtworkIDs {
		if a, ok := index[id]; ok {
			out = append(out, a)
		}
	}
	return gallery.HydratedExhibition{Exhibition: e, Artworks: out}
}

// JoinReservations attaches artwork title and image to each reservation.
func JoinReservations(rs []gallery.Reservation, artworks []gallery.Artwork) []gallery.ReservationView {
	index := make(map[string]gallery.Artwork, len(artworks))
	for _, a := range artworks {
		index[a.ID] = a
	}

	out := make([]gallery.ReservationView, 0, len(rs))
	for _, r := range rs {
		v := gallery.ReservationView{Reservation: r}
		if a, ok := index[r.ArtworkID]; ok {
			v.ArtworkTitle = a.Title
			v.ArtworkImageURL = a.ImageURL
		}
		out = append(out, v)
	}
	return out
}
