package gallery

import (
	"slices"
	"time"
)

// Artist is embedded in an exhibition. Its id is only unique within the
// exhibition's artist list.
type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photoUrl"`
}

type Exhibition struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	IsActive    bool      `json:"isActive"`
	ArtworkIDs  []string  `json:"artworkIds"`
	CreatedAt   time.Time `json:"createdAt"`
	Artists     []Artist  `json:"artists"`

	// Deprecated: single-artist fields kept so older rows still render.
	ArtistBio      *string `json:"artistBio,omitempty"`
	ArtistPhotoURL *string `json:"artistPhotoUrl,omitempty"`
}

// HydratedExhibition carries the resolved artworks in ArtworkIDs order.
type HydratedExhibition struct {
	Exhibition
	Artworks []Artwork `json:"artworks"`
}

type ExhibitionPatch struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	StartDate      *string   `json:"startDate"`
	EndDate        *string   `json:"endDate"`
	Artists        *[]Artist `json:"artists"`
	ArtistBio      *string   `json:"artistBio"`
	ArtistPhotoURL *string   `json:"artistPhotoUrl"`
}

func (p ExhibitionPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.StartDate == nil &&
		p.EndDate == nil && p.Artists == nil && p.ArtistBio == nil && p.ArtistPhotoURL == nil
}

func (e Exhibition) Contains(artworkID string) bool {
	return slices.Contains(e.ArtworkIDs, artworkID)
}

// AddArtwork appends id unless it is already a member.
func AddArtwork(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return slices.Clone(ids)
	}
	return append(slices.Clone(ids), id)
}

// RemoveArtwork drops every occurrence of id.
func RemoveArtwork(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// MoveArtwork moves the element at from to position to. Out of range
// positions return an unchanged copy.
func MoveArtwork(ids []string, from, to int) []string {
	out := slices.Clone(ids)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	v := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, v)
}
