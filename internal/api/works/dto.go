package works

import "gallery-kiosk/internal/domain/gallery"

// ---------- requests

type CreateArtworkRequest struct {
	Title       string  `json:"title" binding:"required"`
	Artist      string  `json:"artist" binding:"required"`
	Year        string  `json:"year"`
	Medium      string  `json:"medium"`
	Dimensions  string  `json:"dimensions"`
	ImageURL    string  `json:"imageUrl" binding:"required"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
}

type UpdateArtworkRequest = gallery.ArtworkPatch

type CreateExhibitionRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	StartDate   string           `json:"startDate"`
	EndDate     string           `json:"endDate"`
	ArtworkIDs  []string         `json:"artworkIds"`
	Artists     []gallery.Artist `json:"artists"`
}

type UpdateExhibitionRequest = gallery.ExhibitionPatch

type ReorderArtworksRequest struct {
	ArtworkIDs []string `json:"artworkIds" binding:"required"` // ordered list
}

type AddArtworkRequest struct {
	ArtworkID string `json:"artworkId" binding:"required"`
}

type MoveArtworkRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

// ---------- responses

type ExhibitionSummary struct {
	gallery.Exhibition
	Artists []gallery.Artist `json:"artists"`
}

func summarize(list []gallery.Exhibition) []ExhibitionSummary {
	out := make([]ExhibitionSummary, 0, len(list))
	for _, e := range list {
		out = append(out, ExhibitionSummary{Exhibition: e, Artists: e.EffectiveArtists()})
	}
	return out
}
