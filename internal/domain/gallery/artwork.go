package gallery

import "time"

type ArtworkStatus string

const (
	StatusAvailable ArtworkStatus = "available"
	StatusReserved  ArtworkStatus = "reserved"
	StatusSold      ArtworkStatus = "sold"
)

func (s ArtworkStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	}
	return false
}

// Artwork is a single physical work on display. Artist is free text, not a
// reference to an Artist record.
type Artwork struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Artist      string        `json:"artist"`
	Year        string        `json:"year"`
	Medium      string        `json:"medium"`
	Dimensions  string        `json:"dimensions"`
	ImageURL    string        `json:"imageUrl"`
	Description *string       `json:"description,omitempty"`
	Price       *string       `json:"price,omitempty"`
	Status      ArtworkStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ArtworkPatch names the fields an update touches. Nil means unchanged.
type ArtworkPatch struct {
	Title       *string        `json:"title"`
	Artist      *string        `json:"artist"`
	Year        *string        `json:"year"`
	Medium      *string        `json:"medium"`
	Dimensions  *string        `json:"dimensions"`
	ImageURL    *string        `json:"imageUrl"`
	Description *string        `json:"description"`
	Price       *string        `json:"price"`
	Status      *ArtworkStatus `json:"status"`
}

func (p ArtworkPatch) Empty() bool {
	return p.Title == nil && p.Artist == nil && p.Year == nil && p.Medium == nil &&
		p.Dimensions == nil && p.ImageURL == nil && p.Description == nil &&
		p.Price == nil && p.Status == nil
}
