package gallery

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationContacted ReservationStatus = "contacted"
	ReservationClosed    ReservationStatus = "closed"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationContacted, ReservationClosed:
		return true
	}
	return false
}

type Reservation struct {
	ID           string            `json:"id"`
	ArtworkID    string            `json:"artworkId"`
	VisitorName  string            `json:"visitorName"`
	VisitorEmail string            `json:"visitorEmail"`
	VisitorPhone *string           `json:"visitorPhone,omitempty"`
	Status       ReservationStatus `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// ReservationView is a reservation joined with the artwork it points at.
// ArtworkTitle and ArtworkImageURL are empty when the artwork is gone.
type ReservationView struct {
	Reservation
	ArtworkTitle    string `json:"artworkTitle"`
	ArtworkImageURL string `json:"artworkImageUrl"`
}

// Snapshot is the whole-database export document.
type Snapshot struct {
	Artworks    []Artwork    `json:"artworks"`
	Exhibitions []Exhibition `json:"exhibitions"`
	ExportedAt  time.Time    `json:"exportedAt"`
}
