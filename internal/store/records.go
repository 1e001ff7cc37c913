package store

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Records mirror the wire shape of the tables column for column. Everything
// except the key is nullable; the mapping package supplies defaults.

type ArtworkRecord struct {
	ID          string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title       *string    `json:"title"`
	Artist      *string    `json:"artist"`
	Year        *string    `json:"year"`
	Medium      *string    `json:"medium"`
	Dimensions  *string    `json:"dimensions"`
	ImageURL    *string    `gorm:"column:image_url" json:"image_url"`
	Description *string    `json:"description"`
	Price       *string    `json:"price"`
	Status      *string    `gorm:"index" json:"status"`
	CreatedAt   *time.Time `gorm:"column:created_at;autoCreateTime:false;index" json:"created_at"`
}

func (ArtworkRecord) TableName() string { return "artworks" }

type ExhibitionRecord struct {
	ID             string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	StartDate      *string    `gorm:"column:start_date" json:"start_date"`
	EndDate        *string    `gorm:"column:end_date" json:"end_date"`
	IsActive       *bool      `gorm:"column:is_active;index" json:"is_active"`
	ArtworkIDs     IDList     `gorm:"column:artwork_ids" json:"artwork_ids"`
	CreatedAt      *time.Time `gorm:"column:created_at;autoCreateTime:false;index" json:"created_at"`
	ArtistBio      *string    `gorm:"column:artist_bio" json:"artist_bio"`
	ArtistPhotoURL *string    `gorm:"column:artist_photo_url" json:"artist_photo_url"`
	Artists        ArtistList `gorm:"column:artists" json:"artists"`
}

func (ExhibitionRecord) TableName() string { return "exhibitions" }

type ReservationRecord struct {
	ID           string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ArtworkID    *string    `gorm:"column:artwork_id;index" json:"artwork_id"`
	VisitorName  *string    `gorm:"column:visitor_name" json:"visitor_name"`
	VisitorEmail *string    `gorm:"column:visitor_email" json:"visitor_email"`
	VisitorPhone *string    `gorm:"column:visitor_phone" json:"visitor_phone"`
	Status       *string    `json:"status"`
	CreatedAt    *time.Time `gorm:"column:created_at;autoCreateTime:false;index" json:"created_at"`
}

func (ReservationRecord) TableName() string { return "reservations" }

// ArtistRecord is the wire shape of one entry in exhibitions.artists.
type ArtistRecord struct {
	ID       *string `json:"id"`
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	PhotoURL *string `json:"photo_url"`
}

var (
	artworkColumns = []string{
		"title", "artist", "year", "medium", "dimensions", "image_url",
		"description", "price", "status", "created_at",
	}
	exhibitionColumns = []string{
		"title", "description", "start_date", "end_date", "is_active", "artwork_ids",
		"created_at", "artist_bio", "artist_photo_url", "artists",
	}
)

// ------------------------------
// JSON columns
// ------------------------------

// IDList is stored as a JSON array (jsonb on postgres, text elsewhere).
type IDList []string

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan never fails: an unreadable list becomes nil and is defaulted later.
func (l *IDList) Scan(src any) error {
	var out []string
	if !scanJSON(src, &out) {
		out = nil
	}
	*l = out
	return nil
}

func (IDList) GormDataType() string { return "json" }

func (IDList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

type ArtistList []ArtistRecord

func (l ArtistList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]ArtistRecord(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ArtistList) Scan(src any) error {
	var out []ArtistRecord
	if !scanJSON(src, &out) {
		out = nil
	}
	*l = out
	return nil
}

func (ArtistList) GormDataType() string { return "json" }

func (ArtistList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

func scanJSON(src any, dst any) bool {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return false
	}
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func jsonColumnType(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}
