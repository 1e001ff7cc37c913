package mapping

import (
	"time"

	"gallery-kiosk/internal/domain/gallery"

	"github.com/tidwall/gjson"
)

// Documents written by older clients use either naming convention. The
// lookups below are the only place that knows about both.

func field(r gjson.Result, camel, snake string) gjson.Result {
	if v := r.Get(camel); v.Exists() && v.Type != gjson.Null {
		return v
	}
	return r.Get(snake)
}

func optString(v gjson.Result) *string {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	return ptr(v.String())
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp accepts epoch milliseconds or a textual timestamp. Anything
// else yields the zero time.
func Timestamp(v gjson.Result) time.Time {
	switch v.Type {
	case gjson.Number:
		return time.UnixMilli(v.Int()).UTC()
	case gjson.String:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v.Str); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

func stringList(v gjson.Result) []string {
	out := make([]string, 0)
	if !v.IsArray() {
		return out
	}
	for _, item := range v.Array() {
		if item.Type == gjson.String && item.Str != "" {
			out = append(out, item.Str)
		}
	}
	return out
}

func ArtworkJSON(r gjson.Result) gallery.Artwork {
	return gallery.Artwork{
		ID:          r.Get("id").String(),
		Title:       r.Get("title").String(),
		Artist:      r.Get("artist").String(),
		Year:        r.Get("year").String(),
		Medium:      r.Get("medium").String(),
		Dimensions:  r.Get("dimensions").String(),
		ImageURL:    field(r, "imageUrl", "image_url").String(),
		Description: optString(r.Get("description")),
		Price:       optString(r.Get("price")),
		Status:      ArtworkStatusOf(r.Get("status").String()),
		CreatedAt:   Timestamp(field(r, "createdAt", "created_at")),
	}
}

func ArtistJSON(r gjson.Result) gallery.Artist {
	return gallery.Artist{
		ID:       r.Get("id").String(),
		Name:     r.Get("name").String(),
		Bio:      r.Get("bio").String(),
		PhotoURL: field(r, "photoUrl", "photo_url").String(),
	}
}

func ExhibitionJSON(r gjson.Result) gallery.Exhibition {
	artists := make([]gallery.Artist, 0)
	if a := r.Get("artists"); a.IsArray() {
		for _, item := range a.Array() {
			if item.IsObject() {
				artists = append(artists, ArtistJSON(item))
			}
		}
	}

	return gallery.Exhibition{
		ID:             r.Get("id").String(),
		Title:          r.Get("title").String(),
		Description:    r.Get("description").String(),
		StartDate:      field(r, "startDate", "start_date").String(),
		EndDate:        field(r, "endDate", "end_date").String(),
		IsActive:       field(r, "isActive", "is_active").Bool(),
		ArtworkIDs:     stringList(field(r, "artworkIds", "artwork_ids")),
		CreatedAt:      Timestamp(field(r, "createdAt", "created_at")),
		Artists:        artists,
		ArtistBio:      optString(field(r, "artistBio", "artist_bio")),
		ArtistPhotoURL: optString(field(r, "artistPhotoUrl", "artist_photo_url")),
	}
}
