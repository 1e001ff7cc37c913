package gallery

import (
	"sort"
	"strings"
)

const LegacyArtistID = "legacy"

// EffectiveArtists returns the exhibition's artist roster. Exhibitions
// created before multi-artist support only carry the legacy bio/photo
// fields; those get a single synthesized entry.
func (e Exhibition) EffectiveArtists() []Artist {
	if len(e.Artists) > 0 {
		return e.Artists
	}
	if e.ArtistBio == nil && e.ArtistPhotoURL == nil {
		return []Artist{}
	}
	a := Artist{ID: LegacyArtistID, Name: "Artist"}
	if e.ArtistBio != nil {
		a.Bio = *e.ArtistBio
	}
	if e.ArtistPhotoURL != nil {
		a.PhotoURL = *e.ArtistPhotoURL
	}
	return []Artist{a}
}

// ArtworksByArtist matches on the free-text artist name, case-insensitive
// containment. Renaming an artist silently breaks the association.
func ArtworksByArtist(artworks []Artwork, name string) []Artwork {
	needle := strings.ToLower(strings.TrimSpace(name))
	out := make([]Artwork, 0)
	if needle == "" {
		return out
	}
	for _, a := range artworks {
		if strings.Contains(strings.ToLower(a.Artist), needle) {
			out = append(out, a)
		}
	}
	return out
}

// DistinctArtists lists the artist names used by artworks, sorted.
func DistinctArtists(artworks []Artwork) []string {
	seen := make(map[string]struct{}, len(artworks))
	out := make([]string, 0)
	for _, a := range artworks {
		if a.Artist == "" {
			continue
		}
		if _, ok := seen[a.Artist]; ok {
			continue
		}
		seen[a.Artist] = struct{}{}
		out = append(out, a.Artist)
	}
	sort.Strings(out)
	return out
}

func UpsertArtist(artists []Artist, a Artist) []Artist {
	out := make([]Artist, 0, len(artists)+1)
	replaced := false
	for _, cur := range artists {
		if cur.ID == a.ID {
			out = append(out, a)
			replaced = true
			continue
		}
		out = append(out, cur)
	}
	if !replaced {
		out = append(out, a)
	}
	return out
}

func RemoveArtist(artists []Artist, id string) []Artist {
	out := make([]Artist, 0, len(artists))
	for _, a := range artists {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}
