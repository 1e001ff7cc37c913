package mutation

import (
	"context"
	"encoding/json"
	"fmt"

	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/mapping"
	"gallery-kiosk/internal/store"

	"github.com/tidwall/gjson"
)

// ExportSnapshot serializes every artwork and exhibition.
func (m *Mutator) ExportSnapshot(ctx context.Context) ([]byte, error) {
	artworks, err := m.store.ListArtworks(ctx)
	if err != nil {
		return nil, err
	}
	exhibitions, err := m.store.ListExhibitions(ctx)
	if err != nil {
		return nil, err
	}

	snap := gallery.Snapshot{
		Artworks:    mapping.Artworks(artworks),
		Exhibitions: mapping.Exhibitions(exhibitions),
		ExportedAt:  m.now(),
	}
	return json.MarshalIndent(snap, "", "  ")
}

type ImportResult struct {
	Artworks    int `json:"artworks"`
	Exhibitions int `json:"exhibitions"`
}

// ImportSnapshot upserts every record of doc by id. The document is fully
// validated before anything is written; a rejected document changes
// nothing. At most one exhibition is active afterwards.
func (m *Mutator) ImportSnapshot(ctx context.Context, doc []byte) (ImportResult, error) {
	artworks, exhibitions, err := ParseSnapshot(doc)
	if err != nil {
		return ImportResult{}, err
	}

	aRecs := make([]store.ArtworkRecord, 0, len(artworks))
	for _, a := range artworks {
		aRecs = append(aRecs, mapping.ArtworkRecord(a))
	}
	eRecs := make([]store.ExhibitionRecord, 0, len(exhibitions))
	activeID := ""
	for _, e := range exhibitions {
		if e.IsActive {
			activeID = e.ID
		}
		eRecs = append(eRecs, mapping.ExhibitionRecord(e))
	}

	// The last active exhibition in the document wins over both the other
	// imported ones and whatever was active locally.
	err = m.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.UpsertSnapshot(ctx, aRecs, eRecs); err != nil {
			return err
		}
		if activeID == "" {
			return nil
		}
		_, err := tx.ClearActiveExhibitions(ctx, activeID)
		return err
	})
	if err != nil {
		return ImportResult{}, err
	}
	m.log.Info().Int("artworks", len(aRecs)).Int("exhibitions", len(eRecs)).Msg("snapshot imported")
	return ImportResult{Artworks: len(aRecs), Exhibitions: len(eRecs)}, nil
}

// ParseSnapshot checks the document shape and decodes both collections.
func ParseSnapshot(doc []byte) ([]gallery.Artwork, []gallery.Exhibition, error) {
	if !gjson.ValidBytes(doc) {
		return nil, nil, fmt.Errorf("%w: not valid JSON", ErrInvalidSnapshot)
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return nil, nil, fmt.Errorf("%w: document is not an object", ErrInvalidSnapshot)
	}

	aRaw, err := records(root, "artworks")
	if err != nil {
		return nil, nil, err
	}
	eRaw, err := records(root, "exhibitions")
	if err != nil {
		return nil, nil, err
	}

	artworks := make([]gallery.Artwork, 0, len(aRaw))
	for _, r := range lastByID(aRaw) {
		artworks = append(artworks, mapping.ArtworkJSON(r))
	}
	exhibitions := make([]gallery.Exhibition, 0, len(eRaw))
	for _, r := range lastByID(eRaw) {
		exhibitions = append(exhibitions, mapping.ExhibitionJSON(r))
	}
	return artworks, exhibitions, nil
}

// lastByID keeps the last occurrence of each id, in first-seen order.
func lastByID(items []gjson.Result) []gjson.Result {
	pos := make(map[string]int, len(items))
	out := make([]gjson.Result, 0, len(items))
	for _, item := range items {
		id := item.Get("id").Str
		if i, ok := pos[id]; ok {
			out[i] = item
			continue
		}
		pos[id] = len(out)
		out = append(out, item)
	}
	return out
}

func records(root gjson.Result, key string) ([]gjson.Result, error) {
	v := root.Get(key)
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: %s must be an array", ErrInvalidSnapshot, key)
	}
	items := v.Array()
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: %s[%d] is not an object", ErrInvalidSnapshot, key, i)
		}
		if id := item.Get("id"); id.Type != gjson.String || id.Str == "" {
			return nil, fmt.Errorf("%w: %s[%d] has no id", ErrInvalidSnapshot, key, i)
		}
	}
	return items, nil
}
