package live

import (
	"context"
	"sync"
	"time"

	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/mapping"
	"gallery-kiosk/internal/realtime"
	"gallery-kiosk/internal/refresh"
	"gallery-kiosk/internal/store"

	"github.com/rs/zerolog"
)

const DefaultPollInterval = 2 * time.Second

// Reader is the read side of the record store.
type Reader interface {
	ListArtworks(ctx context.Context) ([]store.ArtworkRecord, error)
	ListExhibitions(ctx context.Context) ([]store.ExhibitionRecord, error)
	GetExhibition(ctx context.Context, id string) (*store.ExhibitionRecord, error)
	GetActiveExhibition(ctx context.Context) (*store.ExhibitionRecord, error)
	ListReservations(ctx context.Context) ([]store.ReservationRecord, error)
}

// Client builds live queries. changes and sig may be nil, in which case the
// corresponding triggers are left out.
type Client struct {
	reader  Reader
	changes ChangeSource
	sig     *refresh.Signal
	poll    time.Duration
	log     zerolog.Logger
}

func NewClient(reader Reader, changes ChangeSource, sig *refresh.Signal, poll time.Duration, log zerolog.Logger) *Client {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Client{
		reader:  reader,
		changes: changes,
		sig:     sig,
		poll:    poll,
		log:     log.With().Str("component", "live").Logger(),
	}
}

func (c *Client) tableTriggers(tables ...realtime.Table) []Trigger {
	var out []Trigger
	if c.changes != nil {
		for _, t := range tables {
			out = append(out, OnTable(c.changes, t))
		}
	}
	if c.sig != nil {
		out = append(out, OnRefresh(c.sig))
	}
	return out
}

// ------------------------------
// one-shot reads
// ------------------------------

func (c *Client) FetchArtworks(ctx context.Context) ([]gallery.Artwork, error) {
	rows, err := c.reader.ListArtworks(ctx)
	if err != nil {
		return nil, err
	}
	return mapping.Artworks(rows), nil
}

func (c *Client) FetchExhibitions(ctx context.Context) ([]gallery.Exhibition, error) {
	rows, err := c.reader.ListExhibitions(ctx)
	if err != nil {
		return nil, err
	}
	return mapping.Exhibitions(rows), nil
}

// FetchExhibition returns nil when no row matches id.
func (c *Client) FetchExhibition(ctx context.Context, id string) (*gallery.HydratedExhibition, error) {
	if id == "" {
		return nil, nil
	}
	rec, err := c.reader.GetExhibition(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return c.hydrate(ctx, *rec)
}

// FetchActiveExhibition returns nil when no exhibition is active.
func (c *Client) FetchActiveExhibition(ctx context.Context) (*gallery.HydratedExhibition, error) {
	rec, err := c.reader.GetActiveExhibition(ctx)
	if err != nil || rec == nil {
		return nil, err
	}
	return c.hydrate(ctx, *rec)
}

func (c *Client) hydrate(ctx context.Context, rec store.ExhibitionRecord) (*gallery.HydratedExhibition, error) {
	artworks, err := c.FetchArtworks(ctx)
	if err != nil {
		return nil, err
	}
	h := Hydrate(mapping.Exhibition(rec), artworks)
	return &h, nil
}

func (c *Client) FetchReservations(ctx context.Context) ([]gallery.ReservationView, error) {
	rows, err := c.reader.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	artworks, err := c.FetchArtworks(ctx)
	if err != nil {
		return nil, err
	}
	return JoinReservations(mapping.Reservations(rows), artworks), nil
}

// ------------------------------
// live queries
// ------------------------------

// Artworks lists every artwork newest first. Re-runs on the artworks table
// and the refresh signal.
func (c *Client) Artworks() *Query[[]gallery.Artwork] {
	return NewQuery("artworks", c.FetchArtworks, c.log, c.tableTriggers(realtime.TableArtworks)...)
}

// Exhibitions lists every exhibition newest first, not hydrated.
func (c *Client) Exhibitions() *Query[[]gallery.Exhibition] {
	return NewQuery("exhibitions", c.FetchExhibitions, c.log, c.tableTriggers(realtime.TableExhibitions)...)
}

// Reservations is the admin inbox. It also watches artworks because the
// joined title and image come from there.
func (c *Client) Reservations() *Query[[]gallery.ReservationView] {
	return NewQuery("reservations", c.FetchReservations, c.log,
		c.tableTriggers(realtime.TableReservations, realtime.TableArtworks)...)
}

// ExhibitionQuery is the hydrated exhibition for one id. A nil value after
// loading means the row does not exist.
type ExhibitionQuery struct {
	*Query[*gallery.HydratedExhibition]

	client    *Client
	mu        sync.Mutex
	id        string
	removeRow func()
}

func (c *Client) Exhibition(id string) *ExhibitionQuery {
	eq := &ExhibitionQuery{client: c, id: id}
	eq.Query = newQuery("exhibition", eq.fetch, c.log)
	if c.sig != nil {
		eq.AddTrigger(OnRefresh(c.sig))
	}
	eq.watchRow(id)
	eq.Invalidate()
	return eq
}

func (eq *ExhibitionQuery) ID() string {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	return eq.id
}

func (eq *ExhibitionQuery) fetch(ctx context.Context) (*gallery.HydratedExhibition, error) {
	return eq.client.FetchExhibition(ctx, eq.ID())
}

func (eq *ExhibitionQuery) watchRow(id string) {
	if eq.client.changes == nil || id == "" {
		return
	}
	remove := eq.AddTrigger(OnRow(eq.client.changes, realtime.TableExhibitions, id))
	eq.mu.Lock()
	eq.removeRow = remove
	eq.mu.Unlock()
}

// SetID switches the query to another exhibition. The previous value is
// dropped and the query reports loading until the new row resolves.
func (eq *ExhibitionQuery) SetID(id string) {
	eq.mu.Lock()
	if id == eq.id {
		eq.mu.Unlock()
		return
	}
	eq.id = id
	remove := eq.removeRow
	eq.removeRow = nil
	eq.mu.Unlock()

	if remove != nil {
		remove()
	}
	eq.watchRow(id)
	eq.Reset()
}
