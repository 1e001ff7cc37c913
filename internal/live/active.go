package live

import (
	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/realtime"
)

type ActiveState int

const (
	ActiveLoading ActiveState = iota
	ActiveNone
	ActiveSome
)

func (s ActiveState) String() string {
	switch s {
	case ActiveLoading:
		return "loading"
	case ActiveNone:
		return "none"
	case ActiveSome:
		return "active"
	}
	return "unknown"
}

// ActiveResult keeps the three outcomes apart: not yet resolved, resolved
// with no active exhibition, resolved with one.
type ActiveResult struct {
	State      ActiveState                 `json:"state"`
	Exhibition *gallery.HydratedExhibition `json:"exhibition,omitempty"`
	Err        error                       `json:"-"`
	Generation uint64                      `json:"generation"`
}

func (r ActiveResult) Stale() bool { return r.Err != nil }

func ActiveResultOf(s Snapshot[*gallery.HydratedExhibition]) ActiveResult {
	r := ActiveResult{Err: s.Err, Generation: s.Generation}
	switch {
	case !s.Loaded:
		r.State = ActiveLoading
	case s.Value == nil:
		r.State = ActiveNone
	default:
		r.State = ActiveSome
		r.Exhibition = s.Value
	}
	return r
}

type ActiveQuery struct {
	*Query[*gallery.HydratedExhibition]
}

// ActiveExhibition re-runs on any exhibitions change, on the refresh
// signal, and on a poll interval as a backstop for lost notifications.
// Each source can be stopped on its own.
func (c *Client) ActiveExhibition() *ActiveQuery {
	triggers := append(c.tableTriggers(realtime.TableExhibitions), Every(c.poll))
	return &ActiveQuery{
		Query: NewQuery("active-exhibition", c.FetchActiveExhibition, c.log, triggers...),
	}
}

func (a *ActiveQuery) Result() ActiveResult {
	return ActiveResultOf(a.Snapshot())
}

func (a *ActiveQuery) WatchResult() (ActiveResult, <-chan struct{}) {
	s, ch := a.Watch()
	return ActiveResultOf(s), ch
}
