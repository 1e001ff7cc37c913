// Package realtime carries "something changed, re-query" signals from the
// record store to live queries. Signals never carry row contents.
package realtime

import "time"

type Table string

const (
	TableArtworks     Table = "artworks"
	TableExhibitions  Table = "exhibitions"
	TableReservations Table = "reservations"
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change is one notification. An empty Table means any table may have
// changed; an empty ID means any row of Table may have changed.
type Change struct {
	Table Table     `json:"table"`
	Op    Op        `json:"op"`
	ID    string    `json:"id,omitempty"`
	At    time.Time `json:"at"`
}

// Publisher accepts changes from writers and listeners.
type Publisher interface {
	Publish(Change)
}

// Filter selects which changes a subscriber wants. Zero values are wildcards.
type Filter struct {
	Table Table
	ID    string
}

func (f Filter) Match(c Change) bool {
	if f.Table != "" && c.Table != "" && f.Table != c.Table {
		return false
	}
	if f.ID != "" && c.ID != "" && f.ID != c.ID {
		return false
	}
	return true
}
