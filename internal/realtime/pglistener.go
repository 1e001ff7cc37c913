package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// PGListener relays postgres NOTIFY payloads produced by the change
// triggers (see database.InstallNotifyTriggers) to a Publisher.
type PGListener struct {
	DSN     string
	Channel string
	Pub     Publisher
	Backoff Backoff
	Log     zerolog.Logger
}

func NewPGListener(dsn, channel string, pub Publisher, log zerolog.Logger) *PGListener {
	return &PGListener{
		DSN:     dsn,
		Channel: channel,
		Pub:     pub,
		Backoff: DefaultBackoff(),
		Log:     log.With().Str("component", "pg-listener").Logger(),
	}
}

// Run listens until ctx is cancelled, reconnecting on failure. Every
// (re)connect publishes a wildcard change since notifications sent while
// disconnected are lost.
func (l *PGListener) Run(ctx context.Context) {
	attempt := 0
	for {
		connected, err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		if connected {
			attempt = 0
		}
		delay := l.Backoff.Delay(attempt)
		attempt++
		l.Log.Warn().Err(err).Dur("retry_in", delay).Msg("realtime listener disconnected")

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

func (l *PGListener) listen(ctx context.Context) (bool, error) {
	conn, err := pgx.Connect(ctx, l.DSN)
	if err != nil {
		return false, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.Channel}.Sanitize()); err != nil {
		return false, fmt.Errorf("listen %s: %w", l.Channel, err)
	}
	l.Log.Info().Str("channel", l.Channel).Msg("realtime listener connected")
	l.Pub.Publish(Change{})

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return true, nil
			}
			return true, fmt.Errorf("wait for notification: %w", err)
		}
		c, ok := ParseNotification(n.Payload)
		if !ok {
			l.Log.Warn().Str("payload", n.Payload).Msg("unreadable notification, treating as wildcard")
		}
		l.Pub.Publish(c)
	}
}

// ParseNotification decodes {"table":..,"op":..,"id":..}. Unknown or
// malformed payloads yield a wildcard change and ok=false.
func ParseNotification(payload string) (Change, bool) {
	if !gjson.Valid(payload) {
		return Change{}, false
	}
	r := gjson.Parse(payload)
	if !r.IsObject() {
		return Change{}, false
	}

	c := Change{
		Table: Table(r.Get("table").String()),
		Op:    Op(r.Get("op").String()),
		ID:    r.Get("id").String(),
	}
	switch c.Table {
	case TableArtworks, TableExhibitions, TableReservations:
	default:
		return Change{}, false
	}
	switch c.Op {
	case OpInsert, OpUpdate, OpDelete:
	default:
		c.Op = OpUpdate
	}
	return c, true
}
