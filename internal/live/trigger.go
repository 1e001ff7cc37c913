package live

import (
	"sync"
	"time"

	"gallery-kiosk/internal/realtime"
	"gallery-kiosk/internal/refresh"
)

// Trigger is an independent source of re-run requests. Start begins calling
// fire and returns a func that stops it; stop is idempotent.
type Trigger interface {
	Start(fire func()) (stop func())
}

type TriggerFunc func(fire func()) (stop func())

func (f TriggerFunc) Start(fire func()) func() { return f(fire) }

// ChangeSource is the change-notification channel, usually a *realtime.Hub.
type ChangeSource interface {
	Subscribe(f realtime.Filter) (<-chan realtime.Change, func())
}

func loop[V any](ch <-chan V, cancel func(), fire func()) func() {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					return
				}
				fire()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			cancel()
		})
	}
}

// OnTable fires on any change to table.
func OnTable(src ChangeSource, table realtime.Table) Trigger {
	return OnRow(src, table, "")
}

// OnRow fires on changes to one row of table. An empty id watches the
// whole table.
func OnRow(src ChangeSource, table realtime.Table, id string) Trigger {
	return TriggerFunc(func(fire func()) func() {
		ch, cancel := src.Subscribe(realtime.Filter{Table: table, ID: id})
		return loop(ch, cancel, fire)
	})
}

// OnRefresh fires whenever the manual refresh counter changes.
func OnRefresh(sig *refresh.Signal) Trigger {
	return TriggerFunc(func(fire func()) func() {
		ch, cancel := sig.Subscribe()
		return loop(ch, cancel, fire)
	})
}

// Every fires on a fixed wall-clock interval.
func Every(d time.Duration) Trigger {
	return TriggerFunc(func(fire func()) func() {
		t := time.NewTicker(d)
		return loop(t.C, t.Stop, fire)
	})
}
