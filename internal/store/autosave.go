package store

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Autosaver writes snapshots on a background goroutine. Bursts coalesce to the latest
// snapshot; a failed write is logged and the next Enqueue tries again.
type Autosaver struct {
	p *Persistence

	mu        sync.Mutex
	pendingDB *DB
	pendingUI *UIState
	closed    bool
	saved     int
	failed    int

	kick  chan struct{}
	flush chan chan struct{}
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func NewAutosaver(p *Persistence) *Autosaver {
	a := &Autosaver{
		p:     p,
		kick:  make(chan struct{}, 1),
		flush: make(chan chan struct{}),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go a.loop()
	return a
}

// Enqueue schedules db to be written. It never blocks; db must not be mutated afterwards.
func (a *Autosaver) Enqueue(db *DB) {
	if db == nil {
		return
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.p.Log.WithFields(a.p.fields()).Debug("autosave closed; dropping snapshot")
		return
	}
	a.pendingDB = db
	a.mu.Unlock()
	a.poke()
}

// EnqueueUI schedules the selection state to be written under the UI key.
func (a *Autosaver) EnqueueUI(st UIState) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.pendingUI = &st
	a.mu.Unlock()
	a.poke()
}

func (a *Autosaver) poke() {
	select {
	case a.kick <- struct{}{}:
	default:
	}
}

// Flush blocks until everything enqueued before the call has been attempted.
func (a *Autosaver) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case a.flush <- ack:
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the pending snapshot and stops the goroutine.
func (a *Autosaver) Close(ctx context.Context) error {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()
		close(a.stop)
	})
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns how many writes succeeded and failed so far.
func (a *Autosaver) Stats() (saved, failed int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saved, a.failed
}

func (a *Autosaver) loop() {
	defer close(a.done)
	for {
		select {
		case <-a.kick:
			a.writePending()
		case ack := <-a.flush:
			a.writePending()
			close(ack)
		case <-a.stop:
			a.writePending()
			return
		}
	}
}

func (a *Autosaver) writePending() {
	a.mu.Lock()
	db, ui := a.pendingDB, a.pendingUI
	a.pendingDB, a.pendingUI = nil, nil
	a.mu.Unlock()

	ctx := context.Background()
	if db != nil {
		err := a.p.Save(ctx, db)
		a.record(err)
		if err != nil {
			a.p.Log.WithFields(a.p.fields()).WithError(err).Warn("autosave failed")
		}
	}
	if ui != nil {
		if err := SaveUIState(ctx, a.p.Backend, a.p.UIKey(), *ui); err != nil {
			a.p.Log.WithFields(log.Fields{"key": a.p.UIKey(), "backend": a.p.Backend.Name()}).
				WithError(err).Debug("ui state save failed")
		}
	}
}

func (a *Autosaver) record(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.failed++
		return
	}
	a.saved++
}
