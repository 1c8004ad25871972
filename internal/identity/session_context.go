// Copyright (c) 2026 SiteSolve Solutions
// SPDX-License-Identifier: GPL-3.0-or-later

package identity

import (
	"context"
	"log/slog"
	"sync"
)

// Source is what a SessionContext reads identities from. *Provider
// satisfies it.
type Source interface {
	Current(ctx context.Context) (*Identity, error)
	OnChange(fn func(Event)) Subscription
}

// State is a snapshot of a SessionContext.
type State struct {
	Identity *Identity
	Loading  bool
}

// SessionContext tracks the identity for one request. It starts loading,
// settles on Initialize and follows provider events raised within its scope
// until Dispose.
type SessionContext struct {
	source Source
	scope  string

	mu        sync.Mutex
	state     State
	gen       uint64 // bumped on every state write
	listeners map[int]func(State)
	nextID    int
	sub       Subscription
	disposed  bool
}

// NewSessionContext subscribes to source immediately so no change raised
// while Initialize is in flight is lost.
func NewSessionContext(source Source, scope string) *SessionContext {
	sc := &SessionContext{
		source:    source,
		scope:     scope,
		state:     State{Loading: true},
		listeners: make(map[int]func(State)),
	}
	sc.sub = source.OnChange(sc.apply)
	return sc
}

// Initialize fetches the current identity. Loading ends whatever the
// outcome; a fetch error leaves the context anonymous.
func (sc *SessionContext) Initialize(ctx context.Context) {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return
	}
	startGen := sc.gen
	sc.mu.Unlock()

	id, err := sc.source.Current(ctx)
	if err != nil {
		slog.Warn("session identity fetch failed", "error", err, "category", "auth")
		id = nil
	}

	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return
	}
	if sc.gen != startGen {
		// an event landed meanwhile and is newer than what we fetched
		sc.mu.Unlock()
		return
	}
	sc.setLocked(State{Identity: id, Loading: false})
}

// State returns the current snapshot.
func (sc *SessionContext) State() State {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state
}

// Subscribe registers fn for state changes. The returned func removes it.
func (sc *SessionContext) Subscribe(fn func(State)) (cancel func()) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.disposed {
		return func() {}
	}
	sc.nextID++
	id := sc.nextID
	sc.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			sc.mu.Lock()
			delete(sc.listeners, id)
			sc.mu.Unlock()
		})
	}
}

// Dispose detaches from the provider and drops all listeners. Later events
// are ignored.
func (sc *SessionContext) Dispose() {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return
	}
	sc.disposed = true
	sc.listeners = nil
	sub := sc.sub
	sc.mu.Unlock()

	sub.Unsubscribe()
}

func (sc *SessionContext) apply(ev Event) {
	if ev.Scope != sc.scope {
		return
	}
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return
	}
	var id *Identity
	if ev.Kind == EventSignedIn {
		id = ev.Identity
	}
	sc.setLocked(State{Identity: id, Loading: false})
}

// setLocked stores st, releases the lock and notifies listeners.
func (sc *SessionContext) setLocked(st State) {
	sc.state = st
	sc.gen++
	fns := make([]func(State), 0, len(sc.listeners))
	for _, fn := range sc.listeners {
		fns = append(fns, fn)
	}
	sc.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
