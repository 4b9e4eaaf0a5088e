// Package store keeps a live, observable view of the signed-in user's
// requests. It merges paginated fetches from the REST API with row-level
// change events from the realtime feed, so a page stays current without
// polling.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rbetancur/amg-desk-ai/internal/domain/request"
	"github.com/rbetancur/amg-desk-ai/internal/infrastructure/api"
	"github.com/rbetancur/amg-desk-ai/internal/shared/goroutine"
	"github.com/rbetancur/amg-desk-ai/internal/shared/logger"
)

// State is an immutable snapshot handed to subscribers. Requests is
// newest-first, matching the API's ordering.
type State struct {
	Requests   []request.Request
	Pagination api.Page
}

// Lister fetches a page of requests.
type Lister interface {
	List(ctx context.Context, limit, offset int) (*api.ListResult, error)
}

// Feed is a live change-event subscription.
type Feed interface {
	Events() <-chan request.Event
	Close() error
}

// FeedOpener opens a Feed scoped to one owning user.
type FeedOpener interface {
	Open(ctx context.Context, owner string) (Feed, error)
}

// FeedOpenerFunc adapts a function to the FeedOpener interface.
type FeedOpenerFunc func(ctx context.Context, owner string) (Feed, error)

func (f FeedOpenerFunc) Open(ctx context.Context, owner string) (Feed, error) {
	return f(ctx, owner)
}

// Store merges list results with change events behind one mutex.
// Subscribers get a snapshot after every mutation.
type Store struct {
	lister Lister
	opener FeedOpener
	log    *slog.Logger

	mu         sync.Mutex
	requests   []request.Request
	pagination api.Page
	generation int64
	feed       Feed

	listenerMu sync.Mutex
	listeners  map[int]func(State)
	nextID     int
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// New builds a store over the given page source and feed opener.
func New(lister Lister, opener FeedOpener, opts ...Option) *Store {
	s := &Store{
		lister:    lister,
		opener:    opener,
		log:       logger.WithComponent("store"),
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked copies the slice so callers can never see later
// mutations.
func (s *Store) snapshotLocked() State {
	requests := make([]request.Request, len(s.requests))
	copy(requests, s.requests)
	return State{Requests: requests, Pagination: s.pagination}
}

// Subscribe registers fn to run after every state change. It returns a
// function that removes the subscription. Listeners run synchronously
// on the mutating goroutine with a snapshot, never holding the store's
// mutex.
func (s *Store) Subscribe(fn func(State)) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(state State) {
	s.listenerMu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// Load replaces the window with the requested page. Loads are tagged
// with a generation so a slow response that lands after a newer Load
// is discarded instead of clobbering fresher data. On error the
// current state is left untouched.
func (s *Store) Load(ctx context.Context, limit, offset int) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	result, err := s.lister.List(ctx, limit, offset)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.log.Debug("discarding stale page load", "generation", gen)
		return nil
	}
	s.requests = result.Items
	s.pagination = result.Pagination
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
	return nil
}

// ApplyEvent folds one change event into the window.
//
// Inserts for an id already present replace that row in place so a
// fetch/feed race cannot duplicate it; otherwise the row is prepended
// and the total grows. Updates replace the matching row and are
// ignored when the row is outside the window. Deletes drop the
// matching row and shrink the total, which never goes below zero.
func (s *Store) ApplyEvent(ev request.Event) {
	s.mu.Lock()

	changed := false
	switch ev.Kind {
	case request.EventInsert:
		if i := s.indexLocked(ev.Row.ID); i >= 0 {
			s.requests[i] = ev.Row
		} else {
			s.requests = append([]request.Request{ev.Row}, s.requests...)
			s.pagination.Total++
		}
		changed = true

	case request.EventUpdate:
		if i := s.indexLocked(ev.Row.ID); i >= 0 {
			s.requests[i] = ev.Row
			changed = true
		}

	case request.EventDelete:
		if i := s.indexLocked(ev.Row.ID); i >= 0 {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			s.pagination.Total--
			if s.pagination.Total < 0 {
				s.pagination.Total = 0
			}
			changed = true
		}
	}

	if !changed {
		s.mu.Unlock()
		return
	}
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
}

func (s *Store) indexLocked(id int) int {
	for i := range s.requests {
		if s.requests[i].ID == id {
			return i
		}
	}
	return -1
}

// Start binds the store to the change feed for owner. An empty owner
// is a no-op, so callers can pass the current username without
// checking sign-in state. Rebinding closes the previous feed first.
func (s *Store) Start(ctx context.Context, owner string) error {
	if owner == "" {
		return nil
	}

	feed, err := s.opener.Open(ctx, owner)
	if err != nil {
		return err
	}

	s.mu.Lock()
	prev := s.feed
	s.feed = feed
	s.mu.Unlock()

	if prev != nil {
		prev.Close()
	}

	goroutine.SafeGo(s.log, "store-consume", func() {
		s.consume(feed)
	})
	return nil
}

// consume drains the feed until its channel closes.
func (s *Store) consume(feed Feed) {
	for ev := range feed.Events() {
		s.ApplyEvent(ev)
	}
	s.log.Debug("change feed drained")
}

// Close detaches from the change feed. Safe to call repeatedly.
func (s *Store) Close() error {
	s.mu.Lock()
	feed := s.feed
	s.feed = nil
	s.mu.Unlock()

	if feed != nil {
		return feed.Close()
	}
	return nil
}
