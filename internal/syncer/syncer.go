// Package syncer owns the local event collection and reconciles it with
// the remote event store. Every mutating operation is confirm-then-mutate:
// local state changes only after the store accepted the request, so the
// collection never diverges from what the server holds.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"calcli/internal/geo"
	"calcli/pkg/models"
)

// DefaultDuration is the span given to a newly created event when only
// its start slot is known.
const DefaultDuration = time.Hour

// EventStore is the remote store surface the synchronizer needs.
// Implementations must return an error for any response that is not the
// contract's success status (202 for create/update, 200 for delete).
type EventStore interface {
	ListEvents(ctx context.Context, identity string) ([]models.Event, error)
	CreateEvent(ctx context.Context, ev models.Event) (models.Event, error)
	UpdateEvent(ctx context.Context, ev models.Event) error
	DeleteEvent(ctx context.Context, id int64) error
}

// IdentityProvider supplies the session identity/location snapshot.
// Satisfied by *geo.Resolver.
type IdentityProvider interface {
	ResolveIdentity(ctx context.Context)
	ResolveLocation(ctx context.Context, addr string)
	Snapshot() geo.Snapshot
}

// Prompter abstracts interactive input. Prompt returns the entered value
// and false when the user cancelled; Confirm reports whether the user
// answered yes.
type Prompter interface {
	Prompt(label, initial string) (string, bool)
	Confirm(question string) bool
}

// Synchronizer holds the authoritative local event collection, keyed by
// the server-assigned identifier.
type Synchronizer struct {
	logger   *slog.Logger
	store    EventStore
	identity IdentityProvider
	prompt   Prompter

	mu     sync.RWMutex
	events map[int64]models.Event
}

func New(logger *slog.Logger, store EventStore, identity IdentityProvider, prompt Prompter) *Synchronizer {
	return &Synchronizer{
		logger:   logger,
		store:    store,
		identity: identity,
		prompt:   prompt,
		events:   make(map[int64]models.Event),
	}
}

// Start resolves the session identity and performs the initial scoped
// fetch. Location resolution runs in the background: it only affects
// metadata on events created later, so the fetch must not wait on it.
// The fetch does wait on the identity lookup, which scopes the query.
func (s *Synchronizer) Start(ctx context.Context) error {
	go s.identity.ResolveLocation(ctx, "")

	s.identity.ResolveIdentity(ctx)

	return s.Refresh(ctx)
}

// Refresh replaces the entire local collection with the store's current
// set, scoped to the resolved identity. On failure the prior collection
// stays untouched; no retry.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	snap := s.identity.Snapshot()

	remote, err := s.store.ListEvents(ctx, snap.IPAddress)
	if err != nil {
		s.logger.Error("failed to fetch events", "error", err)
		return err
	}

	next := make(map[int64]models.Event, len(remote))
	for _, ev := range remote {
		next[ev.ID] = ev
	}

	s.mu.Lock()
	s.events = next
	s.mu.Unlock()

	s.logger.Info("event collection refreshed", "count", len(next))
	return nil
}

// Create prompts for a title and submits a candidate event starting at
// the given slot with the default one-hour duration and the current
// identity snapshot attached. The returned server record is appended to
// the collection only when the store accepted it. A cancelled or empty
// title aborts with no side effect and returns (nil, nil).
func (s *Synchronizer) Create(ctx context.Context, start time.Time) (*models.Event, error) {
	title, ok := s.prompt.Prompt("Enter event title", "")
	if !ok || title == "" {
		return nil, nil
	}

	snap := s.identity.Snapshot()
	candidate := models.Event{
		Title:     title,
		Start:     start,
		End:       start.Add(DefaultDuration),
		IPAddress: snap.IPAddress,
		Location:  snap.Location,
		Timezone:  snap.Timezone,
	}

	created, err := s.store.CreateEvent(ctx, candidate)
	if err != nil {
		s.logger.Error("failed to create event", "title", title, "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.events[created.ID] = created
	s.mu.Unlock()

	return &created, nil
}

// Edit prompts for a new title for the event with the given identifier
// and submits the full updated record. The local entry is replaced only
// after the store accepted the update. A cancelled, empty, or unchanged
// title aborts with no side effect.
func (s *Synchronizer) Edit(ctx context.Context, id int64) error {
	current, err := s.get(id)
	if err != nil {
		return err
	}

	title, ok := s.prompt.Prompt("Edit event title", current.Title)
	if !ok || title == "" || title == current.Title {
		return nil
	}

	updated := current
	updated.Title = title

	if err := s.store.UpdateEvent(ctx, updated); err != nil {
		s.logger.Error("failed to update event", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	s.events[id] = updated
	s.mu.Unlock()

	return nil
}

// Delete asks for confirmation and removes the event from the store and,
// on success, from the local collection. Declining the confirmation
// performs no network call.
func (s *Synchronizer) Delete(ctx context.Context, id int64) error {
	current, err := s.get(id)
	if err != nil {
		return err
	}

	if !s.prompt.Confirm(fmt.Sprintf("Are you sure you want to delete %q?", current.Title)) {
		return nil
	}

	if err := s.store.DeleteEvent(ctx, id); err != nil {
		s.logger.Error("failed to delete event", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	delete(s.events, id)
	s.mu.Unlock()

	return nil
}

// Move reschedules the event to the given start/end and submits the full
// updated record. Local start/end change only after the store accepted
// the update; on failure the entry keeps its prior times.
func (s *Synchronizer) Move(ctx context.Context, id int64, start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("invalid time range: end %s is not after start %s", end, start)
	}

	current, err := s.get(id)
	if err != nil {
		return err
	}

	updated := current
	updated.Start = start
	updated.End = end

	if err := s.store.UpdateEvent(ctx, updated); err != nil {
		s.logger.Error("failed to move event", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	s.events[id] = updated
	s.mu.Unlock()

	return nil
}

// Events returns the local collection ordered by start time, then id.
func (s *Synchronizer) Events() []models.Event {
	s.mu.RLock()
	out := make([]models.Event, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func (s *Synchronizer) get(id int64) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return models.Event{}, fmt.Errorf("no event with id %d", id)
	}
	return ev, nil
}
