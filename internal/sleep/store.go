// Package sleep owns the sleep history: recording sessions, classifying
// them against the goal, and deriving the rolling statistics shown on the
// dashboard.
package sleep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/logger"
	"github.com/julianstephens/sleeplit/internal/models"
	"github.com/julianstephens/sleeplit/internal/storage"
	"github.com/julianstephens/sleeplit/internal/utils"
)

// Store holds the single SleepState of an installation. Every mutation
// overwrites the persisted copy once it has been read; a failed write is logged and the in-memory
// state stays authoritative for the rest of the session.
type Store struct {
	backend storage.Backend
	now     func() time.Time
	newID   func() string
	log     *log.Logger

	mu      sync.Mutex
	state   models.SleepState
	loaded  bool
	subs    map[int]func(models.SleepState)
	nextSub int

	// degraded is set while the stored copy could not be read; writes are
	// held back so they cannot replace history that was never seen.
	degraded bool
}

type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the record ID source (UUIDv4 by default).
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func NewStore(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     logger.Nop(),
		subs:    make(map[int]func(models.SleepState)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load rehydrates the state from the backend. An absent or malformed value
// installs the seed history and persists it. A backend read failure keeps the
// last good state (the seed if there is none) and is returned so the caller
// can report it; nothing is persisted until a later read succeeds.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	err := s.loadLocked(ctx)
	s.mu.Unlock()
	return err
}

func (s *Store) loadLocked(ctx context.Context) error {
	raw, err := s.backend.Get(ctx, constants.StateKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		if !s.loaded {
			s.state = models.SeedState()
		}
		s.degraded = true
		s.log.Warn("Failed to read sleep state, not persisting until it can be read", "error", err)
		return fmt.Errorf("failed to read sleep state: %w", err)
	}
	s.loaded = true
	s.degraded = false

	if err != nil {
		s.log.Debug("No stored sleep state, using seed data")
		s.state = models.SeedState()
		s.persistLocked(ctx)
		return nil
	}

	state, err := Decode(raw)
	if err != nil {
		s.log.Warn("Stored sleep state is malformed, using seed data", "error", err)
		s.state = models.SeedState()
		s.persistLocked(ctx)
		return nil
	}
	s.state = state
	return nil
}

// Reload discards the in-memory state, reads it again and notifies
// subscribers. The dashboard calls it when the storage file changes.
func (s *Store) Reload(ctx context.Context) (models.SleepState, error) {
	s.mu.Lock()
	err := s.loadLocked(ctx)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.notify(snap)
	return snap, err
}

// ensureLoaded retries the read while the stored copy is unknown.
func (s *Store) ensureLoaded(ctx context.Context) {
	if !s.loaded || s.degraded {
		_ = s.loadLocked(ctx)
	}
}

// State returns a snapshot of the current state.
func (s *Store) State(ctx context.Context) models.SleepState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.state.Clone()
}

// AddRecord records a completed session and returns the new state; the new
// record is Records[0]. An end before start is not rejected and yields a
// negative duration.
func (s *Store) AddRecord(ctx context.Context, start, end time.Time) models.SleepState {
	return s.mutate(ctx, func(st *models.SleepState) {
		duration := utils.Hours(end.Sub(start))
		record := models.SleepRecord{
			ID:        s.newID(),
			Date:      utils.DateOf(start),
			SleepTime: utils.ClockOf(start),
			WakeTime:  utils.ClockOf(end),
			Duration:  duration,
			Quality:   Classify(duration, st.SleepGoal),
		}

		records := make([]models.SleepRecord, 0, min(len(st.Records)+1, constants.MaxRecords))
		records = append(records, record)
		records = append(records, st.Records...)
		if len(records) > constants.MaxRecords {
			records = records[:constants.MaxRecords]
		}
		st.Records = records
	})
}

// UpdateGoal replaces the sleep goal. Bounds are the caller's responsibility
// (see validation.ValidateGoal); existing quality labels are not revisited.
func (s *Store) UpdateGoal(ctx context.Context, goal float64) models.SleepState {
	return s.mutate(ctx, func(st *models.SleepState) {
		st.SleepGoal = goal
	})
}

// SetSleeping overwrites the sleeping flag.
func (s *Store) SetSleeping(ctx context.Context, sleeping bool) models.SleepState {
	return s.mutate(ctx, func(st *models.SleepState) {
		st.IsSleeping = sleeping
	})
}

func (s *Store) mutate(ctx context.Context, fn func(*models.SleepState)) models.SleepState {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	fn(&s.state)
	s.persistLocked(ctx)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.degraded {
		s.log.Warn("Sleep state not persisted: stored copy could not be read", "location", s.backend.Location())
		return
	}
	data, err := Encode(s.state)
	if err != nil {
		s.log.Warn("Failed to serialize sleep state", "error", err)
		return
	}
	if err := s.backend.Set(ctx, constants.StateKey, data); err != nil {
		s.log.Warn("Failed to persist sleep state", "error", err, "location", s.backend.Location())
	}
}

// Subscribe registers fn to receive the new snapshot after every mutation
// and reload. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(models.SleepState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(snap models.SleepState) {
	s.mu.Lock()
	subs := make([]func(models.SleepState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap.Clone())
	}
}

// Backend exposes the storage the store writes to.
func (s *Store) Backend() storage.Backend { return s.backend }

// Now returns the store's clock reading.
func (s *Store) Now() time.Time { return s.now() }

// Encode serializes a state in the persisted layout.
func Encode(state models.SleepState) (string, error) {
	if state.Records == nil {
		state.Records = []models.SleepRecord{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a persisted state. Values that do not describe a usable
// state (no goal, unknown quality labels) are rejected as malformed.
func Decode(raw string) (models.SleepState, error) {
	var state models.SleepState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return models.SleepState{}, fmt.Errorf("failed to parse sleep state: %w", err)
	}
	if state.SleepGoal <= 0 {
		return models.SleepState{}, fmt.Errorf("sleep state has no goal")
	}
	for i, r := range state.Records {
		if !r.Quality.Valid() {
			return models.SleepState{}, fmt.Errorf("record %d has unknown quality %q", i, r.Quality)
		}
	}
	if state.Records == nil {
		state.Records = []models.SleepRecord{}
	}
	if len(state.Records) > constants.MaxRecords {
		state.Records = state.Records[:constants.MaxRecords]
	}
	return state, nil
}
