package state

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"storyhub/internal/storage"
	"storyhub/pkg/models"
)

// Store owns the State and keeps it in step with the persistence adapter.
// Every successful Update saves all collections and notifies subscribers.
type Store struct {
	mu      sync.Mutex
	st      *State
	persist *storage.Adapter
	log     *zap.Logger

	subMu sync.Mutex
	subs  []func(models.Event)
}

// Open loads every collection once. seed is used when no stories are stored.
func Open(persist *storage.Adapter, seed []*models.Story, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	st := Load(persist, seed)
	logger.Info("state loaded",
		zap.Int("stories", len(st.Stories)),
		zap.Int("users", len(st.Users)),
		zap.Bool("session", st.Session != nil))
	return &Store{st: st, persist: persist, log: logger.Named("store")}
}

// Load reads the persisted collections with their defaults.
func Load(persist *storage.Adapter, seed []*models.Story) *State {
	if seed == nil {
		seed = []*models.Story{}
	}
	st := &State{
		Stories:     storage.Load(persist, storage.KeyStories, seed),
		Users:       storage.Load(persist, storage.KeyUsers, []*models.User{}),
		Session:     storage.Load[*models.Session](persist, storage.KeyCurrentUser, nil),
		Bookmarks:   storage.Load(persist, storage.KeyBookmarks, []int64{}),
		Subscribers: storage.Load(persist, storage.KeySubscribers, []string{}),
		Settings:    storage.Load(persist, storage.KeyReaderSettings, models.DefaultReaderSettings()),
		Comments:    storage.Load(persist, storage.KeyComments, map[string][]models.Comment{}),
		Progress:    storage.Load(persist, storage.KeyStoryProgress, map[string]*models.StoryProgress{}),
	}
	st.normalize()
	return st
}

func (s *Store) Subscribe(fn func(models.Event)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) publish(ev models.Event) {
	s.subMu.Lock()
	subs := append([]func(models.Event){}, s.subs...)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Update runs fn against the state. fn must validate before mutating, so an
// error means nothing changed and nothing is saved.
func (s *Store) Update(kind string, fn func(*State) error) error {
	s.mu.Lock()
	if err := fn(s.st); err != nil {
		s.mu.Unlock()
		s.log.Debug("update rejected", zap.String("kind", kind), zap.Error(err))
		return err
	}
	s.saveAllLocked()
	s.mu.Unlock()

	s.publish(models.Event{Kind: kind, Timestamp: time.Now().Unix()})
	return nil
}

// View gives read access under the store lock. fn must not retain st.
func (s *Store) View(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

// Replace swaps the whole state, as after an import, and saves it. build
// receives the current state and must not modify it; on error nothing
// changes. Transient selection is reset.
func (s *Store) Replace(kind string, build func(cur *State) (*State, error)) error {
	s.mu.Lock()
	next, err := build(s.st)
	if err != nil {
		s.mu.Unlock()
		s.log.Debug("replace rejected", zap.String("kind", kind), zap.Error(err))
		return err
	}
	next.normalize()
	next.Reading = nil
	next.Editing = nil
	s.st = next
	s.saveAllLocked()
	s.mu.Unlock()

	s.publish(models.Event{Kind: kind, Timestamp: time.Now().Unix()})
	return nil
}

// SaveAll re-persists every collection without changing anything.
func (s *Store) SaveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveAllLocked()
}

func (s *Store) saveAllLocked() {
	if failed := s.persist.SaveBatch(s.st.Collections()); failed > 0 {
		s.log.Warn("state partially saved", zap.Int("failed", failed))
	}
}
