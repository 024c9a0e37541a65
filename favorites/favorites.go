// Package favorites keeps the user's bookmarked recipes in one durable slot.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mealseek/models"

	"go.uber.org/zap"
)

// DefaultSlotName is the storage slot used when none is configured.
const DefaultSlotName = "favoriteRecipes"

// ErrPersist wraps any failure to write the collection to its slot.
var ErrPersist = errors.New("favorites: persist failed")

// Slot is one named durable location holding the serialized collection.
// Read returns nil data when nothing has been written yet.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Store is the in-memory favorites collection backed by a Slot. Every
// mutation writes the full collection before returning. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	slot     Slot
	items    []models.Recipe
	log      *zap.Logger
	onChange func(ctx context.Context)
}

// Open loads the collection from slot. A missing or unreadable payload
// yields an empty collection; Open itself never fails.
func Open(ctx context.Context, slot Slot, log *zap.Logger) *Store {
	s := &Store{slot: slot, log: log}

	data, err := slot.Read(ctx)
	if err != nil {
		log.Warn("favorites slot unreadable, starting empty", zap.Error(err))
		return s
	}
	items, err := decode(data)
	if err != nil {
		log.Warn("favorites payload discarded", zap.Error(err))
		return s
	}
	s.items = items
	log.Debug("favorites loaded", zap.Int("count", len(items)))
	return s
}

// OnChange registers fn to run after every successful write.
func (s *Store) OnChange(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Reload replaces the collection with the slot's current content. On any
// read or decode error the collection is left as it was.
func (s *Store) Reload(ctx context.Context) error {
	data, err := s.slot.Read(ctx)
	if err != nil {
		return fmt.Errorf("favorites: reload: %w", err)
	}
	items, err := decode(data)
	if err != nil {
		return fmt.Errorf("favorites: reload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.log.Debug("favorites reloaded", zap.Int("count", len(items)))
	return nil
}

// Add appends r unless a record with the same ID is already present.
func (s *Store) Add(ctx context.Context, r models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(r.ID) >= 0 {
		return nil
	}
	s.items = append(s.items, r)
	return s.persistLocked(ctx)
}

// Remove drops every record with the given id.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0:0]
	for _, r := range s.items {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(s.items) {
		return nil
	}
	s.items = kept
	return s.persistLocked(ctx)
}

// Toggle removes r if it is a favorite and adds it otherwise. It reports
// whether r is a favorite afterwards.
func (s *Store) Toggle(ctx context.Context, r models.Recipe) (bool, error) {
	if s.Contains(r.ID) {
		return false, s.Remove(ctx, r.ID)
	}
	return true, s.Add(ctx, r)
}

func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id) >= 0
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []models.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Recipe(nil), s.items...)
}

func (s *Store) indexLocked(id string) int {
	for i, r := range s.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := encode(s.items)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.slot.Write(ctx, data); err != nil {
		s.log.Error("favorites write failed", zap.Error(err), zap.Int("count", len(s.items)))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if s.onChange != nil {
		s.onChange(ctx)
	}
	return nil
}
