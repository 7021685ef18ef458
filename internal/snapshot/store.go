// Package snapshot is the single owned in-memory view of the displayed period.
// Slots are written through to a restart-survival cache and restored from it
// on a miss. The remote backend stays the source of truth.
package snapshot

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"kaskita/internal/logger"
	"kaskita/internal/period"
)

// Scope groups slots that are invalidated together.
type Scope string

const (
	// ScopePeriod slots hold data of the displayed period only.
	ScopePeriod Scope = "period"
	// ScopeGlobal slots hold period-independent entities.
	ScopeGlobal Scope = "global"
	// ScopeStatistics slots hold yearly aggregates.
	ScopeStatistics Scope = "statistics"
)

// Slot keys.
const (
	KeyPeriod          = "period"
	KeyTransactions    = "transactions"
	KeyBudgeting       = "budgeting"
	KeyAssets          = "assets"
	KeyAssetCategories = "asset-categories"
	KeySavings         = "savings"
	KeyLoans           = "loans"
	KeyCategories      = "categories"
	KeySettings        = "settings"
)

// CategoryKey is the slot of one category detail.
func CategoryKey(id string) string { return "category:" + id }

// BreakdownKey is the slot of a category breakdown.
func BreakdownKey(txType, mode string) string { return "breakdown:" + txType + ":" + mode }

// MonthlyKey is the slot of a yearly monthly summary.
func MonthlyKey(year string) string { return "monthly:" + year }

// Backing is the persistent side of the store.
type Backing interface {
	Put(ctx context.Context, key, scope string, generation int64, v any) error
	Get(ctx context.Context, key string, v any) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	InvalidateScope(ctx context.Context, scopes ...string) error
	Purge(ctx context.Context) error
}

type slot struct {
	scope      Scope
	value      any
	generation int64
}

// Store holds the snapshot. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	period     period.Period
	slots      map[string]slot
	generation int64
	backing    Backing
	log        *zap.SugaredLogger

	// wmu orders period-slot write-through against period switches.
	wmu sync.Mutex
}

// NewStore creates a Store. backing may be nil for a memory-only snapshot.
func NewStore(backing Backing) *Store {
	return &Store{
		slots:   make(map[string]slot),
		backing: backing,
		log:     logger.Named("snapshot"),
	}
}

// Restore loads the last displayed period from the backing store.
func (s *Store) Restore(ctx context.Context) {
	if s.backing == nil {
		return
	}
	var p period.Period
	found, err := s.backing.Get(ctx, KeyPeriod, &p)
	if err != nil {
		s.log.Warnw("failed to restore period", "error", err)
		return
	}
	if !found || p.IsZero() {
		return
	}
	s.mu.Lock()
	s.period = p
	s.mu.Unlock()
}

// Period returns the displayed period. It is zero until one is selected.
func (s *Store) Period() period.Period {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.period
}

// SwitchPeriod selects p. When p differs from the displayed period every
// period-scoped slot is dropped, so the next read refetches. It reports
// whether the period changed.
func (s *Store) SwitchPeriod(ctx context.Context, p period.Period) bool {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.Lock()
	if s.period.Equal(p) {
		s.mu.Unlock()
		return false
	}
	s.period = p
	for key, sl := range s.slots {
		if sl.scope == ScopePeriod {
			delete(s.slots, key)
		}
	}
	s.mu.Unlock()

	if s.backing != nil {
		if err := s.backing.InvalidateScope(ctx, string(ScopePeriod)); err != nil {
			s.log.Warnw("failed to invalidate cached period", "error", err)
		}
		s.writeThrough(ctx, KeyPeriod, ScopeGlobal, 0, p)
	}
	return true
}

// Put stores v under key and writes it through to the backing store.
func (s *Store) Put(ctx context.Context, key string, scope Scope, v any) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.slots[key] = slot{scope: scope, value: v, generation: gen}
	s.mu.Unlock()

	s.writeThrough(ctx, key, scope, gen, v)
}

// PutForPeriod stores v in the period-scoped slot under key only while p is
// still the displayed period. It reports false, writing nothing, when the
// period has moved on.
func (s *Store) PutForPeriod(ctx context.Context, key string, p period.Period, v any) bool {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.Lock()
	if !s.period.Equal(p) {
		s.mu.Unlock()
		return false
	}
	s.generation++
	gen := s.generation
	s.slots[key] = slot{scope: ScopePeriod, value: v, generation: gen}
	s.mu.Unlock()

	s.writeThrough(ctx, key, ScopePeriod, gen, v)
	return true
}

// Invalidate drops the given slots.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.slots, key)
	}
	s.mu.Unlock()

	if s.backing != nil {
		if err := s.backing.Delete(ctx, keys...); err != nil {
			s.log.Warnw("failed to invalidate cached slots", "keys", keys, "error", err)
		}
	}
}

// InvalidateScope drops every slot in the given scopes.
func (s *Store) InvalidateScope(ctx context.Context, scopes ...Scope) {
	names := make([]string, 0, len(scopes))
	s.mu.Lock()
	for _, scope := range scopes {
		names = append(names, string(scope))
		for key, sl := range s.slots {
			if sl.scope == scope {
				delete(s.slots, key)
			}
		}
	}
	s.mu.Unlock()

	if s.backing != nil {
		if err := s.backing.InvalidateScope(ctx, names...); err != nil {
			s.log.Warnw("failed to invalidate cached scopes", "scopes", names, "error", err)
		}
	}
}

// Reset forgets everything, including the displayed period.
func (s *Store) Reset(ctx context.Context) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.Lock()
	s.slots = make(map[string]slot)
	s.period = period.Period{}
	s.mu.Unlock()

	if s.backing != nil {
		if err := s.backing.Purge(ctx); err != nil {
			s.log.Warnw("failed to purge cache", "error", err)
		}
	}
}

// Has reports whether key is held in memory.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.slots[key]
	return ok
}

func (s *Store) writeThrough(ctx context.Context, key string, scope Scope, gen int64, v any) {
	if s.backing == nil {
		return
	}
	if err := s.backing.Put(ctx, key, string(scope), gen, v); err != nil {
		s.log.Warnw("cache write-through failed", "key", key, "error", err)
	}
}

// Load returns the value under key. A memory miss falls back to the backing
// store and repopulates memory.
func Load[T any](ctx context.Context, s *Store, key string, scope Scope) (T, bool) {
	var zero T

	s.mu.RLock()
	sl, ok := s.slots[key]
	s.mu.RUnlock()
	if ok {
		v, ok := sl.value.(T)
		return v, ok
	}

	if s.backing == nil {
		return zero, false
	}
	var v T
	found, err := s.backing.Get(ctx, key, &v)
	if err != nil {
		s.log.Warnw("cache read failed", "key", key, "error", err)
		return zero, false
	}
	if !found {
		return zero, false
	}

	s.mu.Lock()
	if _, raced := s.slots[key]; !raced {
		s.slots[key] = slot{scope: scope, value: v}
	}
	s.mu.Unlock()
	return v, true
}

// Update applies fn to the value under key if it is held, and writes the
// result through. It reports whether the slot existed.
func Update[T any](ctx context.Context, s *Store, key string, fn func(T) T) bool {
	s.mu.Lock()
	sl, ok := s.slots[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	v, ok := sl.value.(T)
	if !ok {
		s.mu.Unlock()
		return false
	}
	next := fn(v)
	s.generation++
	sl.value = next
	sl.generation = s.generation
	s.slots[key] = sl
	s.mu.Unlock()

	s.writeThrough(ctx, key, sl.scope, sl.generation, next)
	return true
}
