package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Backend is the key-value capability a Store persists through.
// Implemented by storage.Store.
type Backend interface {
	Get(key string) (val string, ok bool, err error)
	Set(key, val string) error
}

// Store is a read/write-through cache of one collection. It loads its key
// once and rewrites the whole collection on every mutation.
type Store[T Record] struct {
	backend Backend
	key     string
	seed    func() []T
	logger  *slog.Logger

	mu     sync.Mutex
	items  []T
	loaded bool
}

// Option configures a Store.
type Option[T Record] func(*Store[T])

// WithSeed sets the collection used when the key has never been written.
// A non-empty seed is persisted on first load.
func WithSeed[T Record](seed func() []T) Option[T] {
	return func(s *Store[T]) { s.seed = seed }
}

// NewStore creates a Store for key. Nothing is read until first use.
func NewStore[T Record](backend Backend, key string, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		backend: backend,
		key:     key,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key returns the backend key this store persists to.
func (s *Store[T]) Key() string { return s.key }

// All returns a copy of the current collection.
func (s *Store[T]) All() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Get returns the record with id, or ErrNotFound.
func (s *Store[T]) Get(id string) (T, error) {
	items, err := s.All()
	if err != nil {
		var zero T
		return zero, err
	}
	it, ok := Find(items, id)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %q: %w", s.key, id, ErrNotFound)
	}
	return it, nil
}

// Apply runs fn over the current collection and persists the result.
func (s *Store[T]) Apply(fn func([]T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}
	cur := make([]T, len(s.items))
	copy(cur, s.items)

	next, err := fn(cur)
	if err != nil {
		return err
	}
	return s.save(next)
}

// Add appends item.
func (s *Store[T]) Add(item T) error {
	return s.Apply(func(items []T) ([]T, error) {
		if Contains(items, item.RecordID()) {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrRejected, item.RecordID())
		}
		return Append(items, item), nil
	})
}

// Update replaces the record matching id with fn(record). It returns
// ErrNotFound, without writing, when id is absent.
func (s *Store[T]) Update(id string, fn func(T) T) error {
	return s.Apply(func(items []T) ([]T, error) {
		next, ok := Update(items, id, fn)
		if !ok {
			return nil, fmt.Errorf("%s %q: %w", s.key, id, ErrNotFound)
		}
		return next, nil
	})
}

// Delete removes the record matching id. It reports whether a record was
// removed; deleting an absent id writes nothing.
func (s *Store[T]) Delete(id string) (bool, error) {
	removed := false
	err := s.Apply(func(items []T) ([]T, error) {
		next, ok := Delete(items, id)
		if !ok {
			return nil, errNoChange
		}
		removed = true
		return next, nil
	})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	return removed, err
}

// Replace persists items as the whole collection.
func (s *Store[T]) Replace(items []T) error {
	return s.Apply(func([]T) ([]T, error) {
		out := make([]T, len(items))
		copy(out, items)
		return out, nil
	})
}

// Reload drops the cached collection so the next access reads the backend again.
func (s *Store[T]) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.items = nil
}

// errNoChange aborts Apply without writing.
var errNoChange = errors.New("no change")

func (s *Store[T]) ensureLoaded() error {
	if s.loaded {
		return nil
	}

	raw, ok, err := s.backend.Get(s.key)
	if err != nil {
		return fmt.Errorf("loading %s: %w", s.key, err)
	}

	if !ok {
		var seeded []T
		if s.seed != nil {
			seeded = s.seed()
		}
		if len(seeded) > 0 {
			if err := s.write(seeded); err != nil {
				return err
			}
		}
		s.items = seeded
		s.loaded = true
		return nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("corrupt collection, treating as empty", "key", s.key, "error", err)
		items = nil
	}
	s.items = items
	s.loaded = true
	return nil
}

func (s *Store[T]) save(items []T) error {
	if err := s.write(items); err != nil {
		return err
	}
	s.items = items
	return nil
}

func (s *Store[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.key, err)
	}
	if err := s.backend.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("saving %s: %w", s.key, err)
	}
	return nil
}
