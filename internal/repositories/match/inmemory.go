package match

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage. It
// keeps the same compare-and-set and notification semantics as the Redis
// store.
type InMemoryRepository struct {
	mu       sync.RWMutex
	clock    clock.Clock
	store    map[string]*entities.Match
	codes    map[string]string
	watchers map[string][]chan *entities.Match
}

// NewInMemory creates a new in-memory repository. A nil clock uses the real
// one.
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		clock:    c,
		store:    make(map[string]*entities.Match),
		codes:    make(map[string]string),
		watchers: make(map[string][]chan *entities.Match),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Create stores a new match
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateMatch(input.Match); err != nil {
		return nil, err
	}

	m := input.Match.Clone()
	m.Code = NormalizeCode(m.Code)
	m.Version = 1
	now := r.clock.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[m.ID]; exists {
		return nil, errors.AlreadyExistsf("match with ID %s already exists", m.ID)
	}
	if _, taken := r.codes[m.Code]; taken {
		return nil, errors.AlreadyExistsf("join code %s is already in use", m.Code)
	}

	r.store[m.ID] = m
	r.codes[m.Code] = m.ID
	r.publishLocked(m)

	return &CreateOutput{Match: m.Clone()}, nil
}

// Get retrieves a match by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("match with ID %s not found", input.ID)
	}
	return &GetOutput{Match: m.Clone()}, nil
}

// GetByCode retrieves a match by join code
func (r *InMemoryRepository) GetByCode(ctx context.Context, input GetByCodeInput) (*GetOutput, error) {
	code := NormalizeCode(input.Code)
	if code == "" {
		return nil, errors.InvalidArgument(errCodeEmpty)
	}

	r.mu.RLock()
	id, exists := r.codes[code]
	r.mu.RUnlock()
	if !exists {
		return nil, errors.NotFoundf("no match with code %s", code)
	}
	return r.Get(ctx, GetInput{ID: id})
}

// Update replaces a match if the version still matches
func (r *InMemoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateMatch(input.Match); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.store[input.Match.ID]
	if !exists {
		return nil, errors.NotFoundf("match with ID %s not found", input.Match.ID)
	}
	if current.Version != input.ExpectedVersion {
		return nil, errors.Aborted("match was changed by another player").
			WithMeta("expected_version", input.ExpectedVersion).
			WithMeta("stored_version", current.Version)
	}

	next := input.Match.Clone()
	next.Code = current.Code
	next.CreatedAt = current.CreatedAt
	next.Version = current.Version + 1
	next.UpdatedAt = r.clock.Now()

	r.store[next.ID] = next
	r.publishLocked(next)

	return &UpdateOutput{Match: next.Clone()}, nil
}

// Delete removes a match and closes its watchers
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("match with ID %s not found", input.ID)
	}

	delete(r.store, m.ID)
	delete(r.codes, m.Code)
	for _, ch := range r.watchers[m.ID] {
		close(ch)
	}
	delete(r.watchers, m.ID)

	return &DeleteOutput{}, nil
}

// ListActive returns ids of matches that are not finished
func (r *InMemoryRepository) ListActive(_ context.Context, _ ListActiveInput) (*ListActiveOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.store))
	for id, m := range r.store {
		if m.Status != entities.MatchStatusFinished {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return &ListActiveOutput{IDs: ids}, nil
}

// Watch streams committed versions of a match
func (r *InMemoryRepository) Watch(ctx context.Context, input WatchInput) (*WatchOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}

	ch := make(chan *entities.Match, watchBuffer)

	r.mu.Lock()
	r.watchers[input.ID] = append(r.watchers[input.ID], ch)
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.unwatch(input.ID, ch)
	}()

	return &WatchOutput{Updates: ch}, nil
}

func (r *InMemoryRepository) unwatch(id string, ch chan *entities.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.watchers[id]
	for i, c := range list {
		if c == ch {
			r.watchers[id] = append(list[:i], list[i+1:]...)
			close(ch)
			return
		}
	}
	// already closed by Delete
}

// publishLocked fans m out to watchers. A watcher whose buffer is full
// misses this version and catches up on the next one.
func (r *InMemoryRepository) publishLocked(m *entities.Match) {
	for _, ch := range r.watchers[m.ID] {
		select {
		case ch <- m.Clone():
		default:
		}
	}
}
