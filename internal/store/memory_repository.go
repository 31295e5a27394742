package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps records in a map guarded by a RWMutex.
type MemoryRepository struct {
	mu          sync.RWMutex
	records     map[string]Record
	now         func() time.Time
	broadcaster *changeBroadcaster
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:     map[string]Record{},
		now:         func() time.Time { return time.Now().UTC() },
		broadcaster: newChangeBroadcaster(),
	}
}

func (r *MemoryRepository) Get(_ context.Context, path string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[path]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return record, nil
}

// List returns every record sorted by path.
func (r *MemoryRepository) List(context.Context) ([]Record, error) {
	r.mu.RLock()
	records := make([]Record, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
	return records, nil
}

// Upsert stores record under its path. Writing the checksum already stored
// for that path is a no-op that returns the existing record without an event.
func (r *MemoryRepository) Upsert(_ context.Context, record Record) (Record, error) {
	if err := validateRecord(record); err != nil {
		return Record{}, err
	}

	r.mu.Lock()
	existing, found := r.records[record.Path]
	if found && existing.Checksum == record.Checksum {
		r.mu.Unlock()
		return existing, nil
	}
	var previous *Record
	if found {
		previous = &existing
	}
	stored := prepare(record, previous, r.now())
	r.records[stored.Path] = stored
	r.mu.Unlock()

	changeType := ChangeUpdated
	if !found {
		changeType = ChangeCreated
	}
	r.broadcaster.Broadcast(newChangeEvent(changeType, stored.Path, stored))
	return stored, nil
}

func (r *MemoryRepository) Delete(_ context.Context, path string) error {
	r.mu.Lock()
	if _, ok := r.records[path]; !ok {
		r.mu.Unlock()
		return ErrRecordNotFound
	}
	delete(r.records, path)
	r.mu.Unlock()

	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, path, Record{}))
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}
