package cache

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// edgeRecord is the cached form of a transition.
type edgeRecord struct {
	ID        uuid.UUID `json:"id"`
	From      uuid.UUID `json:"from"`
	To        uuid.UUID `json:"to"`
	CreatedAt time.Time `json:"created_at"`
}

func toRecords(edges []*domain.Transition) []edgeRecord {
	records := make([]edgeRecord, 0, len(edges))
	for _, e := range edges {
		records = append(records, edgeRecord{ID: e.ID(), From: e.FromStatusID(), To: e.ToStatusID(), CreatedAt: e.CreatedAt()})
	}
	return records
}

func fromRecords(projectID uuid.UUID, records []edgeRecord) []*domain.Transition {
	edges := make([]*domain.Transition, 0, len(records))
	for _, r := range records {
		edges = append(edges, domain.RehydrateTransition(r.ID, projectID, r.From, r.To, r.CreatedAt))
	}
	return edges
}

// EdgeStore caches the full edge set of a project.
type EdgeStore interface {
	// Get reports false on a miss.
	Get(ctx context.Context, projectID uuid.UUID) ([]*domain.Transition, bool, error)
	Set(ctx context.Context, projectID uuid.UUID, edges []*domain.Transition) error
	Invalidate(ctx context.Context, projectID uuid.UUID) error
}

type memoryEntry struct {
	records []edgeRecord
	expires time.Time
}

// MemoryEdgeStore is the in-process EdgeStore used when Redis is not
// configured.
type MemoryEdgeStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[uuid.UUID]memoryEntry
	now     func() time.Time
}

// NewMemoryEdgeStore creates a store whose entries live for ttl. A zero ttl
// keeps entries until invalidated.
func NewMemoryEdgeStore(ttl time.Duration) *MemoryEdgeStore {
	return &MemoryEdgeStore{
		ttl:     ttl,
		entries: make(map[uuid.UUID]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryEdgeStore) Get(_ context.Context, projectID uuid.UUID) ([]*domain.Transition, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[projectID]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expires.IsZero() && s.now().After(entry.expires) {
		s.mu.Lock()
		delete(s.entries, projectID)
		s.mu.Unlock()
		return nil, false, nil
	}
	return fromRecords(projectID, entry.records), true, nil
}

func (s *MemoryEdgeStore) Set(_ context.Context, projectID uuid.UUID, edges []*domain.Transition) error {
	entry := memoryEntry{records: toRecords(edges)}
	if s.ttl > 0 {
		entry.expires = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.entries[projectID] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryEdgeStore) Invalidate(_ context.Context, projectID uuid.UUID) error {
	s.mu.Lock()
	delete(s.entries, projectID)
	s.mu.Unlock()
	return nil
}
