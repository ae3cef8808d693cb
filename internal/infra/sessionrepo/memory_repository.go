package sessionrepo

import (
	"context"
	"sync"

	"github.com/yanqian/poppy/internal/domain/discovery"
)

// MemoryRepository is an in-memory SessionRepository used for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions []discovery.Session
	feedback []map[string]any
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Save implements discovery.SessionRepository.
func (r *MemoryRepository) Save(_ context.Context, session discovery.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, session)
	return nil
}

// Query implements discovery.SessionRepository. Insertion order doubles as
// chronological order, so results walk the slice backwards.
func (r *MemoryRepository) Query(_ context.Context, userID string, limit int) ([]discovery.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]discovery.Session, 0, limit)
	for i := len(r.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		if userID != "" && r.sessions[i].UserID != userID {
			continue
		}
		out = append(out, r.sessions[i])
	}
	return out, nil
}

// SaveFeedback implements discovery.SessionRepository.
func (r *MemoryRepository) SaveFeedback(_ context.Context, record map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := make(map[string]any, len(record))
	for k, v := range record {
		clone[k] = v
	}
	r.feedback = append(r.feedback, clone)
	return nil
}

// Feedback exposes stored records for verification.
func (r *MemoryRepository) Feedback() []map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]map[string]any, len(r.feedback))
	copy(out, r.feedback)
	return out
}

var _ discovery.SessionRepository = (*MemoryRepository)(nil)
