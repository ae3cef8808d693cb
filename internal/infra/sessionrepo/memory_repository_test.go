package sessionrepo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/poppy/internal/domain/discovery"
)

func TestMemoryRepositoryQueryNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := repo.Save(ctx, discovery.Session{
			SessionID: fmt.Sprintf("session-%d", i),
			UserID:    "user-1",
		})
		require.NoError(t, err)
	}

	sessions, err := repo.Query(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	require.Equal(t, "session-2", sessions[0].SessionID)
	require.Equal(t, "session-0", sessions[2].SessionID)
}

func TestMemoryRepositoryQueryFiltersAndLimits(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, discovery.Session{SessionID: "a", UserID: "user-1"}))
	require.NoError(t, repo.Save(ctx, discovery.Session{SessionID: "b", UserID: "user-2"}))
	require.NoError(t, repo.Save(ctx, discovery.Session{SessionID: "c", UserID: "user-1"}))

	sessions, err := repo.Query(ctx, "user-1", 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "c", sessions[0].SessionID)

	// Empty user id matches every session.
	sessions, err = repo.Query(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
}

func TestMemoryRepositorySaveFeedbackClonesRecord(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	record := map[string]any{"rating": 5}
	require.NoError(t, repo.SaveFeedback(ctx, record))

	record["rating"] = 1
	stored := repo.Feedback()
	require.Len(t, stored, 1)
	require.Equal(t, 5, stored[0]["rating"])
}
