package sessionrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/poppy/internal/domain/discovery"
)

// PostgresRepository implements discovery.SessionRepository using pgx.
//
// Expected schema:
//
//	CREATE TABLE sessions (
//	    id         BIGSERIAL PRIMARY KEY,
//	    session_id TEXT NOT NULL UNIQUE,
//	    user_id    TEXT NOT NULL DEFAULT '',
//	    payload    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE feedback (
//	    id         BIGSERIAL PRIMARY KEY,
//	    payload    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Save persists one composed session.
func (r *PostgresRepository) Save(ctx context.Context, session discovery.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO sessions (session_id, user_id, payload, created_at)
		VALUES ($1, $2, $3, $4)
	`, session.SessionID, session.UserID, payload, session.CreatedAt)
	return err
}

// Query returns sessions newest first, optionally filtered by user.
func (r *PostgresRepository) Query(ctx context.Context, userID string, limit int) ([]discovery.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT payload
		FROM sessions
		WHERE $1 = '' OR user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]discovery.Session, 0, limit)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var session discovery.Session
		if err := json.Unmarshal(payload, &session); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// SaveFeedback stores an arbitrary feedback record.
func (r *PostgresRepository) SaveFeedback(ctx context.Context, record map[string]any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO feedback (payload) VALUES ($1)
	`, payload)
	return err
}

var _ discovery.SessionRepository = (*PostgresRepository)(nil)
