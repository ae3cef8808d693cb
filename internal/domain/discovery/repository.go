package discovery

import "context"

// SessionRepository persists composed sessions and feedback records.
type SessionRepository interface {
	Save(ctx context.Context, session Session) error
	Query(ctx context.Context, userID string, limit int) ([]Session, error)
	SaveFeedback(ctx context.Context, record map[string]any) error
}

// CatalogClient resolves a title against the external content catalog.
// Implementations return an error on transport failure or when no match
// exists; the service synthesizes a record in that case.
type CatalogClient interface {
	Find(ctx context.Context, title string, kind Kind) (CatalogRecord, error)
}

// AvailabilityClient reports where a title can be watched in one country.
type AvailabilityClient interface {
	Search(ctx context.Context, title string, kind Kind, country string) ([]StreamingOption, error)
}
