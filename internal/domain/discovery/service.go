package discovery

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/poppy/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/poppy/pkg/errors"
)

const maxHistoryLimit = 50

// Service exposes the mood based discovery pipeline.
type Service interface {
	Recommend(ctx context.Context, query MoodQuery) (Session, error)
	History(ctx context.Context, userID string, limit int) ([]Session, error)
	SaveFeedback(ctx context.Context, record map[string]any) error
}

// ChatClient is the slice of the LLM client the interpreter needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg      Config
	chat     ChatClient
	catalog  CatalogClient
	streams  AvailabilityClient
	sessions SessionRepository
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires up the discovery domain.
func NewService(cfg Config, chat ChatClient, catalog CatalogClient, streams AvailabilityClient, sessions SessionRepository, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		chat:     chat,
		catalog:  catalog,
		streams:  streams,
		sessions: sessions,
		logger:   logger.With("component", "discovery.service"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Recommend runs the full pipeline: interpret the mood, enrich each candidate
// sequentially, persist the session, return it.
func (s *service) Recommend(ctx context.Context, query MoodQuery) (Session, error) {
	mood := strings.TrimSpace(query.Mood)
	if mood == "" {
		return Session{}, apperrors.Wrap("invalid_input", "mood cannot be empty", nil)
	}

	sessionID := s.newID()
	interp, err := s.interpret(ctx, mood)
	if err != nil {
		return Session{}, err
	}
	s.logger.Info("mood interpreted", "session_id", sessionID, "candidates", len(interp.Candidates), "fallback", interp.Fallback)

	recommendations := make([]Recommendation, 0, len(interp.Candidates))
	for _, candidate := range interp.Candidates {
		recommendations = append(recommendations, s.enrich(ctx, candidate))
	}

	session := Session{
		SessionID:          sessionID,
		UserID:             strings.TrimSpace(query.UserID),
		MoodQuery:          mood,
		MoodInterpretation: interp.Summary,
		Recommendations:    recommendations,
		CreatedAt:          s.now().UTC(),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return Session{}, apperrors.Wrap("storage_error", "failed to save recommendation session", err)
	}
	return session, nil
}

// History returns persisted sessions, most recent first.
func (s *service) History(ctx context.Context, userID string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	sessions, err := s.sessions.Query(ctx, strings.TrimSpace(userID), limit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to query recommendation history", err)
	}
	return sessions, nil
}

// SaveFeedback stamps and stores an arbitrary caller-supplied record.
func (s *service) SaveFeedback(ctx context.Context, record map[string]any) error {
	if record == nil {
		record = map[string]any{}
	}
	record["created_at"] = s.now().UTC().Format(time.RFC3339)
	if err := s.sessions.SaveFeedback(ctx, record); err != nil {
		return apperrors.Wrap("storage_error", "failed to save feedback", err)
	}
	return nil
}

// enrich resolves catalog metadata and availability for one candidate. Both
// lookups degrade to local fallbacks instead of failing the pipeline.
func (s *service) enrich(ctx context.Context, candidate Candidate) Recommendation {
	record, err := s.catalog.Find(ctx, candidate.Title, candidate.Kind)
	if err != nil {
		s.logger.Warn("catalog lookup degraded", "title", candidate.Title, "kind", candidate.Kind, "error", err)
		record = synthesizeRecord(candidate.Title, candidate.Kind)
	} else {
		record = backfillRecord(record, candidate.Kind)
	}

	options := s.lookupAvailability(ctx, candidate.Title, candidate.Kind)

	return Recommendation{
		ID:          record.ExternalID,
		Title:       record.Title,
		Kind:        candidate.Kind,
		Overview:    record.Overview,
		Genre:       genreNames(record.GenreIDs, candidate.Kind),
		Rating:      record.Rating,
		PosterURL:   s.artworkURL(s.cfg.PosterBaseURL, record.PosterPath),
		BackdropURL: s.artworkURL(s.cfg.BackdropBaseURL, record.BackdropPath),
		TrailerURL:  optionalString(record.TrailerURL),
		Cast:        record.Cast,
		ReleaseDate: record.ReleaseDate,
		Streaming:   options,
		Reason:      candidate.Reason,
	}
}

func (s *service) lookupAvailability(ctx context.Context, title string, kind Kind) []AvailabilityOption {
	raw, err := s.streams.Search(ctx, title, kind, s.cfg.Country)
	if err != nil || len(raw) == 0 {
		if err != nil {
			s.logger.Warn("availability lookup degraded", "title", title, "kind", kind, "error", err)
		}
		return heuristicAvailability(title, kind)
	}
	options := normalizeOptions(raw)
	if len(options) == 0 {
		return heuristicAvailability(title, kind)
	}
	return options
}

func (s *service) artworkURL(base, fragment string) *string {
	if fragment == "" || base == "" {
		return nil
	}
	url := base + fragment
	return &url
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
