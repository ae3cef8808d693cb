package discovery

import "time"

// Kind distinguishes the two content categories served by the catalog.
type Kind string

const (
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
)

// ParseKind normalizes the loose type strings the LLM and callers produce.
func ParseKind(raw string) Kind {
	switch raw {
	case "tv", "show", "series":
		return KindTV
	default:
		return KindMovie
	}
}

// MoodQuery is the payload accepted by the recommendations endpoint.
type MoodQuery struct {
	Mood   string `json:"mood"`
	UserID string `json:"user_id,omitempty"`
}

// Candidate is a title proposed by the mood interpreter, pre-enrichment.
type Candidate struct {
	Title  string `json:"title"`
	Kind   Kind   `json:"type"`
	Reason string `json:"reason"`
}

// Interpretation is the structured outcome of one LLM call.
type Interpretation struct {
	Summary    string
	Candidates []Candidate
	Fallback   bool
}

// RecordSource tags where enrichment data came from. Internal only, never
// serialized into API responses.
type RecordSource string

const (
	SourceCatalog     RecordSource = "catalog"
	SourceSynthesized RecordSource = "synthesized"
	SourceProvider    RecordSource = "provider"
	SourceHeuristic   RecordSource = "heuristic"
)

// CatalogRecord holds the metadata fetched (or synthesized) for one title.
type CatalogRecord struct {
	ExternalID   string
	Title        string
	Overview     string
	GenreIDs     []int
	Rating       float64
	PosterPath   string
	BackdropPath string
	TrailerURL   string
	Cast         []string
	ReleaseDate  string
	Runtime      *int
	EpisodeCount *int
	Source       RecordSource
}

// StreamingOption is a raw availability entry as reported by the provider.
type StreamingOption struct {
	ServiceID   string
	ServiceName string
	AccessType  string
	Link        string
	Quality     string
	Price       string
}

// AvailabilityOption is the externally visible availability entry. Source is
// internal provenance and never serialized.
type AvailabilityOption struct {
	Service string       `json:"service"`
	Type    string       `json:"type"`
	Link    string       `json:"link"`
	Quality string       `json:"quality,omitempty"`
	Price   string       `json:"price,omitempty"`
	Source  RecordSource `json:"-"`
}

// Recommendation is the externally visible unit returned to callers.
type Recommendation struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Kind        Kind                 `json:"type"`
	Overview    string               `json:"overview"`
	Genre       []string             `json:"genre"`
	Rating      float64              `json:"rating"`
	PosterURL   *string              `json:"poster_url"`
	BackdropURL *string              `json:"backdrop_url"`
	TrailerURL  *string              `json:"trailer_url"`
	Cast        []string             `json:"cast,omitempty"`
	ReleaseDate string               `json:"release_date,omitempty"`
	Streaming   []AvailabilityOption `json:"streaming_availability"`
	Reason      string               `json:"recommendation_reason"`
}

// Session is one composed recommendation response, immutable once persisted.
type Session struct {
	SessionID          string           `json:"session_id"`
	UserID             string           `json:"user_id,omitempty"`
	MoodQuery          string           `json:"mood_query"`
	MoodInterpretation string           `json:"mood_interpretation"`
	Recommendations    []Recommendation `json:"recommendations"`
	CreatedAt          time.Time        `json:"created_at"`
}

// Response is serialized back to the recommendations caller.
type Response struct {
	Recommendations    []Recommendation `json:"recommendations"`
	MoodInterpretation string           `json:"mood_interpretation"`
	SessionID          string           `json:"session_id"`
}

// Config wires runtime settings for the discovery pipeline.
type Config struct {
	Model           string
	Temperature     float32
	Prompt          string
	MaxCandidates   int
	HistoryLimit    int
	Country         string
	PosterBaseURL   string
	BackdropBaseURL string
}
