package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/poppy/internal/domain/discovery"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	youtubeWatchURL = "https://www.youtube.com/watch?v="
	maxCastMembers  = 5
)

// ErrNoMatch signals that the catalog has nothing for the queried title.
var ErrNoMatch = errors.New("no catalog match")

// Client fetches title metadata from TMDB.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a TMDB API client.
func NewClient(apiKey, baseURL string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Find searches the catalog for the title and hydrates the best match with
// trailer and cast details.
func (c *Client) Find(ctx context.Context, title string, kind discovery.Kind) (discovery.CatalogRecord, error) {
	match, err := c.search(ctx, title, kind)
	if err != nil {
		return discovery.CatalogRecord{}, err
	}

	detail, err := c.details(ctx, match.ID, kind)
	if err != nil {
		return discovery.CatalogRecord{}, err
	}

	record := discovery.CatalogRecord{
		ExternalID:   strconv.FormatInt(match.ID, 10),
		Title:        firstNonEmpty(match.Title, match.Name, title),
		Overview:     match.Overview,
		GenreIDs:     match.GenreIDs,
		Rating:       match.VoteAverage,
		PosterPath:   match.PosterPath,
		BackdropPath: match.BackdropPath,
		TrailerURL:   trailerURL(detail.Videos.Results),
		Cast:         castNames(detail.Credits.Cast),
		ReleaseDate:  firstNonEmpty(match.ReleaseDate, match.FirstAirDate),
		Runtime:      detail.Runtime,
		EpisodeCount: detail.NumberOfEpisodes,
		Source:       discovery.SourceCatalog,
	}
	return record, nil
}

func (c *Client) search(ctx context.Context, title string, kind discovery.Kind) (searchResult, error) {
	endpoint := fmt.Sprintf("%s/search/%s?api_key=%s&query=%s",
		c.baseURL, pathSegment(kind), url.QueryEscape(c.apiKey), url.QueryEscape(title))

	var out searchResponse
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return searchResult{}, err
	}
	if len(out.Results) == 0 {
		return searchResult{}, fmt.Errorf("%w: %q", ErrNoMatch, title)
	}
	return out.Results[0], nil
}

func (c *Client) details(ctx context.Context, id int64, kind discovery.Kind) (detailResponse, error) {
	endpoint := fmt.Sprintf("%s/%s/%d?api_key=%s&append_to_response=videos,credits",
		c.baseURL, pathSegment(kind), id, url.QueryEscape(c.apiKey))

	var out detailResponse
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return detailResponse{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("catalog request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read catalog response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}

func pathSegment(kind discovery.Kind) string {
	if kind == discovery.KindTV {
		return "tv"
	}
	return "movie"
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	GenreIDs     []int   `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
}

type detailResponse struct {
	Runtime          *int `json:"runtime"`
	NumberOfEpisodes *int `json:"number_of_episodes"`
	Videos           struct {
		Results []video `json:"results"`
	} `json:"videos"`
	Credits struct {
		Cast []castMember `json:"cast"`
	} `json:"credits"`
}

type video struct {
	Site string `json:"site"`
	Type string `json:"type"`
	Key  string `json:"key"`
}

type castMember struct {
	Name string `json:"name"`
}

// trailerURL picks the first YouTube trailer or teaser, in upstream order.
func trailerURL(videos []video) string {
	for _, v := range videos {
		if !strings.EqualFold(v.Site, "YouTube") {
			continue
		}
		if strings.EqualFold(v.Type, "Trailer") || strings.EqualFold(v.Type, "Teaser") {
			return youtubeWatchURL + v.Key
		}
	}
	return ""
}

func castNames(cast []castMember) []string {
	names := make([]string, 0, maxCastMembers)
	for _, member := range cast {
		if len(names) == maxCastMembers {
			break
		}
		if strings.TrimSpace(member.Name) == "" {
			continue
		}
		names = append(names, member.Name)
	}
	return names
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var _ discovery.CatalogClient = (*Client)(nil)
