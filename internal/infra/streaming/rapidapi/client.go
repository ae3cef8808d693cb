package rapidapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/poppy/internal/domain/discovery"
)

// ErrNoMatch signals that the provider knows nothing about the title.
var ErrNoMatch = errors.New("no availability match")

// Client queries the streaming availability provider hosted on RapidAPI.
type Client struct {
	apiKey     string
	apiHost    string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an availability API client. apiHost may be a bare RapidAPI
// host or a full base URL; a bare host gets the https scheme.
func NewClient(apiKey, apiHost string) *Client {
	host := strings.TrimSpace(apiHost)
	base := host
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		apiHost: hostOnly(host),
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func hostOnly(v string) string {
	if i := strings.Index(v, "://"); i >= 0 {
		v = v[i+3:]
	}
	return strings.TrimRight(v, "/")
}

// Search returns the country-specific streaming options of the first show
// matching the title.
func (c *Client) Search(ctx context.Context, title string, kind discovery.Kind, country string) ([]discovery.StreamingOption, error) {
	endpoint := fmt.Sprintf("%s/shows/search/title?title=%s&country=%s&show_type=%s",
		c.baseURL, url.QueryEscape(title), url.QueryEscape(country), showType(kind))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build availability request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("availability request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("availability request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read availability response: %w", err)
	}

	var shows []show
	if err := json.Unmarshal(body, &shows); err != nil {
		return nil, fmt.Errorf("decode availability response: %w", err)
	}
	if len(shows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, title)
	}

	return normalizeShow(shows[0], country), nil
}

func showType(kind discovery.Kind) string {
	if kind == discovery.KindTV {
		return "series"
	}
	return "movie"
}

type show struct {
	Title            string                       `json:"title"`
	StreamingOptions map[string][]streamingOption `json:"streamingOptions"`
}

type streamingOption struct {
	Service struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"service"`
	Type    string `json:"type"`
	Link    string `json:"link"`
	Quality string `json:"quality"`
	Price   *struct {
		Amount    string `json:"amount"`
		Currency  string `json:"currency"`
		Formatted string `json:"formatted"`
	} `json:"price"`
}

func normalizeShow(s show, country string) []discovery.StreamingOption {
	raw := s.StreamingOptions[strings.ToLower(country)]
	options := make([]discovery.StreamingOption, 0, len(raw))
	for _, opt := range raw {
		price := ""
		if opt.Price != nil {
			price = opt.Price.Formatted
			if price == "" {
				price = strings.TrimSpace(opt.Price.Amount + " " + opt.Price.Currency)
			}
		}
		options = append(options, discovery.StreamingOption{
			ServiceID:   opt.Service.ID,
			ServiceName: opt.Service.Name,
			AccessType:  opt.Type,
			Link:        opt.Link,
			Quality:     opt.Quality,
			Price:       price,
		})
	}
	return options
}

var _ discovery.AvailabilityClient = (*Client)(nil)
