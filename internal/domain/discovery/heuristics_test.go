package discovery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeuristicAvailabilityMarvelMovieIncludesDisney(t *testing.T) {
	options := heuristicAvailability("Marvel's The Avengers", KindMovie)

	require.NotEmpty(t, options)
	require.Equal(t, "Disney+", options[0].Service)
	requireUniqueServices(t, options)
	require.LessOrEqual(t, len(options), 4)
	for _, opt := range options {
		require.Equal(t, SourceHeuristic, opt.Source)
	}
}

func TestHeuristicAvailabilityPlainShowGetsTwoDefaults(t *testing.T) {
	options := heuristicAvailability("Plain Ordinary Show", KindTV)

	require.GreaterOrEqual(t, len(options), 2)
	services := serviceNames(options)
	require.Contains(t, services, "Netflix")
	require.Contains(t, services, "Hulu")
	requireUniqueServices(t, options)
}

func TestHeuristicAvailabilityPlainMovieGetsRentals(t *testing.T) {
	options := heuristicAvailability("Plain Ordinary Film", KindMovie)

	services := serviceNames(options)
	require.Contains(t, services, "Netflix")
	require.Contains(t, services, "Apple TV")
	require.Contains(t, services, "Amazon Video")

	rentals := 0
	for _, opt := range options {
		if opt.Type == "rent" {
			rentals++
			require.NotEmpty(t, opt.Price)
		}
	}
	require.Equal(t, 2, rentals)
}

func TestHeuristicAvailabilityAccumulatesMatchesAndCaps(t *testing.T) {
	options := heuristicAvailability("Netflix presents: a Marvel HBO Amazon crossover", KindMovie)

	require.Len(t, options, 4)
	services := serviceNames(options)
	require.Equal(t, []string{"Disney+", "Netflix", "HBO Max", "Prime Video"}, services)
	requireUniqueServices(t, options)
}

func TestHeuristicAvailabilityCaseInsensitive(t *testing.T) {
	options := heuristicAvailability("STAR WARS: A New Hope", KindMovie)
	require.Equal(t, "Disney+", options[0].Service)
}

func TestNormalizeOptionsDedupesByServiceID(t *testing.T) {
	raw := []StreamingOption{
		{ServiceID: "netflix", ServiceName: "Netflix", AccessType: "subscription", Link: "https://netflix.com/a", Quality: "uhd"},
		{ServiceID: "netflix", ServiceName: "Netflix 4K", AccessType: "subscription", Link: "https://netflix.com/b"},
		{ServiceID: "prime", ServiceName: "Prime Video", AccessType: "rent", Link: "https://primevideo.com", Price: "$3.99"},
	}

	options := normalizeOptions(raw)
	require.Len(t, options, 2)
	require.Equal(t, "Netflix", options[0].Service)
	require.Equal(t, "uhd", options[0].Quality)
	require.Equal(t, SourceProvider, options[0].Source)
	require.Equal(t, "Prime Video", options[1].Service)
	require.Equal(t, "$3.99", options[1].Price)
}

func TestNormalizeOptionsFallsBackToNameIdentity(t *testing.T) {
	raw := []StreamingOption{
		{ServiceName: "Hulu", Link: "https://hulu.com"},
		{ServiceName: "hulu", Link: "https://hulu.com/dup"},
		{},
	}

	options := normalizeOptions(raw)
	require.Len(t, options, 1)
	require.Equal(t, "Hulu", options[0].Service)
	require.Equal(t, "subscription", options[0].Type)
}

func TestNormalizeOptionsCapsAtFour(t *testing.T) {
	raw := []StreamingOption{
		{ServiceID: "a", ServiceName: "A"},
		{ServiceID: "b", ServiceName: "B"},
		{ServiceID: "c", ServiceName: "C"},
		{ServiceID: "d", ServiceName: "D"},
		{ServiceID: "e", ServiceName: "E"},
		{ServiceID: "f", ServiceName: "F"},
	}

	options := normalizeOptions(raw)
	require.Len(t, options, 4)
	requireUniqueServices(t, options)
}

func TestAvailabilityOptionSourceStaysInternal(t *testing.T) {
	payload, err := json.Marshal(AvailabilityOption{Service: "Netflix", Type: "subscription", Source: SourceHeuristic})
	require.NoError(t, err)
	require.NotContains(t, string(payload), "heuristic")
	require.NotContains(t, string(payload), "source")
}

func serviceNames(options []AvailabilityOption) []string {
	names := make([]string, 0, len(options))
	for _, opt := range options {
		names = append(names, opt.Service)
	}
	return names
}

func requireUniqueServices(t *testing.T, options []AvailabilityOption) {
	t.Helper()
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		_, dup := seen[opt.Service]
		require.False(t, dup, "duplicate service %q", opt.Service)
		seen[opt.Service] = struct{}{}
	}
}
