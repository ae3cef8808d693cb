package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/poppy/internal/domain/discovery"
)

func TestFindHydratesBestMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		switch r.URL.Path {
		case "/search/movie":
			require.Equal(t, "Chef", r.URL.Query().Get("query"))
			w.Write([]byte(`{"results":[{"id":12345,"title":"Chef","overview":"A chef rediscovers his passion.","genre_ids":[35,18],"vote_average":7.3,"poster_path":"/chef.jpg","backdrop_path":"/chef-bg.jpg","release_date":"2014-05-09"}]}`))
		case "/movie/12345":
			require.Equal(t, "videos,credits", r.URL.Query().Get("append_to_response"))
			w.Write([]byte(`{"runtime":115,"videos":{"results":[{"site":"Vimeo","type":"Trailer","key":"nope"},{"site":"YouTube","type":"Teaser","key":"abc123"}]},"credits":{"cast":[{"name":"Jon Favreau"},{"name":"Sofia Vergara"}]}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	record, err := client.Find(context.Background(), "Chef", discovery.KindMovie)
	require.NoError(t, err)

	require.Equal(t, "12345", record.ExternalID)
	require.Equal(t, "Chef", record.Title)
	require.Equal(t, []int{35, 18}, record.GenreIDs)
	require.Equal(t, 7.3, record.Rating)
	require.Equal(t, "https://www.youtube.com/watch?v=abc123", record.TrailerURL)
	require.Equal(t, []string{"Jon Favreau", "Sofia Vergara"}, record.Cast)
	require.Equal(t, "2014-05-09", record.ReleaseDate)
	require.NotNil(t, record.Runtime)
	require.Equal(t, 115, *record.Runtime)
	require.Equal(t, discovery.SourceCatalog, record.Source)
}

func TestFindShowUsesTVEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/tv":
			w.Write([]byte(`{"results":[{"id":9,"name":"The Bear","first_air_date":"2022-06-23"}]}`))
		case "/tv/9":
			w.Write([]byte(`{"number_of_episodes":28}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	record, err := client.Find(context.Background(), "The Bear", discovery.KindTV)
	require.NoError(t, err)
	require.Equal(t, "The Bear", record.Title)
	require.Equal(t, "2022-06-23", record.ReleaseDate)
	require.NotNil(t, record.EpisodeCount)
	require.Equal(t, 28, *record.EpisodeCount)
	require.Empty(t, record.TrailerURL)
}

func TestFindNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.Find(context.Background(), "Nothing", discovery.KindMovie)
	require.ErrorIs(t, err, ErrNoMatch)
}

func TestFindUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("bad-key", server.URL)
	_, err := client.Find(context.Background(), "Chef", discovery.KindMovie)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=401")
}

func TestTrailerURLPrefersYouTube(t *testing.T) {
	videos := []video{
		{Site: "Vimeo", Type: "Trailer", Key: "v1"},
		{Site: "YouTube", Type: "Featurette", Key: "v2"},
		{Site: "YouTube", Type: "Trailer", Key: "v3"},
	}
	require.Equal(t, "https://www.youtube.com/watch?v=v3", trailerURL(videos))
	require.Empty(t, trailerURL(nil))
}

func TestCastNamesCapsAtFive(t *testing.T) {
	cast := []castMember{
		{Name: "A"}, {Name: ""}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"}, {Name: "F"},
	}
	require.Equal(t, []string{"A", "B", "C", "D", "E"}, castNames(cast))
}
