package spotify

import (
	"fmt"
	"net/url"
	"strconv"

	"moodify/pkg/mood"
)

// Mode selects the catalog endpoint a Query is sent to.
type Mode int

const (
	// ModeRecommendations uses the seed-based recommendations endpoint.
	ModeRecommendations Mode = iota
	// ModeSearch uses the paginated search endpoint with a genre filter.
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "recommendations"
}

// Query is a catalog request in progress. The resolver copies and mutates it
// between degradation steps; the zero value is not a valid request.
type Query struct {
	Mode      Mode
	SeedGenre string
	SeedTrack string
	Limit     int
	Offset    int
	Market    string
	Profile   mood.Profile
}

// Values encodes q as URL parameters for its endpoint. Seed tracks take
// precedence over seed genres. Audio-feature parameters are only sent to the
// recommendations endpoint since search ignores them.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Market != "" {
		v.Set("market", q.Market)
	}
	if q.Mode == ModeSearch {
		v.Set("q", fmt.Sprintf("genre:%q", q.SeedGenre))
		v.Set("type", "track")
		if q.Offset > 0 {
			v.Set("offset", strconv.Itoa(q.Offset))
		}
		return v
	}
	if q.SeedTrack != "" {
		v.Set("seed_tracks", q.SeedTrack)
	} else {
		v.Set("seed_genres", q.SeedGenre)
	}
	for _, fld := range q.Profile.Fields() {
		v.Set(fld.Key, strconv.FormatFloat(fld.Value, 'f', -1, 64))
	}
	return v
}
