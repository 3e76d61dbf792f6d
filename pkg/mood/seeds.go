package mood

import (
	"sort"
	"strings"
)

// DefaultSeed is the seed genre the catalog always accepts.
const DefaultSeed = "pop"

// allowedSeeds mirrors the catalog's available-genre-seeds list. Anything
// outside it is rejected by the recommendations endpoint.
var allowedSeeds = toSet(
	"acoustic", "afrobeat", "alt-rock", "alternative", "ambient", "anime", "black-metal",
	"bluegrass", "blues", "bossanova", "brazil", "breakbeat", "british", "cantopop",
	"chicago-house", "children", "chill", "classical", "club", "comedy", "country",
	"dance", "dancehall", "death-metal", "deep-house", "detroit-techno", "disco", "disney",
	"drum-and-bass", "dub", "dubstep", "edm", "electro", "electronic", "emo", "folk",
	"forro", "french", "funk", "garage", "german", "gospel", "goth", "grindcore", "groove",
	"grunge", "guitar", "happy", "hard-rock", "hardcore", "hardstyle", "heavy-metal",
	"hip-hop", "holidays", "honky-tonk", "house", "idm", "indian", "indie-pop", "industrial",
	"iranian", "j-dance", "j-idol", "j-pop", "j-rock", "jazz", "k-pop", "kids", "latin",
	"latino", "malay", "mandopop", "metal", "metalcore", "minimal-techno", "movies",
	"mpb", "new-release", "opera", "pagode", "party", "philippines-opm", "piano", "pop",
	"pop-film", "post-dubstep", "power-pop", "progressive-house", "psych-rock", "punk",
	"punk-rock", "r-n-b", "rainy-day", "reggae", "reggaeton", "road-trip", "rock",
	"rock-n-roll", "rockabilly", "romance", "sad", "salsa", "samba", "sertanejo",
	"show-tunes", "singer-songwriter", "ska", "sleep", "songwriter", "soul", "soundtracks",
	"spanish", "study", "summer", "swedish", "synth-pop", "tango", "techno", "trance",
	"trip-hop", "turkish", "work-out", "world-music",
)

func toSet(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, s := range items {
		m[s] = struct{}{}
	}
	return m
}

// IsAllowedSeed reports whether candidate is an accepted seed genre. The
// comparison ignores case and surrounding whitespace.
func IsAllowedSeed(candidate string) bool {
	_, ok := NormalizeSeed(candidate)
	return ok
}

// NormalizeSeed returns the canonical (lowercase) form of candidate and true
// when it is in the allow-set. Empty or unknown input yields "", false.
func NormalizeSeed(candidate string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(candidate))
	if s == "" {
		return "", false
	}
	if _, ok := allowedSeeds[s]; !ok {
		return "", false
	}
	return s, true
}

// Seeds returns the allow-set sorted alphabetically.
func Seeds() []string {
	out := make([]string, 0, len(allowedSeeds))
	for s := range allowedSeeds {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
