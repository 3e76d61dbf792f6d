// Package mood holds the static lookup tables that translate a user's mood
// into catalog query parameters: the audio-feature profile for each mood, the
// set of seed genres the catalog accepts and the market derivation rules.
//
// All tables are initialised once at package load and never mutated, so they
// are safe for concurrent use without locking.
package mood

import "strings"

// Key identifies a mood such as "happy" or "sad".
type Key string

// Canonical mood keys in display order.
const (
	Happy     Key = "happy"
	Energetic Key = "energetic"
	Relaxed   Key = "relaxed"
	Sad       Key = "sad"
	Romantic  Key = "romantic"
	Angry     Key = "angry"
	Neutral   Key = "neutral"
	Dreamy    Key = "dreamy"
	Stressed  Key = "stressed"
)

// DefaultMood is used when the caller does not name a mood at all.
const DefaultMood = Happy

// Profile is the set of audio-feature targets and bounds sent to the catalog
// for a mood. A nil field means "no constraint".
type Profile struct {
	TargetValence   *float64 `json:"target_valence,omitempty"`
	TargetEnergy    *float64 `json:"target_energy,omitempty"`
	MinValence      *float64 `json:"min_valence,omitempty"`
	MaxValence      *float64 `json:"max_valence,omitempty"`
	MinEnergy       *float64 `json:"min_energy,omitempty"`
	MaxEnergy       *float64 `json:"max_energy,omitempty"`
	MinDanceability *float64 `json:"min_danceability,omitempty"`
}

// Field is a single defined profile value keyed by its catalog parameter name.
type Field struct {
	Key   string
	Value float64
}

// Fields returns the defined values of p in a fixed order. The order is
// shared by the outbound query and the fallback search text so both are
// deterministic.
func (p Profile) Fields() []Field {
	var out []Field
	add := func(key string, v *float64) {
		if v != nil {
			out = append(out, Field{Key: key, Value: *v})
		}
	}
	add("target_valence", p.TargetValence)
	add("target_energy", p.TargetEnergy)
	add("min_valence", p.MinValence)
	add("max_valence", p.MaxValence)
	add("min_energy", p.MinEnergy)
	add("max_energy", p.MaxEnergy)
	add("min_danceability", p.MinDanceability)
	return out
}

// IsZero reports whether p constrains nothing.
func (p Profile) IsZero() bool { return len(p.Fields()) == 0 }

func f(v float64) *float64 { return &v }

// The values are tuned by ear; keep them literal.
var profiles = map[Key]Profile{
	Happy:     {TargetValence: f(0.9), TargetEnergy: f(0.8), MinDanceability: f(0.7)},
	Energetic: {TargetValence: f(0.75), TargetEnergy: f(0.9), MinDanceability: f(0.7)},
	Relaxed:   {TargetValence: f(0.6), TargetEnergy: f(0.35), MaxEnergy: f(0.45), MinDanceability: f(0.3)},
	Sad:       {TargetValence: f(0.2), TargetEnergy: f(0.2)},
	Romantic:  {TargetValence: f(0.65), TargetEnergy: f(0.5), MinDanceability: f(0.4)},
	Angry:     {TargetValence: f(0.3), TargetEnergy: f(0.85), MinDanceability: f(0.5)},
	Neutral:   {TargetValence: f(0.5), TargetEnergy: f(0.5)},
	Dreamy:    {TargetValence: f(0.6), TargetEnergy: f(0.4), MinDanceability: f(0.35)},
	Stressed:  {TargetValence: f(0.4), TargetEnergy: f(0.25), MinDanceability: f(0.2)},
}

// Dutch keys used by the first release of the web client.
var aliases = map[string]Key{
	"blij":       Happy,
	"vrolijk":    Happy,
	"energiek":   Energetic,
	"verdrietig": Sad,
	"romantisch": Romantic,
	"boos":       Angry,
	"neutraal":   Neutral,
	"dromerig":   Dreamy,
	"gestrest":   Stressed,
}

// Seed genre used for each mood when the caller does not pick one. Every value
// must be a member of the seed allow-set.
var defaultGenres = map[Key]string{
	Happy:     "happy",
	Energetic: "work-out",
	Relaxed:   "chill",
	Sad:       "sad",
	Romantic:  "romance",
	Angry:     "hard-rock",
	Neutral:   "pop",
	Dreamy:    "ambient",
	Stressed:  "acoustic",
}

var order = []Key{Happy, Energetic, Relaxed, Sad, Romantic, Angry, Neutral, Dreamy, Stressed}

// Normalize lowercases and trims the raw mood and maps known aliases to their
// canonical key. Unknown moods are returned lowercased so the caller still
// sees what it asked for; an empty mood becomes DefaultMood.
func Normalize(raw string) Key {
	m := strings.ToLower(strings.TrimSpace(raw))
	if m == "" {
		return DefaultMood
	}
	if k, ok := aliases[m]; ok {
		return k
	}
	return Key(m)
}

// ProfileFor returns the audio-feature profile for k. Unknown moods get the
// zero Profile, which applies no constraints.
func ProfileFor(k Key) Profile {
	return profiles[k]
}

// Known reports whether k has an entry in the profile table.
func Known(k Key) bool {
	_, ok := profiles[k]
	return ok
}

// DefaultGenre returns the seed genre associated with k, or DefaultSeed.
func DefaultGenre(k Key) string {
	if g, ok := defaultGenres[k]; ok {
		return g
	}
	return DefaultSeed
}

// Moods lists the canonical mood keys in display order.
func Moods() []Key {
	out := make([]Key, len(order))
	copy(out, order)
	return out
}
