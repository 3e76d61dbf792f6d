package recommend

import (
	"fmt"
	"strconv"

	"moodify/pkg/mood"
	"moodify/pkg/music"
	"moodify/pkg/youtube"
)

// Link is a degraded recommendation: a web search the user can open.
type Link struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// BuildFallback returns the always-available answer for mood. The search text
// is the genre when one was chosen, otherwise the mood, followed by the mood's
// audio-feature profile rendered as key=value tokens. It does no I/O and is
// deterministic.
func BuildFallback(m mood.Key, genre string) *Result {
	subject := genre
	if subject == "" {
		subject = string(m)
	}
	terms := []string{subject}
	for _, fld := range mood.ProfileFor(m).Fields() {
		terms = append(terms, fld.Key+"="+strconv.FormatFloat(fld.Value, 'f', -1, 64))
	}
	return &Result{
		Mood:   string(m),
		Source: SourceFallback,
		Tracks: []music.Track{},
		Recommendations: []Link{{
			Title: fmt.Sprintf("Search results for %q on YouTube", subject),
			Link:  youtube.SearchURL(terms...),
		}},
	}
}
