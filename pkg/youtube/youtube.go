// Package youtube builds YouTube search links. They serve as the degraded
// answer when the music catalog cannot be reached: the link always works and
// needs no credentials.
package youtube

import (
	"net/url"
	"strings"
)

// SearchBaseURL is the results page that accepts a search_query parameter.
const SearchBaseURL = "https://www.youtube.com/results"

// SearchURL returns the results page for the given search terms. Terms are
// joined with single spaces and escaped as one query value, so the same terms
// always yield the same link. Spaces are written as %20, matching links the
// web client builds.
func SearchURL(terms ...string) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	// QueryEscape turns a literal '+' into %2B, so every '+' left is a space.
	q := strings.ReplaceAll(url.QueryEscape(strings.Join(parts, " ")), "+", "%20")
	return SearchBaseURL + "?search_query=" + q
}
