// Package music defines the catalog-agnostic track representation returned to
// clients. Catalog responses are converted into Track values here so the rest
// of the application never depends on the wire shape of a provider.
//
// A Track is always fully populated: optional catalog fields that are missing
// become empty strings rather than being omitted from JSON.
package music

import (
	"strings"

	libspotify "github.com/zmb3/spotify"
)

// Track is a single normalized recommendation.
type Track struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	URL        string `json:"url"`
	Album      string `json:"album"`
	Image      string `json:"image"`
	PreviewURL string `json:"previewUrl"`
}

// FromSpotify converts a catalog track. Artist names are joined with ", " and
// the first (largest) album image is used as artwork.
func FromSpotify(t libspotify.FullTrack) Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	var image string
	if len(t.Album.Images) > 0 {
		image = t.Album.Images[0].URL
	}
	return Track{
		Title:      t.Name,
		Artist:     strings.Join(names, ", "),
		URL:        t.ExternalURLs["spotify"],
		Album:      t.Album.Name,
		Image:      image,
		PreviewURL: t.PreviewURL,
	}
}

// FromSpotifyTracks converts a list of catalog tracks. The result is never nil
// so it encodes as an empty JSON array.
func FromSpotifyTracks(in []libspotify.FullTrack) []Track {
	out := make([]Track, len(in))
	for i, t := range in {
		out[i] = FromSpotify(t)
	}
	return out
}
