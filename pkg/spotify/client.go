// Package spotify talks to the Spotify Web API on behalf of the resolver. It
// provides the client-credentials token provider and a small HTTP client for
// the recommendations and search endpoints. Responses are decoded into the
// wire types of github.com/zmb3/spotify and converted to music.Track values.
//
// The client deliberately keeps HTTP status codes visible to callers (see
// StatusError) because the resolver decides its next step from them.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	libspotify "github.com/zmb3/spotify"

	"moodify/pkg/music"
)

// DefaultBaseURL is the public Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

// DefaultTimeout bounds a single catalog call.
const DefaultTimeout = 8 * time.Second

// Page is a normalized result set. Pagination fields are only meaningful for
// search results; recommendations report Total as the number of tracks.
type Page struct {
	Tracks []music.Track
	Total  int
	Offset int
	Limit  int
}

// Client issues catalog requests with a caller-supplied bearer token.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// NewClient returns a Client for baseURL. When httpClient is nil one with
// DefaultTimeout is created.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{HTTP: httpClient, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Fetch sends q to the endpoint selected by q.Mode.
func (c *Client) Fetch(ctx context.Context, token string, q Query) (Page, error) {
	if q.Mode == ModeSearch {
		return c.Search(ctx, token, q)
	}
	return c.Recommendations(ctx, token, q)
}

// Recommendations queries the seed-based recommendations endpoint.
func (c *Client) Recommendations(ctx context.Context, token string, q Query) (Page, error) {
	var body struct {
		Tracks []libspotify.FullTrack `json:"tracks"`
	}
	if err := c.get(ctx, token, "/recommendations", q, &body); err != nil {
		return Page{}, err
	}
	tracks := music.FromSpotifyTracks(body.Tracks)
	return Page{Tracks: tracks, Total: len(tracks), Limit: q.Limit}, nil
}

// Search queries the search endpoint with a genre filter and returns one page
// of tracks together with the catalog's pagination values.
func (c *Client) Search(ctx context.Context, token string, q Query) (Page, error) {
	q.Mode = ModeSearch
	var body libspotify.SearchResult
	if err := c.get(ctx, token, "/search", q, &body); err != nil {
		return Page{}, err
	}
	if body.Tracks == nil {
		return Page{Tracks: []music.Track{}, Offset: q.Offset, Limit: q.Limit}, nil
	}
	return Page{
		Tracks: music.FromSpotifyTracks(body.Tracks.Tracks),
		Total:  body.Tracks.Total,
		Offset: body.Tracks.Offset,
		Limit:  body.Tracks.Limit,
	}, nil
}

func (c *Client) get(ctx context.Context, token, path string, q Query, dst any) error {
	u := c.BaseURL + path + "?" + q.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("spotify: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("spotify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("spotify: decode %s: %w", path, err)
	}
	return nil
}
