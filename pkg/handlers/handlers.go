// Package handlers exposes the recommendation pipeline over HTTP.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"moodify/pkg/mood"
	"moodify/pkg/recommend"
)

// Recommender resolves a request into tracks or a fallback.
type Recommender interface {
	Resolve(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// Application holds the dependencies shared by the handlers.
type Application struct {
	Recommender Recommender
	// SessionKey verifies the session cookie. Without it only the
	// Authorization header can carry a user credential.
	SessionKey []byte
	Log        logrus.FieldLogger
	// Metrics is served at /metrics when set.
	Metrics prometheus.Gatherer
}

// recommendationBody is the POST form of the recommendation request. seed
// and market are accepted as aliases of genre and region.
type recommendationBody struct {
	Mood   string `json:"mood"`
	Genre  string `json:"genre"`
	Seed   string `json:"seed"`
	Region string `json:"region"`
	Market string `json:"market"`
	Locale string `json:"locale"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

func (b recommendationBody) request() recommend.Request {
	return recommend.Request{
		Mood:   b.Mood,
		Genre:  firstNonEmpty(b.Genre, b.Seed),
		Region: firstNonEmpty(b.Region, b.Market),
		Locale: b.Locale,
		Limit:  b.Limit,
		Offset: b.Offset,
	}
}

// RecommendationsJSON resolves a mood into tracks. Catalog failures still
// produce a 200 with the fallback links; only credential problems surface as
// 401.
func (app *Application) RecommendationsJSON(w http.ResponseWriter, r *http.Request) {
	req, err := parseRecommendationRequest(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	req.UserToken = app.callerCredential(r)
	if req.Locale == "" {
		req.Locale = mood.LocaleFromAcceptLanguage(r.Header.Get("Accept-Language"))
	}

	res, err := app.Recommender.Resolve(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, recommend.ErrUserCredentialRejected):
		respondJSONError(w, http.StatusUnauthorized, "session_expired", "catalog session expired, sign in again")
	case errors.Is(err, recommend.ErrCredentialUnavailable):
		app.logger(r).WithError(err).Error("no catalog credential available")
		respondJSONError(w, http.StatusUnauthorized, "credential_unavailable", "catalog credentials unavailable")
	case errors.Is(err, context.Canceled):
		app.logger(r).WithError(err).Warn("request canceled during resolution")
	case errors.Is(err, context.DeadlineExceeded):
		respondJSONError(w, http.StatusGatewayTimeout, "timeout", "recommendation timed out")
	default:
		app.logger(r).WithError(err).Error("resolution failed")
		respondJSONError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func parseRecommendationRequest(r *http.Request) (recommend.Request, error) {
	if r.Method == http.MethodPost {
		var body recommendationBody
		if err := decodeJSON(r, &body); err != nil {
			return recommend.Request{}, fmt.Errorf("invalid JSON body: %w", err)
		}
		if body.Limit < 0 || body.Offset < 0 {
			return recommend.Request{}, errors.New("limit and offset must not be negative")
		}
		return body.request(), nil
	}

	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), "limit")
	if err != nil {
		return recommend.Request{}, err
	}
	offset, err := intParam(q.Get("offset"), "offset")
	if err != nil {
		return recommend.Request{}, err
	}
	return recommend.Request{
		Mood:   q.Get("mood"),
		Genre:  firstNonEmpty(q.Get("genre"), q.Get("seed")),
		Region: firstNonEmpty(q.Get("region"), q.Get("market")),
		Locale: q.Get("locale"),
		Limit:  limit,
		Offset: offset,
	}, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type moodInfo struct {
	Mood    string       `json:"mood"`
	Genre   string       `json:"genre"`
	Profile mood.Profile `json:"profile"`
}

// MoodsJSON lists the supported moods with their audio profiles.
func (app *Application) MoodsJSON(w http.ResponseWriter, r *http.Request) {
	keys := mood.Moods()
	out := make([]moodInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, moodInfo{Mood: string(k), Genre: mood.DefaultGenre(k), Profile: mood.ProfileFor(k)})
	}
	writeJSON(w, http.StatusOK, out)
}

// GenresJSON lists the genre seeds the catalog accepts.
func (app *Application) GenresJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"genres": mood.Seeds()})
}

// Health reports liveness.
func (app *Application) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
