package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"

	"moodify/pkg/handlers"
	"moodify/pkg/metrics"
	"moodify/pkg/recommend"
	"moodify/pkg/spotify"
)

type fakeRecommender struct {
	got recommend.Request
	res *recommend.Result
	err error
}

func (f *fakeRecommender) Resolve(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	if f.res != nil {
		return f.res, nil
	}
	return &recommend.Result{Mood: req.Mood, Source: recommend.SourceService}, nil
}

var sessionKey = []byte("test-secret")

func newApp(rec handlers.Recommender) *handlers.Application {
	logger, _ := test.NewNullLogger()
	return &handlers.Application{Recommender: rec, SessionKey: sessionKey, Log: logger}
}

func serve(app *handlers.Application, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	app.Routes().ServeHTTP(rr, req)
	return rr
}

func TestRecommendationsGETParams(t *testing.T) {
	rec := &fakeRecommender{}
	req := httptest.NewRequest(http.MethodGet, "/api/recommendations?mood=sad&seed=indie&market=nl&limit=5&offset=10", nil)
	req.Header.Set("Accept-Language", "nl-NL,nl;q=0.9")
	rr := serve(newApp(rec), req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body)
	}
	want := recommend.Request{Mood: "sad", Genre: "indie", Region: "nl", Locale: "nl-NL", Limit: 5, Offset: 10}
	if rec.got != want {
		t.Errorf("request %+v, want %+v", rec.got, want)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("content type %q", rr.Header().Get("Content-Type"))
	}
}

func TestRecommendationsPOSTBody(t *testing.T) {
	rec := &fakeRecommender{}
	body := `{"mood":"relaxed","genre":"chill","region":"DE","limit":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", strings.NewReader(body))
	rr := serve(newApp(rec), req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body)
	}
	if rec.got.Mood != "relaxed" || rec.got.Genre != "chill" || rec.got.Region != "DE" || rec.got.Limit != 3 {
		t.Errorf("unexpected request %+v", rec.got)
	}
}

func TestRecommendationsBadInput(t *testing.T) {
	tests := []struct {
		name string
		req  *http.Request
	}{
		{"unknown field", httptest.NewRequest(http.MethodPost, "/api/recommendations", strings.NewReader(`{"vibe":"x"}`))},
		{"malformed json", httptest.NewRequest(http.MethodPost, "/api/recommendations", strings.NewReader(`{`))},
		{"empty body", httptest.NewRequest(http.MethodPost, "/api/recommendations", strings.NewReader(``))},
		{"non-numeric limit", httptest.NewRequest(http.MethodGet, "/api/recommendations?limit=lots", nil)},
		{"negative offset", httptest.NewRequest(http.MethodGet, "/api/recommendations?offset=-1", nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(newApp(&fakeRecommender{}), tt.req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", rr.Code)
			}
		})
	}
}

func TestRecommendationsCredentialErrors(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{recommend.ErrUserCredentialRejected, "session_expired"},
		{fmt.Errorf("%w: token endpoint down", spotify.ErrCredentialUnavailable), "credential_unavailable"},
	}
	for _, tt := range tests {
		rr := serve(newApp(&fakeRecommender{err: tt.err}), httptest.NewRequest(http.MethodGet, "/api/recommendations", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%v: status %d, want 401", tt.err, rr.Code)
		}
		var body struct{ Code string }
		json.NewDecoder(rr.Body).Decode(&body)
		if body.Code != tt.code {
			t.Errorf("%v: code %q, want %q", tt.err, body.Code, tt.code)
		}
	}
}

func TestRecommendationsCanceledWritesNothing(t *testing.T) {
	rr := serve(newApp(&fakeRecommender{err: context.Canceled}), httptest.NewRequest(http.MethodGet, "/api/recommendations", nil))
	if rr.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rr.Body)
	}
}

func TestRecommendationsFallbackIsOK(t *testing.T) {
	fb := recommend.BuildFallback("happy", "")
	rr := serve(newApp(&fakeRecommender{res: fb}), httptest.NewRequest(http.MethodGet, "/api/recommendations?mood=happy", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var got recommend.Result
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Source != recommend.SourceFallback || len(got.Recommendations) == 0 {
		t.Errorf("unexpected fallback body %+v", got)
	}
}

func TestCallerCredential(t *testing.T) {
	valid, err := handlers.SignSession(handlers.SessionClaims{AccessToken: "from-cookie"}, sessionKey)
	if err != nil {
		t.Fatal(err)
	}
	expired, _ := handlers.SignSession(handlers.SessionClaims{
		AccessToken:      "stale",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	}, sessionKey)
	forged, _ := handlers.SignSession(handlers.SessionClaims{AccessToken: "forged"}, []byte("other"))

	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"anonymous", "", "", ""},
		{"bearer", "Bearer from-header", "", "from-header"},
		{"bearer wins", "Bearer from-header", valid, "from-header"},
		{"cookie", "", valid, "from-cookie"},
		{"expired cookie", "", expired, ""},
		{"forged cookie", "", forged, ""},
		{"garbage cookie", "", "not-a-jwt", ""},
		{"basic auth ignored", "Basic abc", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecommender{}
			req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: tt.cookie})
			}
			serve(newApp(rec), req)
			if rec.got.UserToken != tt.want {
				t.Errorf("token %q, want %q", rec.got.UserToken, tt.want)
			}
		})
	}
}

func TestParseSessionRequiresAccessToken(t *testing.T) {
	raw, _ := handlers.SignSession(handlers.SessionClaims{}, sessionKey)
	if _, err := handlers.ParseSession(raw, sessionKey); err == nil {
		t.Error("expected error for session without access token")
	}
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	app := newApp(&fakeRecommender{})
	rr := serve(app, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Header().Get(handlers.RequestIDHeader) == "" {
		t.Error("missing generated request id")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(handlers.RequestIDHeader, "abc-123")
	rr = serve(app, req)
	if got := rr.Header().Get(handlers.RequestIDHeader); got != "abc-123" {
		t.Errorf("request id %q, want echo", got)
	}
}

func TestMoodsAndGenres(t *testing.T) {
	app := newApp(&fakeRecommender{})

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/api/moods", nil))
	var moods []struct {
		Mood  string
		Genre string
	}
	if err := json.NewDecoder(rr.Body).Decode(&moods); err != nil {
		t.Fatal(err)
	}
	if len(moods) != 9 || moods[0].Mood != "happy" {
		t.Errorf("unexpected moods %+v", moods)
	}

	rr = serve(app, httptest.NewRequest(http.MethodGet, "/api/genres", nil))
	var genres struct{ Genres []string }
	if err := json.NewDecoder(rr.Body).Decode(&genres); err != nil {
		t.Fatal(err)
	}
	if len(genres.Genres) == 0 {
		t.Error("no genres listed")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	rec.Resolution(recommend.SourceFallback)

	app := newApp(&fakeRecommender{})
	app.Metrics = reg
	rr := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), "moodify_resolutions_total") {
		t.Errorf("metrics output missing counter: %s", rr.Body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rr := serve(newApp(&fakeRecommender{}), httptest.NewRequest(http.MethodDelete, "/api/recommendations", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status %d, want 405", rr.Code)
	}
}
