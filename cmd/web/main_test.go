package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"moodify/pkg/recommend"
)

const trackJSON = `{"name":"Song","artists":[{"name":"Artist"}],"external_urls":{"spotify":"https://open.spotify.com/track/1"},"album":{"name":"LP","images":[{"url":"https://img/1"}]}}`

// fakeSpotify serves the token and catalog endpoints. failCatalog makes every
// catalog call return 500.
type fakeSpotify struct {
	failCatalog bool
	tokens      atomic.Int32
	calls       atomic.Int32
}

func (f *fakeSpotify) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/token":
		f.tokens.Add(1)
		w.Write([]byte(`{"access_token":"svc","token_type":"bearer","expires_in":3600}`))
	case f.failCatalog:
		f.calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"status":500,"message":"boom"}}`))
	case r.URL.Path == "/v1/recommendations":
		f.calls.Add(1)
		w.Write([]byte(`{"tracks":[` + trackJSON + `]}`))
	case r.URL.Path == "/v1/search":
		f.calls.Add(1)
		w.Write([]byte(`{"tracks":{"items":[` + trackJSON + `],"total":120,"offset":20,"limit":10}}`))
	default:
		http.NotFound(w, r)
	}
}

func setEnv(t *testing.T, base string) {
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("SPOTIFY_TOKEN_URL", base+"/token")
	t.Setenv("SPOTIFY_API_URL", base+"/v1")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FILE", "")
	t.Setenv("DEFAULT_LIMIT", "")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRecommendCommand(t *testing.T) {
	fake := &fakeSpotify{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	setEnv(t, srv.URL)

	out, err := runCLI(t, "recommend", "--mood", "blij", "--limit", "3")
	if err != nil {
		t.Fatal(err)
	}
	var res recommend.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if res.Mood != "happy" || res.Source != recommend.SourceService || len(res.Tracks) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Tracks[0].Artist != "Artist" || res.Tracks[0].Image != "https://img/1" {
		t.Errorf("unexpected track %+v", res.Tracks[0])
	}
}

func TestRecommendCommandWithoutCredentials(t *testing.T) {
	srv := httptest.NewServer(&fakeSpotify{})
	defer srv.Close()
	setEnv(t, srv.URL)
	t.Setenv("SPOTIFY_CLIENT_ID", "")

	_, err := runCLI(t, "recommend", "--mood", "sad")
	if err == nil || !strings.Contains(err.Error(), "credential unavailable") {
		t.Errorf("expected credential error, got %v", err)
	}
}

func TestRecommendCommandUserToken(t *testing.T) {
	fake := &fakeSpotify{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	setEnv(t, srv.URL)
	t.Setenv("SPOTIFY_CLIENT_ID", "")

	out, err := runCLI(t, "recommend", "--token", "user-token")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"source": "catalog-user"`) {
		t.Errorf("expected user source, got %s", out)
	}
	if fake.tokens.Load() != 0 {
		t.Error("user requests should not fetch a service token")
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := runCLI(t, "dance"); err == nil {
		t.Error("expected error for unknown command")
	}
}
