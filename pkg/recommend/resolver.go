// Package recommend turns a mood (plus optional genre, region and caller
// credential) into a list of catalog tracks. Resolution is a strictly
// sequential chain: an initial catalog request followed by an ordered list of
// degradation steps, each relaxing one constraint of the previous attempt.
// When every step fails the caller still gets a renderable answer built by
// BuildFallback. Only credential problems are reported as errors.
package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"moodify/pkg/logging"
	"moodify/pkg/metrics"
	"moodify/pkg/mood"
	"moodify/pkg/music"
	"moodify/pkg/spotify"
)

// Response sources reported in Result.Source.
const (
	SourceUser     = "catalog-user"
	SourceService  = "catalog-service"
	SourceFallback = "fallback"
)

const (
	// DefaultLimit is the page size when the caller does not ask for one.
	DefaultLimit = 8
	// MaxLimit is the largest page both catalog endpoints accept.
	MaxLimit = 50
	// MaxOffset is the deepest page the search endpoint serves.
	MaxOffset = 1000
	// DefaultSeedTrack is a long-lived catalog track used when genre seeding
	// keeps failing.
	DefaultSeedTrack = "4uLU6hMCjMI75M1A2tKUQC"
)

// ErrUserCredentialRejected means the catalog refused the caller's own token
// and no service credential could take over. The caller should log in again.
var ErrUserCredentialRejected = errors.New("recommend: user credential rejected")

// ErrCredentialUnavailable is re-exported so callers need not import the
// catalog package to classify resolver errors.
var ErrCredentialUnavailable = spotify.ErrCredentialUnavailable

// Catalog sends one query to the music catalog.
type Catalog interface {
	Fetch(ctx context.Context, token string, q spotify.Query) (spotify.Page, error)
}

// CredentialSource provides the service-level token.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate(ctx context.Context)
}

// Request is the inbound resolution request.
type Request struct {
	Mood   string `json:"mood"`
	Genre  string `json:"genre"`
	Region string `json:"region"`
	Locale string `json:"locale"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	// UserToken is the caller's own catalog credential, if signed in.
	UserToken string `json:"-"`
}

// Pagination describes the page returned by the search endpoint.
type Pagination struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Result is returned for both catalog answers and the fallback.
type Result struct {
	Mood            string        `json:"mood"`
	Source          string        `json:"source"`
	Tracks          []music.Track `json:"tracks"`
	Pagination      *Pagination   `json:"pagination,omitempty"`
	Recommendations []Link        `json:"recommendations,omitempty"`
}

// Resolver runs the degradation chain. It holds no per-request state and is
// safe for concurrent use.
type Resolver struct {
	catalog      Catalog
	service      CredentialSource
	log          logrus.FieldLogger
	metrics      *metrics.Recorder
	defaultLimit int
	seedTrack    string
	steps        []step
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option { return func(r *Resolver) { r.log = l } }

// WithMetrics records attempts and resolutions.
func WithMetrics(m *metrics.Recorder) Option { return func(r *Resolver) { r.metrics = m } }

// WithDefaultLimit overrides DefaultLimit.
func WithDefaultLimit(n int) Option {
	return func(r *Resolver) {
		if n > 0 && n <= MaxLimit {
			r.defaultLimit = n
		}
	}
}

// WithSeedTrack overrides the track used by the alternate seed step. An empty
// id disables that step.
func WithSeedTrack(id string) Option { return func(r *Resolver) { r.seedTrack = id } }

// NewResolver returns a Resolver. service may be nil, in which case only
// callers with their own credential can be served from the catalog.
func NewResolver(catalog Catalog, service CredentialSource, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:      catalog,
		service:      service,
		log:          logrus.StandardLogger(),
		defaultLimit: DefaultLimit,
		seedTrack:    DefaultSeedTrack,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.steps = r.degradationSteps()
	return r
}

// attempt is the request in progress, mutated by each step.
type attempt struct {
	query spotify.Query
	token string
	user  bool
	page  spotify.Page
	err   error
	// reauthed is set once the credential step has run.
	reauthed bool
}

// Resolve maps req to tracks. Catalog failures are absorbed by the
// degradation chain and finally by the fallback. The returned error is a
// credential failure (ErrCredentialUnavailable, ErrUserCredentialRejected) or
// the context error when ctx ends mid-resolution.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	m := mood.Normalize(req.Mood)
	genre, _ := mood.NormalizeSeed(req.Genre)
	log := logging.FromContext(ctx, r.log).WithField("mood", m)

	a := &attempt{query: r.initialQuery(m, genre, req)}
	if req.UserToken != "" {
		a.token, a.user = req.UserToken, true
	} else {
		tok, err := r.serviceToken(ctx)
		if err != nil {
			return nil, err
		}
		a.token = tok
	}

	r.call(ctx, log, stepInitial, a)
	for _, s := range r.steps {
		if a.err == nil || ctx.Err() != nil {
			break
		}
		if !s.when(a) {
			continue
		}
		if err := s.apply(ctx, a); err != nil {
			log.WithError(err).WithField("step", s.name).Warn("credential recovery failed")
			return nil, err
		}
		r.call(ctx, log, s.name, a)
		if s.name != stepCredential {
			if err := r.retryUnauthorized(ctx, log, a); err != nil {
				log.WithError(err).WithField("step", stepCredential).Warn("credential recovery failed")
				return nil, err
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if a.err != nil {
		log.WithError(a.err).Warn("all catalog attempts failed, serving fallback")
		r.metrics.Resolution(SourceFallback)
		return BuildFallback(m, genre), nil
	}
	res := a.result(m)
	r.metrics.Resolution(res.Source)
	return res, nil
}

// retryUnauthorized repeats the current query with a fresh credential when a
// later step hit a 401 and the credential step has not run yet.
func (r *Resolver) retryUnauthorized(ctx context.Context, log logrus.FieldLogger, a *attempt) error {
	if !needsReauth(a) || ctx.Err() != nil {
		return nil
	}
	if err := r.reauthenticate(ctx, a); err != nil {
		return err
	}
	r.call(ctx, log, stepCredential, a)
	return nil
}

func (r *Resolver) initialQuery(m mood.Key, genre string, req Request) spotify.Query {
	seed := genre
	if seed == "" {
		seed = mood.DefaultGenre(m)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = r.defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	q := spotify.Query{
		SeedGenre: seed,
		Limit:     limit,
		Market:    mood.DeriveMarket(req.Region, req.Locale),
		Profile:   mood.ProfileFor(m),
	}
	if req.Offset > 0 {
		q.Mode = spotify.ModeSearch
		q.Offset = min(req.Offset, MaxOffset)
	}
	return q
}

func (r *Resolver) serviceToken(ctx context.Context) (string, error) {
	if r.service == nil {
		return "", fmt.Errorf("%w: no service credential configured", ErrCredentialUnavailable)
	}
	return r.service.Token(ctx)
}

func (r *Resolver) call(ctx context.Context, log logrus.FieldLogger, step string, a *attempt) {
	a.page, a.err = r.catalog.Fetch(ctx, a.token, a.query)

	entry := log.WithFields(logrus.Fields{
		"step":   step,
		"mode":   a.query.Mode.String(),
		"seed":   seedOf(a.query),
		"market": a.query.Market,
	})
	if a.err != nil {
		r.metrics.Attempt(step, "error")
		entry.WithError(a.err).WithField("status", spotify.StatusCode(a.err)).Warn("catalog attempt failed")
		return
	}
	r.metrics.Attempt(step, "ok")
	entry.WithField("tracks", len(a.page.Tracks)).Debug("catalog attempt succeeded")
}

func (a *attempt) result(m mood.Key) *Result {
	res := &Result{
		Mood:   string(m),
		Source: SourceService,
		Tracks: a.page.Tracks,
	}
	if a.user {
		res.Source = SourceUser
	}
	if res.Tracks == nil {
		res.Tracks = []music.Track{}
	}
	if a.query.Mode == spotify.ModeSearch {
		res.Pagination = &Pagination{Total: a.page.Total, Offset: a.page.Offset, Limit: a.page.Limit}
	}
	return res
}

func seedOf(q spotify.Query) string {
	if q.SeedTrack != "" {
		return "track:" + q.SeedTrack
	}
	return q.SeedGenre
}
