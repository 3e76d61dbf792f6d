package spotify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	libspotify "github.com/zmb3/spotify"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"moodify/pkg/metrics"
)

const tokenFetchTimeout = 10 * time.Second

// CredentialProvider obtains the service-level bearer token through the
// client-credentials grant. Tokens are cached in a TokenStore until they
// expire or are invalidated, and concurrent refreshes share one exchange.
type CredentialProvider struct {
	config  *clientcredentials.Config
	http    *http.Client
	store   TokenStore
	metrics *metrics.Recorder
	log     logrus.FieldLogger
	group   singleflight.Group
}

// CredentialOption customises a CredentialProvider.
type CredentialOption func(*CredentialProvider)

// WithHTTPClient sets the client used for the token exchange.
func WithHTTPClient(c *http.Client) CredentialOption {
	return func(p *CredentialProvider) { p.http = c }
}

// WithTokenStore replaces the default in-memory cache.
func WithTokenStore(s TokenStore) CredentialOption {
	return func(p *CredentialProvider) { p.store = s }
}

// WithMetrics records token exchanges.
func WithMetrics(m *metrics.Recorder) CredentialOption {
	return func(p *CredentialProvider) { p.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) CredentialOption {
	return func(p *CredentialProvider) { p.log = l }
}

// NewCredentialProvider configures the exchange for clientID/clientSecret.
// An empty tokenURL selects the public Spotify accounts endpoint.
func NewCredentialProvider(clientID, clientSecret, tokenURL string, opts ...CredentialOption) *CredentialProvider {
	if tokenURL == "" {
		tokenURL = libspotify.TokenURL
	}
	p := &CredentialProvider{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		http:  &http.Client{Timeout: tokenFetchTimeout},
		store: &MemoryStore{},
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configured reports whether client credentials were supplied.
func (p *CredentialProvider) Configured() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

// Token returns a valid service token, exchanging client credentials when the
// cache is empty or expired. Failures wrap ErrCredentialUnavailable.
func (p *CredentialProvider) Token(ctx context.Context) (string, error) {
	if !p.Configured() {
		return "", fmt.Errorf("%w: client id/secret not configured", ErrCredentialUnavailable)
	}
	if tok := p.cached(ctx); tok != nil {
		return tok.AccessToken, nil
	}
	v, err, _ := p.group.Do("service", func() (any, error) {
		if tok := p.cached(ctx); tok != nil {
			return tok, nil
		}
		return p.exchange(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(*oauth2.Token).AccessToken, nil
}

// Invalidate drops the cached token after the catalog rejected it.
func (p *CredentialProvider) Invalidate(ctx context.Context) {
	p.group.Forget("service")
	if err := p.store.Clear(ctx); err != nil {
		p.log.WithError(err).Warn("clear cached service token")
	}
}

func (p *CredentialProvider) cached(ctx context.Context) *oauth2.Token {
	tok, err := p.store.Load(ctx)
	if err != nil {
		p.log.WithError(err).Warn("load cached service token")
		return nil
	}
	if !tok.Valid() {
		return nil
	}
	return tok
}

// exchange performs the grant. It runs detached from the caller's
// cancellation because other requests may be waiting on the same flight.
func (p *CredentialProvider) exchange(ctx context.Context) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tokenFetchTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.http)

	tok, err := p.config.Token(ctx)
	if err == nil && tok.AccessToken == "" {
		err = fmt.Errorf("empty access token")
	}
	if err != nil {
		p.metrics.TokenFetch(false)
		p.log.WithError(err).Error("service token exchange failed")
		return nil, fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	p.metrics.TokenFetch(true)
	if err := p.store.Save(ctx, tok); err != nil {
		p.log.WithError(err).Warn("cache service token")
	}
	p.log.WithField("expiry", tok.Expiry).Debug("service token refreshed")
	return tok, nil
}
