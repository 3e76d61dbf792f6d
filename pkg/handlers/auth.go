// This file resolves the caller's own catalog credential. Signing in happens
// elsewhere; the login flow hands the browser a session cookie carrying the
// catalog access token, while API clients send the token directly.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie holding the signed session.
const SessionCookie = "moodify_session"

// SessionClaims is the payload of the session cookie.
type SessionClaims struct {
	AccessToken string `json:"access_token"`
	jwt.RegisteredClaims
}

var errNoAccessToken = errors.New("session carries no access token")

// SignSession encodes claims as an HS256 token. The service never issues
// sessions itself; the helper exists for the login flow and for tests.
func SignSession(claims SessionClaims, key []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseSession verifies raw and returns the access token it carries. Expired
// sessions are rejected.
func ParseSession(raw string, key []byte) (string, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.AccessToken == "" {
		return "", errNoAccessToken
	}
	return claims.AccessToken, nil
}

// callerCredential returns the caller's catalog token or "" for anonymous
// requests. An Authorization header wins over the session cookie. A session
// that fails verification is treated as absent.
func (app *Application) callerCredential(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.Fields(h)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	c, err := r.Cookie(SessionCookie)
	if err != nil || len(app.SessionKey) == 0 {
		return ""
	}
	tok, err := ParseSession(c.Value, app.SessionKey)
	if err != nil {
		app.logger(r).WithError(err).Debug("ignoring invalid session cookie")
		return ""
	}
	return tok
}
