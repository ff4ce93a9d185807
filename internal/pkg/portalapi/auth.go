package portalapi

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Cookies the portal expects next to its requests.
const (
	SessionCookieName = "sessionid"
	CSRFCookieName    = "csrftoken"
)

// NewHTTPClient returns the HTTP client used for portal calls. When accessToken is set
// every request carries it as a bearer token.
func NewHTTPClient(ctx context.Context, accessToken string, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	if accessToken == "" {
		return base
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	hc.Timeout = timeout
	return hc
}

// SessionCookie wraps a portal session id, nil when id is empty.
func SessionCookie(id string) *http.Cookie {
	if id == "" {
		return nil
	}
	return &http.Cookie{Name: SessionCookieName, Value: id}
}

// CSRFCookie wraps the CSRF token the portal checks the X-CSRFToken header against,
// nil when token is empty.
func CSRFCookie(token string) *http.Cookie {
	if token == "" {
		return nil
	}
	return &http.Cookie{Name: CSRFCookieName, Value: token}
}
