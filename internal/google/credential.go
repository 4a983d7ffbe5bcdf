package google

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// TokenURI is the fixed Google OAuth2 token endpoint used for refresh.
const TokenURI = "https://oauth2.googleapis.com/token"

// Credential is an ephemeral, request-scoped value combining a stored
// access token with the app credentials needed to refresh it. It is never
// cached across requests; every request rebuilds it from stored-token
// state so token rotation takes effect immediately.
type Credential struct {
	AccessToken  string
	RefreshToken string
	TokenURI     string
	ClientID     string
	ClientSecret string

	// Expiry is always UTC when present. A stored timezone-naive expiry
	// is interpreted as UTC.
	Expiry *time.Time

	// Timeout bounds outbound calls made with HTTPClient. Zero means no
	// timeout, matching the underlying API client's default.
	Timeout time.Duration
}

// TokenSource returns an oauth2 token source that refreshes through the
// token endpoint when the access token expires.
func (c *Credential) TokenSource(ctx context.Context) oauth2.TokenSource {
	conf := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: c.TokenURI,
		},
	}

	token := &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
	}
	if c.Expiry != nil {
		token.Expiry = *c.Expiry
	}

	return conf.TokenSource(ctx, token)
}

// HTTPClient returns an HTTP client that authenticates with the
// credential. The client is configured to use HTTP/1.1 to avoid HTTP/2
// protocol errors against the Google APIs.
func (c *Credential) HTTPClient(ctx context.Context) *http.Client {
	client := oauth2.NewClient(ctx, c.TokenSource(ctx))

	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			ForceAttemptHTTP2: false,
		}
	}
	client.Timeout = c.Timeout

	return client
}

// normalizeExpiry converts a stored expiry to UTC. The auth collaborator
// has written both zoned and naive timestamps over time; a naive value is
// treated as UTC.
func normalizeExpiry(expiry *time.Time) *time.Time {
	if expiry == nil {
		return nil
	}
	utc := expiry.UTC()
	return &utc
}
