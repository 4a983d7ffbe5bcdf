package google

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sriramramnath/EducationOS/internal/store"
)

type fakeTokenRepo struct {
	tokens  []store.SocialToken
	apps    map[int64]*store.SocialApp
	byProv  map[string]*store.SocialApp
	listErr error
}

func (f *fakeTokenRepo) ListByUser(ctx context.Context, userID int64) ([]store.SocialToken, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tokens, nil
}

func (f *fakeTokenRepo) AppByID(ctx context.Context, id int64) (*store.SocialApp, error) {
	if app, ok := f.apps[id]; ok {
		return app, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeTokenRepo) AppByProvider(ctx context.Context, provider string) (*store.SocialApp, error) {
	if app, ok := f.byProv[provider]; ok {
		return app, nil
	}
	return nil, store.ErrNotFound
}

type recordedResolution struct {
	tier   string
	status string
}

type fakeRecorder struct {
	resolutions []recordedResolution
}

func (f *fakeRecorder) RecordCredentialResolution(_ context.Context, tier, status string) {
	f.resolutions = append(f.resolutions, recordedResolution{tier: tier, status: status})
}

func testUser() *store.User {
	return &store.User{ID: 7, Email: "student@example.com"}
}

func googleApp() *store.SocialApp {
	return &store.SocialApp{ID: 1, Provider: "google", ClientID: "client-id", Secret: "client-secret"}
}

func newTestResolver(repo *fakeTokenRepo, recorder ResolutionRecorder, logBuf *bytes.Buffer) *Resolver {
	var logger *slog.Logger
	if logBuf != nil {
		logger = slog.New(slog.NewTextHandler(logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewTextHandler(new(bytes.Buffer), nil))
	}
	return NewResolver(repo, logger, recorder, 30*time.Second)
}

func TestResolveNoToken(t *testing.T) {
	repo := &fakeTokenRepo{byProv: map[string]*store.SocialApp{"google": googleApp()}}
	resolver := newTestResolver(repo, nil, nil)

	cred, err := resolver.Resolve(context.Background(), testUser())
	require.Error(t, err)
	assert.Nil(t, cred)

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, ReasonNoToken, unavailable.Reason)
}

func TestResolveFirstTier(t *testing.T) {
	appID := int64(1)
	repo := &fakeTokenRepo{
		tokens: []store.SocialToken{{
			ID: 10, UserID: 7, AppID: &appID,
			AccountProvider: "google", AppProvider: "google",
			Token: "access", TokenSecret: "refresh",
		}},
		apps: map[int64]*store.SocialApp{1: googleApp()},
	}
	recorder := &fakeRecorder{}
	resolver := newTestResolver(repo, recorder, nil)

	cred, err := resolver.Resolve(context.Background(), testUser())
	require.NoError(t, err)
	require.NotNil(t, cred)

	assert.Equal(t, "access", cred.AccessToken)
	assert.Equal(t, "refresh", cred.RefreshToken)
	assert.Equal(t, TokenURI, cred.TokenURI)
	assert.Equal(t, "client-id", cred.ClientID)
	assert.Equal(t, "client-secret", cred.ClientSecret)
	assert.Nil(t, cred.Expiry)

	require.Len(t, recorder.resolutions, 1)
	assert.Equal(t, recordedResolution{tier: "account_provider", status: "success"}, recorder.resolutions[0])
}

func TestResolveAppProviderFallback(t *testing.T) {
	// Legacy rows store a numeric account provider; the app provider
	// label still identifies the token.
	repo := &fakeTokenRepo{
		tokens: []store.SocialToken{{
			ID: 10, UserID: 7,
			AccountProvider: "3", AppProvider: "google",
			Token: "access",
		}},
		byProv: map[string]*store.SocialApp{"google": googleApp()},
	}
	recorder := &fakeRecorder{}
	var logBuf bytes.Buffer
	resolver := newTestResolver(repo, recorder, &logBuf)

	cred, err := resolver.Resolve(context.Background(), testUser())
	require.NoError(t, err)
	require.NotNil(t, cred)

	require.Len(t, recorder.resolutions, 1)
	assert.Equal(t, "app_provider", recorder.resolutions[0].tier)

	// A fallback tier must leave an observable diagnostic.
	assert.Contains(t, logBuf.String(), "fallback tier")
	assert.Contains(t, logBuf.String(), "tier=app_provider")
	assert.NotContains(t, logBuf.String(), "student@example.com", "raw email must never be logged")
}

func TestResolveAnyTokenFallback(t *testing.T) {
	repo := &fakeTokenRepo{
		tokens: []store.SocialToken{{
			ID: 10, UserID: 7,
			AccountProvider: "3", AppProvider: "",
			Token: "access",
		}},
		byProv: map[string]*store.SocialApp{"google": googleApp()},
	}
	recorder := &fakeRecorder{}
	resolver := newTestResolver(repo, recorder, nil)

	cred, err := resolver.Resolve(context.Background(), testUser())
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "any_token", recorder.resolutions[0].tier)
}

func TestResolveTierOrderOverRowOrder(t *testing.T) {
	// A correctly-labelled token wins even when a malformed row is newer.
	repo := &fakeTokenRepo{
		tokens: []store.SocialToken{
			{ID: 20, UserID: 7, AccountProvider: "3", Token: "malformed"},
			{ID: 10, UserID: 7, AccountProvider: "google", Token: "correct"},
		},
		byProv: map[string]*store.SocialApp{"google": googleApp()},
	}
	resolver := newTestResolver(repo, nil, nil)

	cred, err := resolver.Resolve(context.Background(), testUser())
	require.NoError(t, err)
	assert.Equal(t, "correct", cred.AccessToken)
}

func TestResolveNoAppConfig(t *testing.T) {
	repo := &fakeTokenRepo{
		tokens: []store.SocialToken{{
			ID: 10, UserID: 7, AccountProvider: "google", Token: "access",
		}},
	}
	resolver := newTestResolver(repo, nil, nil)

	_, err := resolver.Resolve(context.Background(), testUser())
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, ReasonNoAppConfig, unavailable.Reason)
}

func TestResolveDanglingAppIDFallsBackToProviderLookup(t *testing.T) {
	appID := int64(99)
	repo := &fakeTokenRepo{
		tokens: []store.SocialToken{{
			ID: 10, UserID: 7, AppID: &appID,
			AccountProvider: "google", Token: "access",
		}},
		byProv: map[string]*store.SocialApp{"google": googleApp()},
	}
	resolver := newTestResolver(repo, nil, nil)

	cred, err := resolver.Resolve(context.Background(), testUser())
	require.NoError(t, err)
	assert.Equal(t, "client-id", cred.ClientID)
}

func TestResolveBuildError(t *testing.T) {
	repo := &fakeTokenRepo{listErr: errors.New("connection refused")}
	resolver := newTestResolver(repo, nil, nil)

	_, err := resolver.Resolve(context.Background(), testUser())
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, ReasonBuildError, unavailable.Reason)
	assert.ErrorContains(t, unavailable.Cause, "connection refused")
}

func TestResolveNormalizesExpiryToUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	zoned := time.Date(2024, 6, 15, 10, 0, 0, 0, loc)

	repo := &fakeTokenRepo{
		tokens: []store.SocialToken{{
			ID: 10, UserID: 7, AccountProvider: "google",
			Token: "access", ExpiresAt: &zoned,
		}},
		byProv: map[string]*store.SocialApp{"google": googleApp()},
	}
	resolver := newTestResolver(repo, nil, nil)

	cred, err := resolver.Resolve(context.Background(), testUser())
	require.NoError(t, err)
	require.NotNil(t, cred.Expiry)
	assert.Equal(t, time.UTC, cred.Expiry.Location())
	assert.True(t, cred.Expiry.Equal(zoned))
}

func TestNeedsReauth(t *testing.T) {
	assert.True(t, NeedsReauth(&UnavailableError{Reason: ReasonNoToken}))
	assert.False(t, NeedsReauth(errors.New("network error")))
	assert.False(t, NeedsReauth(nil))
}

func TestCredentialHTTPClient(t *testing.T) {
	cred := &Credential{
		AccessToken: "access",
		TokenURI:    TokenURI,
		Timeout:     10 * time.Second,
	}

	client := cred.HTTPClient(context.Background())
	require.NotNil(t, client)
	assert.Equal(t, 10*time.Second, client.Timeout)
}
