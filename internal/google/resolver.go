package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sriramramnath/EducationOS/internal/logging"
	"github.com/sriramramnath/EducationOS/internal/store"
)

// Reason classifies why no credential could be resolved.
type Reason string

const (
	// ReasonNoToken means the user has no stored OAuth token at all.
	ReasonNoToken Reason = "no token"
	// ReasonNoAppConfig means a token exists but no app credentials
	// (client id/secret) are configured.
	ReasonNoAppConfig Reason = "no app config"
	// ReasonBuildError means an unexpected failure occurred while
	// building the credential. The cause is logged, never re-raised.
	ReasonBuildError Reason = "build error"
)

// UnavailableError is the only error Resolve returns. Callers construct a
// disconnected adapter from it rather than failing the request.
type UnavailableError struct {
	Reason Reason
	Cause  error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("google credential unavailable: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("google credential unavailable: %s", e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// NeedsReauth reports whether err indicates the user must reconnect their
// Google account.
func NeedsReauth(err error) bool {
	var unavailable *UnavailableError
	return errors.As(err, &unavailable)
}

// ResolutionRecorder receives the outcome of each resolution attempt.
// Satisfied by instrumentation.Metrics.
type ResolutionRecorder interface {
	RecordCredentialResolution(ctx context.Context, tier, status string)
}

// resolutionTier is one lookup strategy over the stored-token rows.
// Tiers are evaluated in order and the first matching token wins.
type resolutionTier struct {
	name  string
	match func(store.SocialToken) bool
}

// Tier order mirrors the observed stored-token drift: the account
// provider label is authoritative, the app provider label covers rows
// where the account label was saved as a numeric id, and the last tier
// keeps the integration working for fully malformed rows.
var resolutionTiers = []resolutionTier{
	{
		name:  "account_provider",
		match: func(t store.SocialToken) bool { return t.AccountProvider == "google" },
	},
	{
		name:  "app_provider",
		match: func(t store.SocialToken) bool { return t.AppProvider == "google" },
	},
	{
		name:  "any_token",
		match: func(store.SocialToken) bool { return true },
	},
}

// Resolver maps an authenticated local user to a refreshable Google
// credential built from stored OAuth tokens.
type Resolver struct {
	tokens  store.TokenRepository
	logger  *slog.Logger
	metrics ResolutionRecorder
	timeout time.Duration
}

// NewResolver creates a Resolver. metrics may be nil.
func NewResolver(tokens store.TokenRepository, logger *slog.Logger, metrics ResolutionRecorder, timeout time.Duration) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		tokens:  tokens,
		logger:  logging.WithService(logger, "google"),
		metrics: metrics,
		timeout: timeout,
	}
}

// Resolve locates the best stored token for the user and builds a
// credential from it. On failure it always returns *UnavailableError;
// no other error ever crosses this boundary.
func (r *Resolver) Resolve(ctx context.Context, user *store.User) (*Credential, error) {
	logger := r.logger.With(logging.UserHash(user.Email))

	tokens, err := r.tokens.ListByUser(ctx, user.ID)
	if err != nil {
		logger.Error("failed to load stored tokens", logging.Err(err))
		return nil, r.unavailable(ctx, "", ReasonBuildError, err)
	}

	token, tierName := selectToken(tokens)
	if token == nil {
		logger.Warn("no Google token stored for user")
		return nil, r.unavailable(ctx, "", ReasonNoToken, nil)
	}

	if tierName != resolutionTiers[0].name {
		// Operators watch for this drift between expected and actual
		// stored-token schema.
		logger.Warn("stored token matched via fallback tier; account provider value appears inconsistent",
			logging.Tier(tierName))
	}

	app, err := r.appForToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Error("no Google app credentials configured")
			return nil, r.unavailable(ctx, tierName, ReasonNoAppConfig, nil)
		}
		logger.Error("failed to load app credentials", logging.Err(err))
		return nil, r.unavailable(ctx, tierName, ReasonBuildError, err)
	}

	cred := &Credential{
		AccessToken:  token.Token,
		RefreshToken: token.TokenSecret,
		TokenURI:     TokenURI,
		ClientID:     app.ClientID,
		ClientSecret: app.Secret,
		Expiry:       normalizeExpiry(token.ExpiresAt),
		Timeout:      r.timeout,
	}

	logger.Debug("resolved credential",
		logging.Tier(tierName),
		slog.String("access_token", logging.SanitizeToken(cred.AccessToken)))
	r.record(ctx, tierName, logging.StatusSuccess)

	return cred, nil
}

// selectToken walks the resolution tiers over the stored rows and returns
// the first match together with the tier that produced it.
func selectToken(tokens []store.SocialToken) (*store.SocialToken, string) {
	for _, tier := range resolutionTiers {
		for i := range tokens {
			if tier.match(tokens[i]) {
				return &tokens[i], tier.name
			}
		}
	}
	return nil, ""
}

// appForToken loads the app credentials for a token, preferring the app
// the token was issued under and falling back to whichever app is
// configured for the google provider.
func (r *Resolver) appForToken(ctx context.Context, token *store.SocialToken) (*store.SocialApp, error) {
	if token.AppID != nil {
		app, err := r.tokens.AppByID(ctx, *token.AppID)
		if err == nil {
			return app, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return r.tokens.AppByProvider(ctx, "google")
}

func (r *Resolver) unavailable(ctx context.Context, tier string, reason Reason, cause error) *UnavailableError {
	if tier == "" {
		tier = "none"
	}
	r.record(ctx, tier, logging.StatusError)
	return &UnavailableError{Reason: reason, Cause: cause}
}

func (r *Resolver) record(ctx context.Context, tier, status string) {
	if r.metrics != nil {
		r.metrics.RecordCredentialResolution(ctx, tier, status)
	}
}
