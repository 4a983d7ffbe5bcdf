package gmail

import (
	"context"
	"log/slog"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/sriramramnath/EducationOS/internal/google"
	"github.com/sriramramnath/EducationOS/internal/logging"
)

// Client wraps the Gmail Users service for a single user. A client built
// without a credential is disconnected: every operation returns the empty
// result instead of an error, so callers never have to special-case a
// missing Google account.
type Client struct {
	svc    *gmail.UsersService
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Gmail client from a resolved credential. A nil credential
// yields a disconnected client. Service construction failures also
// degrade to a disconnected client; they are logged, not returned.
func New(ctx context.Context, cred *google.Credential, logger *slog.Logger) *Client {
	c := &Client{
		logger: logging.WithService(logger, "gmail"),
		now:    time.Now,
	}
	if cred == nil {
		return c
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(cred.HTTPClient(ctx)))
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to build Gmail service", logging.Err(err))
		return c
	}
	c.svc = svc.Users
	return c
}

// Connected reports whether the client is backed by a live Gmail service.
func (c *Client) Connected() bool {
	return c.svc != nil
}

// ListRecent returns up to maxResults normalized inbox messages, newest
// first. Listing failures yield an empty slice; messages that cannot be
// fetched individually are skipped.
func (c *Client) ListRecent(ctx context.Context, maxResults int64) []Email {
	if !c.Connected() {
		return []Email{}
	}

	res, err := c.svc.Messages.List("me").Q("in:inbox").MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to list messages",
			logging.Operation("list_recent"), logging.Err(err))
		return []Email{}
	}

	emails := make([]Email, 0, len(res.Messages))
	for _, ref := range res.Messages {
		msg, err := c.svc.Messages.Get("me", ref.Id).Context(ctx).Do()
		if err != nil {
			c.logger.WarnContext(ctx, "skipping unreadable message",
				logging.Operation("list_recent"),
				slog.String("message_id", ref.Id), logging.Err(err))
			continue
		}
		emails = append(emails, normalizeMessage(msg, c.now))
	}
	return emails
}

// ListLabels returns the user's Gmail labels as the provider reports
// them. Failures yield an empty slice.
func (c *Client) ListLabels(ctx context.Context) []*gmail.Label {
	if !c.Connected() {
		return []*gmail.Label{}
	}

	res, err := c.svc.Labels.List("me").Context(ctx).Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to list labels",
			logging.Operation("list_labels"), logging.Err(err))
		return []*gmail.Label{}
	}
	return res.Labels
}
