package gmail

import (
	"encoding/base64"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// maxBodyChars is the limit applied to normalized email bodies. Longer
// bodies are cut and suffixed with an ellipsis marker.
const maxBodyChars = 200

// emailDateLayout matches the RFC 2822 style Date header Gmail returns,
// e.g. "Mon, 02 Jan 2006 15:04:05 -0700". A trailing comment such as
// " (UTC)" is stripped before parsing.
const emailDateLayout = "Mon, 2 Jan 2006 15:04:05 -0700"

// Email is the normalized representation of a Gmail message returned by
// ListRecent.
type Email struct {
	ID      string    `json:"id"`
	Subject string    `json:"subject"`
	Sender  string    `json:"sender"`
	Date    time.Time `json:"date"`
	Body    string    `json:"body"`
	Snippet string    `json:"snippet"`
}

// normalizeMessage converts a fully-fetched Gmail message into an Email.
func normalizeMessage(msg *gmail.Message, now func() time.Time) Email {
	e := Email{
		ID:      msg.Id,
		Subject: "No Subject",
		Sender:  "Unknown Sender",
		Date:    now(),
		Snippet: msg.Snippet,
	}

	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				if h.Value != "" {
					e.Subject = h.Value
				}
			case "From":
				if h.Value != "" {
					e.Sender = h.Value
				}
			case "Date":
				if t, ok := parseEmailDate(h.Value); ok {
					e.Date = t
				}
			}
		}
		e.Body = truncateBody(extractBody(msg.Payload))
	}

	return e
}

// parseEmailDate parses an email Date header. Some providers append a
// parenthesized timezone comment that time.Parse rejects, so everything
// from " (" onwards is dropped first.
func parseEmailDate(s string) (time.Time, bool) {
	if i := strings.Index(s, " ("); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(emailDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// extractBody returns the decoded text/plain content of a message
// payload. Multipart messages use the first text/plain part; flat
// messages use the payload body when it is text/plain.
func extractBody(payload *gmail.MessagePart) string {
	for _, part := range payload.Parts {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			return decodeBody(part.Body.Data)
		}
	}
	if payload.MimeType == "text/plain" && payload.Body != nil && payload.Body.Data != "" {
		return decodeBody(payload.Body.Data)
	}
	return ""
}

// decodeBody decodes base64url message data. Gmail usually omits
// padding, so the raw alphabet is tried as well before giving up.
func decodeBody(data string) string {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	if b, err := base64.StdEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	return ""
}

// truncateBody limits body to maxBodyChars characters, appending "..."
// when content was cut.
func truncateBody(body string) string {
	r := []rune(body)
	if len(r) <= maxBodyChars {
		return body
	}
	return string(r[:maxBodyChars]) + "..."
}
