// Package gmail provides a normalizing client for the Gmail API.
//
// The client turns raw Gmail messages into compact Email records suitable
// for a dashboard: subject, sender, parsed date, a truncated plain-text
// body, and the provider snippet.
//
// A client built without a credential is "disconnected" and every
// operation returns an empty result. This lets callers treat users
// without a linked Google account the same as users whose account is
// temporarily unreachable.
//
// Example usage:
//
//	cred, err := resolver.Resolve(ctx, user)
//	if err != nil {
//	    cred = nil // fall back to a disconnected client
//	}
//	client := gmail.New(ctx, cred, logger)
//	emails := client.ListRecent(ctx, 10)
package gmail
