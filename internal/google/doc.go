// Package google resolves stored OAuth tokens into refreshable Google API
// credentials.
//
// The auth collaborator stores tokens with inconsistent provider labels
// (legacy rows carry a numeric account provider), so resolution walks an
// ordered list of lookup tiers and emits a diagnostic whenever a fallback
// tier is used. Resolution never fails loudly: every failure mode is
// reported as an UnavailableError that callers turn into a disconnected
// adapter.
//
// Token acquisition (the consent flow) is out of scope; refresh is
// delegated to the oauth2 client via the credential's TokenSource.
package google
