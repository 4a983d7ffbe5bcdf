// Package calendar provides a normalizing client for the Google
// Calendar API.
//
// Events are flattened into a compact Event record whose Start and End
// fields carry the provider's string values verbatim: an RFC 3339
// dateTime for timed events, a plain date for all-day events. The
// dashboard renders both without interpreting them.
//
// A client built without a credential is disconnected and every
// operation returns an empty result.
package calendar
