// Package server implements the dashboard's HTTP API.
//
// All API responses share a small JSON envelope: successes carry
// "success": true next to the payload, failures carry "error" with a
// message. Mutating Google endpoints additionally set "needs_reauth"
// when the user's stored credential could not be turned into a working
// client, so the frontend knows to restart the consent flow.
//
// Google service clients are built per request from freshly resolved
// credentials; nothing provider-related is cached between requests.
// Local entities (goals, achievements, time entries, habits) go through
// the store.
//
// Prometheus metrics are served by a dedicated MetricsServer on its own
// listener, isolated from application traffic.
package server
