// Package store provides PostgreSQL-backed persistence for the dashboard:
// identity and session lookup, stored OAuth tokens and app credentials,
// and the locally-owned goal, achievement, habit and time-tracking
// entities. Schema migrations are embedded and applied at startup.
package store
