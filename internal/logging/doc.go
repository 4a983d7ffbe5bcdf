// Package logging provides structured logging utilities for the dashboard.
//
// It centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithService(slog.Default(), "gmail")
//	logger.Info("listed emails", logging.Operation("list_recent"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("resolved credential", logging.UserHash(user.Email))
//
// # Security Considerations
//
//   - User emails are hashed to prevent PII leakage while allowing correlation
//   - Tokens are never logged directly
package logging
