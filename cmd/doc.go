// Package cmd implements the command-line interface for educationos.
//
// This package provides the following commands:
//   - serve: Start the dashboard API server
//   - migrate: Apply the embedded database migrations
//   - version: Display version information
//
// The serve command is the default command when no subcommand is
// specified.
package cmd
