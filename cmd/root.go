package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the educationos application
var rootCmd = &cobra.Command{
	Use:   "educationos",
	Short: "Personal productivity dashboard backend",
	Long: `educationos serves a personal productivity dashboard: recent Gmail
messages, upcoming Calendar events and Google Tasks for the signed-in
user, next to locally stored goals, habits, achievements and tracked
time.

Google data is read through the user's stored OAuth tokens; local data
lives in PostgreSQL.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "educationos version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newVersionCmd())
}
