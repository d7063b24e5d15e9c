package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Build information, set from main at link time.
var (
	BuildVersion = "dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "factbot",
	Short: "Factbot - Factorio server supervisor for Discord",
	Long: `Factbot supervises a Factorio server running in a Docker container and
surfaces its lifecycle and live metrics through Discord. Operators can
start, stop and restart the server and view its logs from chat.`,
}

func Execute(version, commit, date string) {
	if version != "" {
		BuildVersion = version
	}
	if commit != "" {
		BuildCommit = commit
	}
	if date != "" {
		BuildDate = date
	}

	// Best-effort .env loading; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
