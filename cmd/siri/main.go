// Siri — per-user encrypted secret storage for webhook responders and page trackers.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "siri",
	Short: "Siri — per-user encrypted secret storage.",
	Long: `Siri stores user secrets encrypted at rest with AES-256-GCM and keeps
webhook responders and page trackers consistent when secrets are removed.
Plaintext only exists in memory while a tracker sync or responder run needs it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(keygenCmd, migrateCmd, versionCmd)
	_ = godotenv.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
