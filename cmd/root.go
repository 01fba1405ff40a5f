package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the datestack server
var rootCmd = &cobra.Command{
	Use:   "datestack",
	Short: "Self-hosted calendar aggregation and availability sharing server",
	Long: `datestack collects calendar events pushed by sync clients or pulled from
ICS subscriptions, keeps a per-day agenda, and publishes a free/busy
availability page behind a share token.`,
	SilenceUsage: true,
}

// version is set by main at build time
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "datestack version %s\n" .Version}}`)

	// Running the bare binary starts the server.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCreateAdminCmd())
	rootCmd.AddCommand(newVersionCmd())
}
