package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sedhha/policy-mate-sub000/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "policy-mate",
	Short: "Document compliance annotation tooling",
	Long: `PolicyMate - annotation tooling for document compliance review

The annotation engine lets reviewers mark rectangular regions on policy
documents, bookmark findings, and discuss each finding with the compliance
assistant. This CLI bundles a local stand-in for the review backend plus
commands for talking to a live one.

Commands:
  • serve       run the local stub review backend
  • migrate     create or update the stub backend's schema
  • annotations inspect a session's annotations on a live backend
  • version     print build information`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)
}

// loadConfig loads the configuration when a command needs it
func loadConfig() {
	// version and help never touch configuration
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
