// Package cmd defines and implements the CLI commands for the docsentry
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docsentry",
		Short: "A build-time link checker for documentation trees.",
		Long: `docsentry scans a documentation tree for markdown files, extracts every
hyperlink, and verifies each one resolves. Relative links are checked
against the blob view of a specific commit, so docs are validated for
the exact tree being built rather than whatever is currently on the
default branch.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $DOCSENTRY_* env only)")

	cmd.AddCommand(newCheckCmd())

	return cmd
}

// Execute is the main entry point. Any failure, including a run with
// broken links, terminates the process with a non-zero status; a panic
// anywhere in the pipeline is converted into the same fatal path rather
// than an unhandled crash.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "docsentry: fatal: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		if err != errLinksFailed {
			fmt.Fprintf(os.Stderr, "docsentry: %v\n", err)
		}
		os.Exit(1)
	}
}
