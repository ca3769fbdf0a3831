// Package main provides the entry point for the sitemapper CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yomogi/sitemapper/internal/export"
)

// Exit codes returned by the CLI.
//
// A failed export gets its own code so scripts can tell "the crawl went
// wrong" apart from "the crawl succeeded but the results could not be
// written".
const (
	exitOK           = 0
	exitError        = 1
	exitExportFailed = 2
)

// NewRootCmd creates the root command for sitemapper.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemapper",
		Short: "Polite single-domain web crawler and site map generator",
		Long: `Sitemapper crawls a website starting from a seed URL, visiting every
reachable page on the same domain exactly once, and produces a site map
listing each page's URL, title, and HTTP status code.

The crawl is polite by default: requests are issued at no more than 2.5
per second, so even large sites are traversed without hammering the
server. Results are exported as CSV, JSON, or Markdown.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, export.ErrExportFailed) {
			os.Exit(exitExportFailed)
		}
		os.Exit(exitError)
	}
}
