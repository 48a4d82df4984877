package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graft-dev/graft/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬─┐┌─┐┌─┐┌┬┐
  │ ┬├┬┘├─┤├┤  │
  └─┘┴└─┴ ┴└   ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "graft",
		Short: "Server-driven UIs in Go",
		Long: `Graft renders your UI on the server from plain Go functions and
keeps the browser in sync over WebSocket with binary patches.

There is no build step and no client framework: the page is Go,
the state is Go, and the thin client only applies patches and
forwards events.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	rootCmd.SetVersionTemplate("graft {{.Version}}\n")

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the Graft ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
