// Package main is the entry point for the ressourcefyctl CLI.
//
// Usage:
//
//	ressourcefyctl fetch articles --category design
//	ressourcefyctl validate profile --first-name Ada --last-name Lovelace
//	ressourcefyctl validate interests --interest Go --interest Design
//	ressourcefyctl version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via -ldflags "-X main.version=1.0.0".
var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ressourcefyctl",
		Short: "Inspect the Ressourcefy content API and onboarding rules",
		Long: `ressourcefyctl talks to the content API the same way the gateway does.

Fetches go through the same rate limiter, retry and circuit breaker and fall
back to the built-in data when API_BASE_URL is unset or the API fails, so the
output shows exactly what the gateway would serve.`,
		SilenceUsage: true,
	}
	root.AddCommand(newFetchCmd(), newValidateCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ressourcefyctl %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
