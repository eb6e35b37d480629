// Package main is the entry point for the arena command
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/not-enough-mana/cmd/arena/client"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Not Enough Mana arena",
	Long: `Not Enough Mana is a party card game where wizards spend mana and
refill it by drinking. arena runs the decay service and plays matches
against the shared store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		msg := err.Error()
		if code := errors.GetCode(err); code.Rejected() || code == errors.CodeAborted {
			msg = errors.Reason(err)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(client.MatchCmd)
}
