package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/not-enough-mana/internal/config"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	redisclient "github.com/KirkDiggler/not-enough-mana/internal/redis"
	matchrepo "github.com/KirkDiggler/not-enough-mana/internal/repositories/match"
)

var (
	repairRedis string
	repairFix   bool
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Find match data the store can no longer read",
	Long: `Scan every match document in Redis and report documents that fail to
decode, join codes whose match is gone and stale active-match entries.
Nothing is deleted unless --fix is given.`,
	RunE: runRepair,
}

func init() {
	repairCmd.Flags().StringVar(&repairRedis, "redis", "", "Redis endpoint (overrides ARENA_REDIS_ENDPOINT)")
	repairCmd.Flags().BoolVar(&repairFix, "fix", false, "delete what the scan finds")
}

func runRepair(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if repairRedis != "" {
		cfg.RedisEndpoint = repairRedis
	}

	client, err := redisclient.NewClient(cfg.RedisEndpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create redis client")
	}
	defer func() { _ = client.Close() }()

	auditor, err := matchrepo.NewAuditor(&matchrepo.AuditorConfig{Client: client})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	report, err := auditor.Scan(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printReport(w, report)
	if report.Clean() || !repairFix {
		return nil
	}

	if err := auditor.Repair(ctx, report); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, "Repaired.")
	return nil
}

func printReport(w io.Writer, report *matchrepo.AuditReport) {
	_, _ = fmt.Fprintf(w, "Checked %d match documents\n", report.Checked)
	if report.Clean() {
		_, _ = fmt.Fprintln(w, "Nothing to repair.")
		return
	}

	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		_, _ = fmt.Fprintf(w, "%s:\n", title)
		for _, item := range items {
			_, _ = fmt.Fprintf(w, "  - %s\n", item)
		}
	}
	list("Undecodable matches", report.Corrupt)
	list("Orphaned join codes", report.Orphaned)
	list("Stale active entries", report.Stale)

	if !repairFix {
		_, _ = fmt.Fprintln(w, "Run again with --fix to delete these.")
	}
}
