package client

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	matchorch "github.com/KirkDiggler/not-enough-mana/internal/orchestrators/match"
	matchrepo "github.com/KirkDiggler/not-enough-mana/internal/repositories/match"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show MATCH|CODE",
	Short: "Show a match by id or join code",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var watchCmd = &cobra.Command{
	Use:   "watch MATCH",
	Short: "Print the match every time it changes",
	Long: `Follow a match until it is deleted or you interrupt the command.
--timeout does not apply.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the raw match document")
}

// lookup reads a match by id and falls back to treating ref as a join code
func lookup(ctx context.Context, service matchorch.Service, ref string) (*entities.Match, error) {
	out, err := service.GetMatch(ctx, &matchorch.GetMatchInput{MatchID: ref})
	if err == nil {
		return out.Match, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	out, err = service.GetMatch(ctx, &matchorch.GetMatchInput{Code: ref})
	if err != nil {
		return nil, err
	}
	return out.Match, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		m, err := lookup(ctx, b.service, args[0])
		if err != nil {
			return err
		}

		if !showJSON {
			return renderMatch(cmd.OutOrStdout(), m, playerID)
		}
		data, err := json.Marshal(m)
		if err != nil {
			return errors.Wrap(err, "failed to marshal match")
		}
		_, err = cmd.OutOrStdout().Write(pretty.Pretty(data))
		return err
	})
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	// Subscribe before the first read so no write in between is missed
	watch, err := b.repo.Watch(ctx, matchrepo.WatchInput{ID: args[0]})
	if err != nil {
		return err
	}

	current, err := lookup(ctx, b.service, args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if err := renderMatch(w, current, playerID); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-watch.Updates:
			if !ok {
				return printf(w, "Match %s was closed.\n", args[0])
			}
			// decay ticks can arrive out of order with player writes
			if m.Version <= current.Version {
				continue
			}
			current = m
			if err := printf(w, "\n"); err != nil {
				return err
			}
			if err := renderMatch(w, current, playerID); err != nil {
				return err
			}
		}
	}
}
