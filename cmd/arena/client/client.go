// Package client provides the match commands players use against the
// shared store
package client

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/cenkalti/backoff/v5"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/not-enough-mana/internal/cards"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	matchorch "github.com/KirkDiggler/not-enough-mana/internal/orchestrators/match"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/clock"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/not-enough-mana/internal/redis"
	matchrepo "github.com/KirkDiggler/not-enough-mana/internal/repositories/match"
)

// abortedRetries bounds how often a command is replayed after losing a race
const abortedRetries = 3

var (
	// Connection flags
	redisAddr string
	playerID  string
	timeout   time.Duration
)

// MatchCmd is the root command for all match commands
var MatchCmd = &cobra.Command{
	Use:   "match",
	Short: "Create, join and play matches",
	Long: `Match commands read and write the shared match document directly.
Every player runs them with their own --player id.`,
}

func init() {
	MatchCmd.PersistentFlags().StringVar(&redisAddr, "redis", "localhost:6379", "Redis endpoint")
	MatchCmd.PersistentFlags().StringVar(&playerID, "player", "", "your player id")
	MatchCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	// Lobby commands
	MatchCmd.AddCommand(createCmd)
	MatchCmd.AddCommand(joinCmd)
	MatchCmd.AddCommand(leaveCmd)
	MatchCmd.AddCommand(settingsCmd)
	MatchCmd.AddCommand(startCmd)

	// Turn commands
	MatchCmd.AddCommand(playCmd)
	MatchCmd.AddCommand(challengeCmd)
	MatchCmd.AddCommand(drinkCmd)

	// Viewing
	MatchCmd.AddCommand(showCmd)
	MatchCmd.AddCommand(watchCmd)
}

// backend is what a command talks to
type backend struct {
	service matchorch.Service
	repo    matchrepo.Repository
	close   func()
}

// openBackend connects to the shared store. Tests replace it.
var openBackend = func(_ context.Context) (*backend, error) {
	client, err := redisclient.NewClient(redisAddr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create redis client")
	}

	realClock := clock.New()
	repo, err := matchrepo.NewRedis(&matchrepo.RedisConfig{Client: client, Clock: realClock})
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	pool, err := cards.NewPool(&cards.Config{
		Roller:      dice.DefaultRoller,
		IDGenerator: idgen.NewUUID("card"),
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	service, err := matchorch.NewOrchestrator(&matchorch.Config{
		MatchRepo:     repo,
		CardDealer:    pool,
		IDGenerator:   idgen.NewUUID("match"),
		CodeGenerator: idgen.NewCode(idgen.DefaultCodeLength),
		Roller:        dice.DefaultRoller,
		Clock:         realClock,
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return &backend{
		service: service,
		repo:    repo,
		close:   func() { _ = client.Close() },
	}, nil
}

// withBackend runs fn against a fresh backend under the request timeout
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *backend) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	return fn(ctx, b)
}

// requirePlayer returns the --player id or explains that it is missing
func requirePlayer() (string, error) {
	if playerID == "" {
		return "", errors.InvalidArgument("--player is required")
	}
	return playerID, nil
}

// retryAborted replays op while it loses compare-and-set races. Every
// attempt rereads the match, so nothing is applied twice.
func retryAborted[T any](ctx context.Context, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond

	return backoff.Retry(ctx, func() (T, error) {
		out, err := op()
		if err != nil && !errors.IsAborted(err) {
			return out, backoff.Permanent(err)
		}
		return out, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(abortedRetries))
}
