package client

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	matchorch "github.com/KirkDiggler/not-enough-mana/internal/orchestrators/match"
)

// settingsFlags binds the editable settings to a command's flags
type settingsFlags struct {
	maxHealth      int
	maxMana        int
	drinkAmount    int
	initialHealth  int
	initialMana    int
	drunkThreshold float64
	decayRate      float64
	theme          string
	handSize       int
}

func (f *settingsFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.maxHealth, "max-health", 0, "maximum health")
	fs.IntVar(&f.maxMana, "max-mana", 0, "maximum mana")
	fs.IntVar(&f.drinkAmount, "drink-amount", 0, "mana gained per drink")
	fs.IntVar(&f.initialHealth, "initial-health", 0, "starting health")
	fs.IntVar(&f.initialMana, "initial-mana", 0, "starting mana")
	fs.Float64Var(&f.drunkThreshold, "drunk-threshold", 0, "mana intake threshold")
	fs.Float64Var(&f.decayRate, "decay-rate", 0, "mana intake decay per minute")
	fs.StringVar(&f.theme, "theme", "", "card theme")
	fs.IntVar(&f.handSize, "hand-size", 0, "cards dealt at start")
}

func (f *settingsFlags) changed(fs *pflag.FlagSet) bool {
	for _, name := range []string{
		"max-health", "max-mana", "drink-amount", "initial-health", "initial-mana",
		"drunk-threshold", "decay-rate", "theme", "hand-size",
	} {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

// apply overlays every flag the user set onto base
func (f *settingsFlags) apply(fs *pflag.FlagSet, base entities.GameSettings) entities.GameSettings {
	if fs.Changed("max-health") {
		base.MaxHealth = f.maxHealth
	}
	if fs.Changed("max-mana") {
		base.MaxMana = f.maxMana
	}
	if fs.Changed("drink-amount") {
		base.ManaDrinkAmount = f.drinkAmount
	}
	if fs.Changed("initial-health") {
		base.InitialHealth = f.initialHealth
	}
	if fs.Changed("initial-mana") {
		base.InitialMana = f.initialMana
	}
	if fs.Changed("drunk-threshold") {
		base.DrunkThreshold = f.drunkThreshold
	}
	if fs.Changed("decay-rate") {
		base.ManaIntakeDecayRate = f.decayRate
	}
	if fs.Changed("theme") {
		base.CardTheme = f.theme
	}
	if fs.Changed("hand-size") {
		base.HandSize = f.handSize
	}
	return base
}

var (
	// Create/join flags
	playerName string
	playerTeam string

	createSettings settingsFlags
	updateSettings settingsFlags
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new match and become its leader",
	RunE:  runCreate,
}

var joinCmd = &cobra.Command{
	Use:   "join CODE",
	Short: "Join a waiting match by its code",
	Args:  cobra.ExactArgs(1),
	RunE:  runJoin,
}

var leaveCmd = &cobra.Command{
	Use:   "leave MATCH",
	Short: "Leave a match",
	Args:  cobra.ExactArgs(1),
	RunE:  runLeave,
}

var settingsCmd = &cobra.Command{
	Use:   "settings MATCH",
	Short: "Change the settings of a waiting match (leader only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettings,
}

var startCmd = &cobra.Command{
	Use:   "start MATCH",
	Short: "Deal hands and start the match (leader only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runStart,
}

func init() {
	for _, c := range []*cobra.Command{createCmd, joinCmd} {
		c.Flags().StringVar(&playerName, "name", "", "display name (defaults to the player id)")
		c.Flags().StringVar(&playerTeam, "team", "", "team tag, empty for free-for-all")
	}
	createSettings.register(createCmd.Flags())
	updateSettings.register(settingsCmd.Flags())
}

func displayName(id string) string {
	if playerName != "" {
		return playerName
	}
	return id
}

func runCreate(cmd *cobra.Command, _ []string) error {
	player, err := requirePlayer()
	if err != nil {
		return err
	}
	settings := createSettings.apply(cmd.Flags(), entities.GameSettings{})

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		out, err := b.service.CreateMatch(ctx, &matchorch.CreateMatchInput{
			PlayerID:   player,
			PlayerName: displayName(player),
			Team:       playerTeam,
			Settings:   &settings,
		})
		if err != nil {
			return err
		}
		return renderMatch(cmd.OutOrStdout(), out.Match, player)
	})
}

func runJoin(cmd *cobra.Command, args []string) error {
	player, err := requirePlayer()
	if err != nil {
		return err
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		out, err := retryAborted(ctx, func() (*matchorch.JoinMatchOutput, error) {
			return b.service.JoinMatch(ctx, &matchorch.JoinMatchInput{
				Code:       args[0],
				PlayerID:   player,
				PlayerName: displayName(player),
				Team:       playerTeam,
			})
		})
		if err != nil {
			return err
		}
		return renderMatch(cmd.OutOrStdout(), out.Match, player)
	})
}

func runLeave(cmd *cobra.Command, args []string) error {
	player, err := requirePlayer()
	if err != nil {
		return err
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		out, err := retryAborted(ctx, func() (*matchorch.LeaveMatchOutput, error) {
			return b.service.LeaveMatch(ctx, &matchorch.LeaveMatchInput{
				MatchID:  args[0],
				PlayerID: player,
			})
		})
		if err != nil {
			return err
		}
		if out.Deleted {
			return printf(cmd.OutOrStdout(), "You were the last player out; match %s is closed.\n", args[0])
		}
		return renderMatch(cmd.OutOrStdout(), out.Match, player)
	})
}

func runSettings(cmd *cobra.Command, args []string) error {
	player, err := requirePlayer()
	if err != nil {
		return err
	}
	if !updateSettings.changed(cmd.Flags()) {
		return errors.InvalidArgument("no settings given")
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		out, err := retryAborted(ctx, func() (*matchorch.UpdateSettingsOutput, error) {
			current, err := b.service.GetMatch(ctx, &matchorch.GetMatchInput{MatchID: args[0]})
			if err != nil {
				return nil, err
			}
			return b.service.UpdateSettings(ctx, &matchorch.UpdateSettingsInput{
				MatchID:  args[0],
				PlayerID: player,
				Settings: updateSettings.apply(cmd.Flags(), current.Match.Settings),
			})
		})
		if err != nil {
			return err
		}
		return renderMatch(cmd.OutOrStdout(), out.Match, player)
	})
}

func runStart(cmd *cobra.Command, args []string) error {
	player, err := requirePlayer()
	if err != nil {
		return err
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		out, err := retryAborted(ctx, func() (*matchorch.StartMatchOutput, error) {
			return b.service.StartMatch(ctx, &matchorch.StartMatchInput{
				MatchID:  args[0],
				PlayerID: player,
			})
		})
		if err != nil {
			return err
		}
		return renderMatch(cmd.OutOrStdout(), out.Match, player)
	})
}
