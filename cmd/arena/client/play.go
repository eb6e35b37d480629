package client

import (
	"context"

	"github.com/spf13/cobra"

	matchorch "github.com/KirkDiggler/not-enough-mana/internal/orchestrators/match"
)

var playCmd = &cobra.Command{
	Use:   "play MATCH CARD [TARGET]",
	Short: "Play a card from your hand",
	Long: `Play the card instance CARD from your hand. Cards that need a target
take the target's player id as the third argument.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runPlay,
}

var challengeCmd = &cobra.Command{
	Use:   "challenge MATCH WINNER LOSER",
	Short: "Report the result of your open challenge",
	Args:  cobra.ExactArgs(3),
	RunE:  runChallenge,
}

var drinkCmd = &cobra.Command{
	Use:   "drink MATCH",
	Short: "Drink a mana potion and end your turn",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrink,
}

func runPlay(cmd *cobra.Command, args []string) error {
	player, err := requirePlayer()
	if err != nil {
		return err
	}
	input := &matchorch.PlayCardInput{
		MatchID:  args[0],
		PlayerID: player,
		CardID:   args[1],
	}
	if len(args) == 3 {
		input.TargetID = args[2]
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		out, err := retryAborted(ctx, func() (*matchorch.PlayCardOutput, error) {
			return b.service.PlayCard(ctx, input)
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		switch {
		case out.Missed:
			if err := printf(w, "Your hand shakes and the card fizzles.\n"); err != nil {
				return err
			}
		case out.ChallengeOpened:
			if err := printf(w, "Challenge opened. Report the result with: arena match challenge %s WINNER LOSER\n", args[0]); err != nil {
				return err
			}
		default:
			if err := renderApplied(w, out.Match, out.Applied); err != nil {
				return err
			}
		}
		return renderMatch(w, out.Match, player)
	})
}

func runChallenge(cmd *cobra.Command, args []string) error {
	player, err := requirePlayer()
	if err != nil {
		return err
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		out, err := retryAborted(ctx, func() (*matchorch.ResolveChallengeOutput, error) {
			return b.service.ResolveChallenge(ctx, &matchorch.ResolveChallengeInput{
				MatchID:  args[0],
				PlayerID: player,
				WinnerID: args[1],
				LoserID:  args[2],
			})
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if out.Swapped {
			if err := printf(w, "You were too drunk to remember who won. The result went the other way.\n"); err != nil {
				return err
			}
		}
		if err := renderApplied(w, out.Match, out.Applied); err != nil {
			return err
		}
		return renderMatch(w, out.Match, player)
	})
}

func runDrink(cmd *cobra.Command, args []string) error {
	player, err := requirePlayer()
	if err != nil {
		return err
	}

	return withBackend(cmd, func(ctx context.Context, b *backend) error {
		out, err := retryAborted(ctx, func() (*matchorch.DrinkOutput, error) {
			return b.service.Drink(ctx, &matchorch.DrinkInput{
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
