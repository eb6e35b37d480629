package rules

import (
	"github.com/KirkDiggler/not-enough-mana/internal/engine/effects"
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
)

// ChallengePair returns the winner and loser sub-effects of a challenge
// card. winnerEffect/loserEffect take precedence over challengeEffects field
// by field. A card missing either side is corrupt and fails with DataLoss.
func ChallengePair(card entities.Card) (winner, loser entities.CardEffect, err error) {
	var w, l *entities.CardEffect
	if ce := card.Effect.ChallengeEffects; ce != nil {
		w, l = ce.Winner, ce.Loser
	}
	if card.Effect.WinnerEffect != nil {
		w = card.Effect.WinnerEffect
	}
	if card.Effect.LoserEffect != nil {
		l = card.Effect.LoserEffect
	}

	if w == nil || l == nil {
		return winner, loser, errors.DataLossf("challenge card %s has no winner/loser effects", card.ID).
			WithMeta("card_definition", card.DefinitionID)
	}
	if !effects.Handles(w.Type) || !effects.Handles(l.Type) {
		return winner, loser, errors.DataLossf("challenge card %s has unresolvable effects %q/%q",
			card.ID, w.Type, l.Type).
			WithMeta("card_definition", card.DefinitionID)
	}
	return w.Clone(), l.Clone(), nil
}

// CheckChallenge validates a reported result before anything is applied
func CheckChallenge(card entities.Card, winnerID, loserID string, roster []entities.Player) error {
	if !card.IsChallengeCard() {
		return errors.InvalidArgumentf("%s is not a challenge card", card.Name)
	}
	if winnerID == "" || loserID == "" {
		return errors.InvalidArgument("a challenge needs both a winner and a loser")
	}
	if winnerID == loserID {
		return errors.InvalidArgument("winner and loser must be different players")
	}
	for _, id := range []string{winnerID, loserID} {
		idx := entities.FindPlayer(roster, id)
		if idx < 0 {
			return errors.NotFoundf("player %s is not in this match", id)
		}
		if !roster[idx].IsAlive() {
			return errors.FailedPreconditionf("%s is out of the match", roster[idx].Name)
		}
	}
	return nil
}

// ResolveChallenge applies a challenge card for the given result. The
// winner's effect is cast by the winner at the loser. The loser's effect is
// cast by the loser on themselves, unless it needs an opponent (manaTransfer,
// drains, swaps) in which case it is aimed at the winner.
func ResolveChallenge(
	resolver *effects.Resolver,
	card entities.Card,
	winnerID, loserID string,
	roster []entities.Player,
) ([]entities.Player, error) {
	if err := CheckChallenge(card, winnerID, loserID, roster); err != nil {
		return nil, err
	}
	winnerEffect, loserEffect, err := ChallengePair(card)
	if err != nil {
		return nil, err
	}

	out := entities.CloneRoster(roster)
	w := out[entities.FindPlayer(out, winnerID)]
	l := out[entities.FindPlayer(out, loserID)]
	out = resolver.Resolve(winnerEffect, &l, w, out)

	w = out[entities.FindPlayer(out, winnerID)]
	l = out[entities.FindPlayer(out, loserID)]
	target := &l
	if effects.NeedsOpponent(loserEffect.Type) {
		target = &w
	}
	return resolver.Resolve(loserEffect, target, l, out), nil
}
