package match

import (
	"context"
	"slices"

	"github.com/KirkDiggler/not-enough-mana/internal/engine/rules"
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
)

// PlayCard plays a card from the caller's hand. The cost is paid and the
// card replaced from the pool even when a drunk caster misses. Challenge
// cards open a pending challenge and keep the turn with the caller.
func (o *orchestrator) PlayCard(ctx context.Context, input *PlayCardInput) (_ *PlayCardOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	ctx, span := o.startSpan(ctx, "PlayCard", input.MatchID, input.PlayerID)
	defer func() { endSpan(span, err) }()

	if input.MatchID == "" {
		return nil, errors.InvalidArgument("match ID is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}
	if input.CardID == "" {
		return nil, errors.InvalidArgument("card ID is required")
	}

	current, err := o.load(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if err := checkTurn(current, input.PlayerID); err != nil {
		return nil, err
	}

	next := current.Clone()
	pIdx := entities.FindPlayer(next.Players, input.PlayerID)
	player := next.Players[pIdx]

	cIdx := player.CardIndex(input.CardID)
	if cIdx < 0 {
		return nil, errors.NotFound("that card is not in your hand").
			WithMeta("card_id", input.CardID)
	}
	card := player.Cards[cIdx]

	if err := rules.CheckPlayCard(card, player, next.Players); err != nil {
		return nil, err
	}
	if err := rules.CheckTarget(card, player, input.TargetID, next.Players); err != nil {
		return nil, err
	}

	replacement, err := o.cards.Draw(next.Settings.CardTheme)
	if err != nil {
		return nil, errors.Wrap(err, "failed to draw a replacement card")
	}

	caster := &next.Players[pIdx]
	caster.Mana -= card.ManaCost
	caster.Cards = append(slices.Delete(caster.Cards, cIdx, cIdx+1), replacement)

	la := o.action(entities.ActionPlayCard, input.PlayerID)
	la.CardID = card.ID
	la.CardName = card.Name
	la.TargetID = input.TargetID

	if card.IsChallengeCard() {
		next.PendingChallenge = &entities.PendingChallenge{
			Card:         card,
			ChallengerID: input.PlayerID,
			OpponentID:   input.TargetID,
		}
		la.Type = entities.ActionOpenChallenge
		next.LastAction = la

		stored, err := o.commit(ctx, next, current.Version)
		if err != nil {
			return nil, err
		}
		return &PlayCardOutput{Match: stored, ChallengeOpened: true}, nil
	}

	missed, err := rules.DrunkMiss(*caster, o.roller)
	if err != nil {
		return nil, err
	}

	var applied []AppliedEffect
	if !missed {
		var target *entities.Player
		if input.TargetID != "" {
			target = next.Player(input.TargetID)
		}
		resolver := o.newResolver(ctx, next, &applied)
		next.Players = resolver.Resolve(card.Effect, target, next.Players[pIdx], next.Players)
	}

	la.Missed = missed
	next.LastAction = la
	endTurn(next, input.PlayerID)

	stored, err := o.commit(ctx, next, current.Version)
	if err != nil {
		return nil, err
	}
	return &PlayCardOutput{Match: stored, Missed: missed, Applied: applied}, nil
}

// ResolveChallenge applies the reported result of the pending challenge.
// Only the challenger reports, and a drunk challenger may report it
// backwards.
func (o *orchestrator) ResolveChallenge(
	ctx context.Context,
	input *ResolveChallengeInput,
) (_ *ResolveChallengeOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	ctx, span := o.startSpan(ctx, "ResolveChallenge", input.MatchID, input.PlayerID)
	defer func() { endSpan(span, err) }()

	if input.MatchID == "" {
		return nil, errors.InvalidArgument("match ID is required")
	}

	current, err := o.load(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if current.Status != entities.MatchStatusPlaying {
		return nil, errors.FailedPrecondition("the match is not in progress")
	}
	pc := current.PendingChallenge
	if pc == nil {
		return nil, errors.FailedPrecondition("no challenge is waiting for a result")
	}
	if input.PlayerID != pc.ChallengerID {
		return nil, errors.PermissionDenied("only the challenger can report the result")
	}
	participants := []string{pc.ChallengerID, pc.OpponentID}
	if !slices.Contains(participants, input.WinnerID) || !slices.Contains(participants, input.LoserID) {
		return nil, errors.InvalidArgument("the result must name the two players in the challenge")
	}

	next := current.Clone()
	// Surfaces winner==loser and dead participants before the swap roll
	if err := rules.CheckChallenge(pc.Card, input.WinnerID, input.LoserID, next.Players); err != nil {
		return nil, err
	}

	reporter := *next.Player(input.PlayerID)
	winnerID, loserID, swapped, err := rules.DeclareResult(reporter, input.WinnerID, input.LoserID, o.roller)
	if err != nil {
		return nil, err
	}

	var applied []AppliedEffect
	resolver := o.newResolver(ctx, next, &applied)
	roster, err := rules.ResolveChallenge(resolver, pc.Card, winnerID, loserID, next.Players)
	if err != nil {
		return nil, err
	}
	next.Players = roster
	next.PendingChallenge = nil

	la := o.action(entities.ActionResolveChallenge, input.PlayerID)
	la.CardID = pc.Card.ID
	la.CardName = pc.Card.Name
	la.TargetID = pc.OpponentID
	la.Missed = swapped
	next.LastAction = la
	endTurn(next, pc.ChallengerID)

	stored, err := o.commit(ctx, next, current.Version)
	if err != nil {
		return nil, err
	}
	return &ResolveChallengeOutput{Match: stored, Swapped: swapped, Applied: applied}, nil
}

// Drink spends the caller's turn on a drink
func (o *orchestrator) Drink(ctx context.Context, input *DrinkInput) (_ *DrinkOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	ctx, span := o.startSpan(ctx, "Drink", input.MatchID, input.PlayerID)
	defer func() { endSpan(span, err) }()

	if input.MatchID == "" {
		return nil, errors.InvalidArgument("match ID is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	current, err := o.load(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if err := checkTurn(current, input.PlayerID); err != nil {
		return nil, err
	}

	next := current.Clone()
	idx := entities.FindPlayer(next.Players, input.PlayerID)
	if !next.Players[idx].IsAlive() {
		return nil, errors.FailedPrecondition("you are out of the match")
	}
	next.Players[idx] = rules.Drink(next.Players[idx], next.Settings)
	next.LastAction = o.action(entities.ActionDrink, input.PlayerID)
	endTurn(next, input.PlayerID)

	stored, err := o.commit(ctx, next, current.Version)
	if err != nil {
		return nil, err
	}
	return &DrinkOutput{Match: stored}, nil
}
