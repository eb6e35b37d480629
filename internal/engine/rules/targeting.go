// Package rules holds the pure turn and challenge rules of a match: who may
// be targeted, whether a card can be played, whose turn is next, the drunk
// miss roll, challenge resolution, intake decay and drinking.
//
// Nothing in this package performs I/O or mutates its arguments.
package rules

import (
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
)

// TargetRule says which players an effect type may be aimed at
type TargetRule struct {
	Self           bool
	Enemies        bool
	Allies         bool // same team, never self
	RequiresTarget bool
}

var targetRules = map[entities.EffectType]TargetRule{
	entities.EffectDamage:     {Enemies: true, RequiresTarget: true},
	entities.EffectManaDrain:  {Enemies: true, RequiresTarget: true},
	entities.EffectManaBurn:   {Enemies: true, RequiresTarget: true},
	entities.EffectHeal:       {Self: true, Allies: true, RequiresTarget: true},
	entities.EffectPotionBuff: {Self: true},
	entities.EffectManaRefill: {Self: true},
	entities.EffectChallenge:  {Enemies: true, RequiresTarget: true},
}

// anyOther is used for cards flagged requiresTarget whose effect type has no
// row of its own
var anyOther = TargetRule{Enemies: true, Allies: true, RequiresTarget: true}

// TargetRuleFor returns the row for an effect type. Types without a row
// target nobody.
func TargetRuleFor(t entities.EffectType) TargetRule {
	return targetRules[t]
}

// ruleForCard applies the card-level overrides on top of the effect row
func ruleForCard(card entities.Card) TargetRule {
	if card.IsChallengeCard() {
		return targetRules[entities.EffectChallenge]
	}
	rule, ok := targetRules[card.Effect.Type]
	if !ok && card.RequiresTarget {
		return anyOther
	}
	return rule
}

// RequiresTarget reports whether playing card needs a chosen target
func RequiresTarget(card entities.Card) bool {
	return ruleForCard(card).RequiresTarget
}

// ValidTargets returns the ids of every player card may be aimed at, in
// roster order
func ValidTargets(card entities.Card, caster entities.Player, roster []entities.Player) []string {
	rule := ruleForCard(card)
	var ids []string
	for i := range roster {
		candidate := &roster[i]
		if !candidate.IsAlive() {
			continue
		}
		// untargetable hides a player from everyone but themselves
		if candidate.ID != caster.ID && candidate.HasStatus(entities.StatusUntargetable) {
			continue
		}
		if !rule.allows(caster, candidate) {
			continue
		}
		if card.Effect.Type == entities.EffectHeal && candidate.Mana >= candidate.MaxMana {
			continue
		}
		ids = append(ids, candidate.ID)
	}
	return ids
}

func (r TargetRule) allows(caster entities.Player, candidate *entities.Player) bool {
	switch {
	case candidate.ID == caster.ID:
		return r.Self
	case caster.Team == "" || candidate.Team != caster.Team:
		return r.Enemies
	default:
		return r.Allies
	}
}

// CheckTarget validates the chosen target. An empty targetID is only
// accepted for cards that do not need one.
func CheckTarget(card entities.Card, caster entities.Player, targetID string, roster []entities.Player) error {
	if targetID == "" {
		if RequiresTarget(card) {
			return errors.InvalidArgumentf("%s needs a target", card.Name)
		}
		return nil
	}

	idx := entities.FindPlayer(roster, targetID)
	if idx < 0 {
		return errors.NotFoundf("player %s is not in this match", targetID)
	}
	for _, id := range ValidTargets(card, caster, roster) {
		if id == targetID {
			return nil
		}
	}
	return errors.InvalidArgumentf("%s cannot be aimed at %s", card.Name, roster[idx].Name).
		WithMeta("target_id", targetID)
}

// CheckPlayCard explains why player cannot play card right now, or returns
// nil when it can
func CheckPlayCard(card entities.Card, player entities.Player, roster []entities.Player) error {
	if !player.IsAlive() {
		return errors.FailedPrecondition("you are out of the match")
	}
	if player.Mana < card.ManaCost {
		return errors.FailedPreconditionf("not enough mana: %s costs %d, you have %d",
			card.Name, card.ManaCost, player.Mana)
	}
	if RequiresTarget(card) && len(ValidTargets(card, player, roster)) == 0 {
		return errors.FailedPreconditionf("nobody can be targeted with %s", card.Name)
	}
	return nil
}

// CanPlayCard is CheckPlayCard as a predicate
func CanPlayCard(card entities.Card, player entities.Player, roster []entities.Player) bool {
	return CheckPlayCard(card, player, roster) == nil
}
