// Package effects resolves a single card effect against a match roster.
//
// Resolve never mutates its inputs. It deep-copies the roster, runs the one
// handler registered for the effect type and clamps every player back into
// range before returning the copy. Unknown effect types return the copy
// unchanged.
package effects

import (
	"math"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
)

// Observer is told about every change an effect makes. It exists for
// narration and must not be used to change match state.
type Observer func(kind entities.EffectType, amount float64, affected core.Entity)

// Config configures a Resolver
type Config struct {
	// Roller picks the roulette victim. Defaults to dice.DefaultRoller.
	Roller dice.Roller

	// DrunkThreshold is the intake setAllToDrunk sets everyone to.
	// Defaults to entities.DefaultDrunkThreshold.
	DrunkThreshold float64

	// Observer is optional
	Observer Observer
}

// Resolver applies card effects
type Resolver struct {
	roller         dice.Roller
	drunkThreshold float64
	observer       Observer
}

// NewResolver creates a resolver. A nil config uses all defaults.
func NewResolver(cfg *Config) *Resolver {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &Resolver{
		roller:         cfg.Roller,
		drunkThreshold: cfg.DrunkThreshold,
		observer:       cfg.Observer,
	}
	if r.roller == nil {
		r.roller = dice.DefaultRoller
	}
	if r.drunkThreshold <= 0 {
		r.drunkThreshold = entities.DefaultDrunkThreshold
	}
	return r
}

// Handles reports whether the effect type has a handler
func Handles(t entities.EffectType) bool {
	_, ok := handlers[t]
	return ok
}

// opponentEffects need a target other than the caster; aimed at the caster
// they change nothing
var opponentEffects = map[entities.EffectType]bool{
	entities.EffectLifeSteal:         true,
	entities.EffectManaDrain:         true,
	entities.EffectManaStealer:       true,
	entities.EffectManaTransfer:      true,
	entities.EffectReversedCurseTech: true,
}

// NeedsOpponent reports whether the effect type only works against a player
// other than its caster
func NeedsOpponent(t entities.EffectType) bool {
	return opponentEffects[t]
}

// Resolve applies effect and returns the next roster.
//
// Caster and target are looked up by ID in roster; the values of the
// arguments themselves are not read, so a caller that has already charged
// the card's cost in roster sees that reflected. A target that is nil or not
// in the roster leaves target-only effects without a victim.
func (r *Resolver) Resolve(
	effect entities.CardEffect,
	target *entities.Player,
	caster entities.Player,
	roster []entities.Player,
) []entities.Player {
	out := entities.CloneRoster(roster)

	handle, ok := handlers[effect.Type]
	if !ok {
		return out
	}

	casterIdx := entities.FindPlayer(out, caster.ID)
	if casterIdx < 0 {
		return out
	}

	targetIdx := -1
	if target != nil {
		targetIdx = entities.FindPlayer(out, target.ID)
	}

	handle(r, &resolution{
		effect: effect,
		roster: out,
		caster: casterIdx,
		target: targetIdx,
	})

	for i := range out {
		clamp(&out[i])
	}
	return out
}

// resolution is the working state of one Resolve call
type resolution struct {
	effect entities.CardEffect
	roster []entities.Player
	caster int
	target int
}

func (s *resolution) casterPlayer() *entities.Player {
	return &s.roster[s.caster]
}

// targetPlayer returns nil when the effect has no target
func (s *resolution) targetPlayer() *entities.Player {
	if s.target < 0 {
		return nil
	}
	return &s.roster[s.target]
}

// notify reports a change to the observer, skipping no-op changes
func (r *Resolver) notify(kind entities.EffectType, amount float64, p *entities.Player) {
	if r.observer == nil || amount == 0 {
		return
	}
	r.observer(kind, amount, p)
}

// clamp enforces the per-player invariants
func clamp(p *entities.Player) {
	p.MaxMana = max(p.MaxMana, 0)
	p.MaxHealth = max(p.MaxHealth, 0)
	p.Mana = min(max(p.Mana, 0), p.MaxMana)
	p.Health = min(max(p.Health, 0), p.MaxHealth)
	if math.IsNaN(p.ManaIntake) || p.ManaIntake < 0 {
		p.ManaIntake = 0
	}
}
