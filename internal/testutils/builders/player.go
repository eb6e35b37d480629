// Package builders provides test data builders for rosters and matches
package builders

import (
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
)

// PlayerBuilder provides a fluent interface for building test players
type PlayerBuilder struct {
	player entities.Player
}

// NewPlayerBuilder creates a healthy sober player with full mana
func NewPlayerBuilder(id string) *PlayerBuilder {
	return &PlayerBuilder{
		player: entities.Player{
			ID:               id,
			Name:             "Player " + id,
			Health:           entities.DefaultMaxHealth,
			MaxHealth:        entities.DefaultMaxHealth,
			Mana:             entities.DefaultMaxMana,
			MaxMana:          entities.DefaultMaxMana,
			Cards:            []entities.Card{},
			Effects:          []entities.PlayerEffect{},
			ConnectionStatus: entities.ConnectionOnline,
		},
	}
}

// WithMana sets current and maximum mana
func (b *PlayerBuilder) WithMana(mana, maxMana int) *PlayerBuilder {
	b.player.Mana = mana
	b.player.MaxMana = maxMana
	return b
}

// WithHealth sets current and maximum health
func (b *PlayerBuilder) WithHealth(health, maxHealth int) *PlayerBuilder {
	b.player.Health = health
	b.player.MaxHealth = maxHealth
	return b
}

// WithIntake sets mana intake and the drunk flag
func (b *PlayerBuilder) WithIntake(intake float64, drunk bool) *PlayerBuilder {
	b.player.ManaIntake = intake
	b.player.IsDrunk = drunk
	return b
}

// WithCards sets the hand
func (b *PlayerBuilder) WithCards(cards ...entities.Card) *PlayerBuilder {
	b.player.Cards = cards
	return b
}

// WithTeam sets the team
func (b *PlayerBuilder) WithTeam(team string) *PlayerBuilder {
	b.player.Team = team
	return b
}

// WithStatus stacks a status effect
func (b *PlayerBuilder) WithStatus(t entities.StatusType, turns int) *PlayerBuilder {
	b.player.Effects = entities.MergeStatus(b.player.Effects, entities.PlayerEffect{
		StackID:  string(t),
		Type:     t,
		Value:    1,
		Duration: entities.StatusDuration{TurnsLeft: turns, InitialDuration: turns},
		Source:   b.player.ID,
	})
	return b
}

// AsLeader marks the player as match leader
func (b *PlayerBuilder) AsLeader() *PlayerBuilder {
	b.player.IsLeader = true
	return b
}

// Build returns the player
func (b *PlayerBuilder) Build() entities.Player {
	return b.player.Clone()
}

// Roster builds players in order
func Roster(builders ...*PlayerBuilder) []entities.Player {
	roster := make([]entities.Player, len(builders))
	for i, b := range builders {
		roster[i] = b.Build()
	}
	return roster
}

// Card builds a card instance with the given effect
func Card(id string, cost int, effect entities.CardEffect) entities.Card {
	return entities.Card{
		ID:           id,
		DefinitionID: "def-" + id,
		Name:         "Test " + string(effect.Type),
		ManaCost:     cost,
		Rarity:       entities.RarityCommon,
		Type:         entities.CardTypeAction,
		Effect:       effect,
	}
}

// TargetedCard builds a card instance that needs a target
func TargetedCard(id string, cost int, effect entities.CardEffect) entities.Card {
	c := Card(id, cost, effect)
	c.RequiresTarget = true
	return c
}
