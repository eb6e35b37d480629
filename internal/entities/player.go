// Package entities provides the match document types shared by the engine,
// the orchestrators and the store.
package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EntityTypePlayer is the core.Entity type reported by players
const EntityTypePlayer = "player"

// ConnectionStatus is the presence of a player's client
type ConnectionStatus string

// Connection statuses
const (
	ConnectionOnline  ConnectionStatus = "online"
	ConnectionOffline ConnectionStatus = "offline"
)

// Player is one member of a match roster
type Player struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Team             string           `json:"team,omitempty"` // empty means free-for-all
	Health           int              `json:"health"`
	Mana             int              `json:"mana"`
	MaxHealth        int              `json:"maxHealth"`
	MaxMana          int              `json:"maxMana"`
	ManaIntake       float64          `json:"manaIntake"`
	IsDrunk          bool             `json:"isDrunk"`
	Cards            []Card           `json:"cards"`
	IsLeader         bool             `json:"isLeader"`
	Effects          []PlayerEffect   `json:"effects"`
	PotionBuffs      []TimedEffect    `json:"potionBuffs,omitempty"`
	Debuffs          []TimedEffect    `json:"debuffs,omitempty"`
	ManaShield       float64          `json:"manaShield,omitempty"`
	ConnectionStatus ConnectionStatus `json:"connectionStatus,omitempty"`
}

var _ core.Entity = (*Player)(nil)

// GetID implements core.Entity
func (p *Player) GetID() string {
	return p.ID
}

// GetType implements core.Entity
func (p *Player) GetType() string {
	return EntityTypePlayer
}

// IsAlive reports whether the player still has health
func (p *Player) IsAlive() bool {
	return p.Health > 0
}

// HasStatus reports whether an active status of the given type is present
func (p *Player) HasStatus(t StatusType) bool {
	for _, e := range p.Effects {
		if e.Type == t && e.Duration.TurnsLeft > 0 {
			return true
		}
	}
	return false
}

// CardIndex returns the index of the card instance in the hand, or -1
func (p *Player) CardIndex(cardID string) int {
	for i := range p.Cards {
		if p.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

// Clone deep-copies the player so the copy shares no slices with p
func (p Player) Clone() Player {
	out := p
	if p.Cards != nil {
		out.Cards = make([]Card, len(p.Cards))
		for i, c := range p.Cards {
			out.Cards[i] = c.Clone()
		}
	}
	if p.Effects != nil {
		out.Effects = append([]PlayerEffect(nil), p.Effects...)
	}
	if p.PotionBuffs != nil {
		out.PotionBuffs = append([]TimedEffect(nil), p.PotionBuffs...)
	}
	if p.Debuffs != nil {
		out.Debuffs = append([]TimedEffect(nil), p.Debuffs...)
	}
	return out
}

// CloneRoster deep-copies every player in the roster
func CloneRoster(roster []Player) []Player {
	if roster == nil {
		return nil
	}
	out := make([]Player, len(roster))
	for i := range roster {
		out[i] = roster[i].Clone()
	}
	return out
}

// FindPlayer returns the index of the player with id, or -1
func FindPlayer(roster []Player, id string) int {
	for i := range roster {
		if roster[i].ID == id {
			return i
		}
	}
	return -1
}
