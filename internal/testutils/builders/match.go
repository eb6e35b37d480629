package builders

import (
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
)

// MatchBuilder provides a fluent interface for building test matches
type MatchBuilder struct {
	match entities.Match
}

// NewMatchBuilder creates a waiting match with default settings
func NewMatchBuilder(id, code string) *MatchBuilder {
	return &MatchBuilder{
		match: entities.Match{
			ID:       id,
			Code:     code,
			Players:  []entities.Player{},
			Status:   entities.MatchStatusWaiting,
			Settings: entities.DefaultSettings(),
		},
	}
}

// WithPlayers seats the players in order. The first leader found becomes
// the match leader.
func (b *MatchBuilder) WithPlayers(players ...entities.Player) *MatchBuilder {
	b.match.Players = append(b.match.Players, players...)
	for _, p := range players {
		if p.IsLeader && b.match.LeaderID == "" {
			b.match.LeaderID = p.ID
		}
	}
	return b
}

// Playing starts the match with currentTurn to act
func (b *MatchBuilder) Playing(currentTurn string) *MatchBuilder {
	b.match.Status = entities.MatchStatusPlaying
	b.match.CurrentTurn = currentTurn
	return b
}

// WithSettings replaces the settings
func (b *MatchBuilder) WithSettings(s entities.GameSettings) *MatchBuilder {
	b.match.Settings = s
	return b
}

// WithPendingChallenge leaves a challenge waiting for its result
func (b *MatchBuilder) WithPendingChallenge(card entities.Card, challengerID, opponentID string) *MatchBuilder {
	b.match.PendingChallenge = &entities.PendingChallenge{
		Card:         card,
		ChallengerID: challengerID,
		OpponentID:   opponentID,
	}
	return b
}

// Build returns a copy of the match
func (b *MatchBuilder) Build() *entities.Match {
	m := b.match
	return m.Clone()
}
