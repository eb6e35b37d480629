package entities

import (
	"time"
)

// MatchStatus is the lifecycle state of a match
type MatchStatus string

// Match statuses
const (
	MatchStatusWaiting  MatchStatus = "waiting"
	MatchStatusPlaying  MatchStatus = "playing"
	MatchStatusFinished MatchStatus = "finished"
)

// ActionType labels the last committed action
type ActionType string

// Action types
const (
	ActionPlayCard         ActionType = "play_card"
	ActionOpenChallenge    ActionType = "open_challenge"
	ActionResolveChallenge ActionType = "resolve_challenge"
	ActionDrink            ActionType = "drink"
	ActionJoin             ActionType = "join"
	ActionLeave            ActionType = "leave"
	ActionStart            ActionType = "start"
)

// LastAction describes the most recent committed action for narration
type LastAction struct {
	Type     ActionType `json:"type"`
	PlayerID string     `json:"playerId"`
	CardID   string     `json:"cardId,omitempty"`
	CardName string     `json:"cardName,omitempty"`
	TargetID string     `json:"targetId,omitempty"`
	Missed   bool       `json:"missed,omitempty"`
	At       time.Time  `json:"at"`
}

// PendingChallenge is a played challenge card waiting for its result
type PendingChallenge struct {
	Card         Card   `json:"card"`
	ChallengerID string `json:"challengerId"`
	OpponentID   string `json:"opponentId"`
}

// Match is the shared party document every client reads and writes.
// Version increases by one on every committed write.
type Match struct {
	ID               string            `json:"id"`
	Code             string            `json:"code"`
	Players          []Player          `json:"players"`
	CurrentTurn      string            `json:"currentTurn"`
	Status           MatchStatus       `json:"status"`
	LeaderID         string            `json:"leaderId"`
	Settings         GameSettings      `json:"settings"`
	LastAction       *LastAction       `json:"lastAction,omitempty"`
	Winner           string            `json:"winner,omitempty"`
	PendingChallenge *PendingChallenge `json:"pendingChallenge,omitempty"`
	Version          int64             `json:"version"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Clone deep-copies the match
func (m *Match) Clone() *Match {
	if m == nil {
		return nil
	}
	out := *m
	out.Players = CloneRoster(m.Players)
	if m.LastAction != nil {
		la := *m.LastAction
		out.LastAction = &la
	}
	if m.PendingChallenge != nil {
		pc := *m.PendingChallenge
		pc.Card = m.PendingChallenge.Card.Clone()
		out.PendingChallenge = &pc
	}
	return &out
}

// Backfill fills fields that documents written by older versions leave at
// zero: unset settings and player health caps. maxMana is left alone since
// play can legitimately drive it to zero.
func (m *Match) Backfill() {
	m.Settings = m.Settings.WithDefaults()
	for i := range m.Players {
		if m.Players[i].MaxHealth <= 0 {
			m.Players[i].MaxHealth = m.Settings.MaxHealth
		}
	}
}

// Player returns a pointer into the roster for id, or nil
func (m *Match) Player(id string) *Player {
	idx := FindPlayer(m.Players, id)
	if idx < 0 {
		return nil
	}
	return &m.Players[idx]
}
