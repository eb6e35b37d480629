package match

import (
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
)

// AppliedEffect is one narrated change made while resolving a card
type AppliedEffect struct {
	Kind     entities.EffectType
	Amount   float64
	PlayerID string
}

// CreateMatchInput defines the request for opening a new match
type CreateMatchInput struct {
	PlayerID   string
	PlayerName string
	Team       string
	// Settings is optional; missing fields use the defaults table
	Settings *entities.GameSettings
}

// CreateMatchOutput defines the response for opening a new match
type CreateMatchOutput struct {
	Match *entities.Match
}

// JoinMatchInput defines the request for joining by code
type JoinMatchInput struct {
	Code       string
	PlayerID   string
	PlayerName string
	Team       string
}

// JoinMatchOutput defines the response for joining by code
type JoinMatchOutput struct {
	Match *entities.Match
}

// LeaveMatchInput defines the request for leaving a match
type LeaveMatchInput struct {
	MatchID  string
	PlayerID string
}

// LeaveMatchOutput defines the response for leaving a match. Match is nil
// when the last player left and the match was deleted.
type LeaveMatchOutput struct {
	Match   *entities.Match
	Deleted bool
}

// UpdateSettingsInput defines the request for changing match settings
type UpdateSettingsInput struct {
	MatchID  string
	PlayerID string
	Settings entities.GameSettings
}

// UpdateSettingsOutput defines the response for changing match settings
type UpdateSettingsOutput struct {
	Match *entities.Match
}

// StartMatchInput defines the request for starting a match
type StartMatchInput struct {
	MatchID  string
	PlayerID string
}

// StartMatchOutput defines the response for starting a match
type StartMatchOutput struct {
	Match *entities.Match
}

// PlayCardInput defines the request for playing a card from hand
type PlayCardInput struct {
	MatchID  string
	PlayerID string
	CardID   string
	TargetID string
}

// PlayCardOutput defines the response for playing a card
type PlayCardOutput struct {
	Match *entities.Match
	// Missed is set when a drunk player fumbled the card
	Missed bool
	// ChallengeOpened is set when the card waits for a reported result
	ChallengeOpened bool
	Applied         []AppliedEffect
}

// ResolveChallengeInput defines the request for reporting a challenge result
type ResolveChallengeInput struct {
	MatchID  string
	PlayerID string
	WinnerID string
	LoserID  string
}

// ResolveChallengeOutput defines the response for reporting a challenge result
type ResolveChallengeOutput struct {
	Match *entities.Match
	// Swapped is set when a drunk reporter got winner and loser backwards
	Swapped bool
	Applied []AppliedEffect
}

// DrinkInput defines the request for taking a drink
type DrinkInput struct {
	MatchID  string
	PlayerID string
}

// DrinkOutput defines the response for taking a drink
type DrinkOutput struct {
	Match *entities.Match
}

// GetMatchInput defines the request for reading a match by id or code
type GetMatchInput struct {
	MatchID string
	Code    string
}

// GetMatchOutput defines the response for reading a match
type GetMatchOutput struct {
	Match *entities.Match
}
