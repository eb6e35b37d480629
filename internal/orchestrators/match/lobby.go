package match

import (
	"context"
	"log/slog"
	"slices"

	"github.com/KirkDiggler/not-enough-mana/internal/engine/rules"
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	matchrepo "github.com/KirkDiggler/not-enough-mana/internal/repositories/match"
)

// CreateMatch opens a new match with the caller as its leader
func (o *orchestrator) CreateMatch(ctx context.Context, input *CreateMatchInput) (_ *CreateMatchOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	ctx, span := o.startSpan(ctx, "CreateMatch", "", input.PlayerID)
	defer func() { endSpan(span, err) }()

	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	settings := entities.DefaultSettings()
	if input.Settings != nil {
		settings = input.Settings.WithDefaults()
	}
	if !o.cards.HasTheme(settings.CardTheme) {
		return nil, errors.InvalidArgumentf("unknown card theme %q", settings.CardTheme)
	}

	leader := newPlayer(input.PlayerID, input.PlayerName, input.Team, settings)
	leader.IsLeader = true

	m := &entities.Match{
		ID:       o.idGen.Generate(),
		Players:  []entities.Player{leader},
		Status:   entities.MatchStatusWaiting,
		LeaderID: leader.ID,
		Settings: settings,
	}
	m.LastAction = o.action(entities.ActionJoin, leader.ID)

	for attempt := 1; ; attempt++ {
		m.Code = o.codeGen.Generate()
		out, err := o.matchRepo.Create(ctx, matchrepo.CreateInput{Match: m})
		if err == nil {
			slog.InfoContext(ctx, "match opened",
				"match_id", out.Match.ID,
				"code", out.Match.Code,
				"leader_id", leader.ID)
			return &CreateMatchOutput{Match: out.Match}, nil
		}
		if !errors.IsAlreadyExists(err) || attempt >= codeAttempts {
			return nil, errors.Wrap(err, "failed to create match")
		}
		slog.DebugContext(ctx, "join code collision, retrying", "code", m.Code, "attempt", attempt)
	}
}

// JoinMatch adds the caller to a waiting match. Joining a match the player
// is already in returns it unchanged.
func (o *orchestrator) JoinMatch(ctx context.Context, input *JoinMatchInput) (_ *JoinMatchOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	ctx, span := o.startSpan(ctx, "JoinMatch", "", input.PlayerID)
	defer func() { endSpan(span, err) }()

	if input.Code == "" {
		return nil, errors.InvalidArgument("join code is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	found, err := o.matchRepo.GetByCode(ctx, matchrepo.GetByCodeInput{Code: input.Code})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to look up join code")
	}
	current := found.Match
	current.Backfill()

	if current.Player(input.PlayerID) != nil {
		return &JoinMatchOutput{Match: current}, nil
	}
	if current.Status != entities.MatchStatusWaiting {
		return nil, errors.FailedPrecondition("the match has already started")
	}
	if len(current.Players) >= MaxPlayers {
		return nil, errors.FailedPreconditionf("the match is full (%d players)", MaxPlayers)
	}

	next := current.Clone()
	next.Players = append(next.Players, newPlayer(input.PlayerID, input.PlayerName, input.Team, next.Settings))
	next.LastAction = o.action(entities.ActionJoin, input.PlayerID)

	stored, err := o.commit(ctx, next, current.Version)
	if err != nil {
		return nil, err
	}
	return &JoinMatchOutput{Match: stored}, nil
}

// LeaveMatch removes the caller from a match. Leadership and the turn move on
// when they were the caller's; the last player out deletes the match.
func (o *orchestrator) LeaveMatch(ctx context.Context, input *LeaveMatchInput) (_ *LeaveMatchOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	ctx, span := o.startSpan(ctx, "LeaveMatch", input.MatchID, input.PlayerID)
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
	idx := entities.FindPlayer(current.Players, input.PlayerID)
	if idx < 0 {
		return nil, errors.NotFoundf("player %s is not in this match", input.PlayerID)
	}

	if len(current.Players) == 1 {
		if _, err := o.matchRepo.Delete(ctx, matchrepo.DeleteInput{ID: current.ID}); err != nil {
			return nil, errors.Wrap(err, "failed to delete match")
		}
		slog.InfoContext(ctx, "last player left, match deleted", "match_id", current.ID)
		return &LeaveMatchOutput{Deleted: true}, nil
	}

	next := current.Clone()
	playing := next.Status == entities.MatchStatusPlaying

	// The successor is picked while the leaver is still seated
	successor := next.CurrentTurn
	if playing && next.CurrentTurn == input.PlayerID {
		successor = rules.AdvanceTurn(next.Players, input.PlayerID)
	}

	next.Players = slices.Delete(next.Players, idx, idx+1)

	// A challenge loses its opponent or challenger with them; either way
	// the challenger's turn is over
	if pc := next.PendingChallenge; pc != nil &&
		(pc.ChallengerID == input.PlayerID || pc.OpponentID == input.PlayerID) {
		next.PendingChallenge = nil
		if pc.ChallengerID != input.PlayerID {
			successor = rules.AdvanceTurn(next.Players, pc.ChallengerID)
		}
	}

	if next.LeaderID == input.PlayerID {
		next.LeaderID = next.Players[0].ID
		next.Players[0].IsLeader = true
	}
	next.LastAction = o.action(entities.ActionLeave, input.PlayerID)

	if playing && !finishIfOver(next) {
		next.CurrentTurn = successor
	}

	stored, err := o.commit(ctx, next, current.Version)
	if err != nil {
		return nil, err
	}
	return &LeaveMatchOutput{Match: stored}, nil
}

// UpdateSettings replaces the settings of a waiting match and resets the
// lobby's stats to match
func (o *orchestrator) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (_ *UpdateSettingsOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	ctx, span := o.startSpan(ctx, "UpdateSettings", input.MatchID, input.PlayerID)
	defer func() { endSpan(span, err) }()

	if input.MatchID == "" {
		return nil, errors.InvalidArgument("match ID is required")
	}

	current, err := o.load(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if err := checkLeader(current, input.PlayerID); err != nil {
		return nil, err
	}
	if current.Status != entities.MatchStatusWaiting {
		return nil, errors.FailedPrecondition("settings can only change before the match starts")
	}

	settings := input.Settings.WithDefaults()
	if !o.cards.HasTheme(settings.CardTheme) {
		return nil, errors.InvalidArgumentf("unknown card theme %q", settings.CardTheme)
	}

	next := current.Clone()
	next.Settings = settings
	for i := range next.Players {
		resetStats(&next.Players[i], settings)
	}

	stored, err := o.commit(ctx, next, current.Version)
	if err != nil {
		return nil, err
	}
	return &UpdateSettingsOutput{Match: stored}, nil
}

// StartMatch resets everyone from the settings, deals hands and gives the
// first turn to the first seated player
func (o *orchestrator) StartMatch(ctx context.Context, input *StartMatchInput) (_ *StartMatchOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	ctx, span := o.startSpan(ctx, "StartMatch", input.MatchID, input.PlayerID)
	defer func() { endSpan(span, err) }()

	if input.MatchID == "" {
		return nil, errors.InvalidArgument("match ID is required")
	}

	current, err := o.load(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if err := checkLeader(current, input.PlayerID); err != nil {
		return nil, err
	}
	if current.Status != entities.MatchStatusWaiting {
		return nil, errors.FailedPrecondition("the match has already started")
	}
	if len(current.Players) < 2 {
		return nil, errors.FailedPrecondition("at least two players are needed to start")
	}

	next := current.Clone()
	s := next.Settings
	for i := range next.Players {
		p := &next.Players[i]
		resetStats(p, s)
		hand, err := o.cards.Deal(s.CardTheme, s.HandSize)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to deal a hand to %s", p.ID)
		}
		p.Cards = hand
	}
	next.Status = entities.MatchStatusPlaying
	next.Winner = ""
	next.PendingChallenge = nil
	next.CurrentTurn = rules.FirstTurn(next.Players)
	next.LastAction = o.action(entities.ActionStart, input.PlayerID)

	stored, err := o.commit(ctx, next, current.Version)
	if err != nil {
		return nil, err
	}
	return &StartMatchOutput{Match: stored}, nil
}

// GetMatch reads a match by id, or by join code when no id is given
func (o *orchestrator) GetMatch(ctx context.Context, input *GetMatchInput) (_ *GetMatchOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	ctx, span := o.startSpan(ctx, "GetMatch", input.MatchID, "")
	defer func() { endSpan(span, err) }()

	switch {
	case input.MatchID != "":
		m, err := o.load(ctx, input.MatchID)
		if err != nil {
			return nil, err
		}
		return &GetMatchOutput{Match: m}, nil
	case input.Code != "":
		out, err := o.matchRepo.GetByCode(ctx, matchrepo.GetByCodeInput{Code: input.Code})
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, err
			}
			return nil, errors.Wrap(err, "failed to look up join code")
		}
		out.Match.Backfill()
		return &GetMatchOutput{Match: out.Match}, nil
	default:
		return nil, errors.InvalidArgument("match ID or join code is required")
	}
}
