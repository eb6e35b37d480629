// Package match runs the match lifecycle: every operation reads the shared
// document, validates the request against it, applies the engine rules to a
// copy and writes the copy back with a compare-and-set on its version.
package match

//go:generate mockgen -destination=mock/mock_service.go -package=matchmock github.com/KirkDiggler/not-enough-mana/internal/orchestrators/match Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/not-enough-mana/internal/engine/effects"
	"github.com/KirkDiggler/not-enough-mana/internal/engine/rules"
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/clock"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/idgen"
	matchrepo "github.com/KirkDiggler/not-enough-mana/internal/repositories/match"
)

const (
	tracerName = "github.com/KirkDiggler/not-enough-mana/internal/orchestrators/match"

	// MaxPlayers is the largest roster a match accepts
	MaxPlayers = 8

	// codeAttempts bounds retries when a generated join code is taken
	codeAttempts = 5
)

// Service defines the match orchestrator interface
type Service interface {
	CreateMatch(ctx context.Context, input *CreateMatchInput) (*CreateMatchOutput, error)
	JoinMatch(ctx context.Context, input *JoinMatchInput) (*JoinMatchOutput, error)
	LeaveMatch(ctx context.Context, input *LeaveMatchInput) (*LeaveMatchOutput, error)
	UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error)
	StartMatch(ctx context.Context, input *StartMatchInput) (*StartMatchOutput, error)
	PlayCard(ctx context.Context, input *PlayCardInput) (*PlayCardOutput, error)
	ResolveChallenge(ctx context.Context, input *ResolveChallengeInput) (*ResolveChallengeOutput, error)
	Drink(ctx context.Context, input *DrinkInput) (*DrinkOutput, error)
	GetMatch(ctx context.Context, input *GetMatchInput) (*GetMatchOutput, error)
}

// CardDealer hands out card instances. *cards.Pool implements it.
type CardDealer interface {
	HasTheme(theme string) bool
	Draw(theme string) (entities.Card, error)
	Deal(theme string, n int) ([]entities.Card, error)
}

// Config holds the dependencies for the match orchestrator
type Config struct {
	MatchRepo     matchrepo.Repository
	CardDealer    CardDealer
	IDGenerator   idgen.Generator
	CodeGenerator idgen.Generator

	// Roller is used for drunk misses and roulette. Defaults to dice.DefaultRoller.
	Roller dice.Roller
	// Clock stamps last actions. Defaults to the real clock.
	Clock clock.Clock
	// Tracer defaults to the global provider's tracer
	Tracer trace.Tracer
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.MatchRepo == nil {
		vb.RequiredField("MatchRepo")
	}
	if c.CardDealer == nil {
		vb.RequiredField("CardDealer")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.CodeGenerator == nil {
		vb.RequiredField("CodeGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	matchRepo matchrepo.Repository
	cards     CardDealer
	idGen     idgen.Generator
	codeGen   idgen.Generator
	roller    dice.Roller
	clock     clock.Clock
	tracer    trace.Tracer
}

// NewOrchestrator creates a new match orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		matchRepo: cfg.MatchRepo,
		cards:     cfg.CardDealer,
		idGen:     cfg.IDGenerator,
		codeGen:   cfg.CodeGenerator,
		roller:    cfg.Roller,
		clock:     cfg.Clock,
		tracer:    cfg.Tracer,
	}
	if o.roller == nil {
		o.roller = dice.DefaultRoller
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o, nil
}

func (o *orchestrator) startSpan(
	ctx context.Context,
	op, matchID, playerID string,
) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, "match."+op, trace.WithAttributes(
		attribute.String("match.id", matchID),
		attribute.String("player.id", playerID),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errors.GetMessage(err))
	}
	span.End()
}

// load reads a match and backfills settings missing from older documents
func (o *orchestrator) load(ctx context.Context, matchID string) (*entities.Match, error) {
	out, err := o.matchRepo.Get(ctx, matchrepo.GetInput{ID: matchID})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to get match")
	}
	m := out.Match
	m.Backfill()
	return m, nil
}

// commit writes next if the stored document is still at expected
func (o *orchestrator) commit(ctx context.Context, next *entities.Match, expected int64) (*entities.Match, error) {
	out, err := o.matchRepo.Update(ctx, matchrepo.UpdateInput{
		Match:           next,
		ExpectedVersion: expected,
	})
	if err != nil {
		if errors.IsAborted(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to save match")
	}

	attrs := []any{"match_id", out.Match.ID, "version", out.Match.Version}
	if la := out.Match.LastAction; la != nil {
		attrs = append(attrs, "action", la.Type, "player_id", la.PlayerID)
	}
	slog.InfoContext(ctx, "match updated", attrs...)
	return out.Match, nil
}

// newResolver builds a resolver for m whose observer narrates into applied
func (o *orchestrator) newResolver(
	ctx context.Context,
	m *entities.Match,
	applied *[]AppliedEffect,
) *effects.Resolver {
	return effects.NewResolver(&effects.Config{
		Roller:         o.roller,
		DrunkThreshold: m.Settings.DrunkThreshold,
		Observer: func(kind entities.EffectType, amount float64, affected core.Entity) {
			*applied = append(*applied, AppliedEffect{
				Kind:     kind,
				Amount:   amount,
				PlayerID: affected.GetID(),
			})
			slog.DebugContext(ctx, "effect applied",
				"match_id", m.ID,
				"effect", kind,
				"amount", amount,
				"player_id", affected.GetID())
		},
	})
}

func (o *orchestrator) action(t entities.ActionType, playerID string) *entities.LastAction {
	return &entities.LastAction{
		Type:     t,
		PlayerID: playerID,
		At:       o.clock.Now(),
	}
}

// endTurn finishes actorID's turn on m: drunk flags are recomputed, the
// actor's statuses tick down, and either the match ends or the turn passes.
func endTurn(m *entities.Match, actorID string) {
	m.Players = rules.RefreshDrunk(m.Players, m.Settings.DrunkThreshold)
	if idx := entities.FindPlayer(m.Players, actorID); idx >= 0 {
		m.Players[idx] = rules.TickStatuses(m.Players[idx])
	}
	if finishIfOver(m) {
		return
	}
	m.CurrentTurn = rules.AdvanceTurn(m.Players, actorID)
}

// finishIfOver marks m finished when at most one player is standing
func finishIfOver(m *entities.Match) bool {
	if m.Status != entities.MatchStatusPlaying {
		return false
	}
	winner, over := rules.Winner(m.Players)
	if !over {
		return false
	}
	m.Status = entities.MatchStatusFinished
	m.Winner = winner
	m.CurrentTurn = ""
	m.PendingChallenge = nil
	return true
}

// checkTurn rejects actions by anyone but the player whose turn it is
func checkTurn(m *entities.Match, playerID string) error {
	if m.Status != entities.MatchStatusPlaying {
		return errors.FailedPrecondition("the match is not in progress")
	}
	if entities.FindPlayer(m.Players, playerID) < 0 {
		return errors.NotFoundf("player %s is not in this match", playerID)
	}
	if m.PendingChallenge != nil {
		return errors.FailedPrecondition("a challenge is waiting for its result")
	}
	if m.CurrentTurn != playerID {
		return errors.FailedPrecondition("it is not your turn")
	}
	return nil
}

func checkLeader(m *entities.Match, playerID string) error {
	if entities.FindPlayer(m.Players, playerID) < 0 {
		return errors.NotFoundf("player %s is not in this match", playerID)
	}
	if m.LeaderID != playerID {
		return errors.PermissionDenied("only the match leader can do that")
	}
	return nil
}

func newPlayer(id, name, team string, s entities.GameSettings) entities.Player {
	if name == "" {
		name = id
	}
	p := entities.Player{
		ID:               id,
		Name:             name,
		Team:             team,
		ConnectionStatus: entities.ConnectionOnline,
	}
	resetStats(&p, s)
	return p
}

// resetStats puts p back to the starting values for s with an empty hand
func resetStats(p *entities.Player, s entities.GameSettings) {
	p.MaxHealth = s.MaxHealth
	p.MaxMana = s.MaxMana
	p.Health = s.InitialHealth
	p.Mana = s.InitialMana
	p.ManaIntake = 0
	p.IsDrunk = false
	p.Cards = []entities.Card{}
	p.Effects = []entities.PlayerEffect{}
	p.PotionBuffs = nil
	p.Debuffs = nil
	p.ManaShield = 0
}
