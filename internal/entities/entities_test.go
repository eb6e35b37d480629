package entities_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
)

type EntitiesTestSuite struct {
	suite.Suite
}

func TestEntitiesSuite(t *testing.T) {
	suite.Run(t, new(EntitiesTestSuite))
}

func (s *EntitiesTestSuite) TestWithDefaults_FillsMissingFields() {
	// A document written before decay and themes existed
	legacy := entities.GameSettings{MaxHealth: 12, MaxMana: 8, InitialMana: 20}

	got := legacy.WithDefaults()

	s.Equal(12, got.MaxHealth)
	s.Equal(8, got.MaxMana)
	s.Equal(8, got.InitialMana, "initial mana capped at max")
	s.Equal(10, got.InitialHealth)
	s.Equal(entities.DefaultManaDrinkAmount, got.ManaDrinkAmount)
	s.InDelta(entities.DefaultDrunkThreshold, got.DrunkThreshold, 1e-9)
	s.InDelta(entities.DefaultManaIntakeDecayRate, got.ManaIntakeDecayRate, 1e-9)
	s.Equal(entities.DefaultCardTheme, got.CardTheme)
	s.Equal(entities.DefaultHandSize, got.HandSize)
}

func (s *EntitiesTestSuite) TestWithDefaults_NegativeTreatedAsAbsent() {
	got := entities.GameSettings{MaxMana: -4, DrunkThreshold: -1}.WithDefaults()

	s.Equal(entities.DefaultSettings(), got)
}

func (s *EntitiesTestSuite) TestDrunkLimit() {
	s.InDelta(16.0, entities.DefaultSettings().DrunkLimit(), 1e-9)
	s.InDelta(8.0, entities.GameSettings{DrunkThreshold: 10}.DrunkLimit(), 1e-9)
}

func (s *EntitiesTestSuite) TestMergeStatus() {
	base := []entities.PlayerEffect{
		{StackID: "shield", Type: entities.StatusBuff, Value: 1, Duration: entities.StatusDuration{TurnsLeft: 2, InitialDuration: 2}},
		{StackID: "hidden", Type: entities.StatusUntargetable, Value: 1, Duration: entities.StatusDuration{TurnsLeft: 1, InitialDuration: 1}},
	}

	merged := entities.MergeStatus(base, entities.PlayerEffect{
		StackID:  "shield",
		Type:     entities.StatusBuff,
		Value:    2,
		Duration: entities.StatusDuration{TurnsLeft: 4, InitialDuration: 4},
	})

	s.Require().Len(merged, 2)
	s.InDelta(3.0, merged[0].Value, 1e-9)
	s.Equal(4, merged[0].Duration.TurnsLeft)
	s.InDelta(1.0, base[0].Value, 1e-9, "input untouched")

	added := entities.MergeStatus(base, entities.PlayerEffect{StackID: "curse", Type: entities.StatusDebuff})
	s.Len(added, 3)
	s.Len(base, 2)
}

func (s *EntitiesTestSuite) TestMergeStatus_KeepsLongerDuration() {
	base := []entities.PlayerEffect{
		{StackID: "shield", Value: 1, Duration: entities.StatusDuration{TurnsLeft: 5, InitialDuration: 5}},
	}

	merged := entities.MergeStatus(base, entities.PlayerEffect{
		StackID:  "shield",
		Value:    1,
		Duration: entities.StatusDuration{TurnsLeft: 2, InitialDuration: 2},
	})

	s.Equal(5, merged[0].Duration.TurnsLeft)
}

func (s *EntitiesTestSuite) TestPlayerClone_SharesNothing() {
	winner := entities.CardEffect{Type: entities.EffectHeal, Value: 2}
	p := entities.Player{
		ID: "p1",
		Cards: []entities.Card{{
			ID:     "c1",
			Effect: entities.CardEffect{Type: entities.EffectChallenge, ChallengeEffects: &entities.ChallengeEffects{Winner: &winner}},
		}},
		Effects:     []entities.PlayerEffect{{StackID: "a"}},
		PotionBuffs: []entities.TimedEffect{{Type: entities.EffectPotionBuff, TurnsLeft: 3}},
	}

	c := p.Clone()
	c.Cards[0].Effect.ChallengeEffects.Winner.Value = 99
	c.Effects[0].StackID = "b"
	c.PotionBuffs[0].TurnsLeft = 0

	s.InDelta(2.0, p.Cards[0].Effect.ChallengeEffects.Winner.Value, 1e-9)
	s.Equal("a", p.Effects[0].StackID)
	s.Equal(3, p.PotionBuffs[0].TurnsLeft)
}

func (s *EntitiesTestSuite) TestMatchClone() {
	m := &entities.Match{
		ID:      "m1",
		Players: []entities.Player{{ID: "a", Mana: 4}},
		PendingChallenge: &entities.PendingChallenge{
			Card:         entities.Card{ID: "c"},
			ChallengerID: "a",
		},
		LastAction: &entities.LastAction{Type: entities.ActionDrink},
	}

	c := m.Clone()
	c.Players[0].Mana = 0
	c.PendingChallenge.ChallengerID = "b"
	c.LastAction.Type = entities.ActionJoin

	s.Equal(4, m.Players[0].Mana)
	s.Equal("a", m.PendingChallenge.ChallengerID)
	s.Equal(entities.ActionDrink, m.LastAction.Type)
	s.Nil((*entities.Match)(nil).Clone())
}

func (s *EntitiesTestSuite) TestMatchBackfill() {
	m := &entities.Match{
		Settings: entities.GameSettings{MaxHealth: 25},
		Players: []entities.Player{
			{ID: "old", Health: 10, MaxMana: 10},
			{ID: "drained", Health: 5, MaxHealth: 5, MaxMana: 0},
		},
	}

	m.Backfill()

	s.Equal(entities.DefaultDrunkThreshold, m.Settings.DrunkThreshold)
	s.Equal(25, m.Players[0].MaxHealth)
	s.Equal(10, m.Players[0].Health)
	s.Equal(5, m.Players[1].MaxHealth, "set caps are kept")
	s.Zero(m.Players[1].MaxMana, "maxMana can legitimately be zero")
}

func (s *EntitiesTestSuite) TestPlayerLookups() {
	m := &entities.Match{Players: []entities.Player{
		{ID: "a", Health: 1, Cards: []entities.Card{{ID: "x"}, {ID: "y"}}},
		{ID: "b"},
	}}

	s.Equal(1, entities.FindPlayer(m.Players, "b"))
	s.Equal(-1, entities.FindPlayer(m.Players, "z"))
	s.Nil(m.Player("z"))

	a := m.Player("a")
	s.Require().NotNil(a)
	s.True(a.IsAlive())
	s.False(m.Player("b").IsAlive())
	s.Equal(1, a.CardIndex("y"))
	s.Equal(-1, a.CardIndex("q"))
	s.Equal(entities.EntityTypePlayer, a.GetType())
}

func (s *EntitiesTestSuite) TestHasStatus_IgnoresExpired() {
	p := entities.Player{Effects: []entities.PlayerEffect{
		{Type: entities.StatusUntargetable, Duration: entities.StatusDuration{TurnsLeft: 0}},
	}}

	s.False(p.HasStatus(entities.StatusUntargetable))

	p.Effects[0].Duration.TurnsLeft = 1
	s.True(p.HasStatus(entities.StatusUntargetable))
}
