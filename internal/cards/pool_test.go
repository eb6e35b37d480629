package cards_test

import (
	"testing"

	mock_dice "github.com/KirkDiggler/rpg-toolkit/dice/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/not-enough-mana/internal/cards"
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/idgen"
)

type PoolTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	roller *mock_dice.MockRoller
}

func TestPoolSuite(t *testing.T) {
	suite.Run(t, new(PoolTestSuite))
}

func (s *PoolTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.roller = mock_dice.NewMockRoller(s.ctrl)
}

func (s *PoolTestSuite) newPool(data []byte) *cards.Pool {
	pool, err := cards.NewPool(&cards.Config{
		Data:        data,
		Roller:      s.roller,
		IDGenerator: idgen.NewSequential("card"),
	})
	s.Require().NoError(err)
	return pool
}

// expectDraw scripts one Draw: the d100 rarity roll, then the pick within
// the rarity, capped at the number of cards there
func (s *PoolTestSuite) expectDraw(rarity, pick int) {
	gomock.InOrder(
		s.roller.EXPECT().Roll(100).Return(rarity, nil),
		s.roller.EXPECT().Roll(gomock.Any()).DoAndReturn(func(size int) (int, error) {
			return min(pick, size), nil
		}),
	)
}

func (s *PoolTestSuite) TestEmbeddedPoolLoads() {
	pool := s.newPool(nil)

	s.Equal([]string{"classic", "electro"}, pool.Themes())
	s.True(pool.HasTheme("electro"))
	s.False(pool.HasTheme("racing"))
}

func (s *PoolTestSuite) TestDraw_StampsInstanceID() {
	pool := s.newPool(nil)
	s.expectDraw(1, 1)
	s.expectDraw(1, 1)

	first, err := pool.Draw("classic")
	s.Require().NoError(err)
	second, err := pool.Draw("classic")
	s.Require().NoError(err)

	s.Equal("card_1", first.ID)
	s.Equal("card_2", second.ID)
	s.Equal(first.DefinitionID, second.DefinitionID)
	s.Equal("fireball", first.DefinitionID)
}

func (s *PoolTestSuite) TestDraw_RarityBands() {
	testCases := []struct {
		roll int
		want entities.Rarity
	}{
		{roll: 1, want: entities.RarityCommon},
		{roll: 60, want: entities.RarityCommon},
		{roll: 61, want: entities.RarityRare},
		{roll: 85, want: entities.RarityRare},
		{roll: 86, want: entities.RarityEpic},
		{roll: 97, want: entities.RarityEpic},
		{roll: 98, want: entities.RarityLegendary},
		{roll: 100, want: entities.RarityLegendary},
	}

	for _, tc := range testCases {
		s.Run(string(tc.want), func() {
			pool := s.newPool(nil)
			s.expectDraw(tc.roll, 1)

			card, err := pool.Draw("classic")

			s.Require().NoError(err)
			s.Equal(tc.want, card.Rarity)
		})
	}
}

func (s *PoolTestSuite) TestDraw_UnknownThemeFallsBack() {
	pool := s.newPool(nil)
	s.expectDraw(1, 1)

	card, err := pool.Draw("tower-defense")

	s.Require().NoError(err)
	s.Equal("fireball", card.DefinitionID)
}

func (s *PoolTestSuite) TestDraw_MissingRarityUsesMoreCommon() {
	data := []byte(`
themes:
  classic:
    - {id: a, name: A, manaCost: 1, rarity: common, type: action, effect: {type: heal, value: 1}}
    - {id: b, name: B, manaCost: 1, rarity: epic, type: action, effect: {type: heal, value: 1}}
  sparse:
    - {id: l, name: L, manaCost: 1, rarity: legendary, type: action, effect: {type: heal, value: 1}}
`)

	pool := s.newPool(data)

	s.expectDraw(90, 1)
	card, err := pool.Draw("classic")
	s.Require().NoError(err)
	s.Equal("b", card.DefinitionID)

	s.expectDraw(70, 1)
	card, err = pool.Draw("classic")
	s.Require().NoError(err)
	s.Equal("a", card.DefinitionID, "no rare cards, falls to common")

	s.expectDraw(1, 1)
	card, err = pool.Draw("sparse")
	s.Require().NoError(err)
	s.Equal("l", card.DefinitionID)
}

func (s *PoolTestSuite) TestDeal() {
	pool := s.newPool(nil)
	s.roller.EXPECT().Roll(gomock.Any()).Return(1, nil).Times(10)

	hand, err := pool.Deal("electro", 5)

	s.Require().NoError(err)
	s.Len(hand, 5)
	ids := make(map[string]bool)
	for _, c := range hand {
		ids[c.ID] = true
	}
	s.Len(ids, 5)
}

func (s *PoolTestSuite) TestChallengeCardsCarryBothSides() {
	pool := s.newPool(nil)
	for _, theme := range pool.Themes() {
		for roll := 1; roll <= 100; roll++ {
			s.expectDraw(roll, 8)
			card, err := pool.Draw(theme)
			s.Require().NoError(err)
			if !card.IsChallengeCard() {
				continue
			}
			e := card.Effect
			s.True(e.WinnerEffect != nil || e.ChallengeEffects.Winner != nil, card.DefinitionID)
			s.True(e.LoserEffect != nil || e.ChallengeEffects.Loser != nil, card.DefinitionID)
		}
	}
}

func (s *PoolTestSuite) TestNewPool_RejectsBadData() {
	testCases := []struct {
		name string
		data string
	}{
		{name: "not yaml", data: "themes: [oops"},
		{name: "no classic", data: "themes:\n  electro:\n    - {id: a, name: A, rarity: common, effect: {type: heal}}\n"},
		{name: "unknown effect", data: "themes:\n  classic:\n    - {id: a, name: A, rarity: common, effect: {type: teleport}}\n"},
		{name: "unknown rarity", data: "themes:\n  classic:\n    - {id: a, name: A, rarity: mythic, effect: {type: heal}}\n"},
		{name: "half a challenge", data: "themes:\n  classic:\n    - {id: a, name: A, rarity: common, isChallenge: true, effect: {type: challenge, winnerEffect: {type: heal}}}\n"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := cards.NewPool(&cards.Config{
				Data:        []byte(tc.data),
				Roller:      s.roller,
				IDGenerator: idgen.NewSequential(""),
			})
			s.True(errors.IsDataLoss(err), "got %v", err)
		})
	}
}

func (s *PoolTestSuite) TestDraw_RollerErrors() {
	pool := s.newPool(nil)

	s.roller.EXPECT().Roll(100).Return(0, errors.Internal("dice jammed"))
	_, err := pool.Draw("classic")
	s.Error(err)

	gomock.InOrder(
		s.roller.EXPECT().Roll(100).Return(1, nil),
		s.roller.EXPECT().Roll(gomock.Any()).Return(999, nil),
	)
	_, err = pool.Draw("classic")
	s.True(errors.IsInternal(err))
}

func (s *PoolTestSuite) TestNewPool_ValidatesConfig() {
	_, err := cards.NewPool(&cards.Config{})
	s.True(errors.IsInvalidArgument(err))

	_, err = cards.NewPool(nil)
	s.True(errors.IsInvalidArgument(err))
}
