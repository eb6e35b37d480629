package rules

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
)

// missChance is the percentage of a drunk player's actions that go wrong
const missChance = 20

// IsDrunk reports whether intake has reached the drunk limit for threshold.
// A non-positive threshold means the default.
func IsDrunk(p entities.Player, threshold float64) bool {
	return p.ManaIntake >= entities.GameSettings{DrunkThreshold: threshold}.DrunkLimit()
}

// RefreshDrunk returns a copy of roster with every isDrunk flag recomputed
func RefreshDrunk(roster []entities.Player, threshold float64) []entities.Player {
	out := entities.CloneRoster(roster)
	for i := range out {
		out[i].IsDrunk = IsDrunk(out[i], threshold)
	}
	return out
}

// DrunkMiss rolls once for a player's action. Sober players never miss and
// do not consume a roll.
func DrunkMiss(p entities.Player, roller dice.Roller) (bool, error) {
	if !p.IsDrunk {
		return false, nil
	}
	roll, err := roller.Roll(100)
	if err != nil {
		return false, errors.Wrap(err, "failed to roll for drunk miss")
	}
	return roll <= missChance, nil
}

// DeclareResult turns a reported challenge outcome into the one that gets
// applied. A drunk reporter may swap winner and loser.
func DeclareResult(
	reporter entities.Player,
	winnerID, loserID string,
	roller dice.Roller,
) (winner, loser string, missed bool, err error) {
	missed, err = DrunkMiss(reporter, roller)
	if err != nil {
		return "", "", false, err
	}
	if missed {
		return loserID, winnerID, true, nil
	}
	return winnerID, loserID, false, nil
}
