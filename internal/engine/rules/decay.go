package rules

import (
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
)

const (
	// decayCapSeconds bounds what a single tick can catch up on
	decayCapSeconds = 60.0

	// decayMinAmount keeps sub-second ticks perceptible
	decayMinAmount = 0.01
)

// DecayAmount is how much intake one tick removes after elapsedSeconds at
// decayRate units per minute
func DecayAmount(elapsedSeconds, decayRate float64) float64 {
	elapsed := min(max(elapsedSeconds, 0), decayCapSeconds)
	return max(decayMinAmount, max(decayRate, 0)*elapsed/60)
}

// DecayTick lowers every positive intake by DecayAmount, flooring at zero,
// and recomputes isDrunk for the players it touched. Players at zero intake
// are left exactly as they were.
func DecayTick(
	roster []entities.Player,
	elapsedSeconds float64,
	decayRate float64,
	drunkThreshold float64,
) []entities.Player {
	amount := DecayAmount(elapsedSeconds, decayRate)
	out := entities.CloneRoster(roster)
	for i := range out {
		p := &out[i]
		if p.ManaIntake <= 0 {
			continue
		}
		p.ManaIntake = max(p.ManaIntake-amount, 0)
		p.IsDrunk = IsDrunk(*p, drunkThreshold)
	}
	return out
}
