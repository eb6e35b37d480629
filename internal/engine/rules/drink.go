package rules

import (
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
)

// Drink tops the player's mana up by the match's drink amount and adds the
// same amount to their intake. An active mana shield scales the intake by
// (1 - shield) and is used up.
func Drink(p entities.Player, settings entities.GameSettings) entities.Player {
	s := settings.WithDefaults()
	out := p.Clone()

	amount := s.ManaDrinkAmount
	out.Mana = min(max(out.Mana+amount, 0), out.MaxMana)

	multiplier := 1.0
	if out.ManaShield > 0 {
		multiplier = max(0, 1-out.ManaShield)
		out.ManaShield = 0
	}
	out.ManaIntake += float64(amount) * multiplier
	out.IsDrunk = IsDrunk(out, s.DrunkThreshold)
	return out
}
