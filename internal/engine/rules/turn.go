package rules

import (
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
)

// AdvanceTurn returns the id of the living player after currentTurnID in
// roster order, wrapping around. An unknown current id starts from the top.
// It returns "" when nobody is alive.
func AdvanceTurn(roster []entities.Player, currentTurnID string) string {
	n := len(roster)
	start := entities.FindPlayer(roster, currentTurnID)
	for step := 1; step <= n; step++ {
		idx := (start + step) % n
		if roster[idx].IsAlive() {
			return roster[idx].ID
		}
	}
	return ""
}

// FirstTurn returns the first living player, or ""
func FirstTurn(roster []entities.Player) string {
	return AdvanceTurn(roster, "")
}

// TickStatuses counts down the acting player's statuses at the end of
// their turn and drops the expired ones
func TickStatuses(p entities.Player) entities.Player {
	out := p.Clone()

	effects := out.Effects[:0]
	for _, e := range out.Effects {
		e.Duration.TurnsLeft--
		if e.Duration.TurnsLeft > 0 {
			effects = append(effects, e)
		}
	}
	out.Effects = effects

	out.PotionBuffs = tickTimed(out.PotionBuffs)
	out.Debuffs = tickTimed(out.Debuffs)
	return out
}

func tickTimed(list []entities.TimedEffect) []entities.TimedEffect {
	if list == nil {
		return nil
	}
	kept := list[:0]
	for _, e := range list {
		e.TurnsLeft--
		if e.TurnsLeft > 0 {
			kept = append(kept, e)
		}
	}
	return kept
}

// Winner reports whether the match is over. It is over once at most one
// player is alive; the survivor, if any, wins.
func Winner(roster []entities.Player) (winnerID string, over bool) {
	alive := 0
	for i := range roster {
		if roster[i].IsAlive() {
			alive++
			winnerID = roster[i].ID
		}
	}
	if alive > 1 {
		return "", false
	}
	return winnerID, true
}
