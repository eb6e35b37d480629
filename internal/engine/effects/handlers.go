package effects

import (
	"log/slog"
	"math"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
)

const (
	// timedEffectTurns is how long potionBuff and debuff entries last
	timedEffectTurns = 3

	// manaDoubleIntake is added to the caster's intake by manaDouble whatever the card value
	manaDoubleIntake = 15

	// stealAllMaxManaLoss is taken from every victim's maxMana by manaStealAll
	stealAllMaxManaLoss = 2

	// defaultStatusTurns applies to buff/untargetable cards without a duration
	defaultStatusTurns = 3
)

type handler func(r *Resolver, s *resolution)

var handlers = map[entities.EffectType]handler{
	entities.EffectDamage:               damage,
	entities.EffectAOEDamage:            aoeDamage,
	entities.EffectAOEDamageAlt:         aoeDamage,
	entities.EffectHeal:                 heal,
	entities.EffectLifeSteal:            lifeSteal,
	entities.EffectManaDrain:            drain,
	entities.EffectManaStealer:          drain,
	entities.EffectManaBurn:             manaBurn,
	entities.EffectReversedCurseTech:    reversedCurseTech,
	entities.EffectManaRefill:           manaRefill,
	entities.EffectManaIntake:           manaIntake,
	entities.EffectRoulette:             roulette,
	entities.EffectManaIntakeMultiply:   manaIntakeMultiply,
	entities.EffectManaDouble:           manaDouble,
	entities.EffectManaIntakeOthers:     manaIntakeOthers,
	entities.EffectSetAllToDrunk:        setAllToDrunk,
	entities.EffectResetManaIntake:      resetManaIntake,
	entities.EffectMaxManaAndMana:       maxManaAndMana,
	entities.EffectManaStealAll:         manaStealAll,
	entities.EffectDivineIntervention:   divineIntervention,
	entities.EffectDrunkestPlayerDamage: drunkestPlayerDamage,
	entities.EffectManaTransfer:         manaTransfer,
	entities.EffectPotionBuff:           potionBuff,
	entities.EffectDebuff:               debuff,
	entities.EffectManaOverload:         manaOverload,
	entities.EffectSoberingPotion:       soberingPotion,
	entities.EffectManaShield:           manaShield,
	entities.EffectBuff:                 status(entities.StatusBuff),
	entities.EffectUntargetable:         status(entities.StatusUntargetable),
}

// addMana adds delta to p's mana inside [0, maxMana] and returns the real change
func addMana(p *entities.Player, delta int) int {
	before := p.Mana
	p.Mana = min(max(p.Mana+delta, 0), p.MaxMana)
	return p.Mana - before
}

// addIntake adds delta to p's intake, never going below zero
func addIntake(p *entities.Player, delta float64) float64 {
	before := p.ManaIntake
	p.ManaIntake = max(p.ManaIntake+delta, 0)
	return p.ManaIntake - before
}

// Damage depletes the target's mana, not its health.
func damage(r *Resolver, s *resolution) {
	t := s.targetPlayer()
	if t == nil {
		return
	}
	lost := addMana(t, -s.effect.IntValue())
	r.notify(s.effect.Type, float64(-lost), t)
}

func aoeDamage(r *Resolver, s *resolution) {
	for i := range s.roster {
		if i == s.caster {
			continue
		}
		lost := addMana(&s.roster[i], -s.effect.IntValue())
		r.notify(s.effect.Type, float64(-lost), &s.roster[i])
	}
}

// Heal always restores the caster, whoever was selected as target.
func heal(r *Resolver, s *resolution) {
	c := s.casterPlayer()
	gained := addMana(c, s.effect.IntValue())
	r.notify(s.effect.Type, float64(gained), c)
}

func lifeSteal(r *Resolver, s *resolution) {
	c, t := s.casterPlayer(), s.targetPlayer()
	if t == nil || s.target == s.caster {
		return
	}
	casterMana, targetMana := c.Mana, t.Mana
	c.Mana = min(targetMana, c.MaxMana)
	t.Mana = min(casterMana, t.MaxMana)
	r.notify(s.effect.Type, float64(c.Mana-casterMana), c)
	r.notify(s.effect.Type, float64(t.Mana-targetMana), t)
}

// drain serves manaDrain and manaStealer: the target loses up to value and
// the caster gains what was taken, up to its own cap.
func drain(r *Resolver, s *resolution) {
	c, t := s.casterPlayer(), s.targetPlayer()
	if t == nil || s.target == s.caster {
		return
	}
	taken := min(t.Mana, max(s.effect.IntValue(), 0))
	t.Mana -= taken
	gained := addMana(c, taken)
	r.notify(s.effect.Type, float64(-taken), t)
	r.notify(s.effect.Type, float64(gained), c)
}

func manaBurn(r *Resolver, s *resolution) {
	t := s.targetPlayer()
	if t == nil {
		return
	}
	burned := t.Mana / 2
	t.Mana -= burned
	t.ManaIntake += float64(burned)
	r.notify(s.effect.Type, float64(burned), t)
}

// reversedCurseTech grants the caster half the target's mana. The target
// keeps its mana.
func reversedCurseTech(r *Resolver, s *resolution) {
	c, t := s.casterPlayer(), s.targetPlayer()
	if t == nil {
		return
	}
	gained := addMana(c, t.Mana/2)
	r.notify(s.effect.Type, float64(gained), c)
}

func manaRefill(r *Resolver, s *resolution) {
	c := s.casterPlayer()
	gained := c.MaxMana - c.Mana
	c.Mana = c.MaxMana
	r.notify(s.effect.Type, float64(gained), c)
}

func manaIntake(r *Resolver, s *resolution) {
	p := s.targetPlayer()
	if p == nil {
		p = s.casterPlayer()
	}
	r.notify(s.effect.Type, addIntake(p, s.effect.Value), p)
}

// roulette adds intake to a random player; the caster can be picked
func roulette(r *Resolver, s *resolution) {
	if len(s.roster) == 0 {
		return
	}
	roll, err := r.roller.Roll(len(s.roster))
	if err != nil {
		slog.Warn("roulette roll failed, card has no effect",
			"caster", s.casterPlayer().ID,
			"error", err)
		return
	}
	if roll < 1 || roll > len(s.roster) {
		return
	}
	p := &s.roster[roll-1]
	r.notify(s.effect.Type, addIntake(p, s.effect.Value), p)
}

func manaIntakeMultiply(r *Resolver, s *resolution) {
	p := s.targetPlayer()
	if p == nil {
		p = s.casterPlayer()
	}
	before := p.ManaIntake
	p.ManaIntake = max(math.Floor(p.ManaIntake*s.effect.Value), 0)
	r.notify(s.effect.Type, p.ManaIntake-before, p)
}

func manaDouble(r *Resolver, s *resolution) {
	c := s.casterPlayer()
	gained := addMana(c, c.Mana)
	c.ManaIntake += manaDoubleIntake
	r.notify(s.effect.Type, float64(gained), c)
}

func manaIntakeOthers(r *Resolver, s *resolution) {
	for i := range s.roster {
		if i == s.caster {
			continue
		}
		p := &s.roster[i]
		r.notify(s.effect.Type, addIntake(p, s.effect.Value), p)
	}
}

func setAllToDrunk(r *Resolver, s *resolution) {
	for i := range s.roster {
		p := &s.roster[i]
		before := p.ManaIntake
		p.ManaIntake = r.drunkThreshold
		r.notify(s.effect.Type, p.ManaIntake-before, p)
	}
}

func resetManaIntake(r *Resolver, s *resolution) {
	t := s.targetPlayer()
	if t == nil {
		return
	}
	before := t.ManaIntake
	t.ManaIntake = 0
	r.notify(s.effect.Type, -before, t)
}

func maxManaAndMana(r *Resolver, s *resolution) {
	c := s.casterPlayer()
	c.MaxMana += s.effect.IntValue()
	gained := addMana(c, s.effect.IntValue())
	r.notify(s.effect.Type, float64(gained), c)
}

// manaStealAll takes up to value from every other player, shrinks their
// maxMana and credits the total to the caster.
func manaStealAll(r *Resolver, s *resolution) {
	amount := max(s.effect.IntValue(), 0)
	total := 0
	for i := range s.roster {
		if i == s.caster {
			continue
		}
		p := &s.roster[i]
		taken := min(p.Mana, amount)
		p.Mana -= taken
		p.MaxMana = max(p.MaxMana-stealAllMaxManaLoss, 1)
		total += taken
		r.notify(s.effect.Type, float64(-taken), p)
	}
	c := s.casterPlayer()
	r.notify(s.effect.Type, float64(addMana(c, total)), c)
}

func divineIntervention(r *Resolver, s *resolution) {
	for i := range s.roster {
		p := &s.roster[i]
		p.ManaIntake = 0
		r.notify(s.effect.Type, float64(addMana(p, s.effect.IntValue())), p)
	}
}

// drunkestPlayerDamage hits the first player holding the highest intake
func drunkestPlayerDamage(r *Resolver, s *resolution) {
	drunkest := -1
	for i := range s.roster {
		if drunkest < 0 || s.roster[i].ManaIntake > s.roster[drunkest].ManaIntake {
			drunkest = i
		}
	}
	if drunkest < 0 {
		return
	}
	p := &s.roster[drunkest]
	r.notify(s.effect.Type, float64(addMana(p, s.effect.IntValue())), p)
}

func manaTransfer(r *Resolver, s *resolution) {
	c, t := s.casterPlayer(), s.targetPlayer()
	if t == nil || s.target == s.caster {
		return
	}
	sent := min(c.Mana, max(s.effect.IntValue(), 0))
	c.Mana -= sent
	received := addMana(t, sent)
	r.notify(s.effect.Type, float64(-sent), c)
	r.notify(s.effect.Type, float64(received), t)
}

func potionBuff(r *Resolver, s *resolution) {
	c := s.casterPlayer()
	c.PotionBuffs = append(c.PotionBuffs, entities.TimedEffect{
		Type:      s.effect.Type,
		Value:     s.effect.Value,
		TurnsLeft: timedEffectTurns,
	})
	r.notify(s.effect.Type, s.effect.Value, c)
}

func debuff(r *Resolver, s *resolution) {
	t := s.targetPlayer()
	if t == nil {
		return
	}
	t.Debuffs = append(t.Debuffs, entities.TimedEffect{
		Type:      s.effect.Type,
		Value:     s.effect.Value,
		TurnsLeft: timedEffectTurns,
	})
	r.notify(s.effect.Type, s.effect.Value, t)
}

func manaOverload(r *Resolver, s *resolution) {
	t := s.targetPlayer()
	if t == nil {
		return
	}
	gained := addMana(t, s.effect.IntValue())
	t.ManaIntake += math.Floor(s.effect.Value / 2)
	r.notify(s.effect.Type, float64(gained), t)
}

// soberingPotion clears the caster's intake when value is zero and
// otherwise scales it by (1 - value)
func soberingPotion(r *Resolver, s *resolution) {
	c := s.casterPlayer()
	before := c.ManaIntake
	if s.effect.Value == 0 {
		c.ManaIntake = 0
	} else {
		c.ManaIntake = max(c.ManaIntake*(1-s.effect.Value), 0)
	}
	r.notify(s.effect.Type, c.ManaIntake-before, c)
}

// manaShield only records the magnitude; drinking consumes it
func manaShield(r *Resolver, s *resolution) {
	c := s.casterPlayer()
	c.ManaShield = s.effect.Value
	r.notify(s.effect.Type, s.effect.Value, c)
}

// status stacks a timed PlayerEffect on the caster
func status(t entities.StatusType) handler {
	return func(r *Resolver, s *resolution) {
		turns := s.effect.Duration
		if turns <= 0 {
			turns = defaultStatusTurns
		}
		c := s.casterPlayer()
		c.Effects = entities.MergeStatus(c.Effects, entities.PlayerEffect{
			StackID: string(s.effect.Type),
			Type:    t,
			Value:   s.effect.Value,
			Duration: entities.StatusDuration{
				TurnsLeft:       turns,
				InitialDuration: turns,
			},
			Source: c.ID,
		})
		r.notify(s.effect.Type, s.effect.Value, c)
	}
}
