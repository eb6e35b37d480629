package entities

// EffectType is the dispatch key of a CardEffect
type EffectType string

// Effect types understood by the resolver. Some tags have two spellings
// because older card data used both.
const (
	EffectDamage               EffectType = "damage"
	EffectAOEDamage            EffectType = "aoe-damage"
	EffectAOEDamageAlt         EffectType = "aoeDamage"
	EffectHeal                 EffectType = "heal"
	EffectLifeSteal            EffectType = "life-steal"
	EffectManaDrain            EffectType = "manaDrain"
	EffectManaBurn             EffectType = "manaBurn"
	EffectReversedCurseTech    EffectType = "reversed-curse-tech"
	EffectManaRefill           EffectType = "manaRefill"
	EffectManaIntake           EffectType = "manaIntake"
	EffectRoulette             EffectType = "roulette"
	EffectManaIntakeMultiply   EffectType = "manaIntakeMultiply"
	EffectManaDouble           EffectType = "manaDouble"
	EffectManaIntakeOthers     EffectType = "manaIntakeOthers"
	EffectSetAllToDrunk        EffectType = "setAllToDrunk"
	EffectResetManaIntake      EffectType = "resetManaIntake"
	EffectMaxManaAndMana       EffectType = "maxManaAndMana"
	EffectManaStealAll         EffectType = "manaStealAll"
	EffectDivineIntervention   EffectType = "divineIntervention"
	EffectDrunkestPlayerDamage EffectType = "drunkestPlayerDamage"
	EffectManaTransfer         EffectType = "manaTransfer"
	EffectManaStealer          EffectType = "manaStealer"
	EffectPotionBuff           EffectType = "potionBuff"
	EffectDebuff               EffectType = "debuff"
	EffectManaOverload         EffectType = "manaOverload"
	EffectSoberingPotion       EffectType = "soberingPotion"
	EffectManaShield           EffectType = "manaShield"
	EffectBuff                 EffectType = "buff"
	EffectUntargetable         EffectType = "untargetable"
	EffectChallenge            EffectType = "challenge"
)

// CardEffect is what a card does when resolved. Challenge cards carry a
// winner/loser pair in one of two layouts; WinnerEffect/LoserEffect win
// when both are present.
type CardEffect struct {
	Type             EffectType        `json:"type" yaml:"type"`
	Value            float64           `json:"value" yaml:"value"`
	Duration         int               `json:"duration,omitempty" yaml:"duration,omitempty"`
	ChallengeEffects *ChallengeEffects `json:"challengeEffects,omitempty" yaml:"challengeEffects,omitempty"`
	WinnerEffect     *CardEffect       `json:"winnerEffect,omitempty" yaml:"winnerEffect,omitempty"`
	LoserEffect      *CardEffect       `json:"loserEffect,omitempty" yaml:"loserEffect,omitempty"`
}

// ChallengeEffects is the nested winner/loser layout
type ChallengeEffects struct {
	Winner *CardEffect `json:"winner,omitempty" yaml:"winner,omitempty"`
	Loser  *CardEffect `json:"loser,omitempty" yaml:"loser,omitempty"`
}

// IntValue returns Value truncated toward zero
func (e CardEffect) IntValue() int {
	return int(e.Value)
}

// Clone deep-copies the effect
func (e CardEffect) Clone() CardEffect {
	out := e
	if e.ChallengeEffects != nil {
		ce := ChallengeEffects{}
		if e.ChallengeEffects.Winner != nil {
			w := e.ChallengeEffects.Winner.Clone()
			ce.Winner = &w
		}
		if e.ChallengeEffects.Loser != nil {
			l := e.ChallengeEffects.Loser.Clone()
			ce.Loser = &l
		}
		out.ChallengeEffects = &ce
	}
	if e.WinnerEffect != nil {
		w := e.WinnerEffect.Clone()
		out.WinnerEffect = &w
	}
	if e.LoserEffect != nil {
		l := e.LoserEffect.Clone()
		out.LoserEffect = &l
	}
	return out
}

// StatusType classifies a PlayerEffect
type StatusType string

// Status types
const (
	StatusBuff         StatusType = "buff"
	StatusDebuff       StatusType = "debuff"
	StatusUntargetable StatusType = "untargetable"
)

// StatusDuration tracks how long a status lasts
type StatusDuration struct {
	TurnsLeft       int `json:"turnsLeft"`
	InitialDuration int `json:"initialDuration"`
}

// PlayerEffect is a stacked status on a player. Entries sharing a StackID
// are merged rather than duplicated.
type PlayerEffect struct {
	StackID  string         `json:"stackId"`
	Type     StatusType     `json:"type"`
	Value    float64        `json:"value"`
	Duration StatusDuration `json:"duration"`
	Source   string         `json:"source"`
}

// TimedEffect is an entry in a player's potionBuffs or debuffs list
type TimedEffect struct {
	Type      EffectType `json:"type"`
	Value     float64    `json:"value"`
	TurnsLeft int        `json:"turnsLeft"`
}

// MergeStatus returns a new slice with e stacked in. An entry with the same
// StackID absorbs e: values add and the longer remaining duration wins.
func MergeStatus(current []PlayerEffect, e PlayerEffect) []PlayerEffect {
	out := make([]PlayerEffect, 0, len(current)+1)
	merged := false
	for _, existing := range current {
		if !merged && existing.StackID == e.StackID {
			existing.Value += e.Value
			existing.Duration.TurnsLeft = max(existing.Duration.TurnsLeft, e.Duration.TurnsLeft)
			existing.Duration.InitialDuration = max(existing.Duration.InitialDuration, e.Duration.InitialDuration)
			merged = true
		}
		out = append(out, existing)
	}
	if !merged {
		out = append(out, e)
	}
	return out
}
