package entities

// Rarity of a card definition
type Rarity string

// Rarities
const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// CardType is the presentation category of a card
type CardType string

// Card types
const (
	CardTypeAction    CardType = "action"
	CardTypeUtility   CardType = "utility"
	CardTypeChallenge CardType = "challenge"
	CardTypeLegendary CardType = "legendary"
)

// Card is an immutable card definition or, once drawn, an instance of one.
// Instances get their own ID; DefinitionID points back at the pool entry.
type Card struct {
	ID             string     `json:"id" yaml:"id"`
	DefinitionID   string     `json:"definitionId,omitempty" yaml:"-"`
	Name           string     `json:"name" yaml:"name"`
	Description    string     `json:"description" yaml:"description"`
	ManaCost       int        `json:"manaCost" yaml:"manaCost"`
	Rarity         Rarity     `json:"rarity" yaml:"rarity"`
	Type           CardType   `json:"type" yaml:"type"`
	Effect         CardEffect `json:"effect" yaml:"effect"`
	RequiresTarget bool       `json:"requiresTarget" yaml:"requiresTarget"`
	IsChallenge    bool       `json:"isChallenge,omitempty" yaml:"isChallenge,omitempty"`
	IsLegendary    bool       `json:"isLegendary,omitempty" yaml:"isLegendary,omitempty"`
}

// IsChallengeCard reports whether the card is resolved through a
// winner/loser report instead of directly
func (c *Card) IsChallengeCard() bool {
	return c.IsChallenge || c.Effect.Type == EffectChallenge
}

// Clone deep-copies the card
func (c Card) Clone() Card {
	out := c
	out.Effect = c.Effect.Clone()
	return out
}
