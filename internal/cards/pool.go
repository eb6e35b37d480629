// Package cards holds the static card pool and deals card instances from it.
package cards

import (
	_ "embed"
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/not-enough-mana/internal/engine/effects"
	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/idgen"
)

//go:embed pool.yaml
var defaultPool []byte

// FallbackTheme is used for unknown themes
const FallbackTheme = entities.DefaultCardTheme

// rarityWeights are cumulative d100 bands, rarest last
var rarityWeights = []struct {
	rarity entities.Rarity
	upTo   int
}{
	{entities.RarityCommon, 60},
	{entities.RarityRare, 85},
	{entities.RarityEpic, 97},
	{entities.RarityLegendary, 100},
}

type poolFile struct {
	Themes map[string][]entities.Card `yaml:"themes"`
}

// Config configures a Pool
type Config struct {
	// Data is the YAML pool document. Defaults to the embedded pool.
	Data []byte

	Roller      dice.Roller
	IDGenerator idgen.Generator
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

// Pool deals card instances from themed definitions
type Pool struct {
	themes map[string]map[entities.Rarity][]entities.Card
	roller dice.Roller
	idGen  idgen.Generator
}

// NewPool parses and checks the card definitions
func NewPool(cfg *Config) (*Pool, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	data := cfg.Data
	if len(data) == 0 {
		data = defaultPool
	}

	var file poolFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to parse card pool")
	}
	if len(file.Themes[FallbackTheme]) == 0 {
		return nil, errors.DataLossf("card pool has no %q theme", FallbackTheme)
	}

	p := &Pool{
		themes: make(map[string]map[entities.Rarity][]entities.Card, len(file.Themes)),
		roller: cfg.Roller,
		idGen:  cfg.IDGenerator,
	}
	for theme, defs := range file.Themes {
		byRarity := make(map[entities.Rarity][]entities.Card)
		for _, def := range defs {
			if err := checkDefinition(def); err != nil {
				return nil, errors.Wrapf(err, "theme %s", theme)
			}
			byRarity[def.Rarity] = append(byRarity[def.Rarity], def)
		}
		p.themes[theme] = byRarity
	}
	return p, nil
}

func checkDefinition(def entities.Card) error {
	if def.ID == "" || def.Name == "" {
		return errors.DataLoss("card definition without id or name")
	}
	switch def.Rarity {
	case entities.RarityCommon, entities.RarityRare, entities.RarityEpic, entities.RarityLegendary:
	default:
		return errors.DataLossf("card %s has unknown rarity %q", def.ID, def.Rarity)
	}
	if def.ManaCost < 0 {
		return errors.DataLossf("card %s has a negative cost", def.ID)
	}

	if def.IsChallengeCard() {
		e := def.Effect
		hasWinner := e.WinnerEffect != nil || e.ChallengeEffects != nil && e.ChallengeEffects.Winner != nil
		hasLoser := e.LoserEffect != nil || e.ChallengeEffects != nil && e.ChallengeEffects.Loser != nil
		if !hasWinner || !hasLoser {
			return errors.DataLossf("challenge card %s is missing winner or loser effects", def.ID)
		}
		return nil
	}
	if !effects.Handles(def.Effect.Type) {
		return errors.DataLossf("card %s has unknown effect %q", def.ID, def.Effect.Type)
	}
	return nil
}

// Themes lists the theme names
func (p *Pool) Themes() []string {
	names := make([]string, 0, len(p.themes))
	for name := range p.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasTheme reports whether theme exists
func (p *Pool) HasTheme(theme string) bool {
	_, ok := p.themes[theme]
	return ok
}

// Draw deals one card from theme. The rarity is rolled on a d100 first; a
// theme without cards of that rarity deals the next more common one.
func (p *Pool) Draw(theme string) (entities.Card, error) {
	byRarity, ok := p.themes[theme]
	if !ok {
		byRarity = p.themes[FallbackTheme]
	}

	roll, err := p.roller.Roll(100)
	if err != nil {
		return entities.Card{}, errors.Wrap(err, "failed to roll rarity")
	}
	tier := 0
	for tier < len(rarityWeights)-1 && roll > rarityWeights[tier].upTo {
		tier++
	}

	var defs []entities.Card
	for ; tier >= 0 && len(defs) == 0; tier-- {
		defs = byRarity[rarityWeights[tier].rarity]
	}
	if len(defs) == 0 {
		// theme only has rarer cards than rolled
		for _, w := range rarityWeights {
			if defs = byRarity[w.rarity]; len(defs) > 0 {
				break
			}
		}
	}
	if len(defs) == 0 {
		return entities.Card{}, errors.DataLossf("theme %s has no cards", theme)
	}

	pick, err := p.roller.Roll(len(defs))
	if err != nil {
		return entities.Card{}, errors.Wrap(err, "failed to roll card")
	}
	if pick < 1 || pick > len(defs) {
		return entities.Card{}, errors.Internalf("roller returned %d for a d%d", pick, len(defs))
	}

	card := defs[pick-1].Clone()
	card.DefinitionID = card.ID
	card.ID = p.idGen.Generate()
	return card, nil
}

// Deal draws n cards
func (p *Pool) Deal(theme string, n int) ([]entities.Card, error) {
	hand := make([]entities.Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := p.Draw(theme)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to deal card %d of %d", i+1, n)
		}
		hand = append(hand, card)
	}
	return hand, nil
}
