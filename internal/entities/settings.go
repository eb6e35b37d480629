package entities

// Defaults applied to any GameSettings field that is missing from a stored
// match. Older documents predate several of these fields.
const (
	DefaultMaxHealth           = 10
	DefaultMaxMana             = 10
	DefaultManaDrinkAmount     = 3
	DefaultInitialHealth       = 10
	DefaultInitialMana         = 10
	DefaultDrunkThreshold      = 20.0
	DefaultManaIntakeDecayRate = 1.0 // units per minute
	DefaultCardTheme           = "classic"
	DefaultHandSize            = 5
)

// DrunkFactor is the share of the threshold at which a player counts as drunk
const DrunkFactor = 0.8

// GameSettings configure a match. The leader may edit them while the match
// is waiting for players.
type GameSettings struct {
	MaxHealth           int     `json:"maxHealth,omitempty"`
	MaxMana             int     `json:"maxMana,omitempty"`
	ManaDrinkAmount     int     `json:"manaDrinkAmount,omitempty"`
	InitialHealth       int     `json:"initialHealth,omitempty"`
	InitialMana         int     `json:"initialMana,omitempty"`
	DrunkThreshold      float64 `json:"drunkThreshold,omitempty"`
	ManaIntakeDecayRate float64 `json:"manaIntakeDecayRate,omitempty"`
	CardTheme           string  `json:"cardTheme,omitempty"`
	HandSize            int     `json:"handSize,omitempty"`
}

// DefaultSettings returns the fallback table
func DefaultSettings() GameSettings {
	return GameSettings{
		MaxHealth:           DefaultMaxHealth,
		MaxMana:             DefaultMaxMana,
		ManaDrinkAmount:     DefaultManaDrinkAmount,
		InitialHealth:       DefaultInitialHealth,
		InitialMana:         DefaultInitialMana,
		DrunkThreshold:      DefaultDrunkThreshold,
		ManaIntakeDecayRate: DefaultManaIntakeDecayRate,
		CardTheme:           DefaultCardTheme,
		HandSize:            DefaultHandSize,
	}
}

// WithDefaults returns a copy with every zero or negative field replaced by
// its default. Initial values are additionally capped at their maximum.
func (s GameSettings) WithDefaults() GameSettings {
	d := DefaultSettings()
	if s.MaxHealth <= 0 {
		s.MaxHealth = d.MaxHealth
	}
	if s.MaxMana <= 0 {
		s.MaxMana = d.MaxMana
	}
	if s.ManaDrinkAmount <= 0 {
		s.ManaDrinkAmount = d.ManaDrinkAmount
	}
	if s.InitialHealth <= 0 {
		s.InitialHealth = d.InitialHealth
	}
	if s.InitialMana <= 0 {
		s.InitialMana = d.InitialMana
	}
	if s.DrunkThreshold <= 0 {
		s.DrunkThreshold = d.DrunkThreshold
	}
	if s.ManaIntakeDecayRate <= 0 {
		s.ManaIntakeDecayRate = d.ManaIntakeDecayRate
	}
	if s.CardTheme == "" {
		s.CardTheme = d.CardTheme
	}
	if s.HandSize <= 0 {
		s.HandSize = d.HandSize
	}
	s.InitialHealth = min(s.InitialHealth, s.MaxHealth)
	s.InitialMana = min(s.InitialMana, s.MaxMana)
	return s
}

// DrunkLimit is the intake at which a player becomes drunk
func (s GameSettings) DrunkLimit() float64 {
	return s.WithDefaults().DrunkThreshold * DrunkFactor
}
