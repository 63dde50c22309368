package economy

// RationLevel is a tribe's food policy.
type RationLevel string

const (
	RationHard     RationLevel = "Hard"
	RationNormal   RationLevel = "Normal"
	RationGenerous RationLevel = "Generous"
)

// RationPolicy holds the per-level tuning values.
type RationPolicy struct {
	TroopRate         float64 // food per troop per turn
	ChiefRate         float64 // food per chief per turn
	RecruitEfficiency float64
	ActionEfficiency  float64
	CombatModifier    float64
	MoraleMin         int // morale delta range applied only when fully fed
	MoraleMax         int
}

var rationPolicies = map[RationLevel]RationPolicy{
	RationHard: {
		TroopRate: 0.5, ChiefRate: 0.25,
		RecruitEfficiency: 0.8, ActionEfficiency: 0.9, CombatModifier: 0.9,
		MoraleMin: -3, MoraleMax: -2,
	},
	RationNormal: {
		TroopRate: 1.0, ChiefRate: 0.5,
		RecruitEfficiency: 1.0, ActionEfficiency: 1.0, CombatModifier: 1.0,
	},
	RationGenerous: {
		TroopRate: 1.5, ChiefRate: 0.75,
		RecruitEfficiency: 1.2, ActionEfficiency: 1.1, CombatModifier: 1.1,
		MoraleMin: 2, MoraleMax: 5,
	},
}

// ParseRationLevel validates a level name.
func ParseRationLevel(s string) (RationLevel, bool) {
	l := RationLevel(s)
	_, ok := rationPolicies[l]
	return l, ok
}

// Policy returns the tuning for the level. Unknown levels read as Normal.
func (l RationLevel) Policy() RationPolicy {
	if p, ok := rationPolicies[l]; ok {
		return p
	}
	return rationPolicies[RationNormal]
}

// Normalize maps unknown or empty levels to Normal.
func (l RationLevel) Normalize() RationLevel {
	if _, ok := rationPolicies[l]; ok {
		return l
	}
	return RationNormal
}

// MoraleFactor scales action efficiency by morale band.
func MoraleFactor(morale int) float64 {
	switch {
	case morale < 30:
		return 0.8
	case morale > 80:
		return 1.1
	default:
		return 1.0
	}
}
