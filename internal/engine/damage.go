package engine

import "math"

// Variance is the uniform multiplicative spread applied to base attack.
type Variance struct {
	Min float64
	Max float64
}

var (
	BattleVariance = Variance{Min: 0.85, Max: 1.15}
	LegacyVariance = Variance{Min: 0.8, Max: 1.2}
)

const (
	PlayerCritChance  = 0.15
	MonsterCritChance = 0.10
	CritMultiplier    = 1.5
	MinDamage         = 1
)

func (v Variance) roll(rng Random) float64 {
	return v.Min + rng.Float64()*(v.Max-v.Min)
}

func floorDamage(v float64) int {
	return max(int(math.Floor(v)), MinDamage)
}

func critical(dmg int) int {
	return floorDamage(float64(dmg) * CritMultiplier)
}

// Damage computes one hit: base attack times a variance draw, floored,
// times 1.5 on a critical. Never below MinDamage.
func Damage(rng Random, baseAttack int, v Variance, isCritical bool) int {
	dmg := floorDamage(float64(baseAttack) * v.roll(rng))
	if isCritical {
		dmg = critical(dmg)
	}
	return dmg
}

// RollCritical succeeds with probability chance.
func RollCritical(rng Random, chance float64) bool {
	return rng.Float64() < chance
}

// RollAttack draws the variance first and the critical second.
func RollAttack(rng Random, baseAttack int, v Variance, critChance float64) (int, bool) {
	dmg := Damage(rng, baseAttack, v, false)
	if RollCritical(rng, critChance) {
		return critical(dmg), true
	}
	return dmg, false
}
