package battle

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// CriticalChance is the probability a hit rolls as a critical (x2 modifier),
// grounded in calculations.py's calculate_damage (chance(.0625, ...)).
const CriticalChance = 0.0625

// RandomRoll returns the attack's damage-variance roll as a fraction in
// [0.85, 1.00], matching calculations.py's random_pct(85, 100) (an inclusive
// integer percentage divided by 100).
func RandomRoll(rng *rand.Rand) float32 {
	return float32(85+rng.Intn(16)) / 100
}

// Critical returns 2 on a critical hit, 1 otherwise.
func Critical(rng *rand.Rand) int {
	if rng.Float64() < CriticalChance {
		return 2
	}
	return 1
}

// CalculateDamage computes damage dealt by attacker using move against
// defender, along with the effectiveness tier and the critical multiplier
// rolled. Mirrors calculations.py's calculate_damage exactly, including its
// floor-at-zero and cap-at-remaining-hp behavior. Uses float32 throughout,
// matching the rest of the hot simulation path.
func CalculateDamage(rng *rand.Rand, move Move, attacker, defender *Creature) (damage int, eff Effectiveness, critical int) {
	critical = Critical(rng)
	random := RandomRoll(rng)
	eff = IsEffective(move.Type, defender.Type)
	modifier := float32(critical) * random * float32(eff)

	var attack, defense int
	if move.Special {
		attack, defense = attacker.Stats.SpecialAttack, attacker.Stats.SpecialDefense
	} else {
		attack, defense = attacker.Stats.Attack, attacker.Stats.Defense
	}
	if defense == 0 {
		defense = 1
	}

	raw := (((((2*float32(attacker.Level))/5)+2)*float32(move.BaseDamage)*(float32(attack)/float32(defense)))/50 + 2) * modifier
	damage = int(math32.Max(0, raw))
	if damage > defender.HP {
		damage = defender.HP
	}
	return damage, eff, critical
}
