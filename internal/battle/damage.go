package battle

import "math/rand"

// Damage computes the damage of one attack: attacker strength reduced by half
// the defender's vitality (rounded down), plus a random swing of 0-2, floored
// at MinDamage.
func Damage(strength, vitality int, rng *rand.Rand) int {
	dmg := strength - vitality/2 + rng.Intn(damageSwing)
	if dmg < MinDamage {
		return MinDamage
	}
	return dmg
}
