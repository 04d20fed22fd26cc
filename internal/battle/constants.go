package battle

const (
	// MinDamage is the floor every landed attack deals, even against a
	// defender whose vitality outclasses the attacker.
	MinDamage = 1

	// damageSwing is the exclusive upper bound of the random damage bonus.
	damageSwing = 3
)
