package game

// AttackPower is the strength of an attack. Values are totally ordered.
type AttackPower uint8

const (
	AttackBasic AttackPower = iota + 1
	AttackArmorPiercing
	AttackProtectionPiercing
)

// DefensePower is the strength of a defense. Values are totally ordered.
type DefensePower uint8

const (
	DefenseNone DefensePower = iota
	DefenseArmor
	DefenseProtection
	DefenseInvincible
)

// Pierces reports whether the attack beats the defense: its ordinal must be
// strictly greater. Nothing pierces DefenseInvincible.
func (a AttackPower) Pierces(d DefensePower) bool {
	return uint8(a) > uint8(d)
}

// Blocks is the converse of AttackPower.Pierces.
func (d DefensePower) Blocks(a AttackPower) bool {
	return !a.Pierces(d)
}

func maxDefense(a, b DefensePower) DefensePower {
	if a > b {
		return a
	}
	return b
}

func (a AttackPower) String() string {
	switch a {
	case AttackBasic:
		return "basic"
	case AttackArmorPiercing:
		return "armor_piercing"
	case AttackProtectionPiercing:
		return "protection_piercing"
	}
	return "unknown"
}

func (d DefensePower) String() string {
	switch d {
	case DefenseNone:
		return "none"
	case DefenseArmor:
		return "armor"
	case DefenseProtection:
		return "protection"
	case DefenseInvincible:
		return "invincible"
	}
	return "unknown"
}
