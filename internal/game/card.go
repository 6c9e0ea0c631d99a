package game

import "time"

// IsOnCooldown reports whether the card is still locked out at now.
func (c *Card) IsOnCooldown(now time.Time) bool {
	return c.CooldownUntil != nil && now.Before(*c.CooldownUntil)
}

func (c *Card) IsAlive() bool { return c.CurrentHP > 0 }

// CanBattle reports whether the card may be fielded at now.
func (c *Card) CanBattle(now time.Time) bool {
	return !c.IsDestroyed && !c.IsOnCooldown(now)
}

// Power is the card's contribution to deck power.
func (c *Card) Power() int { return c.Attack + c.HP }

// HasAbility reports whether the card carries a skill.
func (c *Card) HasAbility() bool { return c.Ability != nil && *c.Ability != "" }

// TakeDamage lowers CurrentHP by n, never below zero, and returns the HP
// actually lost.
func (c *Card) TakeDamage(n int) int {
	if n <= 0 {
		return 0
	}
	if n > c.CurrentHP {
		n = c.CurrentHP
	}
	c.CurrentHP -= n
	return n
}

// Heal raises CurrentHP by n, never above HP, and returns the HP restored.
func (c *Card) Heal(n int) int {
	if n <= 0 {
		return 0
	}
	if c.CurrentHP+n > c.HP {
		n = c.HP - c.CurrentHP
	}
	c.CurrentHP += n
	return n
}

// SetCurrentHP stores hp clamped to [0, HP].
func (c *Card) SetCurrentHP(hp int) {
	switch {
	case hp < 0:
		hp = 0
	case hp > c.HP:
		hp = c.HP
	}
	c.CurrentHP = hp
}

// Retire soft-deletes the card from play.
func (c *Card) Retire() {
	c.IsDestroyed = true
	c.IsInDeck = false
}
