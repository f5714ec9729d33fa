// Package state tracks per-character combat resources: health and energy
// with clamping, ability cooldowns, and effective stats layered from base
// stats plus active stat-modification effects.
package state

import "github.com/seiyria/qivan/types"

// NewEnemy builds a fresh combat character from an enemy template.
// Enemies enter at full health and zero energy.
func NewEnemy(def types.EnemyDef) *types.Character {
	stats := make(map[types.Stat]int, len(def.Stats))
	for k, v := range def.Stats {
		stats[k] = v
	}
	return &types.Character{
		Name:          def.Name,
		Icon:          def.Icon,
		Stats:         stats,
		Abilities:     append([]string(nil), def.Abilities...),
		CurrentHealth: def.Health,
		MaxHealth:     def.Health,
		MaxEnergy:     def.Energy,
		CurrentSpeed:  def.Speed,
		IdleChance:    def.IdleChance,
		Drops:         append([]types.Drop(nil), def.Drops...),
		StatusEffects: []types.StatusEffect{},
		Cooldowns:     map[int]int{},
	}
}

// NewPlayer builds the player character at full health and zero energy.
func NewPlayer(name string, health, energy int, stats map[types.Stat]int, abilities []string) *types.Character {
	c := &types.Character{
		Name:      name,
		Stats:     make(map[types.Stat]int, len(stats)),
		Abilities: append([]string(nil), abilities...),
		MaxHealth: health,
		MaxEnergy: energy,
	}
	for k, v := range stats {
		c.Stats[k] = v
	}
	ResetPlayer(c)
	return c
}

// Clone returns a deep copy of a character.
func Clone(c *types.Character) *types.Character {
	out := *c
	out.Stats = make(map[types.Stat]int, len(c.Stats))
	for k, v := range c.Stats {
		out.Stats[k] = v
	}
	out.Abilities = append([]string(nil), c.Abilities...)
	out.Drops = append([]types.Drop(nil), c.Drops...)
	out.StatusEffects = make([]types.StatusEffect, len(c.StatusEffects))
	for i, eff := range c.StatusEffects {
		mods := make(map[types.Stat]int, len(eff.StatModifications))
		for k, v := range eff.StatModifications {
			mods[k] = v
		}
		eff.StatModifications = mods
		out.StatusEffects[i] = eff
	}
	out.Cooldowns = make(map[int]int, len(c.Cooldowns))
	for k, v := range c.Cooldowns {
		out.Cooldowns[k] = v
	}
	return &out
}

// ResetPlayer restores full health, empties energy, and clears cooldowns
// and status effects.
func ResetPlayer(c *types.Character) {
	c.CurrentHealth = c.MaxHealth
	c.CurrentEnergy = 0
	c.Cooldowns = map[int]int{}
	c.StatusEffects = []types.StatusEffect{}
}

// EffectiveStats returns base stats plus every active stat modification.
func EffectiveStats(c *types.Character) map[types.Stat]int {
	out := make(map[types.Stat]int, len(c.Stats))
	for k, v := range c.Stats {
		out[k] = v
	}
	for _, eff := range c.StatusEffects {
		if eff.Kind != types.StatusStatModification {
			continue
		}
		for stat, mod := range eff.StatModifications {
			out[stat] += mod
		}
	}
	return out
}

// GetStat returns the effective value of one stat. Unset stats are 0.
func GetStat(c *types.Character, stat types.Stat) int {
	return EffectiveStats(c)[stat]
}

// Cooldown returns the turns remaining on an ability slot.
func Cooldown(c *types.Character, slot int) int {
	return c.Cooldowns[slot]
}

// CanAct is true iff the slot is off cooldown and the character can pay
// the ability's energy cost.
func CanAct(c *types.Character, slot int, ability types.Ability) bool {
	return Cooldown(c, slot) <= 0 && c.CurrentEnergy >= ability.EnergyCost
}

// MeetsRequirements reports whether the character's effective stats reach
// every threshold the ability requires.
func MeetsRequirements(c *types.Character, ability types.Ability) bool {
	if len(ability.Requires) == 0 {
		return true
	}
	stats := EffectiveStats(c)
	for stat, need := range ability.Requires {
		if stats[stat] < need {
			return false
		}
	}
	return true
}

// SetCooldown puts a slot on cooldown. Negative slots (items) never cool down.
func SetCooldown(c *types.Character, slot, turns int) {
	if slot < 0 {
		return
	}
	if c.Cooldowns == nil {
		c.Cooldowns = map[int]int{}
	}
	if turns <= 0 {
		delete(c.Cooldowns, slot)
		return
	}
	c.Cooldowns[slot] = turns
}

// LowerCooldowns decrements every active cooldown by one turn, never below zero.
func LowerCooldowns(c *types.Character) {
	for slot, turns := range c.Cooldowns {
		if turns <= 1 {
			delete(c.Cooldowns, slot)
			continue
		}
		c.Cooldowns[slot] = turns - 1
	}
}

// AddHealth applies a health change clamped to [0, MaxHealth].
// Returns the new current health.
func AddHealth(c *types.Character, amount int) int {
	c.CurrentHealth = clamp(c.CurrentHealth+amount, 0, c.MaxHealth)
	return c.CurrentHealth
}

// AddEnergy applies an energy change clamped to [0, MaxEnergy].
// Returns the new current energy.
func AddEnergy(c *types.Character, amount int) int {
	c.CurrentEnergy = clamp(c.CurrentEnergy+amount, 0, c.MaxEnergy)
	return c.CurrentEnergy
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
