// Package status manages the status effects attached to a character.
package status

import (
	"github.com/seiyria/qivan/engine/state"
	"github.com/seiyria/qivan/types"
)

// Tick describes what one status effect did during a turn tick.
type Tick struct {
	Name    string
	Damage  int
	Expired bool
}

// Apply attaches a status effect. Effects stack; no dedup is performed.
func Apply(c *types.Character, eff types.StatusEffect) {
	c.StatusEffects = append(c.StatusEffects, eff)
}

// Remove detaches the first effect with the given name.
// Returns false if no such effect is attached.
func Remove(c *types.Character, name string) bool {
	for i, eff := range c.StatusEffects {
		if eff.Name == name {
			c.StatusEffects = append(c.StatusEffects[:i], c.StatusEffects[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether an effect with the given name is attached.
func Has(c *types.Character, name string) bool {
	for _, eff := range c.StatusEffects {
		if eff.Name == name {
			return true
		}
	}
	return false
}

// Clear drops every status effect.
func Clear(c *types.Character) {
	c.StatusEffects = []types.StatusEffect{}
}

// TickAll advances every effect by one turn in attachment order: damage over
// time is applied to current health (clamped), turns are decremented, and
// effects reaching zero turns are dropped.
func TickAll(c *types.Character) []Tick {
	var ticks []Tick
	kept := c.StatusEffects[:0]
	for _, eff := range c.StatusEffects {
		t := Tick{Name: eff.Name}
		if eff.Kind == types.StatusDamageOverTime && eff.DamageOverTime != 0 {
			before := c.CurrentHealth
			state.AddHealth(c, -eff.DamageOverTime)
			t.Damage = before - c.CurrentHealth
		}
		eff.TurnsLeft--
		if eff.TurnsLeft <= 0 {
			t.Expired = true
		} else {
			kept = append(kept, eff)
		}
		ticks = append(ticks, t)
	}
	c.StatusEffects = kept
	return ticks
}
