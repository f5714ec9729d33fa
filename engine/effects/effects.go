// Package effects implements centralized state mutation via the Apply function.
// Every delta variant is one atomic operation. No logic in effects.
package effects

import (
	"fmt"

	"github.com/seiyria/qivan/engine/state"
	"github.com/seiyria/qivan/engine/status"
	"github.com/seiyria/qivan/types"
)

// Event type names emitted by Apply.
const (
	EventDamage          = "damage"
	EventHeal            = "heal"
	EventEnergyChanged   = "energy_changed"
	EventStatusApplied   = "status_applied"
	EventStatusRemoved   = "status_removed"
	EventCooldownSet     = "cooldown_set"
	EventCharacterDowned = "character_defeated"
)

// Bindings maps delta roles to the characters they land on.
type Bindings struct {
	Source *types.Character
	Target *types.Character
}

func (b Bindings) resolve(r types.Role) (*types.Character, error) {
	c := b.Target
	if r == types.RoleSource {
		c = b.Source
	}
	if c == nil {
		return nil, fmt.Errorf("no character bound to role %s", r)
	}
	return c, nil
}

// Apply applies a list of deltas to the bound characters, mutating them.
// Returns the events emitted. An unknown delta variant is an error and stops
// application at that delta.
func Apply(b Bindings, deltas []types.Delta) ([]types.Event, error) {
	var events []types.Event

	for _, d := range deltas {
		c, err := b.resolve(d.On())
		if err != nil {
			return events, err
		}

		switch d := d.(type) {
		case types.HealthDelta:
			wasAlive := !c.Defeated()
			before := c.CurrentHealth
			after := state.AddHealth(c, d.Amount)
			typ := EventHeal
			if d.Amount < 0 {
				typ = EventDamage
			}
			events = append(events, types.Event{
				Type: typ,
				Data: map[string]any{"target": c.Name, "amount": abs(after - before), "remaining": after},
			})
			if wasAlive && c.Defeated() {
				events = append(events, types.Event{
					Type: EventCharacterDowned,
					Data: map[string]any{"target": c.Name},
				})
			}

		case types.EnergyDelta:
			after := state.AddEnergy(c, d.Amount)
			events = append(events, types.Event{
				Type: EventEnergyChanged,
				Data: map[string]any{"target": c.Name, "amount": d.Amount, "current": after},
			})

		case types.ApplyStatus:
			status.Apply(c, d.Effect)
			events = append(events, types.Event{
				Type: EventStatusApplied,
				Data: map[string]any{"target": c.Name, "effect": d.Effect.Name},
			})

		case types.RemoveStatus:
			if status.Remove(c, d.Name) {
				events = append(events, types.Event{
					Type: EventStatusRemoved,
					Data: map[string]any{"target": c.Name, "effect": d.Name},
				})
			}

		case types.SetCooldown:
			state.SetCooldown(c, d.Slot, d.Turns)
			events = append(events, types.Event{
				Type: EventCooldownSet,
				Data: map[string]any{"target": c.Name, "slot": d.Slot, "turns": d.Turns},
			})

		default:
			return events, fmt.Errorf("unknown delta %T", d)
		}
	}

	return events, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
