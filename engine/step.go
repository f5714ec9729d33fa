package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/seiyria/qivan/engine/parser"
	"github.com/seiyria/qivan/engine/state"
	"github.com/seiyria/qivan/engine/targeting"
	"github.com/seiyria/qivan/types"
)

// HelpText lists the commands Step understands.
var HelpText = []string{
	"attack [n]            basic attack (ability slot 0) on enemy n",
	"use <slot> [on] <t>   use an ability; t is an enemy number or 'self'",
	"item <slot> [on] <t>  use an active item",
	"escape                flee the fight",
	"wait                  let the enemies act",
	"tick                  advance status effects",
	"status                show the fight",
}

// Step parses one command and runs it. Ability and item commands play a
// full round: the player's action, the enemies' turn, then a status tick.
func (e *Engine) Step(ctx context.Context, input string) (types.Result, error) {
	cmd, err := parser.Parse(input)
	if err != nil {
		return types.Result{Output: []string{"I don't understand that: " + err.Error()}}, nil
	}

	switch cmd.Verb {
	case "":
		return types.Result{Output: []string{"What do you want to do?"}}, nil

	case parser.VerbHelp:
		return types.Result{Accepted: true, Output: HelpText}, nil

	case parser.VerbStatus:
		return types.Result{Accepted: true, Output: e.Describe()}, nil

	case parser.VerbEscape:
		return e.single(ctx, Escape{}, "You can't escape right now.")

	case parser.VerbTick:
		return e.single(ctx, TickStatusEffects{}, "Nothing to tick.")

	case parser.VerbWait:
		if e.Phase() == PhaseNoEncounter {
			return types.Result{Output: []string{"You are not in combat."}}, nil
		}
		return e.round(ctx, nil)

	case parser.VerbUse, parser.VerbItem:
		if e.Phase() == PhaseNoEncounter {
			return types.Result{Output: []string{"You are not in combat."}}, nil
		}
		item := cmd.Verb == parser.VerbItem
		target := cmd.Target
		if !cmd.HasTarget {
			target = e.defaultTarget(cmd.Slot, item)
		}
		return e.round(ctx, Use{Slot: cmd.Slot, Item: item, Target: target})

	default:
		return types.Result{Output: []string{fmt.Sprintf("Unknown command %q. Type 'help' for a list.", cmd.Verb)}}, nil
	}
}

func (e *Engine) single(ctx context.Context, a Action, refused string) (types.Result, error) {
	res, err := e.Dispatch(ctx, a)
	if err != nil {
		return res, err
	}
	if !res.Accepted {
		res.Output = append(res.Output, refused)
	}
	return res, nil
}

// round runs the player's action (if any), then the enemy turn and a status
// tick while the encounter stays active.
func (e *Engine) round(ctx context.Context, player Action) (types.Result, error) {
	var total types.Result
	if player != nil {
		res, err := e.Dispatch(ctx, player)
		if err != nil {
			return total, err
		}
		if !res.Accepted {
			return types.Result{Output: []string{"You can't do that right now."}}, nil
		}
		merge(&total, res)
	}

	for _, a := range []Action{EnemyTurn{}, TickStatusEffects{}} {
		if e.Phase() != PhaseActive {
			break
		}
		res, err := e.Dispatch(ctx, a)
		if err != nil {
			return total, err
		}
		merge(&total, res)
	}
	total.Accepted = true
	return total, nil
}

func merge(dst *types.Result, src types.Result) {
	dst.Log = append(dst.Log, src.Log...)
	dst.Output = append(dst.Output, src.Output...)
	dst.Events = append(dst.Events, src.Events...)
	if src.Outcome != nil {
		dst.Outcome = src.Outcome
	}
}

// defaultTarget aims at the caster for Self abilities and at the first
// legal enemy otherwise.
func (e *Engine) defaultTarget(slot int, item bool) targeting.Target {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.enc == nil {
		return targeting.Self()
	}

	var name string
	switch {
	case item && slot >= 0 && slot < len(e.items) && len(e.items[slot].Abilities) > 0:
		name = e.items[slot].Abilities[0]
	case !item && slot >= 0 && slot < len(e.player.Abilities):
		name = e.player.Abilities[slot]
	default:
		return targeting.Self()
	}
	ab, err := e.content.Ability(name)
	if err != nil {
		return targeting.Self()
	}
	if legal := targeting.LegalTargets(ab.Target, e.enc, e.player); len(legal) > 0 {
		return legal[0]
	}
	return targeting.Self()
}

// Describe renders the player, the enemy roster, abilities and items as text.
func (e *Engine) Describe() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []string
	out = append(out, describeCharacter(e.player))
	if e.enc == nil {
		out = append(out, "You are not in combat.")
	} else {
		for i, en := range e.enc.Enemies {
			out = append(out, fmt.Sprintf("  %d. %s", i+1, describeCharacter(en)))
		}
		if e.enc.IsLocked {
			out = append(out, "The fight is ending...")
		}
	}

	for slot, name := range e.player.Abilities {
		line := fmt.Sprintf("  [%d] %s", slot, name)
		if cd := state.Cooldown(e.player, slot); cd > 0 {
			line += fmt.Sprintf(" (cooldown %d)", cd)
		}
		out = append(out, line)
	}
	for slot, it := range e.items {
		out = append(out, fmt.Sprintf("  item %d: %s x%d", slot, it.Name, it.Uses))
	}
	if e.skillPoints > 0 {
		out = append(out, fmt.Sprintf("Skill points: %d", e.skillPoints))
	}
	return out
}

func describeCharacter(c *types.Character) string {
	s := fmt.Sprintf("%s  HP %d/%d  EN %d/%d", c.Name, c.CurrentHealth, c.MaxHealth, c.CurrentEnergy, c.MaxEnergy)
	if c.Defeated() {
		s += "  (defeated)"
	}
	if len(c.StatusEffects) > 0 {
		names := make([]string, len(c.StatusEffects))
		for i, eff := range c.StatusEffects {
			names[i] = fmt.Sprintf("%s:%d", eff.Name, eff.TurnsLeft)
		}
		s += "  [" + strings.Join(names, ", ") + "]"
	}
	return s
}
