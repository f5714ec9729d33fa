package loader

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/seiyria/qivan/engine/content"
	"github.com/seiyria/qivan/engine/resolve"
	"github.com/seiyria/qivan/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

var validTargets = map[types.TargetMode]bool{
	types.TargetSingle:     true,
	types.TargetSelf:       true,
	types.TargetAllEnemies: true,
	types.TargetAll:        true,
	types.TargetAlly:       true,
}

var validStats = map[types.Stat]bool{
	types.StatPower:     true,
	types.StatForce:     true,
	types.StatArmor:     true,
	types.StatHealing:   true,
	types.StatHealth:    true,
	types.StatEnergy:    true,
	types.StatSpeed:     true,
	types.StatToughness: true,
}

// validate checks the compiled table for referential integrity and consistency.
func validate(coll *collector, tbl *content.Table) error {
	ve := &ValidationError{}

	checkDuplicates("ability", coll.abilities, ve)
	checkDuplicates("status effect", coll.statusEffects, ve)
	checkDuplicates("enemy", coll.enemies, ve)
	checkDuplicates("item", coll.items, ve)
	checkDuplicates("threat", coll.threats, ve)

	for _, name := range sortedKeys(tbl.Abilities) {
		validateAbility(tbl.Abilities[name], tbl, ve)
	}

	for _, name := range sortedKeys(tbl.StatusEffects) {
		se := tbl.StatusEffects[name]
		switch se.Kind {
		case types.StatusStatModification, types.StatusDamageOverTime:
		default:
			ve.errorf("status effect %q has unknown kind %q", name, se.Kind)
		}
		if se.TurnsLeft <= 0 {
			ve.errorf("status effect %q must last at least one turn", name)
		}
		checkStats(fmt.Sprintf("status effect %q", name), se.StatModifications, ve)
	}

	for _, name := range sortedKeys(tbl.Enemies) {
		en := tbl.Enemies[name]
		owner := fmt.Sprintf("enemy %q", name)
		if en.Health <= 0 {
			ve.errorf("%s must have positive health", owner)
		}
		if en.IdleChance < 0 || en.IdleChance > 100 {
			ve.errorf("%s idleChance %d is outside 0..100", owner, en.IdleChance)
		}
		checkStats(owner, en.Stats, ve)
		checkAbilityRefs(owner, en.Abilities, tbl, ve)
		for _, d := range en.Drops {
			if d.Resource == "" && d.Item == "" {
				ve.errorf("%s has a drop with neither resource nor item", owner)
			}
			if d.Item != "" {
				if _, ok := tbl.Items[d.Item]; !ok {
					ve.warnf("%s drops %q, which is not a defined item", owner, d.Item)
				}
			}
		}
	}

	for _, name := range sortedKeys(tbl.Items) {
		it := tbl.Items[name]
		owner := fmt.Sprintf("item %q", name)
		if len(it.Abilities) == 0 {
			ve.errorf("%s has no abilities", owner)
		}
		if it.Uses <= 0 {
			ve.warnf("%s has no uses", owner)
		}
		checkStats(owner, it.Stats, ve)
		checkAbilityRefs(owner, it.Abilities, tbl, ve)
	}

	for _, name := range sortedKeys(tbl.Threats) {
		th := tbl.Threats[name]
		if len(th.Enemies) == 0 {
			ve.errorf("threat %q has no enemies", name)
		}
		for _, en := range th.Enemies {
			if _, ok := tbl.Enemies[en]; !ok {
				ve.errorf("threat %q references undefined enemy %q", name, en)
			}
		}
	}

	for _, w := range ve.Warnings {
		slog.Warn("content warning", "detail", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateAbility(a types.Ability, tbl *content.Table, ve *ValidationError) {
	owner := fmt.Sprintf("ability %q", a.Name)

	if !validTargets[a.Target] {
		ve.errorf("%s has invalid target %q", owner, a.Target)
	} else if a.Target == types.TargetAlly {
		ve.warnf("%s targets Ally, which can never be used", owner)
	}
	switch a.Type {
	case types.SkillPhysical, types.SkillMagical:
	default:
		ve.errorf("%s has unknown type %q", owner, a.Type)
	}
	if a.EnergyCost < 0 || a.Cooldown < 0 {
		ve.errorf("%s has a negative energy cost or cooldown", owner)
	}
	if len(a.Effects) == 0 {
		ve.errorf("%s has no effects", owner)
	}

	for _, c := range a.Stats {
		if !validStats[c.Stat] {
			ve.errorf("%s uses unknown stat %q", owner, c.Stat)
		}
		if c.Variance < 0 {
			ve.errorf("%s has negative variance on %s", owner, c.Stat)
		}
	}
	checkStats(owner, a.Requires, ve)

	for _, eff := range a.Effects {
		if !resolve.Known(eff.Effect) {
			ve.errorf("%s uses unknown effect %q", owner, eff.Effect)
		}
		// ApplyEffect without a status effect is a message-only cast.
		if eff.EffectName != "" {
			if _, ok := tbl.StatusEffects[eff.EffectName]; !ok {
				ve.errorf("%s references undefined status effect %q", owner, eff.EffectName)
			}
		}
	}

	if a.Replaces != "" {
		if _, ok := tbl.Abilities[a.Replaces]; !ok {
			ve.warnf("%s replaces undefined ability %q", owner, a.Replaces)
		}
	}
}

func checkDuplicates(kind string, defs []rawDef, ve *ValidationError) {
	seen := map[string]string{}
	for _, d := range defs {
		if first, ok := seen[d.name]; ok {
			ve.errorf("duplicate %s %q (%s, first defined in %s)", kind, d.name, d.file, first)
			continue
		}
		seen[d.name] = d.file
	}
}

func checkStats(owner string, stats map[types.Stat]int, ve *ValidationError) {
	for _, s := range sortedKeys(stats) {
		if !validStats[s] {
			ve.errorf("%s uses unknown stat %q", owner, s)
		}
	}
}

func checkAbilityRefs(owner string, names []string, tbl *content.Table, ve *ValidationError) {
	for _, n := range names {
		if _, ok := tbl.Abilities[n]; !ok {
			ve.errorf("%s references undefined ability %q", owner, n)
		}
	}
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
