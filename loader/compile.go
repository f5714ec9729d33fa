// Package loader loads Lua combat content into a content.Table.
// The Lua VM is discarded after loading; nothing runs Lua during play.
package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/seiyria/qivan/engine/content"
	"github.com/seiyria/qivan/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings reads an array of strings.
func getStrings(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// getStats reads a { Power = 3, Armor = 1 } table.
func getStats(tbl *lua.LTable, key string) map[types.Stat]int {
	t := getTable(tbl, key)
	if t == nil {
		return nil
	}
	m := map[types.Stat]int{}
	t.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		if n, ok := v.(lua.LNumber); ok {
			m[types.Stat(ks)] = int(n)
		}
	})
	return m
}

// forEachEntry walks an array of tables, failing on any non-table entry.
func forEachEntry(tbl *lua.LTable, key, owner string, fn func(*lua.LTable)) error {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	for i := 1; i <= arr.MaxN(); i++ {
		entry, ok := arr.RawGetInt(i).(*lua.LTable)
		if !ok {
			return fmt.Errorf("%s: %s[%d] must be a table", owner, key, i)
		}
		fn(entry)
	}
	return nil
}

// compile transforms collected Lua tables into a content table. Later
// duplicates are ignored here and reported by validate.
func compile(coll *collector) (*content.Table, error) {
	tbl := content.NewTable()

	for _, raw := range coll.abilities {
		if _, dup := tbl.Abilities[raw.name]; dup {
			continue
		}
		a, err := compileAbility(raw)
		if err != nil {
			return nil, err
		}
		tbl.Abilities[raw.name] = a
	}

	for _, raw := range coll.statusEffects {
		if _, dup := tbl.StatusEffects[raw.name]; dup {
			continue
		}
		tbl.StatusEffects[raw.name] = compileStatusEffect(raw)
	}

	for _, raw := range coll.enemies {
		if _, dup := tbl.Enemies[raw.name]; dup {
			continue
		}
		e, err := compileEnemy(raw)
		if err != nil {
			return nil, err
		}
		tbl.Enemies[raw.name] = e
	}

	for _, raw := range coll.items {
		if _, dup := tbl.Items[raw.name]; dup {
			continue
		}
		tbl.Items[raw.name] = compileItem(raw)
	}

	for _, raw := range coll.threats {
		if _, dup := tbl.Threats[raw.name]; dup {
			continue
		}
		tbl.Threats[raw.name] = compileThreat(raw)
	}

	return tbl, nil
}

func compileAbility(raw rawDef) (types.Ability, error) {
	t := raw.table
	a := types.Ability{
		Name:        raw.name,
		Description: getString(t, "description"),
		Icon:        getString(t, "icon"),
		Target:      types.TargetMode(getString(t, "target")),
		Type:        types.SkillType(getString(t, "type")),
		EnergyCost:  getInt(t, "energyCost"),
		Cooldown:    getInt(t, "cooldown"),
		Requires:    getStats(t, "requires"),
		Replaces:    getString(t, "replaces"),
	}
	if a.Type == "" {
		a.Type = types.SkillPhysical
	}

	owner := fmt.Sprintf("ability %q", raw.name)
	err := forEachEntry(t, "stats", owner, func(e *lua.LTable) {
		a.Stats = append(a.Stats, types.StatContribution{
			Stat:       types.Stat(getString(e, "stat")),
			Multiplier: getNumber(e, "multiplier"),
			Variance:   getInt(e, "variance"),
		})
	})
	if err != nil {
		return types.Ability{}, err
	}

	err = forEachEntry(t, "effects", owner, func(e *lua.LTable) {
		a.Effects = append(a.Effects, types.AbilityEffect{
			Effect:     getString(e, "effect"),
			EffectName: getString(e, "effectName"),
		})
	})
	if err != nil {
		return types.Ability{}, err
	}
	return a, nil
}

func compileStatusEffect(raw rawDef) types.StatusEffect {
	t := raw.table
	se := types.StatusEffect{
		Name:              raw.name,
		Description:       getString(t, "description"),
		Icon:              getString(t, "icon"),
		Color:             getString(t, "color"),
		Kind:              types.StatusEffectKind(getString(t, "kind")),
		StatModifications: getStats(t, "statModifications"),
		DamageOverTime:    getInt(t, "damageOverTime"),
		TurnsLeft:         getInt(t, "turns"),
	}
	if se.Kind == "" {
		se.Kind = types.StatusStatModification
		if se.DamageOverTime != 0 {
			se.Kind = types.StatusDamageOverTime
		}
	}
	return se
}

func compileEnemy(raw rawDef) (types.EnemyDef, error) {
	t := raw.table
	e := types.EnemyDef{
		Name:       raw.name,
		Icon:       getString(t, "icon"),
		Stats:      getStats(t, "stats"),
		Abilities:  getStrings(t, "abilities"),
		Health:     getInt(t, "health"),
		Energy:     getInt(t, "energy"),
		Speed:      getInt(t, "speed"),
		IdleChance: getInt(t, "idleChance"),
	}
	err := forEachEntry(t, "drops", fmt.Sprintf("enemy %q", raw.name), func(d *lua.LTable) {
		drop := types.Drop{
			Resource: getString(d, "resource"),
			Item:     getString(d, "item"),
			Amount:   getInt(d, "amount"),
		}
		if drop.Amount == 0 {
			drop.Amount = 1
		}
		e.Drops = append(e.Drops, drop)
	})
	if err != nil {
		return types.EnemyDef{}, err
	}
	return e, nil
}

func compileItem(raw rawDef) types.Item {
	t := raw.table
	return types.Item{
		Name:      raw.name,
		Icon:      getString(t, "icon"),
		Stats:     getStats(t, "stats"),
		Abilities: getStrings(t, "abilities"),
		Uses:      getInt(t, "uses"),
	}
}

func compileThreat(raw rawDef) types.Threat {
	t := raw.table
	return types.Threat{
		Name:        raw.name,
		Icon:        getString(t, "icon"),
		Description: getString(t, "description"),
		MinLevel:    getInt(t, "minLevel"),
		MaxLevel:    getInt(t, "maxLevel"),
		Enemies:     getStrings(t, "enemies"),
	}
}
