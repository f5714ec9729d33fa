package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Ability "name" { ... } - curried: Ability("name") returns a function
	// that takes the definition table.
	L.SetGlobal("Ability", curried(L, coll, &coll.abilities))

	// StatusEffect "name" { kind = "DamageOverTime", ... }
	L.SetGlobal("StatusEffect", curried(L, coll, &coll.statusEffects))

	// Enemy "name" { health = 10, stats = { ... }, ... }
	L.SetGlobal("Enemy", curried(L, coll, &coll.enemies))

	// Item "name" { uses = 3, abilities = { ... }, ... }
	L.SetGlobal("Item", curried(L, coll, &coll.items))

	// Threat "name" { enemies = { "Rat", "Rat" } }
	L.SetGlobal("Threat", curried(L, coll, &coll.threats))
}

func curried(L *lua.LState, coll *collector, dst *[]rawDef) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.add(dst, name, tbl)
			return 0
		}))
		return 1
	})
}
