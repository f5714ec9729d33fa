package engine

import (
	"slices"

	"github.com/seiyria/qivan/engine/combatlog"
	"github.com/seiyria/qivan/engine/effects"
	"github.com/seiyria/qivan/engine/resolve"
	"github.com/seiyria/qivan/engine/state"
	"github.com/seiyria/qivan/engine/status"
	"github.com/seiyria/qivan/engine/targeting"
	"github.com/seiyria/qivan/types"
)

// basicAttack is what an enemy does when none of its abilities is ready.
var basicAttack = types.Ability{
	Name:    "Attack",
	Target:  types.TargetSingle,
	Type:    types.SkillPhysical,
	Stats:   []types.StatContribution{{Stat: types.StatPower, Multiplier: 1}},
	Effects: []types.AbilityEffect{{Effect: "BasicAttack"}},
}

// usage is who acts, with which stats, and what the action costs.
type usage struct {
	source     *types.Character
	label      string
	stats      map[types.Stat]int
	allowBonus bool
	slot       int // cooldown slot, negative for items
	cost       int
	cooldown   int
}

// hit is one ability aimed at one character.
type hit struct {
	ability types.Ability
	target  *types.Character
}

// staged is a resolved hit waiting to be committed.
type staged struct {
	target *types.Character
	res    resolve.Resolution
}

// use runs a full player turn for an ability slot or an item slot. Every
// ability of the selection fans out from the same chosen target; the deltas
// of all abilities are resolved first and committed together, in ability
// order. If any ability cannot reach its targets nothing is applied.
func (e *Engine) use(a Use) (types.Result, error) {
	if e.enc == nil {
		return e.reject(a, "no encounter")
	}
	if e.enc.IsLocked {
		return e.reject(a, "encounter locked")
	}
	if e.player.Defeated() {
		return e.reject(a, "player defeated")
	}

	u, abilities, reason, err := e.selection(a)
	if err != nil {
		return types.Result{}, err
	}
	if reason != "" {
		return e.reject(a, reason, "slot", a.Slot, "item", a.Item)
	}

	if err := targeting.Validate(abilities[0].Target, e.enc, e.player, a.Target); err != nil {
		return e.reject(a, err.Error())
	}
	var hits []hit
	for _, ab := range abilities {
		targets, err := targeting.FanOut(ab.Target, e.enc, e.player, a.Target)
		if err != nil {
			return e.reject(a, err.Error(), "ability", ab.Name)
		}
		for _, t := range targets {
			hits = append(hits, hit{ability: ab, target: e.character(t)})
		}
	}

	batch, err := e.stage(u, hits)
	if err != nil {
		return types.Result{}, err
	}

	var buf combatlog.Buffer
	state.LowerCooldowns(e.player)
	if a.Item {
		buf.Add(combatlog.UsedItem(e.player.Name, u.label))
		e.items[a.Slot].Uses--
	}
	evts, escape, err := e.commit(u, batch, &buf)
	if err != nil {
		return types.Result{}, err
	}
	evts = append(evts, e.afterBatch(escape, &buf)...)
	return types.Result{Accepted: true, Log: buf.Commit(e.enc), Events: evts}, nil
}

// selection looks up the abilities behind a Use and gates them on
// cooldown, energy, requirements and item charges. A non-empty reason
// means the action is illegal.
func (e *Engine) selection(a Use) (usage, []types.Ability, string, error) {
	if !a.Item {
		if a.Slot < 0 || a.Slot >= len(e.player.Abilities) {
			return usage{}, nil, "no ability in slot", nil
		}
		ab, err := e.content.Ability(e.player.Abilities[a.Slot])
		if err != nil {
			return usage{}, nil, "", err
		}
		if !state.CanAct(e.player, a.Slot, ab) {
			return usage{}, nil, "ability not ready", nil
		}
		if !state.MeetsRequirements(e.player, ab) {
			return usage{}, nil, "requirements not met", nil
		}
		return usage{
			source:     e.player,
			label:      ab.Name,
			stats:      state.EffectiveStats(e.player),
			allowBonus: true,
			slot:       a.Slot,
			cost:       ab.EnergyCost,
			cooldown:   ab.Cooldown,
		}, []types.Ability{ab}, "", nil
	}

	if a.Slot < 0 || a.Slot >= len(e.items) {
		return usage{}, nil, "no item in slot", nil
	}
	item := e.items[a.Slot]
	if item.Uses <= 0 {
		return usage{}, nil, "item used up", nil
	}
	if len(item.Abilities) == 0 {
		return usage{}, nil, "item has no abilities", nil
	}
	abilities := make([]types.Ability, 0, len(item.Abilities))
	cost := 0
	for _, name := range item.Abilities {
		ab, err := e.content.Ability(name)
		if err != nil {
			return usage{}, nil, "", err
		}
		abilities = append(abilities, ab)
		cost += ab.EnergyCost
	}
	if e.player.CurrentEnergy < cost {
		return usage{}, nil, "not enough energy", nil
	}
	return usage{
		source: e.player,
		label:  item.Name,
		stats:  copyStats(item.Stats),
		slot:   -1,
		cost:   cost,
	}, abilities, "", nil
}

func (e *Engine) targetEnemy(a TargetEnemy) (types.Result, error) {
	return e.targetOne(a, a.Ability, a.Slot, a.FromItem, targeting.Enemy(a.Index))
}

func (e *Engine) targetSelf(a TargetSelf) (types.Result, error) {
	return e.targetOne(a, a.Ability, a.Slot, a.FromItem, targeting.Self())
}

// targetOne resolves a single ability against a single target. It does not
// fan out or lower cooldowns. The slot must hold the named ability; an item
// slot spends one charge.
func (e *Engine) targetOne(a Action, name string, slot int, fromItem bool, t targeting.Target) (types.Result, error) {
	if e.enc == nil {
		return e.reject(a, "no encounter")
	}
	if e.enc.IsLocked {
		return e.reject(a, "encounter locked")
	}
	if e.player.Defeated() {
		return e.reject(a, "player defeated")
	}
	ab, err := e.content.Ability(name)
	if err != nil {
		return types.Result{}, err
	}

	u := usage{source: e.player, label: ab.Name, cost: ab.EnergyCost}
	if fromItem {
		if slot < 0 || slot >= len(e.items) {
			return e.reject(a, "no item in slot", "slot", slot)
		}
		item := e.items[slot]
		if item.Uses <= 0 {
			return e.reject(a, "item used up", "slot", slot)
		}
		if !slices.Contains(item.Abilities, name) {
			return e.reject(a, "item lacks ability", "slot", slot, "ability", name)
		}
		u.stats = copyStats(item.Stats)
		u.slot = -1
		if e.player.CurrentEnergy < u.cost {
			return e.reject(a, "not enough energy")
		}
	} else {
		if slot < 0 || slot >= len(e.player.Abilities) || e.player.Abilities[slot] != name {
			return e.reject(a, "ability not in slot", "slot", slot, "ability", name)
		}
		if !state.CanAct(e.player, slot, ab) {
			return e.reject(a, "ability not ready", "slot", slot)
		}
		if !state.MeetsRequirements(e.player, ab) {
			return e.reject(a, "requirements not met", "slot", slot)
		}
		u.stats = state.EffectiveStats(e.player)
		u.allowBonus = true
		u.slot = slot
		u.cooldown = ab.Cooldown
	}

	if err := targeting.Validate(ab.Target, e.enc, e.player, t); err != nil {
		return e.reject(a, err.Error())
	}

	batch, err := e.stage(u, []hit{{ability: ab, target: e.character(t)}})
	if err != nil {
		return types.Result{}, err
	}
	var buf combatlog.Buffer
	if fromItem {
		e.items[slot].Uses--
	}
	evts, escape, err := e.commit(u, batch, &buf)
	if err != nil {
		return types.Result{}, err
	}
	evts = append(evts, e.afterBatch(escape, &buf)...)
	return types.Result{Accepted: true, Log: buf.Commit(e.enc), Events: evts}, nil
}

// stage resolves every hit without touching state.
func (e *Engine) stage(u usage, hits []hit) ([]staged, error) {
	out := make([]staged, 0, len(hits))
	for _, h := range hits {
		res, err := e.resolver.Resolve(resolve.Params{
			Ability:         h.ability,
			Source:          u.source,
			Target:          h.target,
			UseStats:        u.stats,
			AllowBonusStats: u.allowBonus,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, staged{target: h.target, res: res})
	}
	return out, nil
}

// commit pays the cost, applies every staged resolution in order and logs
// characters the batch defeated. It reports whether any resolution asked
// to escape.
func (e *Engine) commit(u usage, batch []staged, buf *combatlog.Buffer) ([]types.Event, bool, error) {
	alive := e.livingCombatants()

	var cost []types.Delta
	if u.cost > 0 {
		cost = append(cost, types.EnergyDelta{Who: types.RoleSource, Amount: -u.cost})
	}
	if u.slot >= 0 && u.cooldown > 0 {
		cost = append(cost, types.SetCooldown{Who: types.RoleSource, Slot: u.slot, Turns: u.cooldown})
	}
	evts, err := effects.Apply(effects.Bindings{Source: u.source}, cost)
	if err != nil {
		return nil, false, err
	}

	escape := false
	for _, s := range batch {
		for _, line := range s.res.Lines {
			buf.Add(line)
		}
		ev, err := effects.Apply(effects.Bindings{Source: u.source, Target: s.target}, s.res.Deltas)
		evts = append(evts, ev...)
		if err != nil {
			return evts, false, err
		}
		escape = escape || s.res.Escape
	}

	for _, c := range alive {
		if c.Defeated() {
			buf.Add(combatlog.Defeated(c.Name))
		}
	}
	return evts, escape, nil
}

// afterBatch runs the termination check and, if the fight goes on, honors
// an escape request.
func (e *Engine) afterBatch(escape bool, buf *combatlog.Buffer) []types.Event {
	evts := e.checkTermination(buf)
	if len(evts) == 0 && escape {
		evts = append(evts, e.lockAndSchedule())
	}
	return evts
}

// checkTermination ends the fight when the player or every enemy is down.
// The end itself is deferred like an escape.
func (e *Engine) checkTermination(buf *combatlog.Buffer) []types.Event {
	enc := e.enc
	if enc == nil || enc.ShouldResetPlayer || enc.ShouldGiveSkillPoint {
		return nil
	}
	switch {
	case e.player.Defeated():
		enc.ShouldResetPlayer = true
		buf.Add(combatlog.Defeat())
	case len(enc.Living()) == 0:
		enc.ShouldGiveSkillPoint = true
		buf.Add(combatlog.Victory())
	default:
		return nil
	}
	return []types.Event{e.lockAndSchedule()}
}

// enemyTurn lets every living enemy act once, in roster order, while the
// player is locked out. Each enemy's action commits on its own.
func (e *Engine) enemyTurn() (types.Result, error) {
	if e.enc == nil {
		return e.reject(EnemyTurn{}, "no encounter")
	}
	if e.enc.IsLockedForEnemies {
		return e.reject(EnemyTurn{}, "encounter locked for enemies")
	}

	enc := e.enc
	enc.IsLocked = true
	var buf combatlog.Buffer
	var evts []types.Event
	finish := func() []string {
		if !enc.ShouldResetPlayer && !enc.ShouldGiveSkillPoint {
			enc.IsLocked = false
		}
		return buf.Commit(enc)
	}

	for _, i := range enc.Living() {
		en := enc.Enemies[i]
		if en.Defeated() || enc.ShouldResetPlayer || enc.ShouldGiveSkillPoint {
			continue
		}
		state.LowerCooldowns(en)
		if e.rng.Chance(en.IdleChance) {
			buf.Add(combatlog.Idle(en.Name))
			continue
		}

		ab, slot, err := e.enemyAbility(en)
		if err != nil {
			finish()
			return types.Result{}, err
		}
		u := usage{
			source:     en,
			label:      ab.Name,
			stats:      state.EffectiveStats(en),
			allowBonus: true,
			slot:       slot,
			cost:       ab.EnergyCost,
			cooldown:   ab.Cooldown,
		}
		batch, err := e.stage(u, e.enemyHits(ab, en))
		if err != nil {
			finish()
			return types.Result{}, err
		}
		ev, _, err := e.commit(u, batch, &buf)
		evts = append(evts, ev...)
		if err != nil {
			finish()
			return types.Result{}, err
		}
		evts = append(evts, e.checkTermination(&buf)...)
	}

	return types.Result{Accepted: true, Log: finish(), Events: evts}, nil
}

// enemyAbility picks the enemy's first ready ability, falling back to a
// basic attack. The fallback has no cooldown slot.
func (e *Engine) enemyAbility(en *types.Character) (types.Ability, int, error) {
	for slot, name := range en.Abilities {
		ab, err := e.content.Ability(name)
		if err != nil {
			return types.Ability{}, 0, err
		}
		if ab.Target == types.TargetAlly {
			continue
		}
		if state.CanAct(en, slot, ab) {
			return ab, slot, nil
		}
	}
	return basicAttack, -1, nil
}

// enemyHits aims an enemy ability: the player is the enemy's only foe.
func (e *Engine) enemyHits(ab types.Ability, en *types.Character) []hit {
	switch ab.Target {
	case types.TargetSelf:
		return []hit{{ability: ab, target: en}}
	case types.TargetAll:
		return []hit{{ability: ab, target: e.player}, {ability: ab, target: en}}
	default:
		return []hit{{ability: ab, target: e.player}}
	}
}

// tickStatusEffects advances status effects on the player, then on each
// living enemy.
func (e *Engine) tickStatusEffects() (types.Result, error) {
	if e.enc == nil {
		return e.reject(TickStatusEffects{}, "no encounter")
	}
	if e.enc.IsLocked {
		return e.reject(TickStatusEffects{}, "encounter locked")
	}

	alive := e.livingCombatants()
	var buf combatlog.Buffer
	var evts []types.Event
	for _, c := range alive {
		for _, t := range status.TickAll(c) {
			if t.Damage > 0 {
				buf.Add(combatlog.StatusDamage(c.Name, t.Name, t.Damage))
			}
			if t.Expired {
				buf.Add(combatlog.StatusExpired(c.Name, t.Name))
			}
			evts = append(evts, types.Event{
				Type: EventStatusTick,
				Data: map[string]any{"target": c.Name, "effect": t.Name, "damage": t.Damage, "expired": t.Expired},
			})
		}
	}
	for _, c := range alive {
		if c.Defeated() {
			buf.Add(combatlog.Defeated(c.Name))
		}
	}
	evts = append(evts, e.checkTermination(&buf)...)
	return types.Result{Accepted: true, Log: buf.Commit(e.enc), Events: evts}, nil
}

// livingCombatants returns the player, then each enemy, that still has health.
func (e *Engine) livingCombatants() []*types.Character {
	var out []*types.Character
	if !e.player.Defeated() {
		out = append(out, e.player)
	}
	for _, en := range e.enc.Enemies {
		if !en.Defeated() {
			out = append(out, en)
		}
	}
	return out
}

func (e *Engine) character(t targeting.Target) *types.Character {
	if t.Self {
		return e.player
	}
	return e.enc.Enemies[t.Enemy]
}

func copyStats(m map[types.Stat]int) map[types.Stat]int {
	out := make(map[types.Stat]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
