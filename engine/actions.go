package engine

import "github.com/seiyria/qivan/engine/targeting"

// Action is a command dispatched to the engine. The set is closed.
type Action interface {
	actionName() string
}

// StartCombat begins a new encounter, replacing any current one. Enemies
// are named directly or taken from a threat.
type StartCombat struct {
	Enemies []string
	Threat  string
}

// TargetEnemy resolves one ability against one enemy. When FromItem is set,
// Slot is an item slot whose stats are used instead of the player's.
type TargetEnemy struct {
	Index    int
	Ability  string
	Slot     int
	FromItem bool
}

// TargetSelf resolves one ability against the player.
type TargetSelf struct {
	Ability  string
	Slot     int
	FromItem bool
}

// Use is a full player turn: gate, lower cooldowns, fan every ability of the
// ability slot (or item slot) out from the chosen target, and commit.
type Use struct {
	Slot   int
	Item   bool
	Target targeting.Target
}

// LowerCooldowns advances the player's cooldowns by one turn.
type LowerCooldowns struct{}

// Escape locks the encounter and schedules its end.
type Escape struct{}

// EndCombat ends the encounter immediately.
type EndCombat struct {
	ResetPlayer bool
}

// ResetSoft drops the encounter without rewards or a player reset.
type ResetSoft struct{}

// TickStatusEffects runs one turn of status effects on every combatant.
type TickStatusEffects struct{}

// EnemyTurn lets every living enemy act once.
type EnemyTurn struct{}

// escapeElapsed is dispatched by the deferred transition timer.
type escapeElapsed struct {
	gen uint64
}

func (StartCombat) actionName() string       { return "start_combat" }
func (TargetEnemy) actionName() string       { return "target_enemy" }
func (TargetSelf) actionName() string        { return "target_self" }
func (Use) actionName() string               { return "use" }
func (LowerCooldowns) actionName() string    { return "lower_cooldowns" }
func (Escape) actionName() string            { return "escape" }
func (EndCombat) actionName() string         { return "end_combat" }
func (ResetSoft) actionName() string         { return "reset_soft" }
func (TickStatusEffects) actionName() string { return "tick_status_effects" }
func (EnemyTurn) actionName() string         { return "enemy_turn" }
func (escapeElapsed) actionName() string     { return "escape_elapsed" }
