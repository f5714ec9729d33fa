// Package engine provides the encounter state machine: a Dispatch() loop that
// wires targeting, resolution, delta application, status effects and the
// combat log into one serialized action at a time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/seiyria/qivan/engine/combatlog"
	"github.com/seiyria/qivan/engine/content"
	"github.com/seiyria/qivan/engine/events"
	"github.com/seiyria/qivan/engine/resolve"
	"github.com/seiyria/qivan/engine/state"
	"github.com/seiyria/qivan/engine/status"
	"github.com/seiyria/qivan/types"
)

// DefaultEscapeDelay is how long a locked encounter waits before it ends.
const DefaultEscapeDelay = 3 * time.Second

// ErrNoEncounter is returned by accessors when no encounter is active.
var ErrNoEncounter = errors.New("no active encounter")

// Lifecycle event types published on the bus.
const (
	EventEncounterStarted = "encounter_started"
	EventEncounterLocked  = "encounter_locked"
	EventEncounterEnded   = "encounter_ended"
	EventStatusTick       = "status_tick"
)

// Phase is the externally visible encounter state.
type Phase int

const (
	PhaseNoEncounter Phase = iota
	PhaseActive
	PhaseLocked           // player actions rejected, end transition pending
	PhaseLockedForEnemies // enemy turns rejected
)

// The built-in actions only set IsLockedForEnemies together with IsLocked,
// so they never reach PhaseLockedForEnemies; phase still maps the enemy
// lock on its own.

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseLocked:
		return "locked"
	case PhaseLockedForEnemies:
		return "locked_for_enemies"
	default:
		return "no_encounter"
	}
}

// Config wires an Engine.
type Config struct {
	Content           content.Lookup
	Player            *types.Character
	Items             []types.Item
	Seed              int64
	RNGPosition       int64 // dice already rolled from Seed, for replay
	EscapeDelay       time.Duration
	BasicAttackEnergy int
	Scheduler         Scheduler
	Logger            *slog.Logger
	Bus               *events.Bus
}

// Engine owns the player, the current encounter and its deferred end.
// All mutation goes through Dispatch, one action at a time.
type Engine struct {
	mu sync.Mutex

	content     content.Lookup
	resolver    *resolve.Resolver
	rng         *RNG
	log         *slog.Logger
	sched       Scheduler
	escapeDelay time.Duration
	bus         *events.Bus

	player      *types.Character
	items       []types.Item
	enc         *types.Encounter
	gen         uint64
	pending     Timer
	skillPoints int
	outcome     *types.Outcome
}

// New creates an engine. Content and Player are required.
func New(cfg Config) (*Engine, error) {
	if cfg.Content == nil {
		return nil, errors.New("engine: content lookup is required")
	}
	if cfg.Player == nil {
		return nil, errors.New("engine: player is required")
	}
	if cfg.EscapeDelay <= 0 {
		cfg.EscapeDelay = DefaultEscapeDelay
	}
	if cfg.BasicAttackEnergy <= 0 {
		cfg.BasicAttackEnergy = resolve.DefaultBasicAttackEnergy
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = WallClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Bus == nil {
		cfg.Bus = events.NewBus()
	}

	rng := RestoreRNG(cfg.Seed, cfg.RNGPosition)
	return &Engine{
		content:     cfg.Content,
		resolver:    resolve.New(cfg.Content, resolve.WithRoller(rng), resolve.WithBasicAttackEnergy(cfg.BasicAttackEnergy)),
		rng:         rng,
		log:         cfg.Logger,
		sched:       cfg.Scheduler,
		escapeDelay: cfg.EscapeDelay,
		bus:         cfg.Bus,
		player:      cfg.Player,
		items:       append([]types.Item(nil), cfg.Items...),
	}, nil
}

// Dispatch runs one action to completion. Illegal actions come back with
// Accepted false and a nil error; content errors come back as errors.
// Events are published after the engine lock is released.
func (e *Engine) Dispatch(ctx context.Context, a Action) (types.Result, error) {
	if err := ctx.Err(); err != nil {
		return types.Result{}, err
	}

	e.mu.Lock()
	res, err := e.dispatch(a)
	e.mu.Unlock()

	if err != nil {
		e.log.Error("action failed", "action", a.actionName(), "error", err)
		return types.Result{}, err
	}
	e.bus.Dispatch(res.Events)
	return res, nil
}

func (e *Engine) dispatch(a Action) (types.Result, error) {
	switch a := a.(type) {
	case StartCombat:
		return e.startCombat(a)
	case TargetEnemy:
		return e.targetEnemy(a)
	case TargetSelf:
		return e.targetSelf(a)
	case Use:
		return e.use(a)
	case LowerCooldowns:
		state.LowerCooldowns(e.player)
		return types.Result{Accepted: true}, nil
	case Escape:
		return e.escape()
	case EndCombat:
		if e.enc == nil {
			return e.reject(a, "no encounter")
		}
		kind := types.EndWithoutReset
		if a.ResetPlayer {
			kind = types.EndWithPlayerReset
		}
		return e.end(kind), nil
	case ResetSoft:
		if e.enc == nil {
			return e.reject(a, "no encounter")
		}
		return e.end(types.EndSoft), nil
	case TickStatusEffects:
		return e.tickStatusEffects()
	case EnemyTurn:
		return e.enemyTurn()
	case escapeElapsed:
		if e.enc == nil || a.gen != e.gen {
			return e.reject(a, "stale deferred transition")
		}
		kind := types.EndWithoutReset
		if e.enc.ShouldResetPlayer {
			kind = types.EndWithPlayerReset
		}
		return e.end(kind), nil
	default:
		return types.Result{}, fmt.Errorf("unknown action %T", a)
	}
}

// reject logs a no-op at debug level.
func (e *Engine) reject(a Action, reason string, args ...any) (types.Result, error) {
	e.log.Debug("action rejected", append([]any{"action", a.actionName(), "reason", reason}, args...)...)
	return types.Result{}, nil
}

func (e *Engine) startCombat(a StartCombat) (types.Result, error) {
	names := a.Enemies
	if a.Threat != "" {
		th, err := e.content.Threat(a.Threat)
		if err != nil {
			return types.Result{}, err
		}
		names = append(append([]string(nil), th.Enemies...), names...)
	}
	if len(names) == 0 {
		return e.reject(a, "no enemies")
	}

	enemies := make([]*types.Character, 0, len(names))
	for _, name := range names {
		def, err := e.content.Enemy(name)
		if err != nil {
			return types.Result{}, err
		}
		enemies = append(enemies, state.NewEnemy(def))
	}

	var res types.Result
	if e.enc != nil {
		res = e.end(types.EndSoft)
	}
	e.cancelPending()
	e.gen++
	e.enc = &types.Encounter{Enemies: enemies, Log: []string{}}

	e.log.Info("encounter started", "enemies", names, "generation", e.gen)
	res.Accepted = true
	res.Events = append(res.Events, types.Event{
		Type: EventEncounterStarted,
		Data: map[string]any{"enemies": names},
	})
	return res, nil
}

func (e *Engine) escape() (types.Result, error) {
	if e.enc == nil {
		return e.reject(Escape{}, "no encounter")
	}
	if e.enc.IsLocked {
		return e.reject(Escape{}, "encounter locked")
	}
	var buf combatlog.Buffer
	buf.Add(combatlog.Escaped())
	evt := e.lockAndSchedule()
	return types.Result{
		Accepted: true,
		Log:      buf.Commit(e.enc),
		Events:   []types.Event{evt},
	}, nil
}

// lockAndSchedule sets both locks and schedules the end transition against
// the current encounter generation.
func (e *Engine) lockAndSchedule() types.Event {
	e.enc.IsLocked = true
	e.enc.IsLockedForEnemies = true
	e.cancelPending()

	gen := e.gen
	e.pending = e.sched.AfterFunc(e.escapeDelay, func() {
		if _, err := e.Dispatch(context.Background(), escapeElapsed{gen: gen}); err != nil {
			e.log.Error("deferred transition failed", "error", err)
		}
	})
	e.log.Info("encounter locked", "generation", gen, "delay", e.escapeDelay)
	return types.Event{Type: EventEncounterLocked, Data: map[string]any{"delay": e.escapeDelay}}
}

func (e *Engine) cancelPending() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

// end tears the encounter down and records its outcome.
func (e *Engine) end(kind types.EndKind) types.Result {
	e.cancelPending()
	enc := e.enc

	out := &types.Outcome{Kind: kind}
	if kind != types.EndSoft && enc.ShouldGiveSkillPoint {
		e.skillPoints++
		out.SkillPointGained = true
		for _, en := range enc.Enemies {
			if en.Defeated() {
				out.Loot = append(out.Loot, en.Drops...)
			}
		}
	}
	if kind == types.EndWithPlayerReset {
		state.ResetPlayer(e.player)
	}
	status.Clear(e.player)

	e.enc = nil
	e.gen++
	e.outcome = out

	e.log.Info("encounter ended", "kind", kind, "skill_point", out.SkillPointGained, "loot", len(out.Loot))
	return types.Result{
		Accepted: true,
		Outcome:  out,
		Events: []types.Event{{
			Type: EventEncounterEnded,
			Data: map[string]any{"kind": string(kind), "skill_point": out.SkillPointGained, "loot": out.Loot},
		}},
	}
}

// Close cancels any pending deferred transition.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelPending()
}

// Subscribe registers fn on the engine's event bus.
func (e *Engine) Subscribe(eventType string, fn events.Handler) func() {
	return e.bus.Subscribe(eventType, fn)
}

// Phase reports the current encounter state.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase()
}

func (e *Engine) phase() Phase {
	switch {
	case e.enc == nil:
		return PhaseNoEncounter
	case e.enc.IsLocked:
		return PhaseLocked
	case e.enc.IsLockedForEnemies:
		return PhaseLockedForEnemies
	default:
		return PhaseActive
	}
}

// Player returns a copy of the player.
func (e *Engine) Player() *types.Character {
	e.mu.Lock()
	defer e.mu.Unlock()
	return state.Clone(e.player)
}

// Encounter returns a copy of the current encounter.
func (e *Engine) Encounter() (*types.Encounter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.enc == nil {
		return nil, ErrNoEncounter
	}
	return cloneEncounter(e.enc), nil
}

// Items returns a copy of the active item slots.
func (e *Engine) Items() []types.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.Item(nil), e.items...)
}

// SkillPoints returns the skill points earned so far.
func (e *Engine) SkillPoints() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.skillPoints
}

// LastOutcome returns how the previous encounter ended, or nil.
func (e *Engine) LastOutcome() *types.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.outcome == nil {
		return nil
	}
	out := *e.outcome
	out.Loot = append([]types.Drop(nil), e.outcome.Loot...)
	return &out
}

// RNG exposes the seed and position for replay.
func (e *Engine) RNG() (seed, position int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Seed(), e.rng.Position()
}

func cloneEncounter(enc *types.Encounter) *types.Encounter {
	out := *enc
	out.Enemies = make([]*types.Character, len(enc.Enemies))
	for i, en := range enc.Enemies {
		out.Enemies[i] = state.Clone(en)
	}
	out.Log = append([]string(nil), enc.Log...)
	return &out
}
