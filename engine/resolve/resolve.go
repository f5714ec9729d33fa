// Package resolve turns an ability used by a source on a target into a
// magnitude, a list of deltas and the log lines describing it. Resolution is
// pure: characters are read, never mutated.
package resolve

import (
	"errors"
	"fmt"
	"math"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/seiyria/qivan/engine/combatlog"
	"github.com/seiyria/qivan/engine/state"
	"github.com/seiyria/qivan/types"
)

// DefaultBasicAttackEnergy is the energy a basic attack gives back to its user.
const DefaultBasicAttackEnergy = 3

// ErrUnknownEffect is returned when an ability names a handler that does not exist.
var ErrUnknownEffect = errors.New("unknown ability effect")

// StatusEffects resolves status effect names carried by abilities.
type StatusEffects interface {
	StatusEffect(name string) (types.StatusEffect, error)
}

// Params is one resolution request.
type Params struct {
	Ability         types.Ability
	Source          *types.Character
	Target          *types.Character
	UseStats        map[types.Stat]int // stats the magnitude is computed from
	AllowBonusStats bool               // apply target armor / source healing bonus
}

// Resolution is the result of resolving one ability against one target.
type Resolution struct {
	Magnitude int
	Deltas    []types.Delta
	Lines     []string
	Escape    bool // the ability asked to escape the encounter
}

// Resolver runs ability handlers.
type Resolver struct {
	effects     StatusEffects
	roller      dice.Roller
	basicEnergy int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRoller sets the variance source. Without one, variance is ignored.
func WithRoller(r dice.Roller) Option {
	return func(res *Resolver) { res.roller = r }
}

// WithBasicAttackEnergy overrides the energy a basic attack regenerates.
func WithBasicAttackEnergy(n int) Option {
	return func(res *Resolver) { res.basicEnergy = n }
}

// New creates a resolver that looks status effects up in effects.
func New(effects StatusEffects, opts ...Option) *Resolver {
	r := &Resolver{effects: effects, basicEnergy: DefaultBasicAttackEnergy}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// call is the per-handler context.
type call struct {
	Params
	status      *types.StatusEffect
	base        func() (int, error)
	basicEnergy int
}

// part is what a single handler contributes.
type part struct {
	magnitude int
	deltas    []types.Delta
	line      string
	escape    bool
}

type handler func(c *call) (part, error)

var handlers = map[string]handler{
	"BasicAttack":        basicAttack,
	"SingleTargetAttack": singleTargetAttack,
	"SingleTargetHeal":   singleTargetHeal,
	"ApplyEffect":        applyEffect,
	"UtilityEscape":      utilityEscape,
}

// Known reports whether name is a registered handler.
func Known(name string) bool {
	_, ok := handlers[name]
	return ok
}

// Resolve runs every effect of the ability in order and concatenates what
// they produce. Each handler contributes exactly one log line; an ability
// with no effects still logs that it was used.
func (r *Resolver) Resolve(p Params) (Resolution, error) {
	var res Resolution
	if len(p.Ability.Effects) == 0 {
		res.Lines = []string{combatlog.Use(p.Source.Name, p.Ability.Name, p.Target.Name)}
		return res, nil
	}
	for _, eff := range p.Ability.Effects {
		h, ok := handlers[eff.Effect]
		if !ok {
			return Resolution{}, fmt.Errorf("ability %q effect %q: %w", p.Ability.Name, eff.Effect, ErrUnknownEffect)
		}

		c := &call{Params: p, basicEnergy: r.basicEnergy}
		c.base = func() (int, error) { return BaseMagnitude(p.UseStats, p.Ability.Stats, r.roller) }
		if eff.EffectName != "" {
			se, err := r.effects.StatusEffect(eff.EffectName)
			if err != nil {
				return Resolution{}, fmt.Errorf("ability %q: %w", p.Ability.Name, err)
			}
			c.status = &se
		}

		pt, err := h(c)
		if err != nil {
			return Resolution{}, err
		}
		res.Magnitude += pt.magnitude
		res.Deltas = append(res.Deltas, pt.deltas...)
		res.Lines = append(res.Lines, pt.line)
		res.Escape = res.Escape || pt.escape
	}
	return res, nil
}

// BaseMagnitude sums stat*multiplier over the contributions. A contribution
// with variance v is shifted by a roll in [-v, v] when a roller is given.
func BaseMagnitude(stats map[types.Stat]int, contributions []types.StatContribution, roller dice.Roller) (int, error) {
	total := 0.0
	for _, sc := range contributions {
		total += float64(stats[sc.Stat]) * sc.Multiplier
		if sc.Variance > 0 && roller != nil {
			roll, err := roller.Roll(2*sc.Variance + 1)
			if err != nil {
				return 0, fmt.Errorf("rolling variance for %s: %w", sc.Stat, err)
			}
			total += float64(roll - sc.Variance - 1)
		}
	}
	return int(math.Round(total)), nil
}

// MeleeDamage is max(0, base - armor).
func MeleeDamage(base, armor int) int {
	return max(0, base-armor)
}

// Heal is max(0, base + bonus).
func Heal(base, bonus int) int {
	return max(0, base+bonus)
}

func (c *call) damage() (int, error) {
	base, err := c.base()
	if err != nil {
		return 0, err
	}
	armor := 0
	if c.AllowBonusStats {
		armor = state.GetStat(c.Target, types.StatArmor)
	}
	return MeleeDamage(base, armor), nil
}

func (c *call) heal() (int, error) {
	base, err := c.base()
	if err != nil {
		return 0, err
	}
	bonus := 0
	if c.AllowBonusStats {
		bonus = state.GetStat(c.Source, types.StatHealing)
	}
	return Heal(base, bonus), nil
}

func basicAttack(c *call) (part, error) {
	dmg, err := c.damage()
	if err != nil {
		return part{}, err
	}
	return part{
		magnitude: dmg,
		deltas: []types.Delta{
			types.EnergyDelta{Who: types.RoleSource, Amount: c.basicEnergy},
			types.HealthDelta{Who: types.RoleTarget, Amount: -dmg},
		},
		line: combatlog.BasicAttack(c.Source.Name, c.Target.Name, dmg),
	}, nil
}

func singleTargetAttack(c *call) (part, error) {
	dmg, err := c.damage()
	if err != nil {
		return part{}, err
	}
	return part{
		magnitude: dmg,
		deltas:    []types.Delta{types.HealthDelta{Who: types.RoleTarget, Amount: -dmg}},
		line:      combatlog.Damage(c.Source.Name, c.Ability.Name, c.Target.Name, dmg),
	}, nil
}

func singleTargetHeal(c *call) (part, error) {
	amount, err := c.heal()
	if err != nil {
		return part{}, err
	}
	return part{
		magnitude: amount,
		deltas:    []types.Delta{types.HealthDelta{Who: types.RoleTarget, Amount: amount}},
		line:      combatlog.Heal(c.Source.Name, c.Ability.Name, c.Target.Name, amount),
	}, nil
}

func applyEffect(c *call) (part, error) {
	pt := part{line: combatlog.Use(c.Source.Name, c.Ability.Name, c.Target.Name)}
	if c.status != nil {
		pt.deltas = []types.Delta{types.ApplyStatus{Who: types.RoleTarget, Effect: *c.status}}
	}
	return pt, nil
}

func utilityEscape(c *call) (part, error) {
	return part{line: combatlog.Escaped(), escape: true}, nil
}
