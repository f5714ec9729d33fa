// Package targeting decides which characters an ability may legally hit and
// expands a chosen target into the full list an ability's mode fans out to.
package targeting

import (
	"errors"
	"fmt"

	"github.com/seiyria/qivan/types"
)

// ErrIllegalTarget is returned for a target the ability may not hit.
var ErrIllegalTarget = errors.New("illegal target")

// Target is either the caster or one enemy by roster index.
type Target struct {
	Self  bool
	Enemy int
}

// Self targets the caster.
func Self() Target { return Target{Self: true, Enemy: -1} }

// Enemy targets the enemy at index i.
func Enemy(i int) Target { return Target{Enemy: i} }

func (t Target) String() string {
	if t.Self {
		return "self"
	}
	return fmt.Sprintf("enemy %d", t.Enemy)
}

var (
	selfModes  = map[types.TargetMode]bool{types.TargetSelf: true, types.TargetAll: true}
	enemyModes = map[types.TargetMode]bool{types.TargetSingle: true, types.TargetAllEnemies: true, types.TargetAll: true}
)

// CanTargetSelf is true for Self and All abilities while the caster lives.
func CanTargetSelf(mode types.TargetMode, caster *types.Character) bool {
	return selfModes[mode] && !caster.Defeated()
}

// CanTargetEnemy is true for Single, AllEnemies and All abilities against a
// living enemy.
func CanTargetEnemy(mode types.TargetMode, enemy *types.Character) bool {
	return enemyModes[mode] && !enemy.Defeated()
}

// Validate checks that a chosen target is legal for the mode.
func Validate(mode types.TargetMode, enc *types.Encounter, caster *types.Character, chosen Target) error {
	if chosen.Self {
		if !CanTargetSelf(mode, caster) {
			return fmt.Errorf("%s ability on self: %w", mode, ErrIllegalTarget)
		}
		return nil
	}
	if chosen.Enemy < 0 || chosen.Enemy >= len(enc.Enemies) {
		return fmt.Errorf("no enemy at index %d: %w", chosen.Enemy, ErrIllegalTarget)
	}
	if !CanTargetEnemy(mode, enc.Enemies[chosen.Enemy]) {
		return fmt.Errorf("%s ability on %s: %w", mode, chosen, ErrIllegalTarget)
	}
	return nil
}

// LegalTargets lists every target the mode may be aimed at, enemies first.
func LegalTargets(mode types.TargetMode, enc *types.Encounter, caster *types.Character) []Target {
	var out []Target
	for i, e := range enc.Enemies {
		if CanTargetEnemy(mode, e) {
			out = append(out, Enemy(i))
		}
	}
	if CanTargetSelf(mode, caster) {
		out = append(out, Self())
	}
	return out
}

// FanOut expands a chosen target into the targets the mode resolves against,
// in resolution order:
//
//	AllEnemies: every living enemy
//	All:        every living enemy, then self
//	Single:     the chosen enemy
//	Self:       self
func FanOut(mode types.TargetMode, enc *types.Encounter, caster *types.Character, chosen Target) ([]Target, error) {
	switch mode {
	case types.TargetAllEnemies:
		return livingEnemies(enc)

	case types.TargetAll:
		if caster.Defeated() {
			return nil, fmt.Errorf("caster is defeated: %w", ErrIllegalTarget)
		}
		out, _ := livingEnemies(enc)
		return append(out, Self()), nil

	case types.TargetSingle:
		if chosen.Self {
			return nil, fmt.Errorf("single target ability on self: %w", ErrIllegalTarget)
		}
		if err := Validate(mode, enc, caster, chosen); err != nil {
			return nil, err
		}
		return []Target{chosen}, nil

	case types.TargetSelf:
		if err := Validate(mode, enc, caster, Self()); err != nil {
			return nil, err
		}
		return []Target{Self()}, nil

	default:
		return nil, fmt.Errorf("target mode %q: %w", mode, ErrIllegalTarget)
	}
}

func livingEnemies(enc *types.Encounter) ([]Target, error) {
	var out []Target
	for _, i := range enc.Living() {
		out = append(out, Enemy(i))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no living enemies: %w", ErrIllegalTarget)
	}
	return out, nil
}
