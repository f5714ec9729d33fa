// Package content provides read-only lookup of static combat definitions.
// Every getter returns a deep copy so callers can never mutate the table.
package content

//go:generate mockgen -destination=mock/mock_lookup.go -package=contentmock github.com/seiyria/qivan/engine/content Lookup

import (
	"errors"
	"fmt"

	"github.com/seiyria/qivan/types"
)

// ErrNotFound is returned when a name is absent from the content table.
// It signals a data-integrity bug and must never be defaulted away.
var ErrNotFound = errors.New("content not found")

// Lookup resolves names to immutable definitions.
type Lookup interface {
	Ability(name string) (types.Ability, error)
	StatusEffect(name string) (types.StatusEffect, error)
	Enemy(name string) (types.EnemyDef, error)
	Item(name string) (types.Item, error)
	Threat(name string) (types.Threat, error)
}

// Table is the in-memory Lookup built by the loader.
type Table struct {
	Abilities     map[string]types.Ability
	StatusEffects map[string]types.StatusEffect
	Enemies       map[string]types.EnemyDef
	Items         map[string]types.Item
	Threats       map[string]types.Threat
}

// NewTable returns an empty table with all maps allocated.
func NewTable() *Table {
	return &Table{
		Abilities:     map[string]types.Ability{},
		StatusEffects: map[string]types.StatusEffect{},
		Enemies:       map[string]types.EnemyDef{},
		Items:         map[string]types.Item{},
		Threats:       map[string]types.Threat{},
	}
}

func notFound(kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
}

// Ability returns the ability with the given name.
func (t *Table) Ability(name string) (types.Ability, error) {
	a, ok := t.Abilities[name]
	if !ok {
		return types.Ability{}, notFound("ability", name)
	}
	return CloneAbility(a), nil
}

// StatusEffect returns the status effect with the given name.
func (t *Table) StatusEffect(name string) (types.StatusEffect, error) {
	e, ok := t.StatusEffects[name]
	if !ok {
		return types.StatusEffect{}, notFound("status effect", name)
	}
	return CloneStatusEffect(e), nil
}

// Enemy returns the enemy template with the given name.
func (t *Table) Enemy(name string) (types.EnemyDef, error) {
	e, ok := t.Enemies[name]
	if !ok {
		return types.EnemyDef{}, notFound("enemy", name)
	}
	e.Stats = cloneStats(e.Stats)
	e.Abilities = append([]string(nil), e.Abilities...)
	e.Drops = append([]types.Drop(nil), e.Drops...)
	return e, nil
}

// Item returns the item with the given name.
func (t *Table) Item(name string) (types.Item, error) {
	it, ok := t.Items[name]
	if !ok {
		return types.Item{}, notFound("item", name)
	}
	it.Stats = cloneStats(it.Stats)
	it.Abilities = append([]string(nil), it.Abilities...)
	return it, nil
}

// Threat returns the threat with the given name.
func (t *Table) Threat(name string) (types.Threat, error) {
	th, ok := t.Threats[name]
	if !ok {
		return types.Threat{}, notFound("threat", name)
	}
	th.Enemies = append([]string(nil), th.Enemies...)
	return th, nil
}

// CloneAbility deep-copies an ability.
func CloneAbility(a types.Ability) types.Ability {
	a.Stats = append([]types.StatContribution(nil), a.Stats...)
	a.Effects = append([]types.AbilityEffect(nil), a.Effects...)
	a.Requires = cloneStats(a.Requires)
	return a
}

// CloneStatusEffect deep-copies a status effect.
func CloneStatusEffect(e types.StatusEffect) types.StatusEffect {
	e.StatModifications = cloneStats(e.StatModifications)
	return e
}

func cloneStats(m map[types.Stat]int) map[types.Stat]int {
	if m == nil {
		return nil
	}
	out := make(map[types.Stat]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
