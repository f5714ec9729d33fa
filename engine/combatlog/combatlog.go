// Package combatlog formats combat log lines and stages them until an
// action commits. The encounter log itself is append-only and unbounded for
// the life of one encounter.
package combatlog

import (
	"fmt"

	"github.com/seiyria/qivan/types"
)

// Buffer collects lines produced while an action resolves. Nothing reaches
// the encounter log unless the action commits.
type Buffer struct {
	lines []string
}

// Add stages a line.
func (b *Buffer) Add(line string) {
	b.lines = append(b.lines, line)
}

// Addf stages a formatted line.
func (b *Buffer) Addf(format string, args ...any) {
	b.Add(fmt.Sprintf(format, args...))
}

// Lines returns the staged lines.
func (b *Buffer) Lines() []string {
	return b.lines
}

// Len returns the number of staged lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Commit appends the staged lines to the encounter log, empties the buffer
// and returns the committed lines.
func (b *Buffer) Commit(enc *types.Encounter) []string {
	out := b.lines
	enc.Log = append(enc.Log, out...)
	b.lines = nil
	return out
}

// BasicAttack is logged by the energy-building auto attack.
func BasicAttack(source, target string, damage int) string {
	return fmt.Sprintf("%s attacks %s for %d damage!", source, target, damage)
}

// Damage is logged by damaging abilities.
func Damage(source, ability, target string, damage int) string {
	return fmt.Sprintf("%s used %q on %s and dealt %d damage!", source, ability, target, damage)
}

// Heal is logged by healing abilities.
func Heal(source, ability, target string, amount int) string {
	return fmt.Sprintf("%s used %q on %s and healed %d health!", source, ability, target, amount)
}

// Use is logged by abilities that carry no magnitude.
func Use(source, ability, target string) string {
	return fmt.Sprintf("%s used %q on %s!", source, ability, target)
}

// Escaped is logged when the player escapes.
func Escaped() string {
	return "You escaped successfully!"
}

// StatusDamage is logged when a damage-over-time effect ticks.
func StatusDamage(target, effect string, damage int) string {
	return fmt.Sprintf("%s takes %d damage from %s!", target, damage, effect)
}

// StatusExpired is logged when an effect wears off.
func StatusExpired(target, effect string) string {
	return fmt.Sprintf("%s is no longer affected by %s.", target, effect)
}

// Defeated is logged when a character reaches zero health.
func Defeated(name string) string {
	return fmt.Sprintf("%s has been defeated!", name)
}

// Victory is logged when every enemy is defeated.
func Victory() string {
	return "You won the fight!"
}

// Defeat is logged when the player is defeated.
func Defeat() string {
	return "You have been defeated..."
}

// Idle is logged when an enemy skips its turn.
func Idle(name string) string {
	return fmt.Sprintf("%s is biding its time.", name)
}

// UsedItem is logged when an item is consumed.
func UsedItem(source, item string) string {
	return fmt.Sprintf("%s used %s.", source, item)
}
