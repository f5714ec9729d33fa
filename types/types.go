// Package types defines the shared data structures for the Qivan combat engine.
// This package contains only type definitions and their trivial accessors.
package types

// Stat names a character statistic.
type Stat string

const (
	StatPower     Stat = "Power"
	StatForce     Stat = "Force"
	StatArmor     Stat = "Armor"
	StatHealing   Stat = "Healing"
	StatHealth    Stat = "Health"
	StatEnergy    Stat = "Energy"
	StatSpeed     Stat = "Speed"
	StatToughness Stat = "Toughness"
)

// TargetMode is the fan-out rule of an ability.
type TargetMode string

const (
	TargetSingle     TargetMode = "Single"
	TargetSelf       TargetMode = "Self"
	TargetAllEnemies TargetMode = "AllEnemies"
	TargetAll        TargetMode = "All"
	TargetAlly       TargetMode = "Ally" // reserved, never legal today
)

// SkillType classifies an ability.
type SkillType string

const (
	SkillPhysical SkillType = "Physical"
	SkillMagical  SkillType = "Magical"
)

// StatusEffectKind distinguishes stat modifiers from damage over time.
type StatusEffectKind string

const (
	StatusStatModification StatusEffectKind = "StatModification"
	StatusDamageOverTime   StatusEffectKind = "DamageOverTime"
)

// StatusEffect is an effect attached to a character for a number of turns.
type StatusEffect struct {
	Name              string
	Description       string
	Icon              string
	Color             string
	Kind              StatusEffectKind
	StatModifications map[Stat]int
	DamageOverTime    int
	TurnsLeft         int
}

// StatContribution is one (stat, multiplier, variance) term of an ability.
type StatContribution struct {
	Stat       Stat
	Multiplier float64
	Variance   int
}

// AbilityEffect names the resolver handler to run and, optionally,
// the status effect it carries.
type AbilityEffect struct {
	Effect     string // handler name, e.g. "SingleTargetAttack"
	EffectName string // status effect name, optional
}

// Ability is an immutable combat ability definition.
type Ability struct {
	Name        string
	Description string
	Icon        string
	Target      TargetMode
	Type        SkillType
	Stats       []StatContribution
	Effects     []AbilityEffect
	EnergyCost  int
	Cooldown    int
	Requires    map[Stat]int
	Replaces    string
}

// Drop is one entry of a loot table.
type Drop struct {
	Resource string
	Item     string
	Amount   int
}

// Character is a combat participant: the player or an enemy.
// Invariant: 0 <= CurrentHealth <= MaxHealth, 0 <= CurrentEnergy <= MaxEnergy.
type Character struct {
	Name          string
	Icon          string
	Stats         map[Stat]int
	Abilities     []string
	CurrentHealth int
	MaxHealth     int
	CurrentEnergy int
	MaxEnergy     int
	CurrentSpeed  int
	IdleChance    int // percent chance an enemy skips its turn
	Drops         []Drop
	StatusEffects []StatusEffect
	Cooldowns     map[int]int // ability slot -> turns remaining
}

// Defeated reports whether the character has no health left.
func (c *Character) Defeated() bool {
	return c.CurrentHealth <= 0
}

// EnemyDef is the static template an enemy Character is built from.
type EnemyDef struct {
	Name       string
	Icon       string
	Stats      map[Stat]int
	Abilities  []string
	Health     int
	Energy     int
	Speed      int
	IdleChance int
	Drops      []Drop
}

// Item is a usable item sitting in an active item slot.
type Item struct {
	Name      string
	Icon      string
	Stats     map[Stat]int
	Abilities []string
	Uses      int
}

// Threat is a named group of enemies that can be fought together.
type Threat struct {
	Name        string
	Icon        string
	Description string
	MinLevel    int
	MaxLevel    int
	Enemies     []string
}

// Encounter is one active combat with its enemy roster and flags.
type Encounter struct {
	Enemies              []*Character
	IsLocked             bool
	IsLockedForEnemies   bool
	ShouldResetPlayer    bool
	ShouldGiveSkillPoint bool
	Log                  []string
}

// Living returns the indices of enemies that still have health.
func (e *Encounter) Living() []int {
	var idx []int
	for i, en := range e.Enemies {
		if !en.Defeated() {
			idx = append(idx, i)
		}
	}
	return idx
}

// Role says which side of a resolution a delta lands on.
type Role int

const (
	RoleTarget Role = iota
	RoleSource
)

func (r Role) String() string {
	if r == RoleSource {
		return "source"
	}
	return "target"
}

// Delta is the atomic unit of mutation. It is a closed set of variants:
// HealthDelta, EnergyDelta, ApplyStatus, RemoveStatus, SetCooldown.
type Delta interface {
	On() Role
	isDelta()
}

// HealthDelta adds Amount (possibly negative) to current health.
type HealthDelta struct {
	Who    Role
	Amount int
}

// EnergyDelta adds Amount (possibly negative) to current energy.
type EnergyDelta struct {
	Who    Role
	Amount int
}

// ApplyStatus attaches a status effect.
type ApplyStatus struct {
	Who    Role
	Effect StatusEffect
}

// RemoveStatus detaches the first status effect with the given name.
type RemoveStatus struct {
	Who  Role
	Name string
}

// SetCooldown puts an ability slot on cooldown.
type SetCooldown struct {
	Who   Role
	Slot  int
	Turns int
}

func (d HealthDelta) On() Role { return d.Who }
func (d EnergyDelta) On() Role { return d.Who }
func (d ApplyStatus) On() Role { return d.Who }
func (d RemoveStatus) On() Role { return d.Who }
func (d SetCooldown) On() Role { return d.Who }

func (HealthDelta) isDelta() {}
func (EnergyDelta) isDelta() {}
func (ApplyStatus) isDelta() {}
func (RemoveStatus) isDelta() {}
func (SetCooldown) isDelta() {}

// Event is emitted after deltas are applied or the encounter changes state.
type Event struct {
	Type string
	Data map[string]any
}

// EndKind says how an encounter ended.
type EndKind string

const (
	EndSoft            EndKind = "soft"
	EndWithPlayerReset EndKind = "reset_player"
	EndWithoutReset    EndKind = "no_reset"
)

// Outcome records the end of an encounter.
type Outcome struct {
	Kind             EndKind
	SkillPointGained bool
	Loot             []Drop
}

// Result is the output of a single dispatched action.
type Result struct {
	Accepted bool
	Log      []string // lines appended to the encounter log by this action
	Output   []string // command-layer messages that are not part of the log
	Events   []Event
	Outcome  *Outcome // set when the action ended the encounter
}
