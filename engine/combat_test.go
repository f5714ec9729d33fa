package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/seiyria/qivan/engine/content"
	contentmock "github.com/seiyria/qivan/engine/content/mock"
	"github.com/seiyria/qivan/engine/effects"
	"github.com/seiyria/qivan/engine/targeting"
	"github.com/seiyria/qivan/types"
)

func countEvents(evts []types.Event, typ string) int {
	n := 0
	for _, ev := range evts {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestBasicAttack_Scenario(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, TargetEnemy{Index: 0, Ability: "Attack", Slot: slotAttack})
	require.True(t, res.Accepted)

	assert.Equal(t, 35, enemy(t, e, 0).CurrentHealth)
	assert.Equal(t, 13, e.Player().CurrentEnergy)
	assert.Equal(t, []string{"Hero attacks Goblin for 15 damage!"}, res.Log)
}

func TestUse_BasicAttack(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, Use{Slot: slotAttack, Target: targeting.Enemy(0)})
	require.True(t, res.Accepted)
	assert.Equal(t, 35, enemy(t, e, 0).CurrentHealth)
	assert.Equal(t, 13, e.Player().CurrentEnergy)
	assert.Len(t, res.Log, 1)
}

func TestUse_AllEnemiesHitsEachLivingEnemyOnce(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Goblin", "Rat", "Goblin")

	// Kill the rat first so only k=2 enemies are alive.
	mustDispatch(t, e, Use{Slot: slotAttack, Target: targeting.Enemy(1)})
	require.True(t, enemy(t, e, 1).Defeated())

	res := mustDispatch(t, e, Use{Slot: slotFireball, Target: targeting.Enemy(0)})
	require.True(t, res.Accepted)

	assert.Equal(t, 2, countEvents(res.Events, effects.EventDamage))
	assert.Equal(t, 100, e.Player().CurrentHealth)
	assert.Equal(t, 45, enemy(t, e, 0).CurrentHealth)
	assert.Equal(t, 45, enemy(t, e, 2).CurrentHealth)
	assert.Equal(t, []string{
		`Hero used "Fireball" on Goblin and dealt 5 damage!`,
		`Hero used "Fireball" on Goblin and dealt 5 damage!`,
	}, res.Log)

	p := e.Player()
	assert.Equal(t, 13-5, p.CurrentEnergy)
	assert.Equal(t, 2, p.Cooldowns[slotFireball])
}

func TestUse_AllHitsEnemiesThenSelf(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Goblin", "Goblin")

	res := mustDispatch(t, e, Use{Slot: slotNova, Target: targeting.Self()})
	require.True(t, res.Accepted)

	assert.Equal(t, []string{
		`Hero used "Nova" on Goblin and dealt 5 damage!`,
		`Hero used "Nova" on Goblin and dealt 5 damage!`,
		`Hero used "Nova" on Hero and dealt 10 damage!`,
	}, res.Log)
	assert.Equal(t, 3, countEvents(res.Events, effects.EventDamage))

	assert.Equal(t, 45, enemy(t, e, 0).CurrentHealth)
	assert.Equal(t, 45, enemy(t, e, 1).CurrentHealth)
	assert.Equal(t, 90, e.Player().CurrentHealth)
}

func TestUse_SelfHealWithHealingBonus(t *testing.T) {
	player := testPlayer()
	player.CurrentHealth = 60
	e, _ := newTestEngine(t, testContent(), player)
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, Use{Slot: slotMend, Target: targeting.Self()})
	require.True(t, res.Accepted)
	assert.Equal(t, 74, e.Player().CurrentHealth)
	assert.Equal(t, []string{`Hero used "Mend" on Hero and healed 14 health!`}, res.Log)
}

func TestUse_MultiAbilityItemAggregatesInAbilityOrder(t *testing.T) {
	player := testPlayer()
	player.CurrentHealth = 80
	kit := types.Item{
		Name:      "Alchemist Kit",
		Stats:     map[types.Stat]int{types.StatPower: 10},
		Abilities: []string{"Mend", "Fireball"},
		Uses:      1,
	}
	e, _ := newTestEngine(t, testContent(), player, kit)
	startWith(t, e, "Goblin", "Rat")

	res := mustDispatch(t, e, Use{Slot: 0, Item: true, Target: targeting.Self()})
	require.True(t, res.Accepted)

	// Item stats replace the player's and bonus stats (armor, healing) are off.
	assert.Equal(t, []string{
		"Hero used Alchemist Kit.",
		`Hero used "Mend" on Hero and healed 5 health!`,
		`Hero used "Fireball" on Goblin and dealt 5 damage!`,
		`Hero used "Fireball" on Rat and dealt 5 damage!`,
	}, res.Log)
	assert.Equal(t, 85, e.Player().CurrentHealth)
	assert.Equal(t, 45, enemy(t, e, 0).CurrentHealth)
	assert.Equal(t, 5, enemy(t, e, 1).CurrentHealth)
	assert.Equal(t, 5, e.Player().CurrentEnergy)
	assert.Empty(t, e.Player().Cooldowns, "items never cool down")
	assert.Equal(t, 0, e.Items()[0].Uses)

	res = mustDispatch(t, e, Use{Slot: 0, Item: true, Target: targeting.Self()})
	assert.False(t, res.Accepted, "used-up item is rejected")
}

func TestUse_MultiAbilityItemRejectedWhenFirstAbilityCannotTarget(t *testing.T) {
	kit := types.Item{
		Name:      "Alchemist Kit",
		Stats:     map[types.Stat]int{types.StatPower: 10},
		Abilities: []string{"Mend", "Fireball"},
		Uses:      1,
	}
	e, _ := newTestEngine(t, testContent(), testPlayer(), kit)
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, Use{Slot: 0, Item: true, Target: targeting.Enemy(0)})
	assert.False(t, res.Accepted)
	assert.Equal(t, 1, e.Items()[0].Uses)
	assert.Equal(t, 50, enemy(t, e, 0).CurrentHealth)
}

func TestUse_InsufficientEnergyRejectedWithoutPartialDeltas(t *testing.T) {
	player := testPlayer()
	player.CurrentEnergy = 2
	player.Cooldowns = map[int]int{slotShout: 2}
	e, _ := newTestEngine(t, testContent(), player)
	startWith(t, e, "Goblin", "Rat")

	res := mustDispatch(t, e, Use{Slot: slotFireball, Target: targeting.Enemy(0)})
	assert.False(t, res.Accepted)
	assert.Empty(t, res.Log)
	assert.Empty(t, res.Events)

	p := e.Player()
	assert.Equal(t, 2, p.CurrentEnergy)
	assert.Equal(t, 2, p.Cooldowns[slotShout], "rejected actions do not lower cooldowns")
	assert.Equal(t, 50, enemy(t, e, 0).CurrentHealth)
	enc, err := e.Encounter()
	require.NoError(t, err)
	assert.Empty(t, enc.Log)
}

func TestUse_CooldownGatesAndLowersOncePerAction(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Goblin")

	require.True(t, mustDispatch(t, e, Use{Slot: slotFireball, Target: targeting.Enemy(0)}).Accepted)
	assert.False(t, mustDispatch(t, e, Use{Slot: slotFireball, Target: targeting.Enemy(0)}).Accepted)

	require.True(t, mustDispatch(t, e, Use{Slot: slotAttack, Target: targeting.Enemy(0)}).Accepted)
	assert.Equal(t, 1, e.Player().Cooldowns[slotFireball])
	require.True(t, mustDispatch(t, e, Use{Slot: slotAttack, Target: targeting.Enemy(0)}).Accepted)
	assert.Zero(t, e.Player().Cooldowns[slotFireball])

	require.True(t, mustDispatch(t, e, Use{Slot: slotFireball, Target: targeting.Enemy(0)}).Accepted)
	assert.Equal(t, 10, enemy(t, e, 0).CurrentHealth)
	assert.Equal(t, 6, e.Player().CurrentEnergy)
}

func TestUse_RequirementsGate(t *testing.T) {
	table := testContent()
	smite := table.Abilities["Attack"]
	smite.Name = "Smite"
	smite.Requires = map[types.Stat]int{types.StatPower: 50}
	table.Abilities["Smite"] = smite

	player := testPlayer()
	player.Abilities = []string{"Smite"}
	e, _ := newTestEngine(t, table, player)
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, Use{Slot: 0, Target: targeting.Enemy(0)})
	assert.False(t, res.Accepted)
}

func TestIllegalTargetsAreNoops(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())

	res := mustDispatch(t, e, Use{Slot: slotAttack, Target: targeting.Enemy(0)})
	assert.False(t, res.Accepted, "no encounter")

	startWith(t, e, "Goblin", "Rat")
	mustDispatch(t, e, Use{Slot: slotAttack, Target: targeting.Enemy(1)})
	require.True(t, enemy(t, e, 1).Defeated())

	cases := []Action{
		TargetEnemy{Index: 1, Ability: "Attack", Slot: slotAttack},
		TargetEnemy{Index: 9, Ability: "Attack", Slot: slotAttack},
		TargetSelf{Ability: "Attack", Slot: slotAttack},
		TargetEnemy{Index: 0, Ability: "Mend", Slot: slotMend},
		Use{Slot: slotAttack, Target: targeting.Self()},
		Use{Slot: slotMend, Target: targeting.Enemy(0)},
		Use{Slot: 99, Target: targeting.Enemy(0)},
		Use{Slot: 0, Item: true, Target: targeting.Enemy(0)},
	}
	for _, a := range cases {
		t.Run(fmt.Sprintf("%T%+v", a, a), func(t *testing.T) {
			before, err := e.Encounter()
			require.NoError(t, err)
			res := mustDispatch(t, e, a)
			assert.False(t, res.Accepted)
			assert.Empty(t, res.Log)
			after, err := e.Encounter()
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestTargetEnemy_SlotMustHoldAbility(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Goblin")

	for _, a := range []TargetEnemy{
		{Index: 0, Ability: "Fireball", Slot: -1},
		{Index: 0, Ability: "Fireball", Slot: slotAttack},
		{Index: 0, Ability: "Fireball", Slot: 99},
	} {
		res := mustDispatch(t, e, a)
		assert.False(t, res.Accepted, "slot %d", a.Slot)
	}
	assert.Equal(t, 50, enemy(t, e, 0).CurrentHealth)
	assert.Equal(t, 10, e.Player().CurrentEnergy)

	res := mustDispatch(t, e, TargetEnemy{Index: 0, Ability: "Fireball", Slot: slotFireball})
	require.True(t, res.Accepted)
	assert.Equal(t, 2, e.Player().Cooldowns[slotFireball])

	res = mustDispatch(t, e, TargetEnemy{Index: 0, Ability: "Fireball", Slot: slotFireball})
	assert.False(t, res.Accepted, "cooldown gates the primitive too")
	assert.Equal(t, 5, e.Player().CurrentEnergy)
}

func TestTargetEnemy_RequirementsGate(t *testing.T) {
	table := testContent()
	smite := table.Abilities["Attack"]
	smite.Name = "Smite"
	smite.Requires = map[types.Stat]int{types.StatPower: 50}
	table.Abilities["Smite"] = smite

	player := testPlayer()
	player.Abilities = []string{"Smite"}
	e, _ := newTestEngine(t, table, player)
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, TargetEnemy{Index: 0, Ability: "Smite", Slot: 0})
	assert.False(t, res.Accepted)
	assert.Equal(t, 50, enemy(t, e, 0).CurrentHealth)
}

func TestTargetEnemy_ItemSpendsCharges(t *testing.T) {
	bomb := types.Item{
		Name:      "Bomb",
		Stats:     map[types.Stat]int{types.StatPower: 10},
		Abilities: []string{"Attack"},
		Uses:      1,
	}
	e, _ := newTestEngine(t, testContent(), testPlayer(), bomb)
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, TargetEnemy{Index: 0, Ability: "Mend", Slot: 0, FromItem: true})
	assert.False(t, res.Accepted, "item does not carry Mend")
	assert.Equal(t, 1, e.Items()[0].Uses)

	res = mustDispatch(t, e, TargetEnemy{Index: 0, Ability: "Attack", Slot: 0, FromItem: true})
	require.True(t, res.Accepted)
	assert.Equal(t, 40, enemy(t, e, 0).CurrentHealth)
	assert.Equal(t, 0, e.Items()[0].Uses)

	res = mustDispatch(t, e, TargetEnemy{Index: 0, Ability: "Attack", Slot: 0, FromItem: true})
	assert.False(t, res.Accepted, "used-up item is rejected")
	assert.Empty(t, res.Log)
	assert.Equal(t, 40, enemy(t, e, 0).CurrentHealth)
}

func TestMessageOnlyCast(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, Use{Slot: slotShout, Target: targeting.Enemy(0)})
	require.True(t, res.Accepted)
	assert.Equal(t, []string{`Hero used "Shout" on Goblin!`}, res.Log)
	assert.Zero(t, countEvents(res.Events, effects.EventDamage))
	assert.Zero(t, countEvents(res.Events, effects.EventStatusApplied))
	assert.Equal(t, 50, enemy(t, e, 0).CurrentHealth)
}

func TestStatusEffectsTick(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, Use{Slot: slotPoisonDart, Target: targeting.Enemy(0)})
	require.True(t, res.Accepted)
	require.Len(t, enemy(t, e, 0).StatusEffects, 1)

	res = mustDispatch(t, e, TickStatusEffects{})
	require.True(t, res.Accepted)
	assert.Equal(t, []string{"Goblin takes 3 damage from Poison!"}, res.Log)
	assert.Equal(t, 47, enemy(t, e, 0).CurrentHealth)

	res = mustDispatch(t, e, TickStatusEffects{})
	assert.Equal(t, []string{
		"Goblin takes 3 damage from Poison!",
		"Goblin is no longer affected by Poison.",
	}, res.Log)
	assert.Equal(t, 44, enemy(t, e, 0).CurrentHealth)
	assert.Empty(t, enemy(t, e, 0).StatusEffects)
}

func TestStatusEffectsTick_CanWinTheFight(t *testing.T) {
	table := testContent()
	poison := table.StatusEffects["Poison"]
	poison.DamageOverTime = 20
	table.StatusEffects["Poison"] = poison

	e, _ := newTestEngine(t, table, testPlayer())
	startWith(t, e, "Rat")
	mustDispatch(t, e, Use{Slot: slotPoisonDart, Target: targeting.Enemy(0)})

	res := mustDispatch(t, e, TickStatusEffects{})
	assert.Equal(t, []string{
		"Rat takes 10 damage from Poison!",
		"Rat has been defeated!",
		"You won the fight!",
	}, res.Log)
	assert.Equal(t, PhaseLocked, e.Phase())
}

func TestVictory_AwardsSkillPointAndLootAfterDelay(t *testing.T) {
	e, sched := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Rat")

	res := mustDispatch(t, e, Use{Slot: slotAttack, Target: targeting.Enemy(0)})
	require.True(t, res.Accepted)
	assert.Equal(t, []string{
		"Hero attacks Rat for 20 damage!",
		"Rat has been defeated!",
		"You won the fight!",
	}, res.Log)
	assert.Equal(t, 1, countEvents(res.Events, effects.EventCharacterDowned))

	enc, err := e.Encounter()
	require.NoError(t, err)
	assert.True(t, enc.ShouldGiveSkillPoint)
	assert.True(t, enc.IsLocked)
	assert.True(t, enc.IsLockedForEnemies)
	assert.Zero(t, e.SkillPoints())

	sched.fire()
	assert.Equal(t, PhaseNoEncounter, e.Phase())
	assert.Equal(t, 1, e.SkillPoints())
	out := e.LastOutcome()
	require.NotNil(t, out)
	assert.Equal(t, types.EndWithoutReset, out.Kind)
	assert.True(t, out.SkillPointGained)
	assert.Equal(t, []types.Drop{{Item: "Rat Tail", Amount: 1}}, out.Loot)
}

func TestDefeat_ResetsPlayerAfterDelay(t *testing.T) {
	player := testPlayer()
	player.CurrentHealth = 5
	e, sched := newTestEngine(t, testContent(), player)
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, EnemyTurn{})
	require.True(t, res.Accepted)
	assert.Equal(t, []string{
		"Goblin attacks Hero for 6 damage!",
		"Hero has been defeated!",
		"You have been defeated...",
	}, res.Log)

	enc, err := e.Encounter()
	require.NoError(t, err)
	assert.True(t, enc.ShouldResetPlayer)
	assert.Equal(t, PhaseLocked, e.Phase())

	sched.fire()
	out := e.LastOutcome()
	require.NotNil(t, out)
	assert.Equal(t, types.EndWithPlayerReset, out.Kind)
	assert.False(t, out.SkillPointGained)
	p := e.Player()
	assert.Equal(t, 100, p.CurrentHealth)
	assert.Equal(t, 0, p.CurrentEnergy)
}

func TestEnemyTurn_AttacksAndUnlocks(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Goblin", "Rat")

	res := mustDispatch(t, e, EnemyTurn{})
	require.True(t, res.Accepted)
	assert.Equal(t, []string{
		"Goblin attacks Hero for 6 damage!",
		"Rat attacks Hero for 2 damage!",
	}, res.Log)
	assert.Equal(t, 92, e.Player().CurrentHealth)
	assert.Equal(t, 3, enemy(t, e, 0).CurrentEnergy)
	assert.Equal(t, PhaseActive, e.Phase())
}

func TestEnemyTurn_UsesFirstReadyAbility(t *testing.T) {
	table := testContent()
	gob := table.Enemies["Goblin"]
	gob.Abilities = []string{"Poison Dart"}
	table.Enemies["Goblin"] = gob
	dart := table.Abilities["Poison Dart"]
	dart.Cooldown = 3
	table.Abilities["Poison Dart"] = dart

	e, _ := newTestEngine(t, table, testPlayer())
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, EnemyTurn{})
	assert.Equal(t, []string{`Goblin used "Poison Dart" on Hero!`}, res.Log)
	assert.Len(t, e.Player().StatusEffects, 1)

	res = mustDispatch(t, e, EnemyTurn{})
	assert.Equal(t, []string{"Goblin attacks Hero for 6 damage!"}, res.Log, "on cooldown, falls back to a basic attack")
}

func TestEnemyTurn_Idle(t *testing.T) {
	table := testContent()
	gob := table.Enemies["Goblin"]
	gob.IdleChance = 100
	table.Enemies["Goblin"] = gob

	e, _ := newTestEngine(t, table, testPlayer())
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, EnemyTurn{})
	assert.Equal(t, []string{"Goblin is biding its time."}, res.Log)
	assert.Equal(t, 100, e.Player().CurrentHealth)
}

func TestUtilityEscapeAbilityLocksEncounter(t *testing.T) {
	e, sched := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Goblin")

	res := mustDispatch(t, e, Use{Slot: slotSmokeBomb, Target: targeting.Self()})
	require.True(t, res.Accepted)
	assert.Equal(t, []string{"You escaped successfully!"}, res.Log)
	assert.Equal(t, PhaseLocked, e.Phase())
	assert.Equal(t, 1, sched.pending())

	sched.fire()
	assert.Equal(t, PhaseNoEncounter, e.Phase())
}

func TestMissingAbilityIsHardError(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := contentmock.NewMockLookup(ctrl)
	lookup.EXPECT().Enemy("Goblin").Return(testContent().Enemies["Goblin"], nil)
	lookup.EXPECT().Ability("Attack").
		Return(types.Ability{}, fmt.Errorf("ability %q: %w", "Attack", content.ErrNotFound))

	e, _ := newTestEngine(t, lookup, testPlayer())
	startWith(t, e, "Goblin")

	_, err := e.Dispatch(context.Background(), Use{Slot: slotAttack, Target: targeting.Enemy(0)})
	require.ErrorIs(t, err, content.ErrNotFound)
	assert.Equal(t, 50, enemy(t, e, 0).CurrentHealth)
}

func TestMissingStatusEffectIsHardError(t *testing.T) {
	table := testContent()
	delete(table.StatusEffects, "Poison")
	e, _ := newTestEngine(t, table, testPlayer())
	startWith(t, e, "Goblin")

	_, err := e.Dispatch(context.Background(), Use{Slot: slotPoisonDart, Target: targeting.Enemy(0)})
	require.ErrorIs(t, err, content.ErrNotFound)

	enc, err := e.Encounter()
	require.NoError(t, err)
	assert.Empty(t, enc.Log)
	assert.Empty(t, enc.Enemies[0].StatusEffects)
}

func TestStep_RoundPlaysPlayerThenEnemies(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())
	startWith(t, e, "Goblin")

	res, err := e.Step(context.Background(), "attack 1")
	require.NoError(t, err)
	require.True(t, res.Accepted)
	assert.Equal(t, []string{
		"Hero attacks Goblin for 15 damage!",
		"Goblin attacks Hero for 6 damage!",
	}, res.Log)
}

func TestStep_DefaultTarget(t *testing.T) {
	player := testPlayer()
	player.CurrentHealth = 50
	e, _ := newTestEngine(t, testContent(), player)
	startWith(t, e, "Goblin")

	res, err := e.Step(context.Background(), "use 3")
	require.NoError(t, err)
	require.True(t, res.Accepted)
	assert.Contains(t, res.Log[0], `"Mend" on Hero`)
}

func TestStep_Messages(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer())

	tests := []struct {
		input string
		want  string
	}{
		{"", "What do you want to do?"},
		{"attack 1", "You are not in combat."},
		{"dance", "Unknown command"},
		{"use x", "I don't understand that"},
		{"escape", "You can't escape right now."},
		{"status", "Hero  HP 100/100  EN 10/20"},
		{"help", "attack [n]"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, err := e.Step(context.Background(), tt.input)
			require.NoError(t, err)
			require.NotEmpty(t, res.Output)
			assert.True(t, strings.Contains(strings.Join(res.Output, "\n"), tt.want), "output %v", res.Output)
		})
	}
}

func TestStep_RejectedActionSkipsEnemyTurn(t *testing.T) {
	player := testPlayer()
	player.CurrentEnergy = 0
	e, _ := newTestEngine(t, testContent(), player)
	startWith(t, e, "Goblin")

	res, err := e.Step(context.Background(), "use 1 on 1")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, []string{"You can't do that right now."}, res.Output)
	assert.Equal(t, 100, e.Player().CurrentHealth)
}

func TestDescribe(t *testing.T) {
	e, _ := newTestEngine(t, testContent(), testPlayer(), types.Item{Name: "Potion", Uses: 2, Abilities: []string{"Mend"}})
	startWith(t, e, "Goblin")
	mustDispatch(t, e, Use{Slot: slotFireball, Target: targeting.Enemy(0)})

	lines := strings.Join(e.Describe(), "\n")
	assert.Contains(t, lines, "1. Goblin  HP 45/50")
	assert.Contains(t, lines, "[1] Fireball (cooldown 2)")
	assert.Contains(t, lines, "item 0: Potion x2")
}
