package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seiyria/qivan/engine/content"
	"github.com/seiyria/qivan/types"
)

type fixedRoller struct{ value int }

func (f fixedRoller) Roll(size int) (int, error) {
	if f.value > size {
		return size, nil
	}
	return f.value, nil
}

func (f fixedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i], _ = f.Roll(size)
	}
	return out, nil
}

func testContent() *content.Table {
	t := content.NewTable()
	t.StatusEffects["Poison"] = types.StatusEffect{
		Name: "Poison", Kind: types.StatusDamageOverTime, DamageOverTime: 2, TurnsLeft: 3,
	}
	return t
}

func hero() *types.Character {
	return &types.Character{
		Name:          "Hero",
		Stats:         map[types.Stat]int{types.StatPower: 20, types.StatHealing: 4},
		CurrentHealth: 100, MaxHealth: 100,
		CurrentEnergy: 10, MaxEnergy: 100,
	}
}

func goblin() *types.Character {
	return &types.Character{
		Name:          "Goblin",
		Stats:         map[types.Stat]int{types.StatArmor: 5},
		CurrentHealth: 50, MaxHealth: 50,
	}
}

func ability(name, effect string, stats ...types.StatContribution) types.Ability {
	return types.Ability{
		Name:    name,
		Target:  types.TargetSingle,
		Stats:   stats,
		Effects: []types.AbilityEffect{{Effect: effect}},
	}
}

var power = types.StatContribution{Stat: types.StatPower, Multiplier: 1}

func TestMeleeDamage_Property(t *testing.T) {
	for base := 0; base <= 40; base++ {
		for armor := 0; armor <= 40; armor++ {
			want := base - armor
			if want < 0 {
				want = 0
			}
			if got := MeleeDamage(base, armor); got != want {
				t.Fatalf("MeleeDamage(%d, %d) = %d, want %d", base, armor, got, want)
			}
		}
	}
}

func TestHeal_Property(t *testing.T) {
	for base := -20; base <= 20; base++ {
		for bonus := -20; bonus <= 20; bonus++ {
			want := base + bonus
			if want < 0 {
				want = 0
			}
			if got := Heal(base, bonus); got != want {
				t.Fatalf("Heal(%d, %d) = %d, want %d", base, bonus, got, want)
			}
		}
	}
}

func TestResolve_BasicAttack(t *testing.T) {
	r := New(testContent())
	src, tgt := hero(), goblin()

	res, err := r.Resolve(Params{
		Ability:         ability("Basic Attack", "BasicAttack", power),
		Source:          src,
		Target:          tgt,
		UseStats:        src.Stats,
		AllowBonusStats: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 15, res.Magnitude)
	assert.Equal(t, []types.Delta{
		types.EnergyDelta{Who: types.RoleSource, Amount: 3},
		types.HealthDelta{Who: types.RoleTarget, Amount: -15},
	}, res.Deltas)
	assert.Equal(t, []string{"Hero attacks Goblin for 15 damage!"}, res.Lines)
	assert.Equal(t, 50, tgt.CurrentHealth, "resolution never mutates")
}

func TestResolve_BasicAttackEnergyOverride(t *testing.T) {
	r := New(testContent(), WithBasicAttackEnergy(5))
	src := hero()
	res, err := r.Resolve(Params{Ability: ability("Basic Attack", "BasicAttack", power), Source: src, Target: goblin(), UseStats: src.Stats})
	require.NoError(t, err)
	assert.Equal(t, types.EnergyDelta{Who: types.RoleSource, Amount: 5}, res.Deltas[0])
}

func TestResolve_ArmorOnlyWithBonusStats(t *testing.T) {
	r := New(testContent())
	src := hero()
	res, err := r.Resolve(Params{
		Ability:  ability("Firebomb", "SingleTargetAttack", power),
		Source:   src,
		Target:   goblin(),
		UseStats: map[types.Stat]int{types.StatPower: 8},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, res.Magnitude)
	assert.Equal(t, []string{`Hero used "Firebomb" on Goblin and dealt 8 damage!`}, res.Lines)
}

func TestResolve_ArmorExceedsDamage(t *testing.T) {
	r := New(testContent())
	src := hero()
	tgt := goblin()
	tgt.Stats[types.StatArmor] = 100
	res, err := r.Resolve(Params{Ability: ability("Slash", "SingleTargetAttack", power), Source: src, Target: tgt, UseStats: src.Stats, AllowBonusStats: true})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Magnitude)
	assert.Equal(t, []types.Delta{types.HealthDelta{Who: types.RoleTarget, Amount: 0}}, res.Deltas)
}

func TestResolve_HealUsesSourceHealingBonus(t *testing.T) {
	r := New(testContent())
	src := hero()
	res, err := r.Resolve(Params{
		Ability:         ability("Mend", "SingleTargetHeal", types.StatContribution{Stat: types.StatPower, Multiplier: 0.5}),
		Source:          src,
		Target:          src,
		UseStats:        src.Stats,
		AllowBonusStats: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 14, res.Magnitude)
	assert.Equal(t, []types.Delta{types.HealthDelta{Who: types.RoleTarget, Amount: 14}}, res.Deltas)
	assert.Equal(t, []string{`Hero used "Mend" on Hero and healed 14 health!`}, res.Lines)
}

func TestResolve_ApplyEffect(t *testing.T) {
	r := New(testContent())
	src := hero()
	a := types.Ability{
		Name:    "Venom",
		Target:  types.TargetSingle,
		Effects: []types.AbilityEffect{{Effect: "ApplyEffect", EffectName: "Poison"}},
	}
	res, err := r.Resolve(Params{Ability: a, Source: src, Target: goblin(), UseStats: src.Stats})
	require.NoError(t, err)
	require.Len(t, res.Deltas, 1)
	applied, ok := res.Deltas[0].(types.ApplyStatus)
	require.True(t, ok)
	assert.Equal(t, "Poison", applied.Effect.Name)
	assert.Equal(t, types.RoleTarget, applied.On())
	assert.Equal(t, []string{`Hero used "Venom" on Goblin!`}, res.Lines)
}

func TestResolve_MessageOnlyCast(t *testing.T) {
	r := New(testContent())
	src := hero()
	res, err := r.Resolve(Params{Ability: ability("Taunt", "ApplyEffect"), Source: src, Target: goblin(), UseStats: src.Stats})
	require.NoError(t, err)
	assert.Empty(t, res.Deltas)
	assert.Len(t, res.Lines, 1)
}

func TestResolve_NoEffectsStillLogsOnce(t *testing.T) {
	r := New(testContent())
	src := hero()
	a := types.Ability{Name: "Stare", Target: types.TargetSingle, Stats: []types.StatContribution{power}}
	res, err := r.Resolve(Params{Ability: a, Source: src, Target: goblin(), UseStats: src.Stats, AllowBonusStats: true})
	require.NoError(t, err)
	assert.Empty(t, res.Deltas)
	assert.Equal(t, []string{`Hero used "Stare" on Goblin!`}, res.Lines)
	assert.Zero(t, res.Magnitude)
}

func TestResolve_MultipleEffectsOneLineEach(t *testing.T) {
	r := New(testContent())
	src := hero()
	a := types.Ability{
		Name:  "Poison Strike",
		Stats: []types.StatContribution{power},
		Effects: []types.AbilityEffect{
			{Effect: "SingleTargetAttack"},
			{Effect: "ApplyEffect", EffectName: "Poison"},
		},
	}
	res, err := r.Resolve(Params{Ability: a, Source: src, Target: goblin(), UseStats: src.Stats, AllowBonusStats: true})
	require.NoError(t, err)
	assert.Len(t, res.Lines, 2)
	require.Len(t, res.Deltas, 2)
	assert.IsType(t, types.HealthDelta{}, res.Deltas[0])
	assert.IsType(t, types.ApplyStatus{}, res.Deltas[1])
}

func TestResolve_Escape(t *testing.T) {
	r := New(testContent())
	src := hero()
	res, err := r.Resolve(Params{Ability: ability("Escape", "UtilityEscape"), Source: src, Target: src})
	require.NoError(t, err)
	assert.True(t, res.Escape)
	assert.Empty(t, res.Deltas)
	assert.Equal(t, []string{"You escaped successfully!"}, res.Lines)
}

func TestResolve_UnknownHandler(t *testing.T) {
	r := New(testContent())
	src := hero()
	_, err := r.Resolve(Params{Ability: ability("Bogus", "Teleport"), Source: src, Target: goblin()})
	assert.ErrorIs(t, err, ErrUnknownEffect)
}

func TestResolve_MissingStatusEffectIsHardError(t *testing.T) {
	r := New(testContent())
	src := hero()
	a := types.Ability{Name: "Curse", Effects: []types.AbilityEffect{{Effect: "ApplyEffect", EffectName: "Doom"}}}
	_, err := r.Resolve(Params{Ability: a, Source: src, Target: goblin()})
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestBaseMagnitude_Variance(t *testing.T) {
	stats := map[types.Stat]int{types.StatPower: 10}
	contrib := []types.StatContribution{{Stat: types.StatPower, Multiplier: 1, Variance: 2}}

	none, err := BaseMagnitude(stats, contrib, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, none, "no roller means no variance")

	low, err := BaseMagnitude(stats, contrib, fixedRoller{value: 1})
	require.NoError(t, err)
	assert.Equal(t, 8, low)

	high, err := BaseMagnitude(stats, contrib, fixedRoller{value: 99})
	require.NoError(t, err)
	assert.Equal(t, 12, high)
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("BasicAttack"))
	assert.True(t, Known("UtilityEscape"))
	assert.False(t, Known("Teleport"))
}
