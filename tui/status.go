package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/seiyria/qivan/engine"
	"github.com/seiyria/qivan/engine/state"
	"github.com/seiyria/qivan/types"
)

const barWidth = 12

// renderRoster draws the enemy list and the player's gauges in a box.
func (m Model) renderRoster() string {
	var rows []string

	if enc, err := m.engine.Encounter(); err == nil {
		for i, en := range enc.Enemies {
			rows = append(rows, characterRow(fmt.Sprintf("%d. ", i+1), en))
		}
	} else {
		rows = append(rows, styleSystem.Render("No fight. Try /fight <threat>."))
	}

	rows = append(rows, "")
	player := m.engine.Player()
	rows = append(rows, characterRow("", player))
	if cds := cooldownSummary(player); cds != "" {
		rows = append(rows, styleSystem.Render(cds))
	}

	width := m.width - 2 // border
	if width < 20 {
		width = 20
	}
	return styleRoster.Width(width).Render(strings.Join(rows, "\n"))
}

// characterRow renders "1. Goblin  ████░░ 20/40  ██░░ 2/10 [Poison:2]".
func characterRow(prefix string, c *types.Character) string {
	if c.Defeated() {
		return styleDefeated.Render(prefix + c.Name + " (defeated)")
	}
	row := fmt.Sprintf("%s%s  %s %d/%d",
		prefix, styleName.Render(c.Name),
		bar(c.CurrentHealth, c.MaxHealth, barWidth, styleHealthBar), c.CurrentHealth, c.MaxHealth)
	if c.MaxEnergy > 0 {
		row += fmt.Sprintf("  %s %d/%d",
			bar(c.CurrentEnergy, c.MaxEnergy, barWidth/2, styleEnergyBar), c.CurrentEnergy, c.MaxEnergy)
	}
	if len(c.StatusEffects) > 0 {
		names := make([]string, len(c.StatusEffects))
		for i, eff := range c.StatusEffects {
			names[i] = fmt.Sprintf("%s:%d", eff.Name, eff.TurnsLeft)
		}
		row += "  " + styleStatus.Render("["+strings.Join(names, ", ")+"]")
	}
	return row
}

// cooldownSummary lists the ability slots that are cooling down.
func cooldownSummary(c *types.Character) string {
	var parts []string
	for slot, name := range c.Abilities {
		if cd := state.Cooldown(c, slot); cd > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", name, cd))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "Cooling down: " + strings.Join(parts, ", ")
}

// renderStatusBar produces a full-width inverted status line showing the
// encounter phase, item charges and skill points.
func (m Model) renderStatusBar() string {
	left := " " + phaseLabel(m.engine.Phase())

	var items []string
	for i, it := range m.engine.Items() {
		items = append(items, fmt.Sprintf("%d:%s x%d", i, it.Name, it.Uses))
	}
	right := fmt.Sprintf("SP:%d ", m.engine.SkillPoints())
	if len(items) > 0 {
		candidate := fmt.Sprintf("Items: %s | SP:%d ", strings.Join(items, ", "), m.engine.SkillPoints())
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func phaseLabel(p engine.Phase) string {
	switch p {
	case engine.PhaseActive:
		return "Fighting"
	case engine.PhaseLocked:
		return "Fight ending..."
	case engine.PhaseLockedForEnemies:
		return "Enemies waiting"
	default:
		return "Resting"
	}
}
