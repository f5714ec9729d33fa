package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleDamage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleHeal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	styleStatus = lipgloss.NewStyle().
			Foreground(lipgloss.Color("177"))

	styleOutcome = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleRoster = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	styleName = lipgloss.NewStyle().Bold(true)

	styleDefeated = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	styleHealthBar = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	styleEnergyBar = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	styleBarEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindDamage
	kindHeal
	kindStatus
	kindOutcome
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You are not"),
		strings.HasPrefix(line, "I don't understand"),
		strings.HasPrefix(line, "Unknown command"):
		return kindError
	case strings.HasSuffix(line, "has been defeated!"),
		line == "You won the fight!",
		line == "You have been defeated...",
		line == "You escaped successfully!":
		return kindOutcome
	case strings.Contains(line, " damage from "),
		strings.Contains(line, "is no longer affected by"):
		return kindStatus
	case strings.Contains(line, " damage!"):
		return kindDamage
	case strings.Contains(line, " health!"):
		return kindHeal
	default:
		return kindNarration
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindDamage:
		return styleDamage.Render(line)
	case kindHeal:
		return styleHeal.Render(line)
	case kindStatus:
		return styleStatus.Render(line)
	case kindOutcome:
		return styleOutcome.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// bar renders a fixed-width gauge such as "██████░░░░".
func bar(cur, total, width int, fill lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 && cur > 0 {
		filled = (cur*width + total - 1) / total
		if filled > width {
			filled = width
		}
	}
	return fill.Render(strings.Repeat("█", filled)) + styleBarEmpty.Render(strings.Repeat("░", width-filled))
}
