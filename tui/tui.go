// Package tui provides a Bubble Tea combat console for the Qivan engine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/seiyria/qivan/engine"
	"github.com/seiyria/qivan/engine/content"
	"github.com/seiyria/qivan/engine/events"
	"github.com/seiyria/qivan/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for meta-command output and notices
}

// Model is the Bubble Tea model for the combat console.
type Model struct {
	engine *engine.Engine
	ctx    context.Context

	viewport viewport.Model
	input    textinput.Model
	history  *history

	rawLines []rawLine // accumulated log lines (unstyled, for re-wrapping)

	threat   string // fought on start when set
	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
	err      error // hard engine error; ends the program
}

// outputMsg carries output into the Update loop.
type outputMsg struct {
	input    string   // echoed player input
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// engineEventMsg carries an event published by the engine, possibly from
// the deferred end timer.
type engineEventMsg struct {
	event types.Event
}

// New creates a TUI model wired to the given engine. When threat is not
// empty the first fight starts immediately.
func New(ctx context.Context, eng *engine.Engine, threat string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		ctx:     ctx,
		input:   ti,
		history: newHistory(100),
		threat:  threat,
	}
}

// Run starts the Bubble Tea program. Engine events are forwarded to the
// program so asynchronous ends redraw the screen.
func Run(ctx context.Context, eng *engine.Engine, threat string) error {
	m := New(ctx, eng, threat)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Events published during Update must not block the loop that reads them.
	unsubscribe := eng.Subscribe(events.Any, func(e types.Event) {
		go p.Send(engineEventMsg{event: e})
	})
	defer unsubscribe()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// Init starts the cursor blink and the opening fight, if any.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		lines := []string{"Qivan. Type /help for commands.", ""}
		if m.threat != "" {
			out, err := m.start(engine.StartCombat{Threat: m.threat})
			if err != nil {
				out = []string{err.Error()}
			}
			lines = append(lines, out...)
		}
		return outputMsg{lines: lines, isSystem: true}
	}
}

// Update handles messages (key presses, window resize, output, engine events).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.viewport = viewport.New(m.width, 1)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.older(m.input.Value()); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.newer(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue(m.history.draft())
				m.history.reset()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case outputMsg:
		m = m.appendOutput(msg)

	case engineEventMsg:
		if msg.event.Type == engine.EventEncounterEnded {
			m = m.appendOutput(outputMsg{lines: endNotice(msg.event), isSystem: true})
		} else {
			// The roster height may have changed.
			m.refreshViewport()
		}
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.push(input)
	m.history.reset()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(outputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else if !strings.HasPrefix(input, "/") {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit, err := m.handleMeta(input)
		if err != nil {
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
		m = m.appendOutput(outputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Combat command.
	result, err := m.engine.Step(m.ctx, input)
	if err != nil {
		m.err = fmt.Errorf("command %q: %w", input, err)
		m.quitting = true
		return m, tea.Quit
	}
	output := append(append([]string(nil), result.Log...), result.Output...)
	if m.trace {
		output = append(output, formatTrace(result)...)
	}
	m = m.appendOutput(outputMsg{input: input, lines: output})
	return m, nil
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between rounds.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport resizes the log around the roster panel, then re-wraps
// and re-styles all raw lines at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	// roster + status bar + input line
	vpHeight := m.height - lipgloss.Height(m.renderRoster()) - 2
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = vpHeight

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styleSystem.Render(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full layout: roster, log, status bar, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.renderRoster() + "\n" + m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines, the quit flag,
// and any hard engine error.
func (m *Model) handleMeta(input string) ([]string, bool, error) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true, nil

	case "/fight":
		if arg == "" {
			return []string{"Usage: /fight <threat>"}, false, nil
		}
		out, err := m.start(engine.StartCombat{Threat: arg})
		return out, false, err

	case "/spawn":
		var names []string
		for _, n := range strings.Split(arg, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		if len(names) == 0 {
			return []string{"Usage: /spawn <enemy>[, <enemy>...]"}, false, nil
		}
		out, err := m.start(engine.StartCombat{Enemies: names})
		return out, false, err

	case "/end":
		out, err := m.dispatch(engine.EndCombat{}, "There is no fight to end.")
		return out, false, err

	case "/endreset":
		out, err := m.dispatch(engine.EndCombat{ResetPlayer: true}, "There is no fight to end.")
		return out, false, err

	case "/reset":
		out, err := m.dispatch(engine.ResetSoft{}, "There is no fight to reset.")
		return out, false, err

	case "/help":
		return cmdHelp(), false, nil

	case "/state":
		return m.cmdState(), false, nil

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false, nil
		}
		return []string{"Trace output disabled."}, false, nil

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false, nil
	}
}

// start begins an encounter. Unknown names are reported, not fatal.
func (m *Model) start(a engine.StartCombat) ([]string, error) {
	res, err := m.engine.Dispatch(m.ctx, a)
	if errors.Is(err, content.ErrNotFound) {
		return []string{err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}
	return append(res.Log, "The fight begins!"), nil
}

func (m *Model) dispatch(a engine.Action, refused string) ([]string, error) {
	res, err := m.engine.Dispatch(m.ctx, a)
	if err != nil {
		return nil, err
	}
	if !res.Accepted {
		return []string{refused}, nil
	}
	return append(res.Log, res.Output...), nil
}

func cmdHelp() []string {
	lines := []string{
		"System:",
		"  /fight <threat>        Start a fight against a threat",
		"  /spawn <enemy>, ...    Start a fight against named enemies",
		"  /end                   End the fight, keeping your state",
		"  /endreset              End the fight and reset your character",
		"  /reset                 Call the fight off with no rewards",
		"  /state                 Debug: dump engine state",
		"  /trace                 Toggle event trace output",
		"  /help                  Show this help",
		"  /quit                  Exit",
		"",
		"Combat commands:",
	}
	for _, l := range engine.HelpText {
		lines = append(lines, "  "+l)
	}
	return append(lines,
		"  again (g)             repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	)
}

func (m *Model) cmdState() []string {
	seed, pos := m.engine.RNG()
	out := []string{
		fmt.Sprintf("Phase: %s", m.engine.Phase()),
		fmt.Sprintf("RNG: seed %d, position %d", seed, pos),
		fmt.Sprintf("Skill points: %d", m.engine.SkillPoints()),
	}
	if o := m.engine.LastOutcome(); o != nil {
		out = append(out, fmt.Sprintf("Last outcome: %s", o.Kind))
	}
	return append(out, m.engine.Describe()...)
}

func formatTrace(result types.Result) []string {
	var lines []string
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
	return lines
}

// endNotice describes an encounter_ended event.
func endNotice(e types.Event) []string {
	var lines []string
	kind, _ := e.Data["kind"].(string)
	switch types.EndKind(kind) {
	case types.EndSoft:
		lines = append(lines, "The fight was called off.")
	case types.EndWithPlayerReset:
		lines = append(lines, "The fight is over. You wake up back in town.")
	default:
		lines = append(lines, "The fight is over.")
	}
	if sp, _ := e.Data["skill_point"].(bool); sp {
		lines = append(lines, "You gained a skill point.")
	}
	if loot, _ := e.Data["loot"].([]types.Drop); len(loot) > 0 {
		names := make([]string, len(loot))
		for i, d := range loot {
			names[i] = d.Resource + d.Item
			if d.Amount > 1 {
				names[i] = fmt.Sprintf("%dx %s", d.Amount, names[i])
			}
		}
		lines = append(lines, "Loot: "+strings.Join(names, ", "))
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
