// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Qivan combat engine.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/seiyria/qivan/engine"
	"github.com/seiyria/qivan/engine/content"
	"github.com/seiyria/qivan/types"
)

// settleTimeout bounds how long script playback waits for a locked
// encounter to end.
const settleTimeout = 30 * time.Second

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Threat    string // started before the first prompt when set
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)
	Settle    bool // wait for a locked encounter to end before the next line

	mu      sync.Mutex // guards Out; end notices arrive from timer goroutines
	ended   chan struct{}
	lastCmd string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
		ended:  make(chan struct{}, 1),
	}
}

// Run starts the command loop: prompt, input, dispatch, output. It returns
// when input ends, /quit is entered, or the engine reports a hard error.
func (c *CLI) Run(ctx context.Context) error {
	if c.ended == nil {
		c.ended = make(chan struct{}, 1)
	}
	unsubscribe := c.Engine.Subscribe(engine.EventEncounterEnded, c.onEnded)
	defer unsubscribe()

	c.printLine("Qivan. Type /help for commands.")
	if c.Threat != "" {
		if err := c.fight(ctx, c.Threat); err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}
		c.drain()

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			quit, err := c.handleMeta(ctx, input)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			c.settle()
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result, err := c.Engine.Step(ctx, input)
		if err != nil {
			return fmt.Errorf("command %q: %w", input, err)
		}
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
		c.settle()
	}
	return scanner.Err()
}

// handleMeta dispatches meta-commands. Returns true if the session should exit.
func (c *CLI) handleMeta(ctx context.Context, input string) (bool, error) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true, nil

	case "/fight":
		err = c.fight(ctx, arg)

	case "/spawn":
		err = c.spawn(ctx, arg)

	case "/end":
		err = c.dispatch(ctx, engine.EndCombat{}, "There is no fight to end.")

	case "/endreset":
		err = c.dispatch(ctx, engine.EndCombat{ResetPlayer: true}, "There is no fight to end.")

	case "/reset":
		err = c.dispatch(ctx, engine.ResetSoft{}, "There is no fight to reset.")

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false, err
}

// fight starts an encounter against a named threat.
func (c *CLI) fight(ctx context.Context, threat string) error {
	if threat == "" {
		c.printSystem("Usage: /fight <threat>")
		return nil
	}
	return c.start(ctx, engine.StartCombat{Threat: threat})
}

// spawn starts an encounter against a comma-separated list of enemies.
func (c *CLI) spawn(ctx context.Context, arg string) error {
	var names []string
	for _, n := range strings.Split(arg, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		c.printSystem("Usage: /spawn <enemy>[, <enemy>...]")
		return nil
	}
	return c.start(ctx, engine.StartCombat{Enemies: names})
}

func (c *CLI) start(ctx context.Context, a engine.StartCombat) error {
	res, err := c.Engine.Dispatch(ctx, a)
	if errors.Is(err, content.ErrNotFound) {
		c.printSystem(err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	c.printResult(res)
	for _, line := range c.Engine.Describe() {
		c.printLine(line)
	}
	return nil
}

func (c *CLI) dispatch(ctx context.Context, a engine.Action, refused string) error {
	res, err := c.Engine.Dispatch(ctx, a)
	if err != nil {
		return err
	}
	if !res.Accepted {
		c.printLine(refused)
		return nil
	}
	c.printResult(res)
	return nil
}

// onEnded reports the outcome of every encounter, however it ended.
func (c *CLI) onEnded(e types.Event) {
	kind, _ := e.Data["kind"].(string)
	switch types.EndKind(kind) {
	case types.EndSoft:
		c.printSystem("The fight was called off.")
	case types.EndWithPlayerReset:
		c.printSystem("The fight is over. You wake up back in town.")
	default:
		c.printSystem("The fight is over.")
	}
	if sp, _ := e.Data["skill_point"].(bool); sp {
		c.printSystem("You gained a skill point.")
	}
	if loot, _ := e.Data["loot"].([]types.Drop); len(loot) > 0 {
		c.printSystem("Loot: " + formatLoot(loot))
	}

	select {
	case c.ended <- struct{}{}:
	default:
	}
}

// settle blocks while the encounter is locked, so scripted input sees the
// deferred end before its next line.
func (c *CLI) settle() {
	if !c.Settle || c.Engine.Phase() != engine.PhaseLocked {
		return
	}
	select {
	case <-c.ended:
	case <-time.After(settleTimeout):
		c.printSystem("Timed out waiting for the fight to end.")
	}
}

func (c *CLI) drain() {
	select {
	case <-c.ended:
	default:
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
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
	for _, line := range help {
		c.printLine(line)
	}
	for _, line := range engine.HelpText {
		c.printLine("  " + line)
	}
	c.printLine("  again (g)             repeat your last command")
}

func (c *CLI) cmdState() {
	seed, pos := c.Engine.RNG()
	c.printSystem(fmt.Sprintf("Phase: %s", c.Engine.Phase()))
	c.printSystem(fmt.Sprintf("RNG: seed %d, position %d", seed, pos))
	c.printSystem(fmt.Sprintf("Skill points: %d", c.Engine.SkillPoints()))
	if out := c.Engine.LastOutcome(); out != nil {
		c.printSystem(fmt.Sprintf("Last outcome: %s", out.Kind))
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Log {
		c.printLine(line)
	}
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func formatLoot(loot []types.Drop) string {
	parts := make([]string, 0, len(loot))
	for _, d := range loot {
		name := d.Resource
		if name == "" {
			name = d.Item
		}
		if d.Amount > 1 {
			name = fmt.Sprintf("%dx %s", d.Amount, name)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

func (c *CLI) printLine(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
