// Package parser converts command strings into Command structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/seiyria/qivan/engine/targeting"
)

// ErrSyntax is returned for input that names a known verb but is malformed.
var ErrSyntax = errors.New("syntax error")

// Verbs produced by Parse.
const (
	VerbUse    = "use"
	VerbItem   = "item"
	VerbEscape = "escape"
	VerbTick   = "tick"
	VerbWait   = "wait"
	VerbStatus = "status"
	VerbHelp   = "help"
)

var verbAliases = map[string]string{
	// Abilities
	"cast":  VerbUse,
	"skill": VerbUse,
	"u":     VerbUse,

	// Items
	"consume": VerbItem,
	"drink":   VerbItem,
	"quaff":   VerbItem,
	"i":       VerbItem,

	// Escape
	"flee": VerbEscape,
	"run":  VerbEscape,

	// Pass the turn to the enemies
	"enemies": VerbWait,
	"pass":    VerbWait,
	"z":       VerbWait,

	// Status
	"stats": VerbStatus,
	"s":     VerbStatus,
	"look":  VerbStatus,
	"l":     VerbStatus,

	"?": VerbHelp,
}

// attackAliases resolve to "use 0".
var attackAliases = map[string]bool{
	"attack": true, "a": true, "hit": true, "strike": true, "fight": true,
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true, "against": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "enemy": true,
}

// Command is a parsed player command.
type Command struct {
	Verb      string
	Slot      int
	Target    targeting.Target
	HasTarget bool
}

// Parse converts a raw command string into a Command. Empty input yields the
// zero Command. Unknown verbs are passed through so the caller can reject them.
func Parse(input string) (Command, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{}, nil
	}

	words := strings.Fields(strings.ToLower(input))
	verb := words[0]
	rest := words[1:]

	if attackAliases[verb] {
		return parseAttack(rest)
	}
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}

	switch verb {
	case VerbUse, VerbItem:
		return parseSlotted(verb, rest)
	case VerbEscape, VerbTick, VerbWait, VerbStatus, VerbHelp:
		if len(rest) > 0 {
			return Command{}, fmt.Errorf("%s takes no arguments: %w", verb, ErrSyntax)
		}
		return Command{Verb: verb}, nil
	}

	return Command{Verb: verb}, nil
}

// parseAttack handles "attack [on] <target>" as slot 0.
func parseAttack(rest []string) (Command, error) {
	cmd := Command{Verb: VerbUse, Slot: 0}
	rest = stripFiller(rest)
	if len(rest) == 0 {
		return cmd, nil
	}
	if len(rest) > 1 {
		return Command{}, fmt.Errorf("attack: too many arguments: %w", ErrSyntax)
	}
	t, err := parseTarget(rest[0])
	if err != nil {
		return Command{}, err
	}
	cmd.Target, cmd.HasTarget = t, true
	return cmd, nil
}

// parseSlotted handles "use <slot> [on] [target]" and "item <slot> [on] [target]".
func parseSlotted(verb string, rest []string) (Command, error) {
	if len(rest) == 0 {
		return Command{}, fmt.Errorf("%s needs a slot number: %w", verb, ErrSyntax)
	}
	slot, err := strconv.Atoi(rest[0])
	if err != nil || slot < 0 {
		return Command{}, fmt.Errorf("%s: bad slot %q: %w", verb, rest[0], ErrSyntax)
	}
	cmd := Command{Verb: verb, Slot: slot}

	rest = stripFiller(rest[1:])
	switch len(rest) {
	case 0:
		return cmd, nil
	case 1:
		t, err := parseTarget(rest[0])
		if err != nil {
			return Command{}, err
		}
		cmd.Target, cmd.HasTarget = t, true
		return cmd, nil
	default:
		return Command{}, fmt.Errorf("%s: too many arguments: %w", verb, ErrSyntax)
	}
}

// parseTarget reads "self"/"me" or a 1-based enemy number.
func parseTarget(word string) (targeting.Target, error) {
	switch word {
	case "self", "me", "myself":
		return targeting.Self(), nil
	}
	n, err := strconv.Atoi(word)
	if err != nil || n < 1 {
		return targeting.Target{}, fmt.Errorf("bad target %q: %w", word, ErrSyntax)
	}
	return targeting.Enemy(n - 1), nil
}

// stripFiller removes prepositions and articles from the word list.
func stripFiller(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !prepositions[w] && !articles[w] {
			result = append(result, w)
		}
	}
	return result
}
