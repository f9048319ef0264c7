package console

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type CommandDef struct {
	Canonical string
	Aliases   []string
	MinArgs   int
	MaxArgs   int
	Usage     string
}

type commandPhrase struct {
	canonical string
	alias     string
	tokens    []string
}

type Registry struct {
	commands map[string]CommandDef
	order    []string
	phrases  []commandPhrase
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandDef),
	}
}

func (r *Registry) RegisterCommand(c CommandDef) {
	c.Canonical = normaliseInput(c.Canonical)
	if c.Canonical == "" {
		return
	}
	if _, exists := r.commands[c.Canonical]; !exists {
		r.order = append(r.order, c.Canonical)
	}
	r.commands[c.Canonical] = c

	r.phrases = append(r.phrases, commandPhrase{
		canonical: c.Canonical,
		alias:     c.Canonical,
		tokens:    tokenise(c.Canonical),
	})
	for _, a := range c.Aliases {
		n := normaliseInput(a)
		if n == "" {
			continue
		}
		r.phrases = append(r.phrases, commandPhrase{
			canonical: c.Canonical,
			alias:     n,
			tokens:    tokenise(n),
		})
	}
}

func (r *Registry) command(canonical string) (CommandDef, bool) {
	cmd, ok := r.commands[normaliseInput(canonical)]
	return cmd, ok
}

// Commands lists definitions in registration order.
func (r *Registry) Commands() []CommandDef {
	out := make([]CommandDef, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

type commandCandidate struct {
	Canonical string
	Consumed  int
	Score     float64
}

func (r *Registry) matchCommand(tokens []string) (commandCandidate, []commandCandidate) {
	if len(tokens) == 0 {
		return commandCandidate{}, nil
	}
	cands := make([]commandCandidate, 0, len(r.phrases))
	for _, phrase := range r.phrases {
		if len(phrase.tokens) == 0 {
			continue
		}
		cut := min(len(tokens), len(phrase.tokens))
		prefix := strings.Join(tokens[:cut], " ")

		if cut == len(phrase.tokens) && prefix == phrase.alias {
			score := 1.0
			if phrase.alias != phrase.canonical {
				score = 0.97
			}
			cands = append(cands, commandCandidate{Canonical: phrase.canonical, Consumed: cut, Score: score})
			continue
		}

		if len(phrase.tokens) == 1 && strings.HasPrefix(phrase.alias, tokens[0]) && len(tokens[0]) >= 2 {
			cands = append(cands, commandCandidate{Canonical: phrase.canonical, Consumed: 1, Score: 0.9})
			continue
		}

		if len(prefix) < 3 {
			continue
		}
		dist := levenshtein.ComputeDistance(prefix, phrase.alias)
		if dist > levenshteinLimit(len(phrase.alias)) {
			continue
		}
		score := 0.72 - (0.08 * float64(dist))
		if phrase.alias != phrase.canonical {
			score += 0.03
		}
		cands = append(cands, commandCandidate{Canonical: phrase.canonical, Consumed: cut, Score: score})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score == cands[j].Score {
			if cands[i].Consumed == cands[j].Consumed {
				return cands[i].Canonical < cands[j].Canonical
			}
			return cands[i].Consumed > cands[j].Consumed
		}
		return cands[i].Score > cands[j].Score
	})

	if len(cands) == 0 {
		return commandCandidate{}, nil
	}
	best := cands[0]
	alts := make([]commandCandidate, 0, 3)
	seen := map[string]bool{best.Canonical: true}
	for _, c := range cands[1:] {
		if seen[c.Canonical] {
			continue
		}
		seen[c.Canonical] = true
		alts = append(alts, c)
		if len(alts) >= 3 {
			break
		}
	}
	return best, alts
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	commands := []CommandDef{
		{Canonical: "help", Aliases: []string{"h", "?", "commands"}, Usage: "help"},
		{Canonical: "new", Aliases: []string{"start"}, MaxArgs: 3, Usage: "new [level damage [honed]]"},
		{Canonical: "continue", Aliases: []string{"load game"}, MaxArgs: 3, Usage: "continue [slot | level damage [honed]]"},
		{Canonical: "go", Aliases: []string{"travel", "transition", "enter", "walk"}, MinArgs: 1, MaxArgs: 1, Usage: "go SCENE"},
		{Canonical: "reload", Aliases: []string{"retry", "restart"}, Usage: "reload"},
		{Canonical: "pickup", Aliases: []string{"pick up", "grab", "ore"}, MaxArgs: 1, Usage: "pickup [count]"},
		{Canonical: "tick", Aliases: []string{"poll", "wait"}, MaxArgs: 1, Usage: "tick [count]"},
		{Canonical: "save", MaxArgs: 1, Usage: "save [slot]"},
		{Canonical: "toggle", Aliases: []string{"set"}, MinArgs: 2, MaxArgs: 2, Usage: "toggle godhome|dream on|off"},
		{Canonical: "module", MinArgs: 1, MaxArgs: 1, Usage: "module on|off"},
		{Canonical: "status", Aliases: []string{"stats", "nail", "look"}, Usage: "status"},
		{Canonical: "menu", Aliases: []string{"quit to menu", "main menu"}, Usage: "menu"},
		{Canonical: "exit", Aliases: []string{"quit", "q", "bye"}, Usage: "exit"},
	}
	for _, cmd := range commands {
		r.RegisterCommand(cmd)
	}
	return r
}
