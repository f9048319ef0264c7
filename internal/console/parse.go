package console

import (
	"fmt"
	"strings"
)

type Intent struct {
	Raw        string
	Verb       string
	Args       []string
	Confidence float64
	Clarify    *Clarify
}

type Clarify struct {
	Prompt  string
	Options []string
}

type Parser struct {
	registry *Registry
}

func NewParser() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

func (p *Parser) Registry() *Registry { return p.registry }

func (p *Parser) Parse(raw string) Intent {
	intent := Intent{Raw: raw}
	tokens := tokenise(normaliseInput(raw))
	if len(tokens) == 0 {
		intent.Clarify = &Clarify{Prompt: "Enter a command. Try help."}
		return intent
	}

	best, alts := p.registry.matchCommand(tokens)
	if best.Canonical == "" || best.Score < 0.5 {
		intent.Clarify = &Clarify{Prompt: fmt.Sprintf("Unknown command %q. Try help.", tokens[0])}
		return intent
	}
	if len(alts) > 0 && alts[0].Consumed == best.Consumed && best.Score-alts[0].Score < 0.05 && alts[0].Score > 0.65 {
		intent.Clarify = &Clarify{
			Prompt:  "Did you mean:",
			Options: []string{best.Canonical, alts[0].Canonical},
		}
		return intent
	}

	def, _ := p.registry.command(best.Canonical)
	intent.Verb = best.Canonical
	intent.Confidence = best.Score
	intent.Args = rawArgs(raw, best.Consumed)

	if len(intent.Args) < def.MinArgs {
		intent.Clarify = &Clarify{Prompt: "Usage: " + def.Usage}
		return intent
	}
	if def.MaxArgs >= 0 && len(intent.Args) > def.MaxArgs {
		intent.Clarify = &Clarify{Prompt: fmt.Sprintf("Too many arguments. Usage: %s", def.Usage)}
		return intent
	}
	return intent
}

func (c *Clarify) String() string {
	if c == nil {
		return ""
	}
	if len(c.Options) == 0 {
		return c.Prompt
	}
	return c.Prompt + " " + strings.Join(c.Options, " or ") + "?"
}
