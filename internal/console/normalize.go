package console

import (
	"regexp"
	"strings"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

func normaliseInput(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' || r == '/' || r == '\'' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

func tokenise(normalised string) []string {
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	return strings.Fields(normalised)
}

// rawArgs returns the original-case fields left after the first consumed
// normalised tokens. Scene names are case sensitive, so arguments are never
// taken from the normalised form.
func rawArgs(raw string, consumed int) []string {
	var out []string
	seen := 0
	for _, field := range strings.Fields(raw) {
		if seen >= consumed {
			out = append(out, field)
			continue
		}
		seen += len(tokenise(normaliseInput(field)))
	}
	return out
}
